// Package routesfile reads router trees described in YAML.
//
//	routes:
//	  - path: /query-required
//	    spec:
//	      get:
//	        parameters:
//	          - {name: foo, in: query, required: true}
//	mounts:
//	  - prefix: /api
//	    routes: [...]
//	definitions:
//	  Pet: {type: object, required: [name]}
package routesfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/vitalvas/reqspec/router"
	"github.com/vitalvas/reqspec/spec"
	"github.com/vitalvas/reqspec/swagger"
	"gopkg.in/yaml.v3"
)

// ErrNoRoutes is returned for a file without any route.
var ErrNoRoutes = errors.New("routesfile: no routes defined")

// File is a router tree with the definitions its specs refer to.
type File struct {
	Routes      []Route                 `yaml:"routes,omitempty"`
	Mounts      []Mount                 `yaml:"mounts,omitempty"`
	Definitions map[string]*spec.Schema `yaml:"definitions,omitempty"`
	Tags        []swagger.Tag           `yaml:"tags,omitempty"`
}

// Route is a path with its specification.
type Route struct {
	Path string          `yaml:"path"`
	Spec *spec.RouteSpec `yaml:"spec"`
}

// Mount is a group of routes and mounts below a prefix.
type Mount struct {
	Prefix string  `yaml:"prefix"`
	Routes []Route `yaml:"routes,omitempty"`
	Mounts []Mount `yaml:"mounts,omitempty"`
}

// Load reads the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a routes file. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("routesfile: %w", err)
	}

	if f.count() == 0 {
		return nil, ErrNoRoutes
	}

	return &f, nil
}

func (f *File) count() int {
	n := len(f.Routes)
	for _, m := range f.Mounts {
		n += m.count()
	}
	return n
}

func (m Mount) count() int {
	n := len(m.Routes)
	for _, sub := range m.Mounts {
		n += sub.count()
	}
	return n
}

// Build registers every route on r with validation enabled and h serving
// each method of its specification. The file definitions are added to r
// first, so body schemas may reference them. Registration errors are
// returned joined; routes with errors answer 500.
func (f *File) Build(r *router.Router, h http.Handler) error {
	return f.BuildFunc(r, func(*spec.RouteSpec) http.Handler { return h })
}

// BuildFunc is Build with a handler chosen per route.
func (f *File) BuildFunc(r *router.Router, handler func(rs *spec.RouteSpec) http.Handler) error {
	var errs []error

	for name, schema := range f.Definitions {
		r.Define(name, schema)
	}

	register(r, f.Routes, f.Mounts, handler, &errs)

	return errors.Join(errs...)
}

func register(r *router.Router, routes []Route, mounts []Mount, handler func(*spec.RouteSpec) http.Handler, errs *[]error) {
	for _, rt := range routes {
		route := r.Route(rt.Path).Spec(rt.Spec).Validate()

		if rt.Spec != nil {
			h := handler(rt.Spec)
			for _, method := range rt.Spec.Methods() {
				route.Handle(method, h)
			}
		}

		if err := route.Err(); err != nil {
			*errs = append(*errs, err)
		}
	}

	for _, m := range mounts {
		register(r.Mount(m.Prefix), m.Routes, m.Mounts, handler, errs)
	}
}

// Apply adds the definitions and tags of the file to s.
func (f *File) Apply(s *swagger.Spec) *swagger.Spec {
	for name, schema := range f.Definitions {
		s.AddDefinition(name, schema)
	}
	for _, tag := range f.Tags {
		s.AddTag(tag)
	}
	return s
}

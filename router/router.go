package router

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/vitalvas/reqspec/spec"
	"github.com/vitalvas/reqspec/swagger"
	"github.com/vitalvas/reqspec/validate"
)

// Option configures a Router.
type Option func(*options)

type options struct {
	validator   validate.Validator
	logger      zerolog.Logger
	onFail      validate.ErrorHandler
	definitions map[string]*spec.Schema
}

// WithValidator sets the Validator used by every validated route.
// Defaults to a new validate.PlaygroundValidator.
func WithValidator(v validate.Validator) Option {
	return func(o *options) {
		o.validator = v
	}
}

// WithLogger sets the logger. Registration and validation failures are
// logged at debug level. Defaults to a disabled logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithErrorHandler replaces the 400 response written for requests that
// fail validation. Defaults to validate.WriteViolations.
func WithErrorHandler(h validate.ErrorHandler) Option {
	return func(o *options) {
		o.onFail = h
	}
}

// WithDefinitions sets the schema definitions that body parameters given
// as "#/definitions/<name>" references are resolved against. See
// Router.Define.
func WithDefinitions(definitions map[string]*spec.Schema) Option {
	return func(o *options) {
		for name, schema := range definitions {
			o.definitions[name] = schema
		}
	}
}

// shared is the state common to a router and everything mounted below it.
type shared struct {
	pipeline *validate.Pipeline
	logger   zerolog.Logger
	onFail   validate.ErrorHandler

	mu          sync.Mutex
	errs        []error
	definitions map[string]*spec.Schema
}

func (s *shared) addErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, err)
}

func (s *shared) define(name string, schema *spec.Schema) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.definitions[name] = schema
}

func (s *shared) resolve(rs *spec.RouteSpec) (*spec.RouteSpec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rs.Resolve(s.definitions)
}

// Router registers routes with their specifications on a gorilla/mux
// router. Mounted routers and routes form the tree documented by the
// swagger package; Router implements swagger.RouteNode.
type Router struct {
	mux      *mux.Router
	fragment string
	children []swagger.RouteNode
	shared   *shared
}

var _ swagger.RouteNode = (*Router)(nil)

// New creates a root router.
func New(opts ...Option) *Router {
	o := options{
		logger:      zerolog.Nop(),
		onFail:      validate.WriteViolations,
		definitions: make(map[string]*spec.Schema),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Router{
		mux: mux.NewRouter(),
		shared: &shared{
			pipeline:    validate.New(o.validator),
			logger:      o.logger,
			onFail:      o.onFail,
			definitions: o.definitions,
		},
	}
}

// Mux returns the underlying gorilla/mux router.
func (r *Router) Mux() *mux.Router {
	return r.mux
}

// Define adds a schema definition for resolving body references. The
// definition is shared with every mounted router and must be added before
// Validate is called on the routes that use it.
func (r *Router) Define(name string, schema *spec.Schema) *Router {
	r.shared.define(name, schema)
	return r
}

// Route starts the registration of a route. Path variables may be written
// as ":name" or in gorilla syntax "{name}" and "{name:pattern}".
func (r *Router) Route(path string) *Route {
	rt := &Route{
		router:   r,
		fragment: path,
		template: muxTemplate(path),
	}
	r.children = append(r.children, rt)
	return rt
}

// Mount creates a sub-router for every path below prefix.
func (r *Router) Mount(prefix string) *Router {
	sub := &Router{
		mux:      r.mux.PathPrefix(muxTemplate(prefix)).Subrouter(),
		fragment: prefix,
		shared:   r.shared,
	}
	r.children = append(r.children, sub)
	return sub
}

// Use appends middleware to the router. Middleware only runs for requests
// matching a route of this router or a router mounted below it.
func (r *Router) Use(mw ...mux.MiddlewareFunc) {
	r.mux.Use(mw...)
}

// ServeHTTP dispatches the request to the matching route.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Err returns every registration error of the whole tree, joined. It
// should be checked once all routes are registered.
func (r *Router) Err() error {
	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	return errors.Join(r.shared.errs...)
}

// Fragment implements swagger.RouteNode.
func (r *Router) Fragment() string {
	return r.fragment
}

// RouteSpec implements swagger.RouteNode. Routers carry no specification.
func (r *Router) RouteSpec() *spec.RouteSpec {
	return nil
}

// Children implements swagger.RouteNode.
func (r *Router) Children() []swagger.RouteNode {
	return r.children
}

// colonVarRegexp matches ":name" segments with an optional "(pattern)".
var colonVarRegexp = regexp.MustCompile(`(^|/):(\w+)(?:\(([^)]*)\))?\??`)

// muxTemplate translates ":name" placeholders into gorilla variables and
// makes sure non-empty paths start with a slash.
func muxTemplate(path string) string {
	path = colonVarRegexp.ReplaceAllStringFunc(path, func(m string) string {
		sub := colonVarRegexp.FindStringSubmatch(m)
		if sub[3] != "" {
			return sub[1] + "{" + sub[2] + ":" + sub[3] + "}"
		}
		return sub[1] + "{" + sub[2] + "}"
	})

	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

package swagger

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/vitalvas/reqspec/spec"
)

// ErrInvalidDefinition is returned by Validate for definitions that do not
// compile as JSON schemas.
var ErrInvalidDefinition = errors.New("swagger: invalid definition")

// pathVarRegexp matches path template variables.
var pathVarRegexp = regexp.MustCompile(`\{([^}]+)\}`)

// definitionsURL is the resource location used to compile definitions.
const definitionsURL = "definitions.json"

// Spec holds document-level metadata and definitions, and builds documents
// from route trees.
type Spec struct {
	info     Info
	host     string
	basePath string
	schemes  []string
	consumes []string
	produces []string
	tags     []Tag

	definitions map[string]*spec.Schema
	gen         *SchemaGenerator
}

// NewSpec creates a new spec builder with the given API info.
func NewSpec(info Info) *Spec {
	return &Spec{
		info:        info,
		definitions: make(map[string]*spec.Schema),
		gen:         NewSchemaGenerator(),
	}
}

// Info returns the API info.
func (s *Spec) Info() Info {
	return s.info
}

// SetBasePath sets the document base path.
func (s *Spec) SetBasePath(basePath string) *Spec {
	s.basePath = basePath
	return s
}

// SetHost sets the host serving the API.
func (s *Spec) SetHost(host string) *Spec {
	s.host = host
	return s
}

// SetSchemes sets the transfer protocols of the API.
func (s *Spec) SetSchemes(schemes ...string) *Spec {
	s.schemes = schemes
	return s
}

// SetConsumes sets the document-level request MIME types.
func (s *Spec) SetConsumes(types ...string) *Spec {
	s.consumes = types
	return s
}

// SetProduces sets the document-level response MIME types.
func (s *Spec) SetProduces(types ...string) *Spec {
	s.produces = types
	return s
}

// AddTag adds a tag with a description. Tags used by operations are
// collected automatically.
func (s *Spec) AddTag(tag Tag) *Spec {
	s.tags = append(s.tags, tag)
	return s
}

// AddDefinition registers a named schema under #/definitions.
func (s *Spec) AddDefinition(name string, schema *spec.Schema) *Spec {
	s.definitions[name] = schema
	return s
}

// DefinitionFor generates a definition from the Go value v and returns a
// reference to it. Named struct types nested in v become definitions too.
//
//	type Pet struct {
//	    Name string `json:"name" swagger:"minLength=1"`
//	    Tag  string `json:"tag,omitempty"`
//	}
//
//	ref := s.DefinitionFor("Pet", Pet{})
func (s *Spec) DefinitionFor(name string, v any) *spec.Schema {
	return s.gen.Define(name, v)
}

// Definitions returns every definition, generated ones included. Explicit
// definitions take precedence on name clashes.
func (s *Spec) Definitions() map[string]*spec.Schema {
	generated := s.gen.Definitions()
	out := make(map[string]*spec.Schema, len(generated)+len(s.definitions))
	for name, schema := range generated {
		out[name] = schema
	}
	for name, schema := range s.definitions {
		out[name] = schema
	}
	return out
}

// Build walks the route tree and assembles a complete document. Path
// variables that no operation declares are added as required string path
// parameters.
func (s *Spec) Build(root RouteNode) *Document {
	doc := Build(s.info, s.basePath, Collect(root, ""), s.Definitions())

	doc.Host = s.host
	doc.Schemes = s.schemes
	doc.Consumes = s.consumes
	doc.Produces = s.produces

	for path, rs := range doc.Paths {
		addPathParameters(path, rs)
	}

	doc.Tags = s.mergeTags(doc.Paths)

	return doc
}

// addPathParameters declares the variables of path on every operation
// that does not declare them.
func addPathParameters(path string, rs *spec.RouteSpec) {
	matches := pathVarRegexp.FindAllStringSubmatch(path, -1)
	if len(matches) == 0 {
		return
	}

	for _, op := range rs.Operations {
		if op == nil {
			continue
		}

		for _, m := range matches {
			name := m[1]
			if hasParameter(op, spec.InPath, name) {
				continue
			}
			op.Parameters = append(op.Parameters, &spec.Parameter{
				Name:        name,
				In:          spec.InPath,
				Required:    true,
				Constraints: spec.Constraints{Type: spec.TypeString},
			})
		}
	}
}

func hasParameter(op *spec.Operation, in spec.Location, name string) bool {
	for _, p := range op.Parameters {
		if p != nil && p.In == in && p.Name == name {
			return true
		}
	}
	return false
}

// mergeTags combines tags used by operations with user-defined tags.
// User-defined tags keep their description. The result is sorted.
func (s *Spec) mergeTags(paths map[string]*spec.RouteSpec) []Tag {
	userTags := make(map[string]Tag, len(s.tags))
	for _, tag := range s.tags {
		userTags[tag.Name] = tag
	}

	seen := make(map[string]bool)
	var tags []Tag

	add := func(tag Tag) {
		if seen[tag.Name] {
			return
		}
		seen[tag.Name] = true
		tags = append(tags, tag)
	}

	for _, rs := range paths {
		for _, op := range rs.Operations {
			if op == nil {
				continue
			}
			for _, name := range op.Tags {
				if tag, ok := userTags[name]; ok {
					add(tag)
				} else {
					add(Tag{Name: name})
				}
			}
		}
	}

	for _, tag := range s.tags {
		add(tag)
	}

	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})

	return tags
}

// Validate compiles every definition as a draft-04 JSON schema, the dialect
// Swagger 2.0 schemas are based on. References between definitions are
// resolved. Problems are reported per definition, joined into one error.
func (s *Spec) Validate() error {
	return ValidateDefinitions(s.Definitions())
}

// ValidateDefinitions compiles definitions as draft-04 JSON schemas.
func ValidateDefinitions(definitions map[string]*spec.Schema) error {
	if len(definitions) == 0 {
		return nil
	}

	data, err := json.Marshal(map[string]any{"definitions": definitions})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft4)

	if err := compiler.AddResource(definitionsURL, doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}

	names := make([]string, 0, len(definitions))
	for name := range definitions {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		if _, err := compiler.Compile(definitionsURL + "#/definitions/" + name); err != nil {
			errs = append(errs, fmt.Errorf("%w %q: %v", ErrInvalidDefinition, name, err))
		}
	}

	return errors.Join(errs...)
}

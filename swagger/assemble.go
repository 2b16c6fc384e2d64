package swagger

import (
	"github.com/vitalvas/reqspec/spec"
)

// ValidationStatus is the response code injected for validation failures.
const ValidationStatus = "400"

// ValidationErrorResponse returns the response describing the violation
// list written when request validation fails. Each call returns a new
// value.
func ValidationErrorResponse() *spec.Response {
	str := func(description string) *spec.Schema {
		return &spec.Schema{Constraints: spec.Constraints{Type: spec.TypeString, Description: description}}
	}

	return &spec.Response{
		Description: "Parameter validation error",
		Schema: &spec.Schema{
			Constraints: spec.Constraints{
				Type: spec.TypeArray,
				Items: &spec.Schema{
					Constraints: spec.Constraints{Type: spec.TypeObject},
					Required:    []string{"param", "msg", "value"},
					Properties: map[string]*spec.Schema{
						"param": str("The invalid property"),
						"msg":   str("Description of the type of validation error"),
						"value": str("The value received"),
					},
				},
			},
		},
	}
}

// InjectValidationResponse adds the validation failure response to every
// operation of rs that does not declare one. Existing 400 responses and
// extension keys are left alone.
func InjectValidationResponse(rs *spec.RouteSpec) {
	if rs == nil {
		return
	}

	for method, op := range rs.Operations {
		if op == nil || spec.IsExtension(method) {
			continue
		}

		if op.Responses == nil {
			op.Responses = make(map[string]*spec.Response)
		}

		if _, ok := op.Responses[ValidationStatus]; !ok {
			op.Responses[ValidationStatus] = ValidationErrorResponse()
		}
	}
}

// Build assembles a document from collected resources. Resources sharing a
// path replace each other; the last one wins. Every specification is
// copied before the validation response is injected, so the route tree is
// never modified.
func Build(info Info, basePath string, resources []Resource, definitions map[string]*spec.Schema) *Document {
	doc := &Document{
		Swagger:  Version,
		Info:     info,
		BasePath: basePath,
		Paths:    make(map[string]*spec.RouteSpec, len(resources)),
	}

	for _, res := range resources {
		rs := res.Spec.Clone()
		if rs == nil {
			rs = &spec.RouteSpec{}
		}
		InjectValidationResponse(rs)
		doc.Paths[NormalizePath(res.Path)] = rs
	}

	if len(definitions) > 0 {
		doc.Definitions = make(map[string]*spec.Schema, len(definitions))
		for name, schema := range definitions {
			doc.Definitions[name] = schema
		}
	}

	return doc
}

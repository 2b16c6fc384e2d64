package validate

import (
	"fmt"
	"math"
	"sort"

	"github.com/mohae/deepcopy"
	"github.com/vitalvas/reqspec/spec"
)

// typeChecks maps parameter types to the check that verifies them. Every
// value arrives as a string, so string, boolean, array and object have no
// type check.
var typeChecks = map[string]Check{
	spec.TypeNumber:  IsFloat,
	spec.TypeInteger: IsInt,
}

// formatChecks maps formats to the check that verifies them.
var formatChecks = map[string]Check{
	spec.FormatUUID:     IsUUID,
	spec.FormatDate:     IsDate,
	spec.FormatDateTime: IsDate,
}

// Pipeline applies defaults, validates and sanitizes requests against route
// specifications. A Pipeline holds no per-request state and is safe for
// concurrent use as long as its Validator is.
type Pipeline struct {
	validator Validator
}

// New creates a pipeline using v for every check. A nil v selects a fresh
// PlaygroundValidator.
func New(v Validator) *Pipeline {
	if v == nil {
		v = NewPlaygroundValidator()
	}
	return &Pipeline{validator: v}
}

// Run checks req against the operation rs declares for req.Method. The
// passes run in a fixed order over all parameters: defaults first, then
// every check, then sanitization, so checks see a fully defaulted request
// and violations report raw values. req is sanitized in place.
//
// Run returns every violation found; an empty result means success. A
// method without an operation always succeeds.
func (p *Pipeline) Run(rs *spec.RouteSpec, req *Request) Violations {
	op := rs.Operation(req.Method)
	if op == nil {
		return nil
	}

	for _, param := range op.Parameters {
		applyDefault(req, param)
	}

	collector := &Collector{}
	for _, param := range op.Parameters {
		p.check(collector, req, param)
	}

	for _, param := range op.Parameters {
		sanitize(req, param)
	}

	return collector.Violations()
}

// applyDefault stores a deep copy of the parameter default when the value
// is absent. A body parameter with a schema describes the whole body, so
// its default replaces a missing body.
func applyDefault(req *Request, param *spec.Parameter) {
	if param == nil || param.Default == nil || !param.In.Known() {
		return
	}

	if param.In == spec.InBody && param.Schema != nil {
		if req.Body == nil {
			if body, ok := deepcopy.Copy(param.Default).(map[string]any); ok {
				req.Body = body
			}
		}
		return
	}

	if _, ok := req.Get(param.In, param.Name); !ok {
		req.Set(param.In, param.Name, deepcopy.Copy(param.Default))
	}
}

// lookup returns the value a parameter refers to. For a body parameter
// with a schema that is the body itself.
func lookup(req *Request, param *spec.Parameter) any {
	if param.In == spec.InBody && param.Schema != nil {
		if req.Body == nil {
			return nil
		}
		return req.Body
	}

	v, _ := req.Get(param.In, param.Name)
	return v
}

func (p *Pipeline) check(c *Collector, req *Request, param *spec.Parameter) {
	// Unlocatable parameters are rejected by spec.Validate at registration.
	if param == nil || !param.In.Known() {
		return
	}

	value := lookup(req, param)
	present := isSet(value)

	if !param.Required && !present {
		return
	}

	f := field{validator: p.validator, collector: c, param: param.Name, value: value}

	if param.Required {
		f.check(param.Name+" is required", IsSet)
	}

	if param.In == spec.InBody && param.Schema != nil {
		if present {
			p.checkBody(c, req.Body, param.Schema)
		}
		return
	}

	if present {
		p.checkConstraints(c, param.Name, value, &param.Constraints)
	}
}

func (p *Pipeline) checkBody(c *Collector, body map[string]any, schema *spec.Schema) {
	for _, name := range schema.Required {
		f := field{validator: p.validator, collector: c, param: name, value: body[name]}
		f.check(name+" is required in request body", IsSet)
	}

	for _, name := range sortedKeys(schema.Properties) {
		prop := schema.Properties[name]
		if prop == nil {
			continue
		}

		value, ok := body[name]
		if !ok || !isSet(value) {
			continue
		}

		p.checkConstraints(c, name, value, &prop.Constraints)
	}
}

func (p *Pipeline) checkConstraints(c *Collector, name string, value any, cs *spec.Constraints) {
	f := field{validator: p.validator, collector: c, param: name, value: value}

	if cs.Type != "" {
		if chk, ok := typeChecks[cs.Type]; ok {
			f.check(fmt.Sprintf("%s must be of type %s", name, cs.Type), chk)
		}
	}

	if cs.Format != "" {
		if chk, ok := formatChecks[cs.Format]; ok {
			f.check(fmt.Sprintf("%s must have format %s", name, cs.Format), chk)
		}
	}

	if cs.Pattern != "" {
		f.check(fmt.Sprintf("%s must match pattern %s", name, cs.Pattern), Matches, cs.Pattern)
	}

	if cs.MinLength != nil {
		f.check(fmt.Sprintf("%s must be at least %d characters long", name, *cs.MinLength), IsLength, *cs.MinLength)
	}

	if cs.MaxLength != nil {
		f.check(fmt.Sprintf("%s must be no more than %d characters long", name, *cs.MaxLength), IsLength, 0, *cs.MaxLength)
	}

	if cs.Minimum != nil {
		minimum := *cs.Minimum
		if cs.ExclusiveMinimum {
			f.check(fmt.Sprintf("%s must be greater than %s", name, formatNumber(minimum)), IsGreaterThan, minimum)
		} else {
			// value > nextafter(min, -inf) holds exactly when value >= min.
			f.check(fmt.Sprintf("%s must be at least %s", name, formatNumber(minimum)), IsGreaterThan, math.Nextafter(minimum, math.Inf(-1)))
		}
	}

	if cs.Maximum != nil {
		maximum := *cs.Maximum
		if cs.ExclusiveMaximum {
			f.check(fmt.Sprintf("%s must be less than %s", name, formatNumber(maximum)), IsLessThan, maximum)
		} else {
			f.check(fmt.Sprintf("%s must be at most %s", name, formatNumber(maximum)), IsLessThan, math.Nextafter(maximum, math.Inf(1)))
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

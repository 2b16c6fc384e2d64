package spec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mohae/deepcopy"
)

// ErrUnresolvedRef is returned when a body schema references a definition
// that does not exist.
var ErrUnresolvedRef = errors.New("spec: unresolved schema reference")

// DefinitionsPrefix is the only reference form body schemas may use.
const DefinitionsPrefix = "#/definitions/"

// Resolve returns a copy of rs in which every body schema given as a $ref
// is replaced by a copy of the definition it names. Chained references are
// followed. rs itself is left untouched, so documents built from it keep
// their references.
func (rs *RouteSpec) Resolve(definitions map[string]*Schema) (*RouteSpec, error) {
	if rs == nil {
		return nil, nil
	}

	out := rs.Clone()

	var errs []error
	for _, method := range out.Methods() {
		op := out.Operations[method]
		if op == nil {
			continue
		}

		for _, p := range op.Parameters {
			if p == nil || p.In != InBody || p.Schema == nil || p.Schema.Ref == "" {
				continue
			}

			schema, err := resolveRef(p.Schema.Ref, definitions)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: body parameter %q: %w", method, p.Name, err))
				continue
			}

			if schema.Required == nil && schema.Properties == nil {
				errs = append(errs, fmt.Errorf("%w: %s: body parameter %q: %s declares neither required nor properties",
					ErrMalformedSpec, method, p.Name, p.Schema.Ref))
				continue
			}

			p.Schema = schema
			if err := p.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", method, err))
			}
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return out, nil
}

func resolveRef(ref string, definitions map[string]*Schema) (*Schema, error) {
	seen := make(map[string]struct{})

	for {
		name, ok := strings.CutPrefix(ref, DefinitionsPrefix)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q is not a local definition", ErrUnresolvedRef, ref)
		}

		if _, loop := seen[name]; loop {
			return nil, fmt.Errorf("%w: %q is circular", ErrUnresolvedRef, ref)
		}
		seen[name] = struct{}{}

		def := definitions[name]
		if def == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnresolvedRef, ref)
		}

		if def.Ref == "" {
			return deepcopy.Copy(def).(*Schema), nil
		}
		ref = def.Ref
	}
}

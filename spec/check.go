package spec

import (
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/net/http/httpguts"
)

// ErrUnlocatableParameter is returned when a parameter names a location
// that has no request slice.
var ErrUnlocatableParameter = errors.New("spec: parameter location is not recognized")

// ErrMalformedSpec is returned for specifications that cannot be applied
// to a request, such as a body parameter without a usable schema.
var ErrMalformedSpec = errors.New("spec: malformed specification")

// Validate checks every operation of the route spec. It is meant to run
// once, when the spec is attached to a route, so configuration mistakes
// surface at startup instead of per request. All problems are reported,
// joined into one error.
func (rs *RouteSpec) Validate() error {
	if rs == nil {
		return nil
	}

	var errs []error
	for _, method := range rs.Methods() {
		if _, ok := knownMethods[method]; !ok {
			errs = append(errs, fmt.Errorf("%w: unknown method %q", ErrMalformedSpec, method))
			continue
		}

		op := rs.Operations[method]
		if op == nil {
			errs = append(errs, fmt.Errorf("%w: %s: empty operation", ErrMalformedSpec, method))
			continue
		}

		if err := op.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", method, err))
		}
	}

	return errors.Join(errs...)
}

// Validate checks the operation parameters. Parameter names must be unique
// within their location.
func (op *Operation) Validate() error {
	var errs []error
	seen := make(map[Location]map[string]struct{})

	for i, p := range op.Parameters {
		if p == nil {
			errs = append(errs, fmt.Errorf("%w: parameter #%d is empty", ErrMalformedSpec, i))
			continue
		}

		if err := p.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}

		if seen[p.In] == nil {
			seen[p.In] = make(map[string]struct{})
		}
		if _, dup := seen[p.In][p.Name]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicated parameter %q in %s", ErrMalformedSpec, p.Name, p.In))
		}
		seen[p.In][p.Name] = struct{}{}
	}

	return errors.Join(errs...)
}

// Validate checks a single parameter.
func (p *Parameter) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: parameter without name", ErrMalformedSpec)
	}

	if !p.In.Known() {
		return fmt.Errorf("%w: %q has location %q", ErrUnlocatableParameter, p.Name, p.In)
	}

	if p.In == InHeader && !httpguts.ValidHeaderFieldName(p.Name) {
		return fmt.Errorf("%w: %q is not a valid header name", ErrMalformedSpec, p.Name)
	}

	if p.In == InBody {
		if p.Schema == nil && p.Type == "" {
			return fmt.Errorf("%w: body parameter %q has neither schema nor type", ErrMalformedSpec, p.Name)
		}
		// A schema is checked through its required and properties lists;
		// references are resolved by RouteSpec.Resolve.
		if p.Schema != nil && p.Schema.Ref == "" && p.Schema.Required == nil && p.Schema.Properties == nil {
			return fmt.Errorf("%w: body parameter %q schema declares neither required nor properties", ErrMalformedSpec, p.Name)
		}
		if p.Schema != nil {
			for _, name := range p.Schema.Required {
				if name == "" {
					return fmt.Errorf("%w: body parameter %q requires an unnamed property", ErrMalformedSpec, p.Name)
				}
			}
			for name, prop := range p.Schema.Properties {
				if prop == nil {
					return fmt.Errorf("%w: property %q of %q is empty", ErrMalformedSpec, name, p.Name)
				}
				if err := prop.Constraints.validate(name); err != nil {
					return err
				}
			}
		}
	} else if p.Schema != nil {
		return fmt.Errorf("%w: schema is only allowed on body parameters, %q is in %s", ErrMalformedSpec, p.Name, p.In)
	}

	return p.Constraints.validate(p.Name)
}

func (c *Constraints) validate(name string) error {
	if c.Pattern != "" {
		if _, err := regexp.Compile(c.Pattern); err != nil {
			return fmt.Errorf("%w: %q has invalid pattern: %w", ErrMalformedSpec, name, err)
		}
	}

	if c.MinLength != nil && c.MaxLength != nil && *c.MinLength > *c.MaxLength {
		return fmt.Errorf("%w: %q has minLength greater than maxLength", ErrMalformedSpec, name)
	}

	if c.Minimum != nil && c.Maximum != nil && *c.Minimum > *c.Maximum {
		return fmt.Errorf("%w: %q has minimum greater than maximum", ErrMalformedSpec, name)
	}

	return nil
}

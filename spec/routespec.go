package spec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mohae/deepcopy"
	"gopkg.in/yaml.v3"
)

// knownMethods lists the operation keys allowed in a RouteSpec.
var knownMethods = map[string]struct{}{
	"get":     {},
	"put":     {},
	"post":    {},
	"delete":  {},
	"options": {},
	"head":    {},
	"patch":   {},
	"trace":   {},
}

// RouteSpec maps lowercase HTTP methods to operations. Vendor extension
// keys ("x-*") live in Extensions and are passed through untouched.
//
// Encoded as JSON or YAML, both maps are flattened into a single object,
// which matches the Swagger 2.0 Path Item Object.
//
// See: https://swagger.io/specification/v2/#path-item-object
type RouteSpec struct {
	Operations map[string]*Operation
	Extensions map[string]any
}

// Operation returns the operation registered for method. The lookup is
// case-insensitive. It returns nil when the method has no operation.
func (rs *RouteSpec) Operation(method string) *Operation {
	if rs == nil || rs.Operations == nil {
		return nil
	}
	if op, ok := rs.Operations[method]; ok {
		return op
	}
	return rs.Operations[strings.ToLower(method)]
}

// Set registers op for method. The method is stored lowercased.
func (rs *RouteSpec) Set(method string, op *Operation) *RouteSpec {
	if rs.Operations == nil {
		rs.Operations = make(map[string]*Operation)
	}
	rs.Operations[strings.ToLower(method)] = op
	return rs
}

// Methods returns the registered method keys in sorted order.
func (rs *RouteSpec) Methods() []string {
	if rs == nil {
		return nil
	}
	methods := make([]string, 0, len(rs.Operations))
	for m := range rs.Operations {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}

// Clone returns a deep copy of rs.
func (rs *RouteSpec) Clone() *RouteSpec {
	if rs == nil {
		return nil
	}
	return deepcopy.Copy(rs).(*RouteSpec)
}

func (rs RouteSpec) flatten() map[string]any {
	out := make(map[string]any, len(rs.Operations)+len(rs.Extensions))
	for k, v := range rs.Extensions {
		out[k] = v
	}
	for k, op := range rs.Operations {
		out[k] = op
	}
	return out
}

// MarshalJSON encodes operations and extensions as one JSON object.
func (rs RouteSpec) MarshalJSON() ([]byte, error) {
	return json.Marshal(rs.flatten())
}

// UnmarshalJSON splits a Path Item object into operations and extensions.
func (rs *RouteSpec) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for key, value := range raw {
		if IsExtension(key) {
			var ext any
			if err := json.Unmarshal(value, &ext); err != nil {
				return fmt.Errorf("spec: extension %q: %w", key, err)
			}
			if rs.Extensions == nil {
				rs.Extensions = make(map[string]any)
			}
			rs.Extensions[key] = ext
			continue
		}

		var op Operation
		if err := json.Unmarshal(value, &op); err != nil {
			return fmt.Errorf("spec: operation %q: %w", key, err)
		}
		rs.Set(key, &op)
	}

	return nil
}

// MarshalYAML encodes operations and extensions as one YAML mapping.
func (rs RouteSpec) MarshalYAML() (any, error) {
	return rs.flatten(), nil
}

// UnmarshalYAML splits a Path Item mapping into operations and extensions.
func (rs *RouteSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("spec: route spec must be a mapping, got line %d", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := node.Content[i+1]

		if IsExtension(key) {
			var ext any
			if err := value.Decode(&ext); err != nil {
				return fmt.Errorf("spec: extension %q: %w", key, err)
			}
			if rs.Extensions == nil {
				rs.Extensions = make(map[string]any)
			}
			rs.Extensions[key] = ext
			continue
		}

		var op Operation
		if err := value.Decode(&op); err != nil {
			return fmt.Errorf("spec: operation %q: %w", key, err)
		}
		rs.Set(key, &op)
	}

	return nil
}

// ParseRouteSpec decodes a RouteSpec from YAML or JSON. JSON input is
// detected by its leading brace.
func ParseRouteSpec(data []byte) (*RouteSpec, error) {
	rs := &RouteSpec{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, rs); err != nil {
			return nil, err
		}
		return rs, nil
	}

	if err := yaml.Unmarshal(data, rs); err != nil {
		return nil, err
	}
	return rs, nil
}

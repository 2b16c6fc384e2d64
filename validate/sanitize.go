package validate

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/vitalvas/reqspec/spec"
)

// sanitize coerces the value of a path, query or body parameter into the
// canonical Go type for its declared type and format. Header and file
// values are left as received.
func sanitize(req *Request, param *spec.Parameter) {
	if param == nil {
		return
	}

	switch param.In {
	case spec.InPath, spec.InQuery, spec.InBody:
	default:
		return
	}

	if param.In == spec.InBody && param.Schema != nil {
		sanitizeBody(req.Body, param.Schema)
		return
	}

	typ := param.Type
	if typ == "" && param.Schema != nil {
		typ = param.Schema.Type
	}

	value, ok := req.Get(param.In, param.Name)
	present := ok && isSet(value)

	// An absent string parameter outside the body still resolves to "".
	if !present && (typ != spec.TypeString || param.In == spec.InBody) {
		return
	}

	req.Set(param.In, param.Name, coerce(value, typ, param.Format))
}

func sanitizeBody(body map[string]any, schema *spec.Schema) {
	if body == nil {
		return
	}

	for name, prop := range schema.Properties {
		if prop == nil {
			continue
		}

		value, ok := body[name]
		if !ok || !isSet(value) {
			continue
		}

		body[name] = coerce(value, prop.Type, prop.Format)
	}
}

// coerce converts value to the representation of typ. Values that cannot
// be converted are returned unchanged; they already produced a violation.
func coerce(value any, typ, format string) any {
	if t, ok := value.(time.Time); ok && isTimeFormat(format) {
		return t
	}

	switch typ {
	case spec.TypeString:
		if !truthy(value) {
			value = ""
		} else {
			value = stringify(value)
		}

	case spec.TypeInteger:
		if n, err := cast.ToFloat64E(value); err == nil {
			if n == math.Trunc(n) && !math.IsInf(n, 0) {
				value = int64(n)
			} else {
				value = n
			}
		}

	case spec.TypeNumber:
		if n, err := cast.ToFloat64E(value); err == nil {
			value = n
		}

	case spec.TypeBoolean:
		if b, err := cast.ToBoolE(value); err == nil {
			value = b
		} else {
			value = truthy(value)
		}

	case spec.TypeArray:
		if !isSlice(value) {
			value = []any{value}
		}

	case spec.TypeObject:

	default:
		value = stringify(value)
	}

	if isTimeFormat(format) {
		if s, ok := value.(string); ok {
			if t, err := cast.ToTimeE(s); err == nil {
				value = t
			}
		}
	}

	return value
}

func isTimeFormat(format string) bool {
	switch format {
	case spec.FormatDate, spec.FormatTime, spec.FormatDateTime:
		return true
	}
	return false
}

func isSlice(value any) bool {
	if value == nil {
		return false
	}
	kind := reflect.TypeOf(value).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

// truthy mirrors loose truthiness: nil, false, zero numbers, NaN and the
// empty string are false.
func truthy(value any) bool {
	if !isSet(value) {
		return false
	}

	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0 && !math.IsNaN(v)
	case float32:
		return v != 0 && !math.IsNaN(float64(v))
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	}

	return true
}

// stringify renders any value as a string. Sequences are joined with
// commas; other structural values use their default format.
func stringify(value any) string {
	if value == nil {
		return ""
	}

	if s, err := cast.ToStringE(value); err == nil {
		return s
	}

	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		parts := make([]string, rv.Len())
		for i := range rv.Len() {
			parts[i] = stringify(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	}

	return fmt.Sprint(value)
}

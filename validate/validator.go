package validate

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

// Check names a single validation primitive.
type Check int

// Checks supported by a Validator.
const (
	IsSet Check = iota
	IsFloat
	IsInt
	IsUUID
	IsDate
	Matches
	IsLength
	IsGreaterThan
	IsLessThan
)

var checkNames = [...]string{
	IsSet:         "isSet",
	IsFloat:       "isFloat",
	IsInt:         "isInt",
	IsUUID:        "isUUID",
	IsDate:        "isDate",
	Matches:       "matches",
	IsLength:      "isLength",
	IsGreaterThan: "isGreaterThan",
	IsLessThan:    "isLessThan",
}

func (c Check) String() string {
	if c >= 0 && int(c) < len(checkNames) {
		return checkNames[c]
	}
	return "check(" + strconv.Itoa(int(c)) + ")"
}

// Validator reports whether a value passes a named check. Arguments depend
// on the check:
//
//	Matches        pattern string
//	IsLength       min int[, max int]
//	IsGreaterThan  bound float64
//	IsLessThan     bound float64
//
// Implementations must be safe for concurrent use.
type Validator interface {
	Check(c Check, value any, args ...any) bool
}

// PlaygroundValidator is the default Validator, backed by a private
// go-playground/validator instance. Each instance has its own registered
// validations, so independent pipelines never share state.
type PlaygroundValidator struct {
	v        *validator.Validate
	patterns regexpCache
}

// NewPlaygroundValidator creates a Validator with the integer, float and
// date validations registered alongside the built-in tags.
func NewPlaygroundValidator() *PlaygroundValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Registration only fails for empty tags or nil functions.
	_ = v.RegisterValidation("isint", validateInt)
	_ = v.RegisterValidation("isfloat", validateFloat)
	_ = v.RegisterValidation("isdate", validateDate)

	return &PlaygroundValidator{v: v}
}

// Check implements Validator. Sequences pass a check only when every
// element passes it.
func (p *PlaygroundValidator) Check(c Check, value any, args ...any) bool {
	if c == IsSet {
		return isSet(value)
	}

	if !isSet(value) {
		return false
	}

	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8 {
		if rv.Len() == 0 {
			return false
		}
		for i := range rv.Len() {
			if !p.Check(c, rv.Index(i).Interface(), args...) {
				return false
			}
		}
		return true
	}

	s, err := cast.ToStringE(value)
	if err != nil {
		return false
	}

	switch c {
	case IsFloat:
		return p.v.Var(s, "isfloat") == nil
	case IsInt:
		return p.v.Var(s, "isint") == nil
	case IsUUID:
		return p.v.Var(s, "uuid") == nil
	case IsDate:
		return p.v.Var(s, "isdate") == nil
	case Matches:
		return p.matches(s, args)
	case IsLength:
		return p.length(s, args)
	case IsGreaterThan:
		return p.compare(s, "gt", args)
	case IsLessThan:
		return p.compare(s, "lt", args)
	}

	return false
}

func (p *PlaygroundValidator) length(s string, args []any) bool {
	if len(args) == 0 {
		return true
	}

	minLen, err := cast.ToIntE(args[0])
	if err != nil {
		return false
	}

	tag := fmt.Sprintf("min=%d", minLen)
	if len(args) > 1 {
		maxLen, err := cast.ToIntE(args[1])
		if err != nil {
			return false
		}
		tag += fmt.Sprintf(",max=%d", maxLen)
	}

	return p.v.Var(s, tag) == nil
}

func (p *PlaygroundValidator) compare(s, op string, args []any) bool {
	if len(args) == 0 {
		return false
	}

	bound, err := cast.ToFloat64E(args[0])
	if err != nil {
		return false
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) {
		return false
	}

	return p.v.Var(n, op+"="+formatNumber(bound)) == nil
}

func (p *PlaygroundValidator) matches(s string, args []any) bool {
	if len(args) == 0 {
		return false
	}

	pattern, ok := args[0].(string)
	if !ok {
		return false
	}

	re, err := p.patterns.compile(pattern)
	if err != nil {
		return false
	}

	return re.MatchString(s)
}

// validateInt accepts base-10 integers with an optional minus sign and no
// leading zeros: "0", "-12", but not "+7" or "007".
func validateInt(fl validator.FieldLevel) bool {
	s := strings.TrimPrefix(fl.Field().String(), "-")
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// validateFloat accepts finite decimal numbers, including exponents and a
// missing integer or fraction part: "1e5", ".5", "1.".
func validateFloat(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || strings.ContainsAny(s, "xX_") {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// validateDate accepts anything spf13/cast can read as a point in time.
func validateDate(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" {
		return false
	}
	_, err := cast.ToTimeE(s)
	return err == nil
}

// isSet reports whether a value is present. Empty strings count as set:
// "?foo=" carries a value.
func isSet(value any) bool {
	if value == nil {
		return false
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return !rv.IsNil()
	}

	return true
}

// formatNumber renders a float without exponent or trailing zeros.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

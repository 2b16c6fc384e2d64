package validate

import (
	"strings"
)

// Violation is one failed check. Value holds the raw value that failed and
// is omitted when the value was absent.
type Violation struct {
	Param string `json:"param" yaml:"param"`
	Msg   string `json:"msg" yaml:"msg"`
	Value any    `json:"value,omitempty" yaml:"value,omitempty"`
}

// Violations is the aggregated outcome of a pipeline run, in check order.
// It implements error so callers can pass it through error-returning APIs.
type Violations []Violation

// Error joins the violation messages.
func (v Violations) Error() string {
	msgs := make([]string, len(v))
	for i, item := range v {
		msgs[i] = item.Msg
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Err returns v as an error, or nil when there are no violations.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// Params returns the parameter names in violation order.
func (v Violations) Params() []string {
	params := make([]string, len(v))
	for i, item := range v {
		params[i] = item.Param
	}
	return params
}

// Collector is the request-scoped sink that checks record failures into.
// It is not safe for concurrent use; every pipeline run owns one.
type Collector struct {
	violations Violations
}

// Add records a violation.
func (c *Collector) Add(param, msg string, value any) {
	c.violations = append(c.violations, Violation{Param: param, Msg: msg, Value: value})
}

// Violations returns everything recorded so far.
func (c *Collector) Violations() Violations {
	return c.violations
}

// field binds a Validator and a Collector to one named value, so each check
// reads as a single call that records on failure.
type field struct {
	validator Validator
	collector *Collector
	param     string
	value     any
}

func (f field) check(msg string, c Check, args ...any) {
	if !f.validator.Check(c, f.value, args...) {
		f.collector.Add(f.param, msg, f.value)
	}
}

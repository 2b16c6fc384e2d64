package spec

import (
	"strings"
)

// Location identifies the part of a request that holds a parameter value.
//
// See: https://swagger.io/specification/v2/#parameter-object (in)
type Location string

// Parameter locations recognized by the validation pipeline.
const (
	InPath   Location = "path"
	InQuery  Location = "query"
	InHeader Location = "header"
	InBody   Location = "body"
	InFile   Location = "file"

	// InFormData is the Swagger 2.0 spelling for multipart fields.
	// It resolves to the same request slice as InFile.
	InFormData Location = "formData"
)

// Known reports whether the location maps to a request slice.
func (l Location) Known() bool {
	switch l {
	case InPath, InQuery, InHeader, InBody, InFile, InFormData:
		return true
	}
	return false
}

// Parameter and property types.
//
// See: https://swagger.io/specification/v2/#data-types
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Formats with special handling in validation or sanitization.
const (
	FormatUUID     = "uuid"
	FormatDate     = "date"
	FormatTime     = "time"
	FormatDateTime = "date-time"
)

// Constraints is the constraint bundle shared by parameters and schema
// properties. Optional numeric keywords are pointers so that an explicit
// zero stays distinguishable from an absent keyword.
//
// See: https://swagger.io/specification/v2/#schema-object
type Constraints struct {
	Type             string   `json:"type,omitempty" yaml:"type,omitempty"`
	Format           string   `json:"format,omitempty" yaml:"format,omitempty"`
	Description      string   `json:"description,omitempty" yaml:"description,omitempty"`
	Pattern          string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	MinLength        *int     `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength        *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Minimum          *float64 `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	ExclusiveMinimum bool     `json:"exclusiveMinimum,omitempty" yaml:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum bool     `json:"exclusiveMaximum,omitempty" yaml:"exclusiveMaximum,omitempty"`
	Enum             []any    `json:"enum,omitempty" yaml:"enum,omitempty"`
	Items            *Schema  `json:"items,omitempty" yaml:"items,omitempty"`
}

// Parameter describes one validated input unit of an operation.
//
// See: https://swagger.io/specification/v2/#parameter-object
type Parameter struct {
	Name     string   `json:"name" yaml:"name"`
	In       Location `json:"in" yaml:"in"`
	Required bool     `json:"required,omitempty" yaml:"required,omitempty"`

	// Default is copied into the request when the parameter is absent.
	// The value itself is never handed out; every application stores a
	// deep copy.
	Default any `json:"default,omitempty" yaml:"default,omitempty"`

	Constraints `yaml:",inline"`

	// Schema is only meaningful when In is InBody.
	Schema *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Schema describes an object-shaped body contract or a reusable definition.
// Property entries carry the same constraint keywords as parameters.
//
// See: https://swagger.io/specification/v2/#schema-object
type Schema struct {
	Ref string `json:"$ref,omitempty" yaml:"$ref,omitempty"`

	Constraints `yaml:",inline"`

	Required   []string           `json:"required,omitempty" yaml:"required,omitempty"`
	Properties map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Response describes a single response of an operation.
//
// See: https://swagger.io/specification/v2/#response-object
type Response struct {
	Description string  `json:"description" yaml:"description"`
	Schema      *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Operation is the method-specific contract of a route.
//
// See: https://swagger.io/specification/v2/#operation-object
type Operation struct {
	Summary     string               `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	OperationID string               `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Tags        []string             `json:"tags,omitempty" yaml:"tags,omitempty"`
	Consumes    []string             `json:"consumes,omitempty" yaml:"consumes,omitempty"`
	Produces    []string             `json:"produces,omitempty" yaml:"produces,omitempty"`
	Deprecated  bool                 `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Parameters  []*Parameter         `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Responses   map[string]*Response `json:"responses,omitempty" yaml:"responses,omitempty"`
}

// ReadsBody reports whether any parameter is taken from the request body:
// a body, formData or file parameter.
func (op *Operation) ReadsBody() bool {
	if op == nil {
		return false
	}
	for _, p := range op.Parameters {
		if p == nil {
			continue
		}
		switch p.In {
		case InBody, InFormData, InFile:
			return true
		}
	}
	return false
}

// IsExtension reports whether key is a vendor extension ("x-" prefix).
//
// See: https://swagger.io/specification/v2/#specification-extensions
func IsExtension(key string) bool {
	return len(key) >= 2 && strings.EqualFold(key[:2], "x-")
}

// Ptr returns a pointer to v. It is a convenience for the optional
// numeric keywords of Constraints.
func Ptr[T any](v T) *T {
	return &v
}

package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterValidate(t *testing.T) {
	tests := []struct {
		name    string
		param   Parameter
		wantErr error
	}{
		{
			name:  "valid query parameter",
			param: Parameter{Name: "foo", In: InQuery, Required: true},
		},
		{
			name:    "missing name",
			param:   Parameter{In: InQuery},
			wantErr: ErrMalformedSpec,
		},
		{
			name:    "unknown location",
			param:   Parameter{Name: "sid", In: "cookie"},
			wantErr: ErrUnlocatableParameter,
		},
		{
			name:    "invalid header name",
			param:   Parameter{Name: "bad header", In: InHeader},
			wantErr: ErrMalformedSpec,
		},
		{
			name:  "valid header name",
			param: Parameter{Name: "X-Request-ID", In: InHeader},
		},
		{
			name:    "body without schema and type",
			param:   Parameter{Name: "body", In: InBody},
			wantErr: ErrMalformedSpec,
		},
		{
			name:    "body with empty schema",
			param:   Parameter{Name: "body", In: InBody, Schema: &Schema{}},
			wantErr: ErrMalformedSpec,
		},
		{
			name:  "body with typed value",
			param: Parameter{Name: "count", In: InBody, Constraints: Constraints{Type: TypeInteger}},
		},
		{
			name: "body with schema",
			param: Parameter{Name: "body", In: InBody, Schema: &Schema{
				Required:   []string{"name"},
				Properties: map[string]*Schema{"name": {Constraints: Constraints{Type: TypeString}}},
			}},
		},
		{
			name:  "body with schema reference",
			param: Parameter{Name: "body", In: InBody, Schema: &Schema{Ref: "#/definitions/Pet"}},
		},
		{
			name:    "body schema with only a type",
			param:   Parameter{Name: "body", In: InBody, Schema: &Schema{Constraints: Constraints{Type: TypeObject}}},
			wantErr: ErrMalformedSpec,
		},
		{
			name: "body with nil property",
			param: Parameter{Name: "body", In: InBody, Schema: &Schema{
				Properties: map[string]*Schema{"name": nil},
			}},
			wantErr: ErrMalformedSpec,
		},
		{
			name: "body with empty required entry",
			param: Parameter{Name: "body", In: InBody, Schema: &Schema{
				Required: []string{""},
			}},
			wantErr: ErrMalformedSpec,
		},
		{
			name: "body property with invalid pattern",
			param: Parameter{Name: "body", In: InBody, Schema: &Schema{
				Properties: map[string]*Schema{"name": {Constraints: Constraints{Pattern: "("}}},
			}},
			wantErr: ErrMalformedSpec,
		},
		{
			name:    "schema outside body",
			param:   Parameter{Name: "q", In: InQuery, Schema: &Schema{Constraints: Constraints{Type: TypeString}}},
			wantErr: ErrMalformedSpec,
		},
		{
			name:    "invalid pattern",
			param:   Parameter{Name: "q", In: InQuery, Constraints: Constraints{Pattern: "[a-"}},
			wantErr: ErrMalformedSpec,
		},
		{
			name:    "min length above max length",
			param:   Parameter{Name: "q", In: InQuery, Constraints: Constraints{MinLength: Ptr(5), MaxLength: Ptr(2)}},
			wantErr: ErrMalformedSpec,
		},
		{
			name:    "minimum above maximum",
			param:   Parameter{Name: "q", In: InQuery, Constraints: Constraints{Minimum: Ptr(5.0), Maximum: Ptr(2.0)}},
			wantErr: ErrMalformedSpec,
		},
		{
			name:  "form data alias",
			param: Parameter{Name: "upload", In: InFormData},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.param.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOperationValidate(t *testing.T) {
	t.Run("duplicated parameter in same location", func(t *testing.T) {
		op := &Operation{Parameters: []*Parameter{
			{Name: "id", In: InQuery},
			{Name: "id", In: InQuery},
		}}
		assert.ErrorIs(t, op.Validate(), ErrMalformedSpec)
	})

	t.Run("same name in different locations", func(t *testing.T) {
		op := &Operation{Parameters: []*Parameter{
			{Name: "id", In: InQuery},
			{Name: "id", In: InPath, Required: true},
		}}
		assert.NoError(t, op.Validate())
	})

	t.Run("nil parameter", func(t *testing.T) {
		op := &Operation{Parameters: []*Parameter{nil}}
		assert.ErrorIs(t, op.Validate(), ErrMalformedSpec)
	})
}

func TestRouteSpecValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		rs := &RouteSpec{}
		rs.Set("get", &Operation{Parameters: []*Parameter{{Name: "foo", In: InQuery}}})
		rs.Extensions = map[string]any{"x-anything": true}
		assert.NoError(t, rs.Validate())
	})

	t.Run("nil", func(t *testing.T) {
		var rs *RouteSpec
		assert.NoError(t, rs.Validate())
	})

	t.Run("unknown method", func(t *testing.T) {
		rs := &RouteSpec{Operations: map[string]*Operation{"fetch": {}}}
		assert.ErrorIs(t, rs.Validate(), ErrMalformedSpec)
	})

	t.Run("nil operation", func(t *testing.T) {
		rs := &RouteSpec{Operations: map[string]*Operation{"get": nil}}
		assert.ErrorIs(t, rs.Validate(), ErrMalformedSpec)
	})

	t.Run("collects every problem", func(t *testing.T) {
		rs := &RouteSpec{}
		rs.Set("get", &Operation{Parameters: []*Parameter{{Name: "a", In: "cookie"}}})
		rs.Set("post", &Operation{Parameters: []*Parameter{{Name: "body", In: InBody}}})

		err := rs.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnlocatableParameter)
		assert.ErrorIs(t, err, ErrMalformedSpec)
		assert.Contains(t, err.Error(), "get:")
		assert.Contains(t, err.Error(), "post:")
	})
}

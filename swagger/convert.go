package swagger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
)

// OpenAPI3 converts the document to OpenAPI 3 and validates the result.
// Parameters in "body" and "formData" become request bodies.
func (d *Document) OpenAPI3(ctx context.Context) (*openapi3.T, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("swagger: encode document: %w", err)
	}

	var v2 openapi2.T
	if err := json.Unmarshal(data, &v2); err != nil {
		return nil, fmt.Errorf("swagger: decode document: %w", err)
	}

	v3, err := openapi2conv.ToV3(&v2)
	if err != nil {
		return nil, fmt.Errorf("swagger: convert document: %w", err)
	}

	if err := v3.Validate(ctx); err != nil {
		return nil, fmt.Errorf("swagger: converted document is invalid: %w", err)
	}

	return v3, nil
}

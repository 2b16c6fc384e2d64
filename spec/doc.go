// Package spec holds the declarative request specification model: the
// parameters, body schemas, responses and per-method operations attached
// to a route.
//
// The types follow the Swagger 2.0 Path Item, Operation, Parameter and
// Schema objects closely enough that a RouteSpec can be decoded from, and
// encoded into, a Swagger document:
//
//	rs := &spec.RouteSpec{}
//	rs.Set(http.MethodGet, &spec.Operation{
//	    Parameters: []*spec.Parameter{
//	        {Name: "id", In: spec.InPath, Required: true,
//	            Constraints: spec.Constraints{Type: spec.TypeString, Format: spec.FormatUUID}},
//	        {Name: "limit", In: spec.InQuery, Default: 20,
//	            Constraints: spec.Constraints{Type: spec.TypeInteger, Maximum: spec.Ptr(100.0)}},
//	    },
//	})
//
// Specs are created once, at route registration, and are treated as
// read-only afterwards. Validate reports configuration mistakes (unknown
// locations, empty body schemas, invalid patterns) so they fail at
// startup rather than on a request.
//
// See: https://swagger.io/specification/v2/
package spec

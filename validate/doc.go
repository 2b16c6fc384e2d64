// Package validate applies route specifications to inbound requests.
//
// A Pipeline runs three passes over the operation declared for the request
// method: defaults are filled in, every constraint is checked, and finally
// path, query and body values are coerced into canonical Go types. All
// violations are collected; a run never stops at the first failure.
//
// # Request Snapshot
//
// The pipeline works on a Request, a per-location snapshot of an
// *http.Request built by NewRequest:
//
//	req, err := validate.NewRequest(r, mux.Vars(r))
//	if err != nil {
//	    // body is not a JSON object
//	}
//
//	violations := validate.New(nil).Run(routeSpec, req)
//	if len(violations) > 0 {
//	    validate.WriteViolations(w, r, violations)
//	    return
//	}
//
// # Middleware
//
// Handler and Middleware wrap the pipeline for gorilla/mux. A failed request
// gets 400 Bad Request with a JSON array of violations:
//
//	[{"param":"foo","msg":"foo is required"}]
//
// A passing request reaches the next handler with the sanitized snapshot
// available through FromContext.
//
// # Validators
//
// Checks are delegated to a Validator. The default PlaygroundValidator is
// built on go-playground/validator with its own instance per pipeline.
package validate

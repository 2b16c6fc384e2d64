package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/vitalvas/reqspec/spec"
)

// ErrorHandler writes the response for a request that failed validation.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, violations Violations)

// WriteViolations is the default ErrorHandler. It responds with 400 Bad
// Request and the violations as a JSON array.
func WriteViolations(w http.ResponseWriter, _ *http.Request, violations Violations) {
	if violations == nil {
		violations = Violations{}
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(violations); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	w.Write(buf.Bytes())
}

// bodyViolation turns a body decoding error into a violation.
func bodyViolation(err error) Violation {
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &tooLarge):
		return Violation{Param: "body", Msg: fmt.Sprintf("body must be no more than %d bytes", tooLarge.Limit)}
	case errors.Is(err, ErrInvalidBody):
		return Violation{Param: "body", Msg: "body must be valid JSON"}
	case errors.Is(err, ErrBodyNotObject):
		return Violation{Param: "body", Msg: "body must be a JSON object"}
	}
	return Violation{Param: "body", Msg: "body could not be read"}
}

// Handler returns an http.Handler that runs the pipeline for rs before
// next. Path variables are read with mux.Vars. On failure onFail writes the
// response (WriteViolations when nil); on success next receives the
// request with the sanitized snapshot available through FromContext.
//
// Methods without an operation reach next untouched, with no snapshot.
// The body is only read when the operation declares a body, formData or
// file parameter.
func (p *Pipeline) Handler(rs *spec.RouteSpec, next http.Handler, onFail ErrorHandler) http.Handler {
	if onFail == nil {
		onFail = WriteViolations
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		op := rs.Operation(r.Method)
		if op == nil {
			next.ServeHTTP(w, r)
			return
		}

		req, err := newRequest(r, mux.Vars(r), op.ReadsBody())
		if err != nil {
			onFail(w, r, Violations{bodyViolation(err)})
			return
		}

		if violations := p.Run(rs, req); len(violations) > 0 {
			onFail(w, r, violations)
			return
		}

		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), req)))
	})
}

// Middleware returns a gorilla/mux middleware validating every request
// against rs.
func (p *Pipeline) Middleware(rs *spec.RouteSpec, onFail ErrorHandler) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return p.Handler(rs, next, onFail)
	}
}

package muxhandlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/vitalvas/reqspec/validate"
)

// ErrInvalidBodyLimit is returned for a limit that is not positive.
var ErrInvalidBodyLimit = errors.New("body limit: limit must be greater than zero")

// BodyLimit caps request bodies at limit bytes. A request announcing a
// larger Content-Length is rejected with 413 and a violation list; other
// bodies are wrapped with http.MaxBytesReader, so reading past the limit
// fails during validation.
func BodyLimit(limit int64) (mux.MiddlewareFunc, error) {
	if limit <= 0 {
		return nil, ErrInvalidBodyLimit
	}

	msg := fmt.Sprintf("body must be no more than %d bytes", limit)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				writeJSON(w, http.StatusRequestEntityTooLarge, validate.Violations{{Param: "body", Msg: msg}})
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}, nil
}

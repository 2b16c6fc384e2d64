package muxhandlers

import (
	"mime"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/vitalvas/reqspec/spec"
)

// Consumes rejects requests whose Content-Type is not listed in the
// consumes of the matching operation, falling back to fallback when the
// operation lists none. Requests without a body are not checked, nor are
// methods rs does not describe. Rejections are 415 Unsupported Media Type.
//
// Media types are compared case-insensitively without parameters.
func Consumes(rs *spec.RouteSpec, fallback ...string) mux.MiddlewareFunc {
	allowed := make(map[string]map[string]struct{})
	for _, method := range rs.Methods() {
		types := rs.Operation(method).Consumes
		if len(types) == 0 {
			types = fallback
		}
		if len(types) == 0 {
			continue
		}

		set := make(map[string]struct{}, len(types))
		for _, t := range types {
			mt, _, err := mime.ParseMediaType(t)
			if err != nil {
				mt = strings.TrimSpace(t)
			}
			set[strings.ToLower(mt)] = struct{}{}
		}
		allowed[strings.ToUpper(method)] = set
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			set, ok := allowed[r.Method]
			if !ok || !hasBody(r) {
				next.ServeHTTP(w, r)
				return
			}

			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil {
				http.Error(w, http.StatusText(http.StatusUnsupportedMediaType), http.StatusUnsupportedMediaType)
				return
			}

			if _, ok := set[strings.ToLower(mediaType)]; !ok {
				http.Error(w, http.StatusText(http.StatusUnsupportedMediaType), http.StatusUnsupportedMediaType)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func hasBody(r *http.Request) bool {
	return r.ContentLength != 0 && r.Body != nil && r.Body != http.NoBody
}

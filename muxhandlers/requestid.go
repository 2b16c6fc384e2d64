package muxhandlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// DefaultRequestIDHeader is the header carrying the request ID.
const DefaultRequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestIDFromContext returns the request ID stored by RequestID, or an
// empty string.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}

	return ""
}

// RequestIDConfig configures RequestID.
type RequestIDConfig struct {
	// Header defaults to DefaultRequestIDHeader.
	Header string

	// Generate returns a new ID. Defaults to NewUUIDv7.
	Generate func(r *http.Request) string

	// TrustIncoming reuses a well-formed ID sent by the client.
	TrustIncoming bool

	// Logger, when set, is attached to the request context with a
	// request_id field. Handlers retrieve it with zerolog.Ctx.
	Logger *zerolog.Logger
}

// RequestID sets a request ID on the request, the response and the
// context.
func RequestID(cfg RequestIDConfig) mux.MiddlewareFunc {
	header := cfg.Header
	if header == "" {
		header = DefaultRequestIDHeader
	}

	generate := cfg.Generate
	if generate == nil {
		generate = NewUUIDv7
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if cfg.TrustIncoming {
				id = r.Header.Get(header)
				if _, err := uuid.Parse(id); err != nil {
					id = ""
				}
			}

			if id == "" {
				id = generate(r)
			}

			if id != "" {
				r.Header.Set(header, id)
				w.Header().Set(header, id)

				ctx := context.WithValue(r.Context(), requestIDKey{}, id)
				if cfg.Logger != nil {
					ctx = cfg.Logger.With().Str("request_id", id).Logger().WithContext(ctx)
				}
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// NewUUIDv4 returns a random UUID.
func NewUUIDv4(_ *http.Request) string {
	return uuid.NewString()
}

// NewUUIDv7 returns a time-ordered UUID.
//
// See: https://www.rfc-editor.org/rfc/rfc9562#section-5.7
func NewUUIDv7(_ *http.Request) string {
	return uuid.Must(uuid.NewV7()).String()
}

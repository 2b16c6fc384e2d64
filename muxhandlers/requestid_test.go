package muxhandlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

var (
	uuidV4Regex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	uuidV7Regex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
)

const incomingID = "0192f1a4-7c1e-7b3a-9d2e-5f6a7b8c9d0e"

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		config   RequestIDConfig
		incoming string
		want     string
		wantV7   bool
	}{
		{
			name:   "generates uuid v7 by default",
			wantV7: true,
		},
		{
			name:     "ignores incoming by default",
			incoming: incomingID,
			wantV7:   true,
		},
		{
			name:     "trusts incoming when configured",
			config:   RequestIDConfig{TrustIncoming: true},
			incoming: incomingID,
			want:     incomingID,
		},
		{
			name:     "replaces malformed incoming",
			config:   RequestIDConfig{TrustIncoming: true},
			incoming: "<script>",
			wantV7:   true,
		},
		{
			name:   "custom generator and header",
			config: RequestIDConfig{Header: "X-Trace-ID", Generate: func(*http.Request) string { return "trace-1" }},
			want:   "trace-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := tt.config.Header
			if header == "" {
				header = DefaultRequestIDHeader
			}

			var fromRequest, fromContext string

			r := mux.NewRouter()
			r.HandleFunc("/test", func(_ http.ResponseWriter, req *http.Request) {
				fromRequest = req.Header.Get(header)
				fromContext = RequestIDFromContext(req.Context())
			}).Methods(http.MethodGet)
			r.Use(RequestID(tt.config))

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.incoming != "" {
				req.Header.Set(header, tt.incoming)
			}
			r.ServeHTTP(w, req)

			got := w.Header().Get(header)
			if tt.wantV7 {
				assert.Regexp(t, uuidV7Regex, got)
			} else {
				assert.Equal(t, tt.want, got)
			}
			assert.Equal(t, got, fromRequest)
			assert.Equal(t, got, fromContext)
		})
	}

	t.Run("empty id sets nothing", func(t *testing.T) {
		r := mux.NewRouter()
		r.HandleFunc("/test", func(w http.ResponseWriter, req *http.Request) {
			assert.Empty(t, RequestIDFromContext(req.Context()))
			w.WriteHeader(http.StatusOK)
		})
		r.Use(RequestID(RequestIDConfig{Generate: func(*http.Request) string { return "" }}))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Empty(t, w.Header().Get(DefaultRequestIDHeader))
	})

	t.Run("request logger carries id", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)

		r := mux.NewRouter()
		r.HandleFunc("/test", func(_ http.ResponseWriter, req *http.Request) {
			zerolog.Ctx(req.Context()).Info().Msg("inside")
		})
		r.Use(RequestID(RequestIDConfig{Logger: &logger, Generate: func(*http.Request) string { return "abc" }}))

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Contains(t, buf.String(), `"request_id":"abc"`)
		assert.Contains(t, buf.String(), `"message":"inside"`)
	})

	t.Run("bare context", func(t *testing.T) {
		assert.Empty(t, RequestIDFromContext(context.Background()))
	})
}

func TestNewUUID(t *testing.T) {
	assert.Regexp(t, uuidV4Regex, NewUUIDv4(nil))
	assert.Regexp(t, uuidV7Regex, NewUUIDv7(nil))

	t.Run("v7 is time ordered", func(t *testing.T) {
		first := NewUUIDv7(nil)
		time.Sleep(2 * time.Millisecond)
		assert.Less(t, first, NewUUIDv7(nil))
	})
}

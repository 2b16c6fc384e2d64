package muxhandlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/vitalvas/reqspec/spec"
)

func TestConsumes(t *testing.T) {
	rs := (&spec.RouteSpec{}).
		Set("post", &spec.Operation{Consumes: []string{"application/json"}}).
		Set("put", &spec.Operation{}).
		Set("patch", &spec.Operation{Consumes: []string{"Multipart/Form-Data"}})

	r := mux.NewRouter()
	r.HandleFunc("/test", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Use(Consumes(rs, "application/x-www-form-urlencoded"))

	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		wantCode    int
	}{
		{"declared type", http.MethodPost, "application/json", "{}", http.StatusOK},
		{"parameters ignored", http.MethodPost, "application/json; charset=utf-8", "{}", http.StatusOK},
		{"case insensitive", http.MethodPost, "Application/JSON", "{}", http.StatusOK},
		{"undeclared type", http.MethodPost, "text/plain", "hi", http.StatusUnsupportedMediaType},
		{"missing type", http.MethodPost, "", "{}", http.StatusUnsupportedMediaType},
		{"no body", http.MethodPost, "", "", http.StatusOK},
		{"fallback applies", http.MethodPut, "application/x-www-form-urlencoded", "a=1", http.StatusOK},
		{"fallback rejects", http.MethodPut, "application/json", "{}", http.StatusUnsupportedMediaType},
		{"declared with odd case", http.MethodPatch, "multipart/form-data; boundary=x", "--x--", http.StatusOK},
		{"method not described", http.MethodDelete, "text/plain", "hi", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/test", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

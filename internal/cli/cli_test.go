package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/reqspec/internal/config"
	"github.com/vitalvas/reqspec/internal/routesfile"
	"github.com/vitalvas/reqspec/router"
	"github.com/vitalvas/reqspec/spec"
	"gopkg.in/yaml.v3"
)

const routesYAML = `
routes:
  - path: /query-required
    spec:
      get:
        parameters:
          - {name: foo, in: query, required: true}
mounts:
  - prefix: /pets
    routes:
      - path: ""
        spec:
          post:
            consumes: [application/json]
            parameters:
              - name: body
                in: body
                required: true
                schema:
                  required: [name, age]
                  properties:
                    name: {type: string}
                    age: {type: integer}
      - path: /:id
        spec:
          get:
            parameters:
              - {name: id, in: path, required: true, type: integer}
definitions:
  Pet:
    type: object
    properties:
      name: {type: string}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestGenerate(t *testing.T) {
	routes := writeFile(t, "routes.yaml", routesYAML)

	t.Run("yaml", func(t *testing.T) {
		out, err := run(t, "generate", "-r", routes)
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
		assert.Equal(t, "2.0", doc["swagger"])
		assert.Equal(t, "/", doc["basePath"])

		paths := doc["paths"].(map[string]any)
		assert.Contains(t, paths, "/query-required")
		assert.Contains(t, paths, "/pets")
		assert.Contains(t, paths, "/pets/{id}")
	})

	t.Run("json", func(t *testing.T) {
		out, err := run(t, "generate", "-r", routes, "-o", "json")
		require.NoError(t, err)

		var doc struct {
			Info        map[string]any            `json:"info"`
			Paths       map[string]map[string]any `json:"paths"`
			Definitions map[string]any            `json:"definitions"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.Equal(t, "reqspec", doc.Info["title"])
		assert.Contains(t, doc.Definitions, "Pet")

		get := doc.Paths["/query-required"]["get"].(map[string]any)
		assert.Contains(t, get["responses"], "400")
	})

	t.Run("openapi3", func(t *testing.T) {
		out, err := run(t, "generate", "-r", routes, "-o", "json", "--openapi3")
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.Contains(t, doc["openapi"], "3.0")
		assert.Contains(t, doc["components"].(map[string]any)["schemas"], "Pet")
	})

	t.Run("config file", func(t *testing.T) {
		cfg := writeFile(t, "config.yaml", "api: {title: Pets, version: 2.0.0, base_path: /v1}\nroutes: {file: "+routes+"}\n")

		out, err := run(t, "generate", "-c", cfg, "-o", "json")
		require.NoError(t, err)
		assert.Contains(t, out, `"title": "Pets"`)
		assert.Contains(t, out, `"basePath": "/v1"`)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := run(t, "generate", "-r", routes, "-o", "xml")
		assert.ErrorIs(t, err, ErrUsage)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := run(t, "generate", "--nope")
		assert.ErrorIs(t, err, ErrUsage)
	})

	t.Run("missing routes file", func(t *testing.T) {
		_, err := run(t, "generate", "-r", filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestCheck(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		routes := writeFile(t, "routes.yaml", routesYAML)

		out, err := run(t, "check", "-r", routes)
		require.NoError(t, err)
		assert.Contains(t, out, "3 paths, 3 operations, 1 definitions")
	})

	t.Run("registration and definition errors", func(t *testing.T) {
		routes := writeFile(t, "routes.yaml", `
routes:
  - path: /bad
    spec:
      get:
        parameters:
          - {name: session, in: cookie}
definitions:
  Broken: {type: strnig}
`)

		_, err := run(t, "check", "-r", routes)
		require.Error(t, err)
		assert.ErrorIs(t, err, spec.ErrUnlocatableParameter)
		assert.Contains(t, err.Error(), `"Broken"`)
	})
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "reqspec dev "))
}

func TestRootHelp(t *testing.T) {
	out, err := run(t)
	require.NoError(t, err)
	assert.Contains(t, out, "generate")
	assert.Contains(t, out, "serve")
}

func TestServeHandler(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)

	f, err := routesfile.Parse([]byte(routesYAML))
	require.NoError(t, err)

	var logs bytes.Buffer
	h, err := newHandler(cfg, f, zerolog.New(&logs))
	require.NoError(t, err)

	tests := []struct {
		name        string
		method      string
		target      string
		contentType string
		body        string
		wantCode    int
		wantBody    string
	}{
		{
			name:     "valid query",
			method:   http.MethodGet,
			target:   "/query-required?foo=bar",
			wantCode: http.StatusOK,
			wantBody: `{"method":"GET","query":{"foo":"bar"}}`,
		},
		{
			name:     "missing query",
			method:   http.MethodGet,
			target:   "/query-required",
			wantCode: http.StatusBadRequest,
			wantBody: `[{"param":"foo","msg":"foo is required"}]`,
		},
		{
			name:        "body sanitized",
			method:      http.MethodPost,
			target:      "/pets",
			contentType: "application/json",
			body:        `{"name":"rex","age":"3"}`,
			wantCode:    http.StatusOK,
			wantBody:    `{"method":"POST","body":{"name":"rex","age":3}}`,
		},
		{
			name:        "undeclared media type",
			method:      http.MethodPost,
			target:      "/pets",
			contentType: "application/x-www-form-urlencoded",
			body:        "name=rex&age=3",
			wantCode:    http.StatusUnsupportedMediaType,
		},
		{
			name:     "path variable sanitized",
			method:   http.MethodGet,
			target:   "/pets/7",
			wantCode: http.StatusOK,
			wantBody: `{"method":"GET","path":{"id":7}}`,
		},
		{
			name:     "swagger document",
			method:   http.MethodGet,
			target:   "/swagger/swagger.json",
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}

	t.Run("requests are logged", func(t *testing.T) {
		assert.Contains(t, logs.String(), `"message":"request"`)
		assert.Contains(t, logs.String(), `"request_id"`)
	})

	t.Run("oversized body", func(t *testing.T) {
		cfg.Server.MaxBodyBytes = 8

		h, err := newHandler(cfg, f, zerolog.Nop())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/pets", strings.NewReader(`{"name":"rex","age":3}`))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("registration errors stop the server", func(t *testing.T) {
		bad, err := routesfile.Parse([]byte("routes: [{path: /nospec}]"))
		require.NoError(t, err)

		_, err = newHandler(cfg, bad, zerolog.Nop())
		assert.ErrorIs(t, err, router.ErrNoSpec)
	})
}

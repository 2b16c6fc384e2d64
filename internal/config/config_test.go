package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
	assert.Equal(t, "reqspec", cfg.API.Title)
	assert.Equal(t, "1.0.0", cfg.API.Version)
	assert.Equal(t, "/", cfg.API.BasePath)
	assert.Equal(t, "/swagger", cfg.API.DocsPath)
	assert.Equal(t, "routes.yaml", cfg.Routes.File)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: 127.0.0.1:9000
log:
  level: debug
  pretty: true
api:
  title: Pets
  base_path: /v1
routes:
  file: pets.yaml
`), 0o600))

	t.Setenv("REQSPEC_SERVER__MAX_BODY_BYTES", "2048")
	t.Setenv("REQSPEC_API__VERSION", "2.1.0")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, int64(2048), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, "Pets", cfg.API.Title)
	assert.Equal(t, "2.1.0", cfg.API.Version)
	assert.Equal(t, "/v1", cfg.API.BasePath)
	assert.Equal(t, "pets.yaml", cfg.Routes.File)

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("REQSPEC_LOG__LEVEL", "warn")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.Log.Level)
	})
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "empty document keeps defaults",
			data: "",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ":8080", cfg.Server.Addr)
			},
		},
		{
			name: "durations",
			data: "server: {read_timeout: 1m, shutdown_timeout: 500ms}",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, time.Minute, cfg.Server.ReadTimeout)
				assert.Equal(t, 500*time.Millisecond, cfg.Server.ShutdownTimeout)
			},
		},
		{name: "malformed yaml", data: "server: [", wantErr: true},
		{name: "zero body limit", data: "server: {max_body_bytes: 0}", wantErr: true},
		{name: "unknown log level", data: "log: {level: loud}", wantErr: true},
		{name: "relative base path", data: "api: {base_path: v1}", wantErr: true},
		{name: "relative docs path", data: "api: {docs_path: docs}", wantErr: true},
		{name: "docs disabled", data: `api: {docs_path: ""}`},
		{name: "empty routes file", data: `routes: {file: ""}`, wantErr: true},
		{name: "empty addr", data: `server: {addr: ""}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)

	cfg.Server.MaxBodyBytes = -1
	cfg.API.Title = ""

	err = cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "server.max_body_bytes")
	assert.Contains(t, err.Error(), "api.title")
}

func TestEnvKey(t *testing.T) {
	key, value := envKey("REQSPEC_SERVER__MAX_BODY_BYTES", "10")
	assert.Equal(t, "server.max_body_bytes", key)
	assert.Equal(t, "10", value)
}

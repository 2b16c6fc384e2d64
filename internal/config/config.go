// Package config loads the configuration of the reqspec command.
//
// Values are read in order of increasing priority from built-in defaults,
// an optional YAML file and REQSPEC_ prefixed environment variables, where
// a double underscore separates sections and a single one stays part of
// the key: REQSPEC_SERVER__MAX_BODY_BYTES sets server.max_body_bytes.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "REQSPEC_"

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config is the configuration of the reqspec command.
type Config struct {
	Server ServerConfig `koanf:"server" json:"server" yaml:"server"`
	Log    LogConfig    `koanf:"log" json:"log" yaml:"log"`
	API    APIConfig    `koanf:"api" json:"api" yaml:"api"`
	Routes RoutesConfig `koanf:"routes" json:"routes" yaml:"routes"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr            string        `koanf:"addr" json:"addr" yaml:"addr"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes" json:"max_body_bytes" yaml:"max_body_bytes"`
	ReadTimeout     time.Duration `koanf:"read_timeout" json:"read_timeout" yaml:"read_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LogConfig holds the logger settings.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty"`
}

// APIConfig holds the metadata of the generated document.
type APIConfig struct {
	Title    string `koanf:"title" json:"title" yaml:"title"`
	Version  string `koanf:"version" json:"version" yaml:"version"`
	BasePath string `koanf:"base_path" json:"base_path" yaml:"base_path"`
	DocsPath string `koanf:"docs_path" json:"docs_path" yaml:"docs_path"`
}

// RoutesConfig locates the routes file.
type RoutesConfig struct {
	File string `koanf:"file" json:"file" yaml:"file"`
}

func defaults() map[string]any {
	return map[string]any{
		"server.addr":             ":8080",
		"server.max_body_bytes":   int64(1 << 20),
		"server.read_timeout":     "15s",
		"server.shutdown_timeout": "10s",

		"log.level":  "info",
		"log.pretty": false,

		"api.title":     "reqspec",
		"api.version":   "1.0.0",
		"api.base_path": "/",
		"api.docs_path": "/swagger",

		"routes.file": "routes.yaml",
	}
}

// Load reads the configuration. An empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return unmarshal(k)
}

// Parse reads the configuration from YAML data on top of the defaults.
// The environment is ignored.
func Parse(data []byte) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return unmarshal(k)
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// envKey maps REQSPEC_SERVER__MAX_BODY_BYTES to server.max_body_bytes.
func envKey(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return strings.ReplaceAll(key, "__", "."), value
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, fmt.Errorf("%w: server.addr is required", ErrInvalid))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("%w: server.max_body_bytes must be positive, got %d", ErrInvalid, c.Server.MaxBodyBytes))
	}
	if c.Server.ReadTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: server timeouts must not be negative", ErrInvalid))
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("%w: log.level: %w", ErrInvalid, err))
	}

	if c.API.Title == "" || c.API.Version == "" {
		errs = append(errs, fmt.Errorf("%w: api.title and api.version are required", ErrInvalid))
	}
	if !strings.HasPrefix(c.API.BasePath, "/") {
		errs = append(errs, fmt.Errorf("%w: api.base_path must start with /", ErrInvalid))
	}
	if c.API.DocsPath != "" && !strings.HasPrefix(c.API.DocsPath, "/") {
		errs = append(errs, fmt.Errorf("%w: api.docs_path must start with /", ErrInvalid))
	}

	if c.Routes.File == "" {
		errs = append(errs, fmt.Errorf("%w: routes.file is required", ErrInvalid))
	}

	return errors.Join(errs...)
}

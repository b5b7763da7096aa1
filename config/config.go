// Package config loads startup settings for the pipeline server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// Config holds server configuration.
type Config struct {
	// Addr is the address to listen on (e.g., ":8000").
	Addr string `yaml:"addr" toml:"addr"`
	// LogLevel is one of debug, info, warn, error, fatal.
	LogLevel string `yaml:"log_level" toml:"log_level"`
	// BodyLimit is the maximum accepted request body in bytes.
	BodyLimit int `yaml:"body_limit" toml:"body_limit"`

	ReadTimeout  time.Duration `yaml:"read_timeout" toml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" toml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" toml:"idle_timeout"`

	CORS CORS `yaml:"cors" toml:"cors"`
}

// CORS is the cross-origin policy applied to every route.
// A "*" origin allows any origin; combined with AllowCredentials the
// request origin is reflected back.
type CORS struct {
	AllowOrigins     []string `yaml:"allow_origins" toml:"allow_origins"`
	AllowMethods     []string `yaml:"allow_methods" toml:"allow_methods"`
	AllowHeaders     []string `yaml:"allow_headers" toml:"allow_headers"`
	ExposeHeaders    []string `yaml:"expose_headers" toml:"expose_headers"`
	AllowCredentials bool     `yaml:"allow_credentials" toml:"allow_credentials"`
	MaxAge           int      `yaml:"max_age" toml:"max_age"`
}

// AllowsAnyOrigin reports whether the origin list contains the "*" wildcard.
func (c CORS) AllowsAnyOrigin() bool {
	for _, o := range c.AllowOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

// Default returns the settings used when no config file is given.
// The CORS policy lets the editor's dev server and any other origin in.
func Default() *Config {
	return &Config{
		Addr:         ":8000",
		LogLevel:     "info",
		BodyLimit:    4 * 1024 * 1024,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		CORS: CORS{
			AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "*"},
			AllowMethods:     []string{"GET", "POST", "HEAD", "PUT", "DELETE", "PATCH", "OPTIONS"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
		},
	}
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file on top of Default.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("config: parse toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("config: unsupported file type %q", filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg can start a server.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("config: addr is empty")
	}
	if c.BodyLimit <= 0 {
		return fmt.Errorf("config: body_limit must be positive, got %d", c.BodyLimit)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	if len(c.CORS.AllowOrigins) == 0 {
		return errors.New("config: cors.allow_origins is empty")
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

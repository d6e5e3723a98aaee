// Package config resolves client configuration once at startup.
//
// The only external knob the client needs is the backend base URL; everything
// else (session state location) derives from the user's home directory with a
// test override.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// APIBaseURL is the backend origin, without a trailing slash.
	APIBaseURL string `env:"TODO_API_URL" envDefault:"http://localhost:8000"`

	// ConfigDir overrides where session state is kept
	// (keeps unit tests from touching ~/.todo).
	ConfigDir string `env:"TODO_CONFIG_DIR"`

	// Debug enables TUI diagnostic logging to a file.
	Debug bool `env:"TODO_DEBUG"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	return &cfg, nil
}

// Dir returns the directory holding persisted client state, creating nothing.
func (c *Config) Dir() (string, error) {
	if v := strings.TrimSpace(c.ConfigDir); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".todo"), nil
}

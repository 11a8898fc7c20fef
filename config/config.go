/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package config loads service configuration. Precedence, lowest to
// highest: built-in defaults, optional YAML file, environment variables.
package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreJSONFile = "jsonfile"
	StoreSQLite   = "sqlite"
)

// Config holds every service knob. Secrets come from the environment only;
// the YAML layer never carries credentials. Non-secret fields carry the
// envconfig overwrite option: Load seeds them from Default() and the YAML
// file first, and envconfig skips already-set fields unless told to
// overwrite.
type Config struct {
	Addr string `env:"READMESCOPE_ADDR, overwrite" yaml:"addr"`

	Provider    string  `env:"READMESCOPE_PROVIDER, overwrite" yaml:"provider"`
	Model       string  `env:"READMESCOPE_MODEL, overwrite" yaml:"model"`
	MaxTokens   int     `env:"READMESCOPE_MAX_TOKENS, overwrite" yaml:"max_tokens"`
	Temperature float64 `env:"READMESCOPE_TEMPERATURE, overwrite" yaml:"temperature"`

	AttemptTimeout time.Duration `env:"READMESCOPE_ATTEMPT_TIMEOUT, overwrite" yaml:"attempt_timeout"`
	RetryAttempts  int           `env:"READMESCOPE_RETRY_ATTEMPTS, overwrite" yaml:"retry_attempts"`
	Capacity       int64         `env:"READMESCOPE_CAPACITY, overwrite" yaml:"capacity"`

	SchemaPath string `env:"READMESCOPE_SCHEMA_PATH, overwrite" yaml:"schema_path"`

	StoreBackend string `env:"READMESCOPE_STORE, overwrite" yaml:"store"`
	StorePath    string `env:"READMESCOPE_STORE_PATH, overwrite" yaml:"store_path"`

	AllowedOrigins []string `env:"READMESCOPE_ALLOWED_ORIGINS, overwrite" yaml:"allowed_origins"`

	GeminiAPIKey    string `env:"GEMINI_API_KEY" yaml:"-"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY" yaml:"-"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY" yaml:"-"`
	GitHubToken     string `env:"GITHUB_TOKEN" yaml:"-"`

	OllamaBaseURL string `env:"OLLAMA_BASE_URL, overwrite" yaml:"ollama_base_url"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL, overwrite" yaml:"openai_base_url"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Addr:           ":8080",
		Provider:       "gemini",
		Model:          "gemini-2.5-flash",
		MaxTokens:      20480,
		Temperature:    0.0,
		AttemptTimeout: 60 * time.Second,
		RetryAttempts:  3,
		Capacity:       3,
		StoreBackend:   StoreJSONFile,
		StorePath:      "./data",
	}
}

// Load resolves the configuration. A non-empty path layers a YAML file on
// top of the defaults; environment variables override both.
func Load(ctx context.Context, path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, fmt.Errorf("processing environment: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.StoreBackend != StoreJSONFile && c.StoreBackend != StoreSQLite {
		return fmt.Errorf("unknown store backend %q (supported: %s, %s)", c.StoreBackend, StoreJSONFile, StoreSQLite)
	}
	if c.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", c.Capacity)
	}
	if c.RetryAttempts <= 0 {
		return fmt.Errorf("retry attempts must be positive, got %d", c.RetryAttempts)
	}
	return nil
}

// Package config loads the backend configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the connection settings for the hosted REST+Auth+Storage
// backend. Environment variables are parsed with the WORKROOM_ prefix,
// e.g. WORKROOM_BASE_URL, WORKROOM_API_KEY.
type Config struct {
	// BaseURL is the root of the hosted service. Empty means "no backend
	// configured" and selects the in-memory driver.
	BaseURL string `envconfig:"BASE_URL" default:""`

	// APIKey doubles as the bearer credential on every request.
	APIKey string `envconfig:"API_KEY" default:""`

	HTTPTimeoutSeconds int `envconfig:"HTTP_TIMEOUT_SECONDS" default:"30"`

	// StorageBucket receives uploaded documents and note attachments.
	StorageBucket string `envconfig:"STORAGE_BUCKET" default:"workroom-files"`

	// LoadTimeoutSeconds bounds a single store load; a hung call becomes an
	// error state instead of loading forever.
	LoadTimeoutSeconds int `envconfig:"LOAD_TIMEOUT_SECONDS" default:"30"`
}

// New parses the environment (after a best-effort .env load) into a Config.
func New() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("WORKROOM", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	log.Info().
		Bool("backend_configured", cfg.BackendConfigured()).
		Str("storage_bucket", cfg.StorageBucket).
		Int("http_timeout_s", cfg.HTTPTimeoutSeconds).
		Msg("configuration loaded")

	return &cfg, nil
}

// NewForTesting returns a config pointing at the given base URL with a short
// timeout, bypassing the environment.
func NewForTesting(baseURL, apiKey string) *Config {
	return &Config{
		BaseURL:            baseURL,
		APIKey:             apiKey,
		HTTPTimeoutSeconds: 5,
		StorageBucket:      "workroom-test",
		LoadTimeoutSeconds: 5,
	}
}

// BackendConfigured reports whether a hosted backend is reachable in
// principle. Resolved once at startup; the answer never changes at runtime.
func (c *Config) BackendConfigured() bool {
	return c.BaseURL != "" && c.APIKey != ""
}

// HTTPTimeout returns the per-request safety-net timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// LoadTimeout returns the per-load store timeout.
func (c *Config) LoadTimeout() time.Duration {
	return time.Duration(c.LoadTimeoutSeconds) * time.Second
}

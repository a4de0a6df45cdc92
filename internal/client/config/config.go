package config

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

// Config holds runtime settings for the CLI.
type Config struct {
	APIBaseURL         string
	StoragePath        string
	RequestTimeout     time.Duration
	RevalidateInterval time.Duration
	BearerFallback     bool
	LogLevel           string
	LogFormat          string
	ZipLookupURL       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080/api"
	c.StoragePath = "eventos.db"
	c.RequestTimeout = 15 * time.Second
	c.RevalidateInterval = 30 * time.Second
	c.BearerFallback = false
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.ZipLookupURL = "https://viacep.com.br/ws"
}

// Validate checks the fields that would otherwise fail late, at the first
// request.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("invalid api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api base url %q: scheme must be http or https", c.APIBaseURL)
	}
	if c.StoragePath == "" {
		return fmt.Errorf("storage path is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, os.Args[1:]); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, os.Args[1:]); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

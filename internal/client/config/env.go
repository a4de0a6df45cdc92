package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envConfig mirrors Config for environment parsing. Pointer fields stay nil
// when the variable is unset so defaults survive.
type envConfig struct {
	APIBaseURL         *string        `env:"API_URL"`
	StoragePath        *string        `env:"STORAGE_PATH"`
	RequestTimeout     *time.Duration `env:"REQUEST_TIMEOUT"`
	RevalidateInterval *time.Duration `env:"REVALIDATE_INTERVAL"`
	BearerFallback     *bool          `env:"BEARER_FALLBACK"`
	LogLevel           *string        `env:"LOG_LEVEL"`
	LogFormat          *string        `env:"LOG_FORMAT"`
	ZipLookupURL       *string        `env:"ZIP_LOOKUP_URL"`
}

const envPrefix = "EVENTOS_"

// dotenvFile is a test seam.
var dotenvFile = ".env"

// parseEnv overlays cfg with EVENTOS_* variables. A .env file is loaded
// first when present; variables already set in the process win over it.
func parseEnv(cfg *Config) error {
	if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: load %s: %w", dotenvFile, err)
	}

	var ec envConfig
	if err := env.ParseWithOptions(&ec, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if ec.APIBaseURL != nil {
		cfg.APIBaseURL = *ec.APIBaseURL
	}
	if ec.StoragePath != nil {
		cfg.StoragePath = *ec.StoragePath
	}
	if ec.RequestTimeout != nil {
		cfg.RequestTimeout = *ec.RequestTimeout
	}
	if ec.RevalidateInterval != nil {
		cfg.RevalidateInterval = *ec.RevalidateInterval
	}
	if ec.BearerFallback != nil {
		cfg.BearerFallback = *ec.BearerFallback
	}
	if ec.LogLevel != nil {
		cfg.LogLevel = *ec.LogLevel
	}
	if ec.LogFormat != nil {
		cfg.LogFormat = *ec.LogFormat
	}
	if ec.ZipLookupURL != nil {
		cfg.ZipLookupURL = *ec.ZipLookupURL
	}
	return nil
}

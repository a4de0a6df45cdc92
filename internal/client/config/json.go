package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alphasolutions/piauieventos-cli/internal/flagx"
)

// Duration decodes either a Go duration string ("15s") or integer
// nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case float64:
		d.Duration = time.Duration(x)
	case string:
		parsed, err := time.ParseDuration(x)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent
// fields keep their zero value and do not override earlier sources.
type JsonConfig struct {
	APIBaseURL         string   `json:"api_base_url"`
	StoragePath        string   `json:"storage_path"`
	RequestTimeout     Duration `json:"request_timeout"`
	RevalidateInterval Duration `json:"revalidate_interval"`
	BearerFallback     *bool    `json:"bearer_fallback"`
	LogLevel           string   `json:"log_level"`
	LogFormat          string   `json:"log_format"`
	ZipLookupURL       string   `json:"zip_lookup_url"`
}

// parseJson overlays cfg with values loaded from the JSON file named by
// -c/-config (or $EVENTOS_CONFIG). No file configured means no change.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.StoragePath != "" {
		cfg.StoragePath = jc.StoragePath
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RevalidateInterval.Duration > 0 {
		cfg.RevalidateInterval = jc.RevalidateInterval.Duration
	}
	if jc.BearerFallback != nil {
		cfg.BearerFallback = *jc.BearerFallback
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.LogFormat != "" {
		cfg.LogFormat = jc.LogFormat
	}
	if jc.ZipLookupURL != "" {
		cfg.ZipLookupURL = jc.ZipLookupURL
	}
	return nil
}

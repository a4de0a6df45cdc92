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
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8080/api", c.APIBaseURL)
	assert.Equal(t, "eventos.db", c.StoragePath)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, 30*time.Second, c.RevalidateInterval)
	assert.False(t, c.BearerFallback)
	assert.Equal(t, "info", c.LogLevel)
	require.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"ftp scheme", func(c *Config) { c.APIBaseURL = "ftp://x" }, "scheme must be http or https"},
		{"bad url", func(c *Config) { c.APIBaseURL = "http://[::1" }, "invalid api base url"},
		{"no storage", func(c *Config) { c.StoragePath = "" }, "storage path is required"},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, "request timeout must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			require.ErrorContains(t, c.Validate(), tt.wantErr)
		})
	}
}

func TestLoadConfig_PrecedenceEnvJsonFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	origDotenv := dotenvFile
	dotenvFile = filepath.Join(t.TempDir(), "missing.env")
	t.Cleanup(func() { dotenvFile = origDotenv })

	t.Setenv("EVENTOS_CONFIG", "")
	t.Setenv("EVENTOS_API_URL", "http://env.example/api")
	t.Setenv("EVENTOS_LOG_LEVEL", "warn")
	t.Setenv("EVENTOS_STORAGE_PATH", "env.db")

	path := writeTempJSON(t, "", "", map[string]any{
		"storage_path":    "json.db",
		"request_timeout": "5s",
	})

	os.Args = []string{"eventos", "-c", path, "-l", "debug"}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://env.example/api", cfg.APIBaseURL) // env only
	assert.Equal(t, "json.db", cfg.StoragePath)               // json beats env
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)        // json beats default
	assert.Equal(t, "debug", cfg.LogLevel)                    // flag beats env
	assert.Equal(t, 30*time.Second, cfg.RevalidateInterval)   // default
}

func TestLoadConfig_InvalidURLFails(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	origDotenv := dotenvFile
	dotenvFile = filepath.Join(t.TempDir(), "missing.env")
	t.Cleanup(func() { dotenvFile = origDotenv })
	t.Setenv("EVENTOS_CONFIG", "")

	os.Args = []string{"eventos", "-a", "localhost:8080"}

	_, err := LoadConfig()
	require.Error(t, err)
}

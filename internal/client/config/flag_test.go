package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	tests := []struct {
		expected  *Config
		name      string
		args      []string
		expectErr bool
	}{
		{name: "all flags", args: []string{"-a", "http://127.0.0.1:9090/api", "-s", "x.db", "-t", "10", "-r", "60", "-b", "-l", "debug"},
			expected: &Config{APIBaseURL: "http://127.0.0.1:9090/api", StoragePath: "x.db", RequestTimeout: 10 * time.Second,
				RevalidateInterval: time.Minute, BearerFallback: true, LogLevel: "debug"}},
		{name: "foreign flags ignored", args: []string{"-c", "cfg.json", "-a", "http://h/api"},
			expected: &Config{APIBaseURL: "http://h/api"}},
		{name: "incorrect timeout", args: []string{"-t", "abc"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}

			err := parseFlags(config, tt.args)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(config, tt.expected))
		})
	}
}

func TestParseFlags_UnsetDurationsKeepPrecision(t *testing.T) {
	cfg := &Config{RequestTimeout: 1500 * time.Millisecond}
	require.NoError(t, parseFlags(cfg, []string{"-l", "warn"}))
	assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)
}

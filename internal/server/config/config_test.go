package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, ":8000", c.HTTPAddr)
	assert.Equal(t, ":50051", c.GRPCAddr)
	assert.Empty(t, c.DatabaseDSN)
	assert.Equal(t, 24*time.Hour, c.TokenTTL)
	assert.Equal(t, "slog", c.LogBackend)
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expected    *Config
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"-a", ":9000", "-g", ":9001", "-d", "postgres://x", "-s", "k", "-t", "5", "-l", "zap"},
			expected: &Config{HTTPAddr: ":9000", GRPCAddr: ":9001", DatabaseDSN: "postgres://x",
				SecretKey: "k", TokenTTL: 5 * time.Minute, LogBackend: "zap"},
		},
		{
			name:     "foreign flags ignored",
			args:     []string{"-c", "cfg.json", "-x", "1", "-a", ":1"},
			expected: func() *Config { c := defaults(); c.HTTPAddr = ":1"; return c }(),
		},
		{name: "bad ttl", args: []string{"-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg, tt.args) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "server.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
http_addr: ":7000"
database_dsn: "postgres://db/trainpi"
token_ttl: 90m
`), 0o600))

	cfg := defaults()
	parseFile(cfg, []string{"-c", yamlPath})
	assert.Equal(t, ":7000", cfg.HTTPAddr)
	assert.Equal(t, ":50051", cfg.GRPCAddr, "unset keys keep defaults")
	assert.Equal(t, "postgres://db/trainpi", cfg.DatabaseDSN)
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)

	jsonPath := filepath.Join(dir, "server.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"secret_key":"s3cr3t","log_backend":"zap"}`), 0o600))

	cfg = defaults()
	parseFile(cfg, []string{"-config", jsonPath})
	assert.Equal(t, "s3cr3t", cfg.SecretKey)
	assert.Equal(t, "zap", cfg.LogBackend)

	cfg = defaults()
	parseFile(cfg, nil)
	assert.Empty(t, cmp.Diff(defaults(), cfg))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o600))
	require.Panics(t, func() { parseFile(defaults(), []string{"-c", bad}) })
}

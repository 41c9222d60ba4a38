// Package config handles configuration for the server component,
// including defaults, a JSON/YAML file overlay, and command-line flags.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the TrainPi server.
//
// Fields:
//   - HTTPAddr: bind address for the REST API.
//   - GRPCAddr: bind address for the gRPC endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps all data in memory.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - TokenTTL: access token lifetime.
//   - LogBackend: "slog" or "zap".
type Config struct {
	HTTPAddr    string
	GRPCAddr    string
	DatabaseDSN string
	SecretKey   string
	TokenTTL    time.Duration
	LogBackend  string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8000"
	c.GRPCAddr = ":50051"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.TokenTTL = 24 * time.Hour
	c.LogBackend = "slog"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional config file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	return cfg
}

package config

import (
	"github.com/dmitrijs2005/trainpi/internal/configx"
	"github.com/dmitrijs2005/trainpi/internal/flagx"
	"github.com/dmitrijs2005/trainpi/internal/timex"
)

// FileConfig is the on-disk shape of the server configuration. Empty
// fields leave the current value untouched.
type FileConfig struct {
	HTTPAddr    string         `json:"http_addr" yaml:"http_addr"`
	GRPCAddr    string         `json:"grpc_addr" yaml:"grpc_addr"`
	DatabaseDSN string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey   string         `json:"secret_key" yaml:"secret_key"`
	TokenTTL    timex.Duration `json:"token_ttl" yaml:"token_ttl"`
	LogBackend  string         `json:"log_backend" yaml:"log_backend"`
}

// parseFile overlays cfg with the file named by -c/-config, if any.
// It panics when the file cannot be read or decoded.
func parseFile(cfg *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	var fc FileConfig
	if err := configx.ReadFile(path, &fc); err != nil {
		panic(err)
	}

	setString(&cfg.HTTPAddr, fc.HTTPAddr)
	setString(&cfg.GRPCAddr, fc.GRPCAddr)
	setString(&cfg.DatabaseDSN, fc.DatabaseDSN)
	setString(&cfg.SecretKey, fc.SecretKey)
	setString(&cfg.LogBackend, fc.LogBackend)
	if fc.TokenTTL.Duration > 0 {
		cfg.TokenTTL = fc.TokenTTL.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Package config holds the TrainPi CLI settings: defaults, an optional
// JSON/YAML file overlay and, on top, the command-line flags bound by the
// cli package.
package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/trainpi/internal/configx"
	"github.com/dmitrijs2005/trainpi/internal/timex"
)

// Transport names accepted in Config.Transport.
const (
	TransportHTTP = "http"
	TransportGRPC = "grpc"
)

// Config holds runtime settings for the TrainPi CLI.
//
// Fields:
//   - ServerAddr: base URL of the REST API.
//   - GRPCAddr: host:port of the gRPC endpoint.
//   - Transport: "http" or "grpc".
//   - DBPath: SQLite file holding the local cache and session.
//   - RequestTimeout: per-call timeout for remote requests.
//   - LogBackend: "slog" or "zap".
type Config struct {
	ServerAddr     string
	GRPCAddr       string
	Transport      string
	DBPath         string
	RequestTimeout time.Duration
	LogBackend     string
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.ServerAddr = "http://127.0.0.1:8000"
	c.GRPCAddr = "127.0.0.1:50051"
	c.Transport = TransportHTTP
	c.DBPath = "trainpi.db"
	c.RequestTimeout = 5 * time.Second
	c.LogBackend = "slog"
}

// FileConfig is the on-disk shape of Config. Empty fields keep the
// current value.
type FileConfig struct {
	ServerAddr     string         `json:"server_addr" yaml:"server_addr"`
	GRPCAddr       string         `json:"grpc_addr" yaml:"grpc_addr"`
	Transport      string         `json:"transport" yaml:"transport"`
	DBPath         string         `json:"db_path" yaml:"db_path"`
	RequestTimeout timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	LogBackend     string         `json:"log_backend" yaml:"log_backend"`
}

// LoadConfig applies defaults and then the file at path, if path is set.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if path == "" {
		return cfg, nil
	}

	var fc FileConfig
	if err := configx.ReadFile(path, &fc); err != nil {
		return nil, err
	}
	cfg.overlay(fc)
	return cfg, nil
}

func (c *Config) overlay(fc FileConfig) {
	if fc.ServerAddr != "" {
		c.ServerAddr = fc.ServerAddr
	}
	if fc.GRPCAddr != "" {
		c.GRPCAddr = fc.GRPCAddr
	}
	if fc.Transport != "" {
		c.Transport = fc.Transport
	}
	if fc.DBPath != "" {
		c.DBPath = fc.DBPath
	}
	if fc.RequestTimeout.Duration > 0 {
		c.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.LogBackend != "" {
		c.LogBackend = fc.LogBackend
	}
}

// Validate reports settings the CLI cannot work with.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportHTTP, TransportGRPC:
	default:
		return fmt.Errorf("unknown transport %q", c.Transport)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path must be set")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	return nil
}

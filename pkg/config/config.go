// Package config loads the server's runtime configuration from environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v8"
)

// Config holds all server configuration.
type Config struct {
	Server ServerConfig
	HNSW   HNSWConfig
	Store  StoreConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `env:"VECTOR_HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"VECTOR_PORT" envDefault:"50051"`
	MaxConnections  int           `env:"VECTOR_MAX_CONNECTIONS" envDefault:"1000"`
	RequestTimeout  time.Duration `env:"VECTOR_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"VECTOR_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	JWTSecret       string        `env:"VECTOR_JWT_SECRET" envDefault:"change-me"`
	RateLimitRPS    float64       `env:"VECTOR_RATE_LIMIT_RPS" envDefault:"100"`
	RateLimitBurst  int           `env:"VECTOR_RATE_LIMIT_BURST" envDefault:"200"`
}

// HNSWConfig holds the graph's construction and search knobs (spec.md §6).
type HNSWConfig struct {
	M              int     `env:"VECTOR_HNSW_M" envDefault:"32"`
	EfConstruction int     `env:"VECTOR_HNSW_EF_CONSTRUCTION" envDefault:"40"`
	EfSearch       int     `env:"VECTOR_HNSW_EF_SEARCH" envDefault:"15"`
	Ml             float32 `env:"VECTOR_HNSW_ML" envDefault:"0.3"`
	Dimensions     int     `env:"VECTOR_DIMENSIONS" envDefault:"768"`
}

// StoreConfig holds the snapshot persistence layer's configuration.
type StoreConfig struct {
	DataDir        string `env:"VECTOR_DATA_DIR" envDefault:"./data"`
	SnapshotKey    string `env:"VECTOR_SNAPSHOT_KEY" envDefault:"collection:snapshot"`
	SyncWrites     bool   `env:"VECTOR_SYNC_WRITES" envDefault:"false"`
}

// Load reads configuration from environment variables, applying the
// defaults declared in struct tags for anything unset.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.MaxConnections < 1 {
		return fmt.Errorf("invalid max connections: %d (must be > 0)", c.Server.MaxConnections)
	}

	if c.HNSW.M < 2 || c.HNSW.M > 256 {
		return fmt.Errorf("invalid HNSW M: %d (recommended: 32)", c.HNSW.M)
	}
	if c.HNSW.EfConstruction < 1 {
		return fmt.Errorf("invalid HNSW efConstruction: %d (must be >= 1)", c.HNSW.EfConstruction)
	}
	if c.HNSW.EfSearch < 1 {
		return fmt.Errorf("invalid HNSW efSearch: %d (must be >= 1)", c.HNSW.EfSearch)
	}
	if c.HNSW.Ml <= 0 || c.HNSW.Ml >= 1 {
		return fmt.Errorf("invalid HNSW ml: %f (must be in (0,1))", c.HNSW.Ml)
	}
	if c.HNSW.Dimensions < 1 {
		return fmt.Errorf("invalid dimensions: %d (must be > 0)", c.HNSW.Dimensions)
	}

	if c.Store.DataDir == "" {
		return fmt.Errorf("data directory not specified")
	}

	return nil
}

// Address returns the server address (host:port).
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

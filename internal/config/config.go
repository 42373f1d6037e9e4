package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backend names accepted in STORAGE_BACKEND.
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Port                int    `env:"PORT" envDefault:"8080"`
	StorageBackend      string `env:"STORAGE_BACKEND" envDefault:"redis"`
	RedisURL            string `env:"REDIS_URL"`
	DatabaseURL         string `env:"DATABASE_URL"`
	LogLevel            string `env:"LOG_LEVEL" envDefault:"info"`
	MaxBodyBytes        int64  `env:"MAX_BODY_BYTES" envDefault:"5242880"`
	OverdueCheckSeconds int    `env:"OVERDUE_CHECK_SECONDS" envDefault:"60"`
	RateLimitPerMin     int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"120"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) OverdueCheckInterval() time.Duration {
	return time.Duration(c.OverdueCheckSeconds) * time.Second
}

// Validate checks that the selected storage backend has the connection
// string it needs. The memory backend is volatile and only suitable for
// development and tests.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when STORAGE_BACKEND=redis")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND: %q", c.StorageBackend)
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

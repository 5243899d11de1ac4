package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"swapi-gateway/internal/swapi"
)

type Config struct {
	Env      string `env:"ENV"`
	LogLevel string `env:"LOG_LEVEL"`

	Port           string        `env:"PORT" envDefault:"3000"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`

	CacheBackend         string        `env:"CACHE_BACKEND" envDefault:"memory"` // "memory" or "redis"
	CachePrefix          string        `env:"CACHE_PREFIX" envDefault:"swapi"`
	CacheMaxEntries      int           `env:"CACHE_MAX_ENTRIES" envDefault:"100"`
	CacheCleanupInterval time.Duration `env:"CACHE_CLEANUP_INTERVAL" envDefault:"1m"`
	RedisAddr            string        `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`

	SwapiBaseURL       string        `env:"SWAPI_BASE_URL" envDefault:"https://www.swapi.tech/api"`
	UpstreamTimeout    time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"30s"`
	UpstreamMaxRetries int           `env:"UPSTREAM_MAX_RETRIES" envDefault:"0"`

	EntityCacheTTL time.Duration `env:"ENTITY_CACHE_TTL" envDefault:"600s"`
	PageSize       int           `env:"PAGE_SIZE" envDefault:"10"`
	FanoutLimit    int           `env:"FANOUT_LIMIT" envDefault:"10"`
	CatalogDedup   bool          `env:"CATALOG_DEDUP" envDefault:"true"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.CacheBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("CACHE_BACKEND must be memory or redis, got %q", c.CacheBackend)
	}
	if c.SwapiBaseURL == "" {
		return fmt.Errorf("SWAPI_BASE_URL is required")
	}
	if c.EntityCacheTTL <= 0 {
		return fmt.Errorf("ENTITY_CACHE_TTL must be positive, got %s", c.EntityCacheTTL)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	return nil
}

func (c Config) swapiConfig() swapi.Config {
	return swapi.Config{
		BaseURL:    c.SwapiBaseURL,
		Timeout:    c.UpstreamTimeout,
		MaxRetries: c.UpstreamMaxRetries,
	}
}

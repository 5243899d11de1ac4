package cache

import (
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Backend         string // "memory" or "redis"
	Prefix          string
	MaxEntries      int
	CleanupInterval time.Duration
}

// NewStore builds the configured backend. redisClient is only used for the
// "redis" backend.
func NewStore(cfg Config, redisClient redis.UniversalClient) Store {
	switch cfg.Backend {
	case "redis":
		return NewRedisStore(redisClient, RedisConfig{
			Prefix: cfg.Prefix,
		})
	default:
		return NewMemoryStore(MemoryConfig{
			MaxEntries:      cfg.MaxEntries,
			CleanupInterval: cfg.CleanupInterval,
		})
	}
}

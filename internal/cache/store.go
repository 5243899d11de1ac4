package cache

import (
	"context"
	"time"
)

// NoExpiration stores an entry until it is evicted or the process exits.
const NoExpiration time.Duration = 0

// Store is the interface used by the catalog.
// Implemented by memory cache (dev) and Redis cache (prod).
//
// A ttl of NoExpiration keeps the entry forever; a negative ttl is ignored.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Pinger is implemented by stores that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

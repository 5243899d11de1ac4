package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// unreachableClient points at a port nothing listens on so calls fail fast.
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	withPrefix := NewRedisStore(nil, RedisConfig{Prefix: "swapi"})
	require.Equal(t, "swapi:entity_1", withPrefix.key(EntityKey("1")))

	bare := NewRedisStore(nil, RedisConfig{})
	require.Equal(t, "page_2", bare.key(PageKey(2)))
}

func TestRedisStore_CancelledContext(t *testing.T) {
	c := NewRedisStore(unreachableClient(t), RedisConfig{Prefix: "swapi"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := c.Get(ctx, "k")
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, c.Set(ctx, "k", []byte("v"), NoExpiration), context.Canceled)
	require.ErrorIs(t, c.Ping(ctx), context.Canceled)
}

func TestRedisStore_ConnectionErrorIsReported(t *testing.T) {
	c := NewRedisStore(unreachableClient(t), RedisConfig{})
	ctx := context.Background()

	_, hit, err := c.Get(ctx, "k")
	require.Error(t, err)
	require.False(t, hit)

	require.Error(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, c.Set(ctx, "k", []byte("v"), -time.Minute), "negative ttl never reaches redis")
}

func TestNewStoreSelectsBackend(t *testing.T) {
	mem := NewStore(Config{Backend: "memory", MaxEntries: 5}, nil)
	ms, ok := mem.(*MemoryStore)
	require.True(t, ok, "expected *MemoryStore, got %T", mem)
	t.Cleanup(func() { ms.Close() })

	rs := NewStore(Config{Backend: "redis", Prefix: "p"}, unreachableClient(t))
	require.IsType(t, &RedisStore{}, rs)
}

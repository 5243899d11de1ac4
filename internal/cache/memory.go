package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	defaultMaxEntries      = 100
	defaultCleanupInterval = time.Minute
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiration
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore is a size-capped, process-local Store. When full, the least
// recently used entry is evicted regardless of its ttl.
type MemoryStore struct {
	// mu serialises check-then-remove sequences; the LRU has its own lock for reads.
	mu              sync.Mutex
	items           *lru.Cache[string, memoryEntry]
	stopCleanup     chan struct{}
	cleanupOnce     sync.Once
	cleanupInterval time.Duration
	now             func() time.Time
}

type MemoryConfig struct {
	MaxEntries      int           // default: 100
	CleanupInterval time.Duration // default: 1m
}

// NewMemoryStore creates an in-memory store and starts its cleanup goroutine.
func NewMemoryStore(cfg MemoryConfig) *MemoryStore {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = defaultMaxEntries
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaultCleanupInterval
	}

	// lru.New only fails for a non-positive size.
	items, _ := lru.New[string, memoryEntry](cfg.MaxEntries)

	c := &MemoryStore{
		items:           items,
		stopCleanup:     make(chan struct{}),
		cleanupInterval: cfg.CleanupInterval,
		now:             time.Now,
	}

	go c.cleanupExpired()

	return c
}

// Get retrieves a value. Expired entries are removed and reported as a miss.
func (c *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("context error: %w", err)
	}

	entry, ok := c.items.Get(key)
	if !ok {
		return nil, false, nil
	}

	now := c.now()
	if entry.expired(now) {
		c.mu.Lock()
		if e, exists := c.items.Peek(key); exists && e.expired(now) {
			c.items.Remove(key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}

	return entry.value, true, nil
}

// Set stores value under key. ttl == NoExpiration keeps it until evicted.
func (c *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if ttl < 0 {
		return nil
	}

	// Copy to decouple from caller's buffer
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	entry := memoryEntry{value: valueCopy}
	if ttl != NoExpiration {
		entry.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.items.Add(key, entry)
	c.mu.Unlock()

	return nil
}

// cleanupExpired runs periodically to remove expired entries.
func (c *MemoryStore) cleanupExpired() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *MemoryStore) removeExpired() {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range c.items.Keys() {
		if e, ok := c.items.Peek(k); ok && e.expired(now) {
			c.items.Remove(k)
		}
	}
}

// Ping always succeeds for the memory store.
func (c *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close stops the cleanup goroutine. Call this on shutdown or in tests.
func (c *MemoryStore) Close() error {
	c.cleanupOnce.Do(func() {
		close(c.stopCleanup)
	})
	return nil
}

// Len returns the number of items currently in the cache, expired or not.
func (c *MemoryStore) Len() int {
	return c.items.Len()
}

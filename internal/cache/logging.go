package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"swapi-gateway/internal/metrics"
	"swapi-gateway/pkg/logging/logging"
)

// LoggingStore wraps a Store with logging + metrics.
type LoggingStore struct {
	inner Store
}

var _ Pinger = (*LoggingStore)(nil)

// NewLoggingStore returns a store that logs and records metrics.
func NewLoggingStore(inner Store) *LoggingStore {
	return &LoggingStore{inner: inner}
}

func (c *LoggingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	value, ok, err := c.inner.Get(ctx, key)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0

	kind, fields := keyFields(key)

	result := "miss"
	switch {
	case err != nil:
		result = "error"
	case ok:
		result = "hit"
		metrics.CacheHitsTotal.WithLabelValues(kind).Inc()
	default:
		metrics.CacheMissesTotal.WithLabelValues(kind).Inc()
	}

	fields = append(fields,
		zap.String("cache_result", result), // hit | miss | error
		zap.Float64("latency_ms", latencyMs),
	)

	logger := logging.L(ctx)
	if err != nil {
		logger.Error("cache_get", append(fields, zap.Error(err))...)
	} else {
		logger.Debug("cache_get", fields...)
	}

	return value, ok, err
}

func (c *LoggingStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	start := time.Now()
	err := c.inner.Set(ctx, key, value, ttl)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0

	_, fields := keyFields(key)
	fields = append(fields,
		zap.Duration("ttl", ttl),
		zap.Int("bytes", len(value)),
		zap.Float64("latency_ms", latencyMs),
	)

	logger := logging.L(ctx)
	if err != nil {
		logger.Error("cache_set", append(fields, zap.Error(err))...)
	} else {
		logger.Debug("cache_set", fields...)
	}

	return err
}

// Ping forwards to the wrapped store when it supports health checks.
func (c *LoggingStore) Ping(ctx context.Context) error {
	if p, ok := c.inner.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func keyFields(key string) (string, []zap.Field) {
	fields := []zap.Field{zap.String("cache_key", key)}
	kind, id, ok := ParseKey(key)
	if !ok {
		return "other", fields
	}
	return kind, append(fields,
		zap.String("key_kind", kind),
		zap.String("key_id", id),
	)
}

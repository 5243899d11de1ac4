package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"swapi-gateway/internal/metrics"
	"swapi-gateway/pkg/logging/logging"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("boom")
}

func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("boom")
}

func TestLoggingStore_RecordsHitsAndMisses(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx := logging.WithLogger(context.Background(), zap.New(core))

	inner, _ := newTestStore(t, 10)
	store := NewLoggingStore(inner)

	hitsBefore := testutil.ToFloat64(metrics.CacheHitsTotal.WithLabelValues(KindEntity))
	missesBefore := testutil.ToFloat64(metrics.CacheMissesTotal.WithLabelValues(KindEntity))

	_, hit, err := store.Get(ctx, EntityKey("7"))
	require.NoError(t, err)
	require.False(t, hit)

	require.NoError(t, store.Set(ctx, EntityKey("7"), []byte("{}"), time.Minute))

	_, hit, err = store.Get(ctx, EntityKey("7"))
	require.NoError(t, err)
	require.True(t, hit)

	require.Equal(t, hitsBefore+1, testutil.ToFloat64(metrics.CacheHitsTotal.WithLabelValues(KindEntity)))
	require.Equal(t, missesBefore+1, testutil.ToFloat64(metrics.CacheMissesTotal.WithLabelValues(KindEntity)))

	gets := logs.FilterMessage("cache_get").All()
	require.Len(t, gets, 2)
	require.Equal(t, "miss", gets[0].ContextMap()["cache_result"])
	require.Equal(t, "hit", gets[1].ContextMap()["cache_result"])
	require.Equal(t, "7", gets[1].ContextMap()["key_id"])
	require.Len(t, logs.FilterMessage("cache_set").All(), 1)
}

func TestLoggingStore_LogsErrors(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx := logging.WithLogger(context.Background(), zap.New(core))

	store := NewLoggingStore(failingStore{})

	_, _, err := store.Get(ctx, PageKey(1))
	require.Error(t, err)
	require.Error(t, store.Set(ctx, PageKey(1), nil, NoExpiration))

	require.Equal(t, 2, logs.FilterLevelExact(zap.ErrorLevel).Len())

	// failingStore has no Ping, so the decorator reports healthy.
	require.NoError(t, store.Ping(ctx))
}

func TestLoggingStore_PingForwardsFailure(t *testing.T) {
	store := NewLoggingStore(NewRedisStore(unreachableClient(t), RedisConfig{}))
	require.Error(t, store.Ping(context.Background()))
}

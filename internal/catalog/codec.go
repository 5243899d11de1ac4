package catalog

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"swapi-gateway/internal/cache"
	"swapi-gateway/pkg/logging/logging"
)

// storeJSON writes v under key. Failures are logged and otherwise ignored.
func storeJSON(ctx context.Context, store cache.Store, key string, v any, ttl time.Duration) {
	raw, err := json.Marshal(v)
	if err != nil {
		logging.L(ctx).Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := store.Set(ctx, key, raw, ttl); err != nil {
		logging.L(ctx).Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

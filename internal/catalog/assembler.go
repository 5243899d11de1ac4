package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"swapi-gateway/internal/cache"
	"swapi-gateway/pkg/logging/logging"
)

// DefaultEntityTTL is how long an assembled character stays cached.
const DefaultEntityTTL = 600 * time.Second

type AssemblerConfig struct {
	EntityTTL time.Duration // default: 600s
	// Dedup collapses concurrent misses for the same uid into one upstream
	// fetch. When false, concurrent misses all fetch and the last write wins.
	Dedup bool
}

// Assembler resolves one character by combining the person record with its
// homeworld, cache first.
type Assembler struct {
	upstream Upstream
	store    cache.Store
	ttl      time.Duration
	dedup    bool
	sf       singleflight.Group
}

func NewAssembler(upstream Upstream, store cache.Store, cfg AssemblerConfig) *Assembler {
	if cfg.EntityTTL <= 0 {
		cfg.EntityTTL = DefaultEntityTTL
	}
	return &Assembler{
		upstream: upstream,
		store:    store,
		ttl:      cfg.EntityTTL,
		dedup:    cfg.Dedup,
	}
}

// Resolve returns the character for uid. A cached character is returned
// without any upstream call and without checking freshness.
func (a *Assembler) Resolve(ctx context.Context, uid string) (Character, error) {
	key := cache.EntityKey(uid)

	if c, ok := a.cached(ctx, key); ok {
		return c, nil
	}

	logging.L(ctx).Debug("character cache miss", zap.String("uid", uid))

	if !a.dedup {
		return a.fetch(ctx, uid, key)
	}

	// The shared fetch outlives any single caller; the upstream client's
	// timeout bounds it. Each caller still stops waiting on its own ctx.
	ch := a.sf.DoChan(key, func() (any, error) {
		return a.fetch(context.WithoutCancel(ctx), uid, key)
	})
	select {
	case <-ctx.Done():
		return Character{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Character{}, res.Err
		}
		if res.Shared {
			logging.L(ctx).Debug("character fetch shared", zap.String("uid", uid))
		}
		return res.Val.(Character), nil
	}
}

func (a *Assembler) cached(ctx context.Context, key string) (Character, bool) {
	raw, hit, err := a.store.Get(ctx, key)
	if err != nil {
		// Cache is best-effort; log and treat as miss.
		logging.L(ctx).Warn("character cache get failed", zap.String("key", key), zap.Error(err))
		return Character{}, false
	}
	if !hit {
		return Character{}, false
	}

	var c Character
	if err := json.Unmarshal(raw, &c); err != nil {
		logging.L(ctx).Warn("character cache unmarshal failed", zap.String("key", key), zap.Error(err))
		return Character{}, false
	}
	return c, true
}

func (a *Assembler) fetch(ctx context.Context, uid, key string) (Character, error) {
	person, err := a.upstream.GetPerson(ctx, uid)
	if err != nil {
		return Character{}, fmt.Errorf("fetch person %s: %w", uid, err)
	}

	homeworld, terrain := Unknown, Unknown
	if person.Homeworld != "" {
		planet, err := a.upstream.GetPlanet(ctx, person.Homeworld)
		if err != nil {
			return Character{}, fmt.Errorf("fetch homeworld of %s: %w", uid, err)
		}
		homeworld, terrain = planet.Name, planet.Terrain
	}

	c := Character{
		UID:       uid,
		Name:      person.Name,
		BirthYear: person.BirthYear,
		Homeworld: homeworld,
		Terrain:   terrain,
	}

	storeJSON(ctx, a.store, key, c, a.ttl)
	return c, nil
}

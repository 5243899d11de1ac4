package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"swapi-gateway/internal/cache"
	"swapi-gateway/internal/swapi"
	"swapi-gateway/pkg/logging/logging"
)

const (
	DefaultPageSize    = 10
	DefaultFanoutLimit = 10
)

type OrchestratorConfig struct {
	PageSize int // default: 10
	// FanoutLimit bounds concurrent character resolutions per listing.
	// Zero means the default; a negative value means unbounded.
	FanoutLimit int
}

// Orchestrator resolves paged and name-filtered listings.
type Orchestrator struct {
	upstream Upstream
	resolver Resolver
	store    cache.Store
	pageSize int
	fanout   int
}

func NewOrchestrator(upstream Upstream, resolver Resolver, store cache.Store, cfg OrchestratorConfig) *Orchestrator {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.FanoutLimit == 0 {
		cfg.FanoutLimit = DefaultFanoutLimit
	}
	return &Orchestrator{
		upstream: upstream,
		resolver: resolver,
		store:    store,
		pageSize: cfg.PageSize,
		fanout:   cfg.FanoutLimit,
	}
}

// Listing resolves the filtered listing when filter is non-empty and the
// given page otherwise. Any failure is returned as *InternalError.
func (o *Orchestrator) Listing(ctx context.Context, page int, filter string) (Listing, error) {
	if filter != "" {
		return o.ResolveFiltered(ctx, filter)
	}
	return o.ResolvePage(ctx, page)
}

// ResolveFiltered resolves every character whose name matches name.
// Results are not cached. A non-empty result always reports one page.
func (o *Orchestrator) ResolveFiltered(ctx context.Context, name string) (Listing, error) {
	refs, err := o.upstream.SearchPeople(ctx, name)
	if errors.Is(err, swapi.ErrUnexpectedShape) {
		logging.L(ctx).Warn("search result is not a list", zap.String("filter", name), zap.Error(err))
		return emptyListing(), nil
	}
	if err != nil {
		return Listing{}, o.fail(ctx, fmt.Errorf("search %q: %w", name, err))
	}
	if len(refs) == 0 {
		return emptyListing(), nil
	}

	characters, err := o.resolveAll(ctx, refs)
	if err != nil {
		return Listing{}, o.fail(ctx, err)
	}
	return Listing{Characters: characters, TotalPages: 1}, nil
}

// ResolvePage resolves one page of the listing. A resolved page is cached
// without expiration and returned verbatim on later calls.
func (o *Orchestrator) ResolvePage(ctx context.Context, page int) (Listing, error) {
	if page < 1 {
		return Listing{}, o.fail(ctx, fmt.Errorf("invalid page %d", page))
	}

	key := cache.PageKey(page)
	if l, ok := o.cachedPage(ctx, key); ok {
		logging.L(ctx).Debug("page cache hit", zap.Int("page", page))
		return l, nil
	}

	logging.L(ctx).Debug("page cache miss", zap.Int("page", page))

	res, err := o.upstream.ListPeople(ctx, page, o.pageSize)
	if errors.Is(err, swapi.ErrUnexpectedShape) {
		logging.L(ctx).Warn("page result is not a list", zap.Int("page", page), zap.Error(err))
		return emptyListing(), nil
	}
	if err != nil {
		return Listing{}, o.fail(ctx, fmt.Errorf("list page %d: %w", page, err))
	}

	characters, err := o.resolveAll(ctx, res.Results)
	if err != nil {
		return Listing{}, o.fail(ctx, err)
	}

	l := Listing{Characters: characters, TotalPages: res.TotalPages}
	storeJSON(ctx, o.store, key, l, cache.NoExpiration)
	return l, nil
}

// resolveAll resolves refs concurrently and returns the characters in the
// same order. The first failure cancels the rest and fails the whole call.
func (o *Orchestrator) resolveAll(ctx context.Context, refs []swapi.PersonRef) ([]Character, error) {
	out := make([]Character, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	if o.fanout > 0 {
		g.SetLimit(o.fanout)
	}

	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			c, err := o.resolver.Resolve(gctx, ref.UID)
			if err != nil {
				return fmt.Errorf("resolve character %s: %w", ref.UID, err)
			}
			out[i] = c
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (o *Orchestrator) cachedPage(ctx context.Context, key string) (Listing, bool) {
	raw, hit, err := o.store.Get(ctx, key)
	if err != nil {
		logging.L(ctx).Warn("page cache get failed", zap.String("key", key), zap.Error(err))
		return Listing{}, false
	}
	if !hit {
		return Listing{}, false
	}

	var l Listing
	if err := json.Unmarshal(raw, &l); err != nil {
		logging.L(ctx).Warn("page cache unmarshal failed", zap.String("key", key), zap.Error(err))
		return Listing{}, false
	}
	if l.Characters == nil {
		l.Characters = []Character{}
	}
	return l, true
}

func (o *Orchestrator) fail(ctx context.Context, err error) error {
	logging.L(ctx).Error("failed to fetch listing", zap.Error(err))
	return &InternalError{Err: err}
}

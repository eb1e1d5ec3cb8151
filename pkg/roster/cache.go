package roster

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

// Source lists crews and personnel. An empty role lists everyone.
type Source interface {
	ListRoster(ctx context.Context, role model.Role) ([]model.Resource, error)
}

// CachedSource memoises roster lookups per role for a fixed TTL.
// Failed lookups are not cached.
type CachedSource struct {
	source Source
	cache  *cache.Cache
	logger *zap.Logger
}

// NewCachedSource wraps source with a TTL cache
func NewCachedSource(source Source, ttl time.Duration, logger *zap.Logger) *CachedSource {
	return &CachedSource{
		source: source,
		cache:  cache.New(ttl, 2*ttl),
		logger: logger,
	}
}

// WithCache wraps source in a CachedSource unless ttl is not positive.
// go-cache treats a zero TTL as "never expire", so zero disables caching instead.
func WithCache(source Source, ttl time.Duration, logger *zap.Logger) Source {
	if ttl <= 0 {
		return source
	}
	return NewCachedSource(source, ttl, logger)
}

// ListRoster returns a copy of the cached roster for role, loading it on a miss
func (c *CachedSource) ListRoster(ctx context.Context, role model.Role) ([]model.Resource, error) {
	key := cacheKey(role)
	if cached, found := c.cache.Get(key); found {
		return slices.Clone(cached.([]model.Resource)), nil
	}

	resources, err := c.source.ListRoster(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	c.cache.Set(key, slices.Clone(resources), cache.DefaultExpiration)
	c.logger.Debug("Cached roster",
		zap.String("role", string(role)),
		zap.Int("resources", len(resources)))

	return resources, nil
}

// Invalidate drops every cached roster
func (c *CachedSource) Invalidate() {
	c.cache.Flush()
}

func cacheKey(role model.Role) string {
	if role == "" {
		return "roster:all"
	}
	return "roster:" + string(role)
}

package activity

import (
	"context"
	"strings"
	"time"

	"github.com/newhook/outlook/internal/cachemanager"
)

// Cached wraps an Analyzer and memoizes successful answers for a TTL, so
// repeated CLI calls in watch mode do not re-read git history.
type Cached struct {
	inner        Analyzer
	insights     cachemanager.CacheManager[int, TeamInsights]
	quality      cachemanager.CacheManager[int, QualityTrends]
	productivity cachemanager.CacheManager[string, Productivity]
}

var _ Analyzer = (*Cached)(nil)

// NewCached wraps inner with a cache of the given TTL.
func NewCached(inner Analyzer, ttl time.Duration) *Cached {
	return &Cached{
		inner:        inner,
		insights:     cachemanager.NewInMemoryCacheManager[int, TeamInsights]("team-insights", ttl, cachemanager.DefaultCleanupInterval),
		quality:      cachemanager.NewInMemoryCacheManager[int, QualityTrends]("quality-trends", ttl, cachemanager.DefaultCleanupInterval),
		productivity: cachemanager.NewInMemoryCacheManager[string, Productivity]("productivity", ttl, cachemanager.DefaultCleanupInterval),
	}
}

// TeamInsights implements Analyzer.
func (c *Cached) TeamInsights(ctx context.Context, windowDays int) (TeamInsights, error) {
	if v, ok := c.insights.Get(ctx, windowDays); ok {
		return v, nil
	}
	v, err := c.inner.TeamInsights(ctx, windowDays)
	if err != nil {
		return v, err
	}
	c.insights.Set(ctx, windowDays, v, cachemanager.DefaultExpiration)
	return v, nil
}

// QualityTrends implements Analyzer.
func (c *Cached) QualityTrends(ctx context.Context, windowDays int) (QualityTrends, error) {
	if v, ok := c.quality.Get(ctx, windowDays); ok {
		return v, nil
	}
	v, err := c.inner.QualityTrends(ctx, windowDays)
	if err != nil {
		return v, err
	}
	c.quality.Set(ctx, windowDays, v, cachemanager.DefaultExpiration)
	return v, nil
}

// ContributorProductivity implements Analyzer.
func (c *Cached) ContributorProductivity(ctx context.Context, name string) (Productivity, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if v, ok := c.productivity.Get(ctx, key); ok {
		return v, nil
	}
	v, err := c.inner.ContributorProductivity(ctx, name)
	if err != nil {
		return v, err
	}
	c.productivity.Set(ctx, key, v, cachemanager.DefaultExpiration)
	return v, nil
}

// Flush drops every cached answer.
func (c *Cached) Flush(ctx context.Context) error {
	if err := c.insights.Flush(ctx); err != nil {
		return err
	}
	if err := c.quality.Flush(ctx); err != nil {
		return err
	}
	return c.productivity.Flush(ctx)
}

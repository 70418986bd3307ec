// Package cachemanager provides a typed in-process cache on top of go-cache.
package cachemanager

import (
	"context"
	"fmt"
	"time"

	"github.com/newhook/outlook/internal/logging"
	"github.com/patrickmn/go-cache"
)

const (
	// DefaultExpiration tells Set to use the cache's default TTL.
	DefaultExpiration = cache.DefaultExpiration
	// NoExpiration stores an entry until it is deleted.
	NoExpiration = cache.NoExpiration
	// DefaultCleanupInterval is how often expired entries are purged.
	DefaultCleanupInterval = 30 * time.Minute
)

// CacheManager is a typed key/value cache.
type CacheManager[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Flush(ctx context.Context) error
}

// InMemoryCacheManager implements CacheManager with go-cache. It is safe for
// concurrent use.
type InMemoryCacheManager[K comparable, V any] struct {
	name  string
	cache *cache.Cache
}

var _ CacheManager[string, int] = (*InMemoryCacheManager[string, int])(nil)

// NewInMemoryCacheManager creates a cache whose entries expire after
// defaultExpiration unless Set is given an explicit TTL.
func NewInMemoryCacheManager[K comparable, V any](name string, defaultExpiration, cleanupInterval time.Duration) *InMemoryCacheManager[K, V] {
	return &InMemoryCacheManager[K, V]{
		name:  name,
		cache: cache.New(defaultExpiration, cleanupInterval),
	}
}

func (m *InMemoryCacheManager[K, V]) key(k K) string {
	return fmt.Sprint(k)
}

// Get returns the cached value for key.
func (m *InMemoryCacheManager[K, V]) Get(ctx context.Context, key K) (V, bool) {
	var zero V
	raw, ok := m.cache.Get(m.key(key))
	if !ok {
		return zero, false
	}
	v, ok := raw.(V)
	if !ok {
		logging.WarnContext(ctx, "cache entry has unexpected type", "cache", m.name, "key", m.key(key))
		return zero, false
	}
	return v, true
}

// Set stores value under key for ttl.
func (m *InMemoryCacheManager[K, V]) Set(_ context.Context, key K, value V, ttl time.Duration) {
	m.cache.Set(m.key(key), value, ttl)
}

// Flush removes every entry.
func (m *InMemoryCacheManager[K, V]) Flush(_ context.Context) error {
	m.cache.Flush()
	return nil
}

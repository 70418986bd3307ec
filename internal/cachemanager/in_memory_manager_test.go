package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewInMemoryCacheManager(t *testing.T) {
	require.NotPanics(t, func() {
		NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	})
}

type exampleStruct struct {
	ID   int
	Name string
}

func TestInMemoryCacheManager_GetExistingValue_StructType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, exampleStruct]("insights", time.Minute, DefaultCleanupInterval)
	example := exampleStruct{ID: 1, Name: "alpha"}
	cache.Set(context.Background(), "ex:1", example, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "ex:1")
	require.True(t, ok)
	require.Equal(t, example, got)
}

func TestInMemoryCacheManager_GetMissing(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("insights", time.Minute, DefaultCleanupInterval)

	got, ok := cache.Get(context.Background(), "missing")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetWithInvalidValueType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("insights", time.Minute, DefaultCleanupInterval)
	cache.cache.Set("k", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "k")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_IntKeys(t *testing.T) {
	cache := NewInMemoryCacheManager[int, string]("windows", time.Minute, DefaultCleanupInterval)
	cache.Set(context.Background(), 30, "thirty", DefaultExpiration)

	got, ok := cache.Get(context.Background(), 30)
	require.True(t, ok)
	require.Equal(t, "thirty", got)
}

func TestInMemoryCacheManager_Expiry(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, string]("insights", time.Minute, DefaultCleanupInterval)
	cache.Set(ctx, "short", "v", 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	_, ok := cache.Get(ctx, "short")
	require.False(t, ok, "entry should have expired")
}

func TestInMemoryCacheManager_Flush(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, string]("insights", time.Minute, DefaultCleanupInterval)
	cache.Set(ctx, "a", "1", DefaultExpiration)
	cache.Set(ctx, "b", "2", NoExpiration)

	require.NoError(t, cache.Flush(ctx))
	_, ok := cache.Get(ctx, "a")
	require.False(t, ok)
	_, ok = cache.Get(ctx, "b")
	require.False(t, ok)
}

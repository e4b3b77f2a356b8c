package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCacheGetSet(t *testing.T) {
	cache, err := NewSearchCache[string](10, time.Minute)
	require.NoError(t, err)

	_, ok := cache.Get("missing")
	assert.False(t, ok)

	cache.Set("q", "result")
	got, ok := cache.Get("q")
	assert.True(t, ok)
	assert.Equal(t, "result", got)
}

func TestSearchCacheExpiry(t *testing.T) {
	cache, err := NewSearchCache[int](10, 10*time.Millisecond)
	require.NoError(t, err)

	cache.Set("q", 42)
	time.Sleep(30 * time.Millisecond)

	_, ok := cache.Get("q")
	assert.False(t, ok)
	// expired entries are evicted on read
	assert.Zero(t, cache.Len())
}

func TestSearchCacheBound(t *testing.T) {
	cache, err := NewSearchCache[int](2, time.Minute)
	require.NoError(t, err)

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("c", 3)

	// the oldest entry is evicted once the LRU bound is hit
	assert.Equal(t, 2, cache.Len())
	_, ok := cache.Get("a")
	assert.False(t, ok)
	got, ok := cache.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 3, got)
}

func TestSearchCachePurge(t *testing.T) {
	cache, err := NewSearchCache[int](10, time.Minute)
	require.NoError(t, err)

	cache.Set("a", 1)
	cache.Purge()
	assert.Zero(t, cache.Len())
}

package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCache_SetGet(t *testing.T) {
	cache := NewMemoryCache()

	assert.NoError(t, cache.Set("k", "v", 0))

	got, ok := cache.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestMemoryCache_Miss(t *testing.T) {
	cache := NewMemoryCache()

	_, ok := cache.Get("missing")
	assert.False(t, ok)
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	cache := NewMemoryCache()

	assert.NoError(t, cache.Set("k", "v", 10*time.Millisecond))

	_, ok := cache.Get("k")
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	_, ok = cache.Get("k")
	assert.False(t, ok)
}

func TestMemoryCache_Overwrite(t *testing.T) {
	cache := NewMemoryCache()

	assert.NoError(t, cache.Set("k", "old", 0))
	assert.NoError(t, cache.Set("k", "new", 0))

	got, ok := cache.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "new", got)
}

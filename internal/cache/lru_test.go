package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	_, _ = c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Size())
}

func TestLRUCache_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[string](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	now = now.Add(2 * time.Minute)

	_, ok := c.Get("k")
	assert.False(t, ok)

	c.Set("k1", "v")
	c.Set("k2", "v")
	now = now.Add(2 * time.Minute)
	assert.Equal(t, 2, c.CleanExpired())
	assert.Equal(t, 0, c.Size())
}

func TestLRUCache_DeletePrefix(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)
	c.Set("analytics:alice:category", 1)
	c.Set("analytics:alice:daily", 2)
	c.Set("analytics:bob:daily", 3)

	assert.Equal(t, 2, c.DeletePrefix("analytics:alice:"))
	_, ok := c.Get("analytics:bob:daily")
	assert.True(t, ok)
	assert.Equal(t, 1, c.Size())
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10, time.Minute)

	require.NoError(t, s.Set(ctx, "p:1", []byte("x")))
	v, ok, err := s.Get(ctx, "p:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("x"), v)

	require.NoError(t, s.DeletePrefix(ctx, "p:"))
	_, ok, err = s.Get(ctx, "p:1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManager_StartStop(t *testing.T) {
	m := NewManager()
	m.Register(NewMemoryStore(1, time.Millisecond))
	m.StartCleanup(time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	m.Stop()
}

func TestLRUCache_AsCache(t *testing.T) {
	var c Cache[struct{}] = NewLRUCache[struct{}](2, time.Minute)

	c.Set("e1", struct{}{})
	c.Set("e2", struct{}{})
	c.Set("e3", struct{}{})

	_, ok := c.Get("e1")
	assert.False(t, ok, "oldest id evicted")
	_, ok = c.Get("e3")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Size())

	c.Delete("e3")
	assert.Equal(t, 1, c.Size())
}

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryStore_GetSetRemove(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var out testDoc
	found, err := store.Get(ctx, "missing", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "doc", testDoc{Name: "a", Count: 3}))

	found, err = store.Get(ctx, "doc", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, testDoc{Name: "a", Count: 3}, out)

	// Overwrite replaces the whole document.
	require.NoError(t, store.Set(ctx, "doc", testDoc{Name: "b"}))
	found, err = store.Get(ctx, "doc", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, testDoc{Name: "b"}, out)

	require.NoError(t, store.Remove(ctx, "doc"))
	found, err = store.Get(ctx, "doc", &out)
	require.NoError(t, err)
	assert.False(t, found)

	// Removing an absent key is a no-op.
	require.NoError(t, store.Remove(ctx, "doc"))
}

func TestMemoryStore_Keys(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "sq:alice:points", testDoc{}))
	require.NoError(t, store.Set(ctx, "sq:alice:streak", testDoc{}))
	require.NoError(t, store.Set(ctx, "sq:bob:points", testDoc{}))
	require.NoError(t, store.Set(ctx, "other:key", testDoc{}))

	keys, err := store.Keys(ctx, "sq:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"sq:alice:points", "sq:alice:streak", "sq:bob:points"}, keys)

	keys, err = store.Keys(ctx, "nope:")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestCachedStore_WriteThrough(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	cached := NewCachedStore(inner, 16, time.Minute)

	require.NoError(t, cached.Set(ctx, "doc", testDoc{Name: "a"}))

	// The write reached the backing store, not just the cache.
	var fromInner testDoc
	found, err := inner.Get(ctx, "doc", &fromInner)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "a", fromInner.Name)

	var out testDoc
	found, err = cached.Get(ctx, "doc", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "a", out.Name)
}

func TestCachedStore_ServesFromCache(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	cached := NewCachedStore(inner, 16, time.Minute)

	require.NoError(t, cached.Set(ctx, "doc", testDoc{Name: "a"}))

	// Mutate the backing store behind the cache's back: the cached
	// value wins until eviction.
	require.NoError(t, inner.Set(ctx, "doc", testDoc{Name: "stale?"}))

	var out testDoc
	found, err := cached.Get(ctx, "doc", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "a", out.Name)
}

func TestCachedStore_RemoveEvicts(t *testing.T) {
	ctx := context.Background()
	cached := NewCachedStore(NewMemoryStore(), 16, time.Minute)

	require.NoError(t, cached.Set(ctx, "doc", testDoc{Name: "a"}))
	require.NoError(t, cached.Remove(ctx, "doc"))

	var out testDoc
	found, err := cached.Get(ctx, "doc", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCachedStore_KeysDelegates(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	cached := NewCachedStore(inner, 16, time.Minute)

	require.NoError(t, cached.Set(ctx, "sq:alice:points", testDoc{}))

	keys, err := cached.Keys(ctx, "sq:")
	require.NoError(t, err)
	assert.Equal(t, []string{"sq:alice:points"}, keys)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "sq:alice:inventory", KeyInventory("alice"))
	assert.Equal(t, "sq:alice:equipped", KeyEquipped("alice"))
	assert.Equal(t, "sq:alice:points", KeyPoints("alice"))
	assert.Equal(t, "sq:alice:level", KeyLevel("alice"))
	assert.Equal(t, "sq:alice:quests", KeyQuests("alice"))
	assert.Equal(t, "sq:alice:resets", KeyResets("alice"))
	assert.Equal(t, "sq:alice:streak", KeyStreak("alice"))
	assert.Equal(t, "sq:alice:attendance", KeyAttendance("alice"))
}

func TestUserIDFromKey(t *testing.T) {
	assert.Equal(t, "alice", UserIDFromKey("sq:alice:points"))
	assert.Equal(t, "", UserIDFromKey("other:alice:points"))
	assert.Equal(t, "", UserIDFromKey("sq:alice"))
	assert.Equal(t, "", UserIDFromKey(""))
}

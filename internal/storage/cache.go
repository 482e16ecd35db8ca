package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CachedStore wraps a Store with an expiring LRU read cache. Writes go
// through to the backing store and update the cache; reads hit the
// cache first. Safe because the engine is the single writer for a
// user's keys.
type CachedStore struct {
	inner Store
	cache *expirable.LRU[string, json.RawMessage]
}

// NewCachedStore wraps inner with an LRU of the given size and TTL.
func NewCachedStore(inner Store, size int, ttl time.Duration) *CachedStore {
	return &CachedStore{
		inner: inner,
		cache: expirable.NewLRU[string, json.RawMessage](size, nil, ttl),
	}
}

// Get serves from the cache when possible, falling back to the backing
// store and populating the cache on a hit.
func (s *CachedStore) Get(ctx context.Context, key string, out any) (bool, error) {
	if raw, ok := s.cache.Get(key); ok {
		if err := json.Unmarshal(raw, out); err != nil {
			return false, err
		}
		return true, nil
	}

	raw := json.RawMessage{}
	found, err := s.inner.Get(ctx, key, &raw)
	if err != nil || !found {
		return false, err
	}

	s.cache.Add(key, raw)
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

// Set writes through to the backing store and refreshes the cache.
func (s *CachedStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := s.inner.Set(ctx, key, json.RawMessage(raw)); err != nil {
		return err
	}
	s.cache.Add(key, raw)
	return nil
}

// Keys delegates to the backing store when it supports listing.
func (s *CachedStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	if lister, ok := s.inner.(Lister); ok {
		return lister.Keys(ctx, prefix)
	}
	return nil, nil
}

// Remove deletes from the backing store and evicts the cache entry.
func (s *CachedStore) Remove(ctx context.Context, key string) error {
	if err := s.inner.Remove(ctx, key); err != nil {
		return err
	}
	s.cache.Remove(key)
	return nil
}

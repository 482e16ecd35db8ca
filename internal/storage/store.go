// Package storage defines the key-value persistence contract the engine
// runs against, plus the in-memory implementation and a read-through
// cache. All engine state is addressed by stable string keys scoped to
// one user; values are JSON documents.
package storage

import "context"

// Store is the key-value persistence collaborator. Get decodes the
// stored JSON document into out and reports whether the key existed.
// Implementations must be safe for concurrent use; the engine
// serializes read-modify-write cycles per user above this layer.
type Store interface {
	Get(ctx context.Context, key string, out any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Remove(ctx context.Context, key string) error
}

// Lister is implemented by stores that can enumerate keys. The reset
// sweep uses it to find users with persisted state.
type Lister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}

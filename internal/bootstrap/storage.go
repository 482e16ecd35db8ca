package bootstrap

import (
	"context"
	"fmt"

	"github.com/safequest/engine/internal/config"
	"github.com/safequest/engine/internal/database"
	"github.com/safequest/engine/internal/logger"
	"github.com/safequest/engine/internal/storage"
)

// StateStore bundles the configured store with its backend handle.
// Pool is nil for the in-memory backend.
type StateStore struct {
	Store storage.Store
	Pool  database.Pool

	close func()
}

// Close releases the backend, if any.
func (s *StateStore) Close() {
	if s.close != nil {
		s.close()
	}
}

// InitializeStore builds the state store selected by STORAGE_BACKEND.
// The Postgres path runs embedded migrations first; both paths wrap
// the store in the expiring LRU read cache.
func InitializeStore(ctx context.Context, cfg *config.Config) (*StateStore, error) {
	switch cfg.StorageBackend {
	case "memory":
		logger.Info(LogMsgStoreInitialized, "backend", "memory")
		return &StateStore{
			Store: storage.NewCachedStore(storage.NewMemoryStore(), cfg.StateCacheSize, cfg.StateCacheTTL),
		}, nil

	case "postgres":
		connString := cfg.GetDBConnString()
		if err := database.Migrate(ctx, connString); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		pool, err := database.NewPool(connString,
			database.DefaultMaxConnections,
			database.DefaultMaxIdleTime,
			database.DefaultMaxLifetime)
		if err != nil {
			return nil, fmt.Errorf("failed to create database pool: %w", err)
		}

		logger.Info(LogMsgStoreInitialized, "backend", "postgres", "host", cfg.DBHost, "db", cfg.DBName)
		return &StateStore{
			Store: storage.NewCachedStore(database.NewKVStore(pool), cfg.StateCacheSize, cfg.StateCacheTTL),
			Pool:  pool,
			close: pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
	}
}

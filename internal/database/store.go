package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// KVStore implements storage.Store on top of a single engine_state
// table with a JSONB value column. One row per state key.
type KVStore struct {
	db *pgxpool.Pool
}

// NewKVStore creates a KVStore backed by the given pool.
func NewKVStore(db *pgxpool.Pool) *KVStore {
	return &KVStore{db: db}
}

// Get fetches and decodes the document stored under key.
func (s *KVStore) Get(ctx context.Context, key string, out any) (bool, error) {
	var raw []byte
	err := s.db.QueryRow(ctx,
		`SELECT state_value FROM engine_state WHERE state_key = $1`, key,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read state %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("failed to decode state %s: %w", key, err)
	}
	return true, nil
}

// Set upserts the document stored under key.
func (s *KVStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode state %s: %w", key, err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO engine_state (state_key, state_value, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (state_key)
		 DO UPDATE SET state_value = EXCLUDED.state_value, updated_at = now()`,
		key, raw,
	)
	if err != nil {
		return fmt.Errorf("failed to write state %s: %w", key, err)
	}
	return nil
}

// Keys returns all state keys with the given prefix.
func (s *KVStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT state_key FROM engine_state WHERE state_key LIKE $1 || '%'`, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list state keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan state key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Remove deletes the document stored under key.
func (s *KVStore) Remove(ctx context.Context, key string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM engine_state WHERE state_key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to remove state %s: %w", key, err)
	}
	return nil
}

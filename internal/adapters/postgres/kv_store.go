package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/globeview/internal/core/domain"
)

// KVStore implements ports.KeyValueStore on the kv_store table.
type KVStore struct {
	db *DB
}

func NewKVStore(db *DB) *KVStore {
	return &KVStore{db: db}
}

func (r *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.Pool.QueryRow(ctx, `
		SELECT value FROM kv_store WHERE key = $1
	`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv get %q: %w", key, err)
	}
	return value, nil
}

func (r *KVStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, key, value)
	if err != nil {
		return fmt.Errorf("kv put %q: %w", key, err)
	}
	return nil
}

func (r *KVStore) Delete(ctx context.Context, key string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

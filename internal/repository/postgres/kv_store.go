package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ThanhNhiet/KLTN2025-Nhom043-SoLienLacDienTu-sub004/internal/domain"

	"github.com/lib/pq"
)

// DefaultKVTable is the table used when NewKVStore is given an empty name.
const DefaultKVTable = "kv_store"

// KVStore keeps string values in a two-column table:
//
//	CREATE TABLE kv_store (key TEXT PRIMARY KEY, value TEXT NOT NULL, updated_at TIMESTAMPTZ NOT NULL);
type KVStore struct {
	DB    *sql.DB
	table string
}

func NewKVStore(db *sql.DB, table string) domain.KeyValueStore {
	if table == "" {
		table = DefaultKVTable
	}
	return &KVStore{
		DB:    db,
		table: pq.QuoteIdentifier(table),
	}
}

func (r *KVStore) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM ` + r.table + ` WHERE key = $1`
	var value string
	if err := r.DB.QueryRowContext(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrKeyNotFound
		}
		return "", err
	}
	return value, nil
}

func (r *KVStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO ` + r.table + ` (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	_, err := r.DB.ExecContext(ctx, query, key, value, time.Now().UTC())
	return err
}

func (r *KVStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM ` + r.table + ` WHERE key = $1`
	_, err := r.DB.ExecContext(ctx, query, key)
	return err
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const kvSchema = `CREATE TABLE IF NOT EXISTS kv_store (
	name TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// SQLKeyValue keeps documents in a single kv_store table. It works with any
// sqlx driver that understands ON CONFLICT upserts (postgres, sqlite).
type SQLKeyValue struct {
	db *sqlx.DB
}

// NewSQLKeyValue constructs the repository.
func NewSQLKeyValue(db *sqlx.DB) *SQLKeyValue {
	return &SQLKeyValue{db: db}
}

// EnsureSchema creates the kv_store table when missing.
func (r *SQLKeyValue) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, kvSchema); err != nil {
		return fmt.Errorf("create kv_store: %w", err)
	}
	return nil
}

// Get returns the stored payload for name.
func (r *SQLKeyValue) Get(ctx context.Context, name string) ([]byte, bool, error) {
	query := r.db.Rebind(`SELECT payload FROM kv_store WHERE name = ?`)
	var payload string
	if err := r.db.GetContext(ctx, &payload, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get %s: %w", name, err)
	}
	return []byte(payload), true, nil
}

// Set upserts the payload for name.
func (r *SQLKeyValue) Set(ctx context.Context, name string, data []byte) error {
	query := r.db.Rebind(`INSERT INTO kv_store (name, payload, updated_at) VALUES (?, ?, ?)
ON CONFLICT (name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`)
	if _, err := r.db.ExecContext(ctx, query, name, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	return nil
}

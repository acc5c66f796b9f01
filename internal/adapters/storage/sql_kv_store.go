package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"place-picker-service/internal/platform/obs"
	"strings"
)

// SQLKeyValueStore is a Postgres-backed key-value store on the kv_store table.
type SQLKeyValueStore struct {
	DB *sql.DB
}

func NewSQLKeyValueStore(db *sql.DB) *SQLKeyValueStore {
	return &SQLKeyValueStore{DB: db}
}

// Fetch the value stored under key.
func (s *SQLKeyValueStore) Get(ctx context.Context, key string) (_ string, _ bool, err error) {
	defer obs.Time(ctx, "kv.sql.Get")(&err)

	if s.DB == nil {
		return "", false, errors.New("kv store: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return "", false, errors.New("get kv entry: key must not be empty")
	}

	q := `
	SELECT entry_value
    FROM kv_store
    WHERE entry_key = $1;
	`

	var value string
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get kv entry %q: query kv_store table: %w", key, err)
	}

	return value, true, nil
}

// Store value under key, replacing any previous value.
func (s *SQLKeyValueStore) Set(ctx context.Context, key string, value string) (err error) {
	defer obs.Time(ctx, "kv.sql.Set")(&err)

	if s.DB == nil {
		return errors.New("kv store: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("insert kv entry: key must not be empty")
	}

	if _, err := s.DB.ExecContext(ctx, `
	INSERT INTO kv_store (entry_key, entry_value, updated_at)
    VALUES ($1, $2, now())
	ON CONFLICT (entry_key) DO UPDATE
	SET entry_value = EXCLUDED.entry_value,
		updated_at = EXCLUDED.updated_at;
	`, key, value); err != nil {
		return fmt.Errorf("insert kv entry %q: %w", key, err)
	}

	return nil
}

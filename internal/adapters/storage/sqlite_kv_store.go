package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"place-picker-service/internal/platform/obs"
	"strings"
)

// SQLite backed key-value store on the kv_store table.
type SqliteKeyValueStore struct {
	DB *sql.DB
}

func NewSqliteKeyValueStore(db *sql.DB) *SqliteKeyValueStore {
	return &SqliteKeyValueStore{DB: db}
}

// Fetch the value stored under key.
func (s *SqliteKeyValueStore) Get(ctx context.Context, key string) (_ string, _ bool, err error) {
	defer obs.Time(ctx, "kv.sqlite.Get")(&err)

	if s.DB == nil {
		return "", false, errors.New("sqlite kv store: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return "", false, errors.New("get kv entry: key must not be empty")
	}

	var value string
	err = s.DB.QueryRowContext(ctx, `
	SELECT entry_value
    FROM kv_store
    WHERE entry_key = ?;
	`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get kv entry %q: query kv_store table: %w", key, err)
	}

	return value, true, nil
}

// Store value under key, replacing any previous value.
func (s *SqliteKeyValueStore) Set(ctx context.Context, key string, value string) (err error) {
	defer obs.Time(ctx, "kv.sqlite.Set")(&err)

	if s.DB == nil {
		return errors.New("sqlite kv store: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("insert kv entry: key must not be empty")
	}

	if _, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO kv_store (
        entry_key,
        entry_value,
        updated_at
    )
    VALUES (?, ?, CURRENT_TIMESTAMP);
	`, key, value); err != nil {
		return fmt.Errorf("insert kv entry %q: %w", key, err)
	}

	return nil
}

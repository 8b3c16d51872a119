package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const schema = `CREATE TABLE IF NOT EXISTS snapshots (
	key      VARCHAR PRIMARY KEY,
	body     VARCHAR NOT NULL,
	saved_at TIMESTAMP NOT NULL
)`

// DuckStore keeps the snapshot in a DuckDB table, one row per key.
type DuckStore struct {
	db  *sql.DB
	key string
	now func() time.Time
}

// NewDuckStore creates the snapshots table if needed.
func NewDuckStore(ctx context.Context, db *sql.DB) (*DuckStore, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}
	return &DuckStore{db: db, key: Key, now: time.Now}, nil
}

// Save overwrites the snapshot row.
func (s *DuckStore) Save(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO snapshots (key, body, saved_at) VALUES (?, ?, ?)`,
		s.key, string(data), s.now().UTC())
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load returns the snapshot.
func (s *DuckStore) Load(ctx context.Context) ([]byte, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM snapshots WHERE key = ?`, s.key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return []byte(body), nil
}

// SavedAt returns when the snapshot was last written.
func (s *DuckStore) SavedAt(ctx context.Context) (time.Time, error) {
	var at time.Time
	err := s.db.QueryRowContext(ctx, `SELECT saved_at FROM snapshots WHERE key = ?`, s.key).Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrEmpty
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("snapshot time: %w", err)
	}
	return at, nil
}

package kv

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"greenpulse/internal/eventbus"

	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

const schemaKV = `
CREATE TABLE IF NOT EXISTS kv_store (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`

const (
	selectValueSQL = `SELECT value FROM kv_store WHERE key = ?`
	upsertValueSQL = `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at
	`
	deleteValueSQL = `DELETE FROM kv_store WHERE key = ?`
)

// Store is a persistent flat key-value namespace with JSON-encoded values.
// All writes of this process go through one Store, so read-modify-write
// sequences done via Update are serialized by a single owner instead of
// racing last-write-wins like shared browser storage would.
type Store struct {
	db  *sql.DB
	bus *eventbus.Bus // optional; change notifications

	mu sync.Mutex // serializes Update read-modify-write
}

// Open opens/creates the SQLite file backing the namespace and ensures the
// schema exists.
func Open(path string, bus *eventbus.Bus) (*Store, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// Single writer; SQLite is not great with many
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaKV); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply kv schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return New(db, bus), nil
}

// New wraps an already-open database handle. Used by tests.
func New(db *sql.DB, bus *eventbus.Bus) *Store {
	return &Store{db: db, bus: bus}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get decodes the value stored under key into dst and reports whether the key
// was present. A stored value that fails to decode is treated as absent, the
// same as corrupted browser storage would be.
func (s *Store) Get(ctx context.Context, key string, dst any) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, selectValueSQL, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("select key %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, nil // corrupt value reads as absent
	}
	return true, nil
}

// Set stores v under key, JSON-encoded, and announces the change.
func (s *Store) Set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode value for key %q: %w", key, err)
	}
	if _, err := s.db.ExecContext(ctx, upsertValueSQL, key, string(b), time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert key %q: %w", key, err)
	}
	s.publish(key, false)
	return nil
}

// Delete removes key and announces the removal. Deleting an absent key is not
// an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, deleteValueSQL, key); err != nil {
		return fmt.Errorf("delete key %q: %w", key, err)
	}
	s.publish(key, true)
	return nil
}

// Update performs a serialized read-modify-write on key. fn receives the raw
// stored JSON (nil when absent or corrupt) and returns the new value to
// store.
func (s *Store) Update(ctx context.Context, key string, fn func(raw []byte) (any, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var raw []byte
	var cur string
	err := s.db.QueryRowContext(ctx, selectValueSQL, key).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// leave raw nil
	case err != nil:
		return fmt.Errorf("select key %q: %w", key, err)
	case json.Valid([]byte(cur)):
		raw = []byte(cur)
	}

	next, err := fn(raw)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, next)
}

func (s *Store) publish(key string, deleted bool) {
	if s.bus != nil {
		s.bus.Publish(eventbus.Event{Key: key, Deleted: deleted})
	}
}

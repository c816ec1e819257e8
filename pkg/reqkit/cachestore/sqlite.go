package cachestore

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists cached verdicts to SQLite.
// It is suitable for single-process use where cache contents should
// survive restarts.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore creates a new SQLite cache store.
// The path should be a file path (e.g., "./verdicts.db") or ":memory:"
// for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS verdicts (
			key TEXT PRIMARY KEY,
			confirmed INTEGER NOT NULL,
			code TEXT NOT NULL,
			message TEXT NOT NULL,
			inserted_at TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Put implements Store.
func (s *SQLiteStore) Put(key string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	confirmed := 0
	if e.Confirmed {
		confirmed = 1
	}

	_, err := s.db.Exec(`
		INSERT INTO verdicts (key, confirmed, code, message, inserted_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			confirmed = excluded.confirmed,
			code = excluded.code,
			message = excluded.message,
			inserted_at = excluded.inserted_at
	`, key, confirmed, e.Code, e.Message, e.InsertedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("put verdict: %w", err)
	}
	return nil
}

// Get implements Store.
func (s *SQLiteStore) Get(key string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Entry{}, false, ErrStoreClosed
	}

	var confirmed int
	var code, message, insertedAt string
	err := s.db.QueryRow(`
		SELECT confirmed, code, message, inserted_at
		FROM verdicts WHERE key = ?
	`, key).Scan(&confirmed, &code, &message, &insertedAt)
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("get verdict: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, insertedAt)
	if err != nil {
		return Entry{}, false, fmt.Errorf("parse timestamp: %w", err)
	}

	return Entry{
		Confirmed:  confirmed == 1,
		Code:       code,
		Message:    message,
		InsertedAt: ts,
	}, true, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.Exec("DELETE FROM verdicts WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete verdict: %w", err)
	}
	return nil
}

// Clear implements Store.
func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.Exec("DELETE FROM verdicts"); err != nil {
		return fmt.Errorf("clear verdicts: %w", err)
	}
	return nil
}

// Len implements Store.
func (s *SQLiteStore) Len() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, ErrStoreClosed
	}

	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM verdicts").Scan(&n); err != nil {
		return 0, fmt.Errorf("count verdicts: %w", err)
	}
	return n, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

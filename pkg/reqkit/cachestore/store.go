// Package cachestore provides pluggable verdict storage for the shared
// cache decorator.
package cachestore

import (
	"errors"
	"time"
)

// Store persists cached verdicts keyed by string.
// Implementations must be safe for concurrent use.
type Store interface {
	// Put stores an entry under key.
	// Overwrites if an entry for key already exists.
	Put(key string, e Entry) error

	// Get retrieves the entry for key.
	// The boolean result reports presence; absence is not an error.
	Get(key string) (Entry, bool, error)

	// Delete removes the entry for key.
	// Returns nil if the entry doesn't exist.
	Delete(key string) error

	// Clear removes every entry.
	Clear() error

	// Len returns the number of stored entries.
	Len() (int, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Entry is a stored verdict with its insertion time.
// The verdict is flattened so backends can persist it without
// depending on engine types.
type Entry struct {
	Confirmed  bool
	Code       string
	Message    string
	InsertedAt time.Time
}

// ErrStoreClosed indicates the store has been closed.
var ErrStoreClosed = errors.New("cache store closed")

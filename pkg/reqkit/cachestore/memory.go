package cachestore

import "sync"

// MemoryStore is an in-memory cache store.
// Data is lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
	closed  bool
}

// NewMemoryStore creates a new in-memory cache store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
	}
}

// Put implements Store.
func (m *MemoryStore) Put(key string, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	m.entries[key] = e
	return nil
}

// Get implements Store.
func (m *MemoryStore) Get(key string) (Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Entry{}, false, ErrStoreClosed
	}

	e, ok := m.entries[key]
	return e, ok, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.entries, key)
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	m.entries = make(map[string]Entry)
	return nil
}

// Len implements Store.
func (m *MemoryStore) Len() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return 0, ErrStoreClosed
	}

	return len(m.entries), nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.entries = nil
	return nil
}

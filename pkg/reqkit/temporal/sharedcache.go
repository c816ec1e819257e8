package temporal

import (
	"sync"
	"time"

	"github.com/cacich0/requirements-kit-sub000/pkg/reqkit"
	"github.com/cacich0/requirements-kit-sub000/pkg/reqkit/cachestore"
)

// KeyFunc derives the cache key for a context value.
// Equal contexts must map to equal keys.
type KeyFunc[C any] func(c C) string

// SharedCache wraps a requirement with a pluggable verdict store.
//
// Unlike Cache it does not require a comparable context type: the key
// function flattens the context to a string, and the store backend
// decides where entries live (in memory, or in SQLite when cached
// verdicts should survive a restart).
//
// A store read or write failure falls back to direct evaluation: the
// decorator degrades to a pass-through rather than surfacing storage
// faults as evaluation outcomes.
type SharedCache[C any] struct {
	mu    sync.Mutex
	req   reqkit.Requirement[C]
	keyFn KeyFunc[C]
	store cachestore.Store
	ttl   time.Duration
	now   func() time.Time
}

// SharedCacheOption configures a SharedCache.
type SharedCacheOption[C any] func(*SharedCache[C])

// WithSharedTTL sets the time-to-live for stored entries.
// Zero (the default) means entries never expire.
func WithSharedTTL[C any](d time.Duration) SharedCacheOption[C] {
	return func(c *SharedCache[C]) {
		c.ttl = d
	}
}

// WithSharedClock overrides the clock used for TTL checks. For tests.
func WithSharedClock[C any](now func() time.Time) SharedCacheOption[C] {
	return func(c *SharedCache[C]) {
		c.now = now
	}
}

// NewSharedCache creates a store-backed cache around the requirement.
//
// Panics if keyFn or store is nil.
func NewSharedCache[C any](req reqkit.Requirement[C], keyFn KeyFunc[C], store cachestore.Store, opts ...SharedCacheOption[C]) *SharedCache[C] {
	if keyFn == nil {
		panic("temporal: key function cannot be nil")
	}
	if store == nil {
		panic("temporal: store cannot be nil")
	}
	c := &SharedCache[C]{
		req:   req,
		keyFn: keyFn,
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Evaluate returns the stored verdict for the context's key, invoking
// the wrapped requirement only on a miss, TTL expiry, or store failure.
func (c *SharedCache[C]) Evaluate(ctx C) reqkit.Verdict {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.keyFn(ctx)
	now := c.now()

	e, ok, err := c.store.Get(key)
	if err == nil && ok && !(c.ttl > 0 && now.Sub(e.InsertedAt) >= c.ttl) {
		return entryVerdict(e)
	}

	v := c.req.Evaluate(ctx)
	// Best effort: a failed write just means the next call misses too.
	_ = c.store.Put(key, verdictEntry(v, now))
	return v
}

// Invalidate removes the entry for one context's key.
func (c *SharedCache[C]) Invalidate(ctx C) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Delete(c.keyFn(ctx))
}

// InvalidateAll clears the store.
func (c *SharedCache[C]) InvalidateAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Clear()
}

// entryVerdict rebuilds a verdict from its flattened stored form.
func entryVerdict(e cachestore.Entry) reqkit.Verdict {
	if e.Confirmed {
		return reqkit.Confirmed()
	}
	return reqkit.Failed(reqkit.NewReason(e.Code, e.Message))
}

// verdictEntry flattens a verdict for storage.
func verdictEntry(v reqkit.Verdict, at time.Time) cachestore.Entry {
	e := cachestore.Entry{Confirmed: v.IsConfirmed(), InsertedAt: at}
	if r, ok := v.Reason(); ok {
		e.Code = r.Code
		e.Message = r.Message
	}
	return e
}

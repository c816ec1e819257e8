package temporal

import (
	"sync"
	"time"

	"github.com/cacich0/requirements-kit-sub000/pkg/reqkit"
)

// cacheEntry holds one stored verdict.
type cacheEntry struct {
	verdict    reqkit.Verdict
	insertedAt time.Time
}

// Cache wraps a requirement and stores verdicts per context key.
//
// On a hit (key present and, if a TTL is configured, not expired) the
// stored verdict is returned without invoking the wrapped requirement.
// On a miss the requirement is invoked, the verdict stored, and
// returned. Entries without a TTL never expire except through explicit
// invalidation.
//
// The context type doubles as the cache key, so equal contexts map to
// the same slot. For non-comparable contexts use SharedCache.
//
// Cache is safe for concurrent use. The wrapped requirement is invoked
// while the cache's lock is held, so it runs at most once per key even
// under concurrent misses.
type Cache[C comparable] struct {
	mu         sync.Mutex
	req        reqkit.Requirement[C]
	entries    map[C]cacheEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// CacheOption configures a Cache.
type CacheOption[C comparable] func(*Cache[C])

// WithTTL sets the time-to-live for cached entries. An expired entry
// is replaced on the next evaluation of its key. Zero (the default)
// means entries never expire.
func WithTTL[C comparable](d time.Duration) CacheOption[C] {
	return func(c *Cache[C]) {
		c.ttl = d
	}
}

// WithMaxEntries bounds the cache size. When full, inserting a new key
// evicts the oldest entry. This is the growth-bounding substitute for
// weak-keyed eviction: an unreachable key's entry eventually ages out.
// Zero (the default) means unbounded.
func WithMaxEntries[C comparable](n int) CacheOption[C] {
	return func(c *Cache[C]) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithCacheClock overrides the clock used for TTL checks. For tests.
func WithCacheClock[C comparable](now func() time.Time) CacheOption[C] {
	return func(c *Cache[C]) {
		c.now = now
	}
}

// NewCache creates a cache around the given requirement.
func NewCache[C comparable](req reqkit.Requirement[C], opts ...CacheOption[C]) *Cache[C] {
	c := &Cache[C]{
		req:     req,
		entries: make(map[C]cacheEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Evaluate returns the cached verdict for the context, invoking the
// wrapped requirement only on a miss or TTL expiry.
func (c *Cache[C]) Evaluate(ctx C) reqkit.Verdict {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if e, ok := c.entries[ctx]; ok && !c.expired(e, now) {
		return e.verdict
	}

	v := c.req.Evaluate(ctx)
	c.insertLocked(ctx, cacheEntry{verdict: v, insertedAt: now})
	return v
}

// Invalidate removes the entry for one key. The next evaluation of
// that key re-invokes the wrapped requirement.
func (c *Cache[C]) Invalidate(ctx C) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, ctx)
}

// InvalidateAll clears the store.
func (c *Cache[C]) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[C]cacheEntry)
}

// Len returns the number of cached entries, including any that have
// expired but not yet been replaced.
func (c *Cache[C]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[C]) expired(e cacheEntry, now time.Time) bool {
	return c.ttl > 0 && now.Sub(e.insertedAt) >= c.ttl
}

// insertLocked stores an entry, evicting the oldest when over capacity.
// Caller must hold the lock.
func (c *Cache[C]) insertLocked(key C, e cacheEntry) {
	c.entries[key] = e

	if c.maxEntries == 0 || len(c.entries) <= c.maxEntries {
		return
	}

	var oldestKey C
	var oldestAt time.Time
	first := true
	for k, entry := range c.entries {
		if k == key {
			continue
		}
		if first || entry.insertedAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = entry.insertedAt
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}

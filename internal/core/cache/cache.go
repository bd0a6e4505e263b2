// Package cache provides a small keyed store that remembers when each value
// was written, so callers can decide whether it is still fresh.
package cache

import (
	"sync"
	"time"
)

// Entry is a cached value together with the time it was stored.
type Entry[V any] struct {
	StoredAt time.Time
	Value    V
}

// TimedCache maps keys to the last value written for them.
// There is no eviction: every write overwrites the previous entry for the key.
type TimedCache[V any] struct {
	entries map[string]Entry[V]
	now     func() time.Time
	mu      sync.RWMutex
}

// Option configures a TimedCache
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New creates an empty TimedCache
func New[V any](opts ...Option) *TimedCache[V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &TimedCache[V]{
		entries: make(map[string]Entry[V]),
		now:     o.now,
	}
}

// Get returns the entry stored for key, fresh or not.
func (c *TimedCache[V]) Get(key string) (Entry[V], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	return entry, ok
}

// Set records value for key with the current time.
func (c *TimedCache[V]) Set(key string, value V) {
	c.SetAt(key, value, c.now())
}

// SetAt records value for key as if it had been stored at storedAt.
// A storedAt in the future is clamped to now so StoredAt never runs ahead of the clock.
func (c *TimedCache[V]) SetAt(key string, value V, storedAt time.Time) {
	if now := c.now(); storedAt.After(now) {
		storedAt = now
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry[V]{Value: value, StoredAt: storedAt}
}

// IsFresh reports whether key has an entry younger than ttl.
func (c *TimedCache[V]) IsFresh(key string, ttl time.Duration) bool {
	entry, ok := c.Get(key)
	if !ok {
		return false
	}
	return c.now().Sub(entry.StoredAt) < ttl
}

// Age returns how long ago the entry for key was stored.
func (c *TimedCache[V]) Age(key string) (time.Duration, bool) {
	entry, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	return c.now().Sub(entry.StoredAt), true
}

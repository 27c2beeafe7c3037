// Package cache provides an in-memory store whose entries go stale after a
// caller-supplied time-to-live.
package cache

import (
	"sync"
	"time"
)

// Entry is a single cached value and the time it was fetched.
type Entry[V any] struct {
	Key       string
	FetchedAt time.Time
	Value     V
}

// Stale reports whether the entry has outlived ttl at the given instant.
// An entry is stale once now - FetchedAt >= ttl.
func (e Entry[V]) Stale(now time.Time, ttl time.Duration) bool {
	return e.Age(now) >= ttl
}

// Age returns how long ago the entry was fetched.
func (e Entry[V]) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt)
}

// Store holds at most one Entry per key. Staleness is evaluated on read
// against the ttl supplied by the caller, so the same store can serve
// keys with different lifetimes. Stale entries are left in place until
// overwritten or invalidated.
// Store is safe for concurrent use.
type Store[V any] struct {
	mu      sync.Mutex
	entries map[string]Entry[V]
	now     func() time.Time
}

// Option configures a Store.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used to stamp and age entries.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New creates an empty store.
func New[V any](opts ...Option) *Store[V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[V]{
		entries: make(map[string]Entry[V]),
		now:     o.now,
	}
}

// Get returns the value stored under key when it exists and is not stale
// under ttl. It returns the zero value and false on a miss.
func (s *Store[V]) Get(key string, ttl time.Duration) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.Stale(s.now(), ttl) {
		var zero V
		return zero, false
	}
	return e.Value, true
}

// Lookup returns the raw entry for key regardless of staleness.
func (s *Store[V]) Lookup(key string) (Entry[V], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	return e, ok
}

// Set stores value under key stamped with the current time, replacing any
// existing entry.
func (s *Store[V]) Set(key string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = Entry[V]{Key: key, FetchedAt: s.now(), Value: value}
}

// Invalidate clears all cached entries.
func (s *Store[V]) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]Entry[V])
}

// Len returns the number of entries, stale or not.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

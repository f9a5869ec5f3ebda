// Package cache provides the memoization layers in front of ledger
// reconstruction and forecast projection: an in-process per-key TTL memo
// that is the authority within one process, and an optional Redis payload
// cache shared across processes.
package cache

import (
	"context"
	"sync"
	"time"
)

// Memo is a per-key time-boxed memoization of an expensive computation.
// Entries never leave the map; expiry is checked on read. The key space
// (facilities) is small and bounded, so unbounded growth is acceptable.
//
// Concurrent misses for the same key may race to recompute; the computation
// is pure and idempotent, so the last write wins and both callers get a
// correct value. Misses for distinct keys never block each other.
type Memo[V any] struct {
	clock func() time.Time
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[string]memoEntry[V]
}

type memoEntry[V any] struct {
	storedAt time.Time
	payload  V
}

// NewMemo builds a memo with the given TTL. clock is injected so tests can
// drive expiry; pass time.Now in production.
func NewMemo[V any](ttl time.Duration, clock func() time.Time) *Memo[V] {
	if clock == nil {
		clock = time.Now
	}
	return &Memo[V]{
		clock:   clock,
		ttl:     ttl,
		entries: make(map[string]memoEntry[V]),
	}
}

// GetOrCompute returns the cached payload for key when it is younger than
// the TTL, otherwise invokes compute, stores the result, and returns it.
// A failed compute is not stored: the next call retries.
func (m *Memo[V]) GetOrCompute(ctx context.Context, key string, compute func(ctx context.Context) (V, error)) (V, error) {
	now := m.clock()

	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if ok && now.Sub(entry.storedAt) < m.ttl {
		return entry.payload, nil
	}

	payload, err := compute(ctx)
	if err != nil {
		var zero V
		return zero, err
	}

	m.mu.Lock()
	m.entries[key] = memoEntry[V]{storedAt: m.clock(), payload: payload}
	m.mu.Unlock()

	return payload, nil
}

// Len reports the number of stored entries, expired or not.
func (m *Memo[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

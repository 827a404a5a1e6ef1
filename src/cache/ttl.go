// Package cache holds the small time-bounded caches used by the price oracle
// and the token catalog.
package cache

import (
	"sync"
	"time"

	"github.com/MMN3003/bridgeswap/src/clock"
)

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// TTL is a keyed cache whose entries are valid for a fixed duration after
// they were stored.
type TTL[V any] struct {
	mu      sync.Mutex
	clock   clock.Clock
	ttl     time.Duration
	entries map[string]entry[V]
}

func NewTTL[V any](c clock.Clock, ttl time.Duration) *TTL[V] {
	if c == nil {
		c = clock.Real{}
	}
	return &TTL[V]{clock: c, ttl: ttl, entries: make(map[string]entry[V])}
}

func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.clock.Now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *TTL[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, storedAt: c.clock.Now()}
}

func (c *TTL[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *TTL[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}

func (c *TTL[V]) TTL() time.Duration { return c.ttl }

// Package cache provides a small keyed TTL cache for expensive aggregations.
// It is a freshness tool, not a bounded-memory cache: entries live until
// overwritten or explicitly invalidated, so callers must pick narrow TTLs.
// Construct one in main and pass it through deps; never reach for a global
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/em3s/mungchi-sub001/internal/platform/clock"
)

type entry struct {
	val       any
	fetchedAt time.Time
}

// Cache is a mutex-guarded key -> value map with per-entry fetch times.
// Two calls racing on the same key may both invoke their fetcher; the last
// writer wins, which is fine because cached values are replaceable, not
// ground truth
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	clk     clock.Clock
}

// New builds an empty cache driven by clk
func New(clk clock.Clock) *Cache {
	if clk == nil {
		clk = clock.System{}
	}
	return &Cache{entries: make(map[string]entry), clk: clk}
}

// GetOrCompute returns the cached value for key when it is younger than ttl,
// otherwise invokes fetch and stores the result. A failed fetch is never
// stored, so a transient error cannot poison later calls
func GetOrCompute[T any](c *Cache, key string, ttl time.Duration, fetch func() (T, error)) (T, error) {
	now := c.clk.Now()

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && now.Sub(e.fetchedAt) < ttl {
		if v, ok := e.val.(T); ok {
			c.mu.Unlock()
			return v, nil
		}
	}
	c.mu.Unlock()

	// compute outside the lock; overlapping fetches for one key are tolerated
	v, err := fetch()
	if err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	c.entries[key] = entry{val: v, fetchedAt: c.clk.Now()}
	c.mu.Unlock()
	return v, nil
}

// Peek returns the raw cached value and whether it is fresh within ttl.
// Mostly useful in tests and diagnostics
func (c *Cache) Peek(key string, ttl time.Duration) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.clk.Now().Sub(e.fetchedAt) >= ttl {
		return nil, false
	}
	return e.val, true
}

// Invalidate removes one entry
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidatePrefix removes all entries whose key starts with prefix
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}

// Len reports the number of live entries regardless of freshness
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

package memo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// entry is one cached result
type entry struct {
	value     any
	cachedAt  time.Time
	expiresAt time.Time
	hitCount  int
}

// Stats describes cache activity
type Stats struct {
	Entries  int     `json:"entries"`
	MaxSize  int     `json:"max_size"`
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	HitRatio float64 `json:"hit_ratio"`
	TTL      string  `json:"ttl"`
}

// Cache memoizes analysis results by key. Entries expire after ttl and the
// oldest entry is evicted once maxSize is reached. Concurrent computations of
// the same key share one call.
type Cache struct {
	entries map[string]entry
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	hits    int64
	misses  int64
	group   singleflight.Group
	now     func() time.Time
}

// New creates a cache. A maxSize of zero or less disables storage; calls are
// still collapsed.
func New(ttl time.Duration, maxSize int) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Get returns the value stored under key if it has not expired
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiresAt) {
		if ok {
			delete(c.entries, key)
		}
		c.misses++
		return nil, false
	}

	e.hitCount++
	c.entries[key] = e
	c.hits++
	return e.value, true
}

// Set stores value under key
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxSize <= 0 {
		return
	}
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.pruneExpired()
		if len(c.entries) >= c.maxSize {
			c.evictOldest()
		}
	}

	now := c.now()
	c.entries[key] = entry{
		value:     value,
		cachedAt:  now,
		expiresAt: now.Add(c.ttl),
	}
}

// Stats returns cache statistics
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	ratio := float64(0)
	if total > 0 {
		ratio = float64(c.hits) / float64(total)
	}
	return Stats{
		Entries:  len(c.entries),
		MaxSize:  c.maxSize,
		Hits:     c.hits,
		Misses:   c.misses,
		HitRatio: ratio,
		TTL:      c.ttl.String(),
	}
}

// Do returns the cached value for key or computes it with fn. hit reports
// whether the value came from the cache. Errors are not cached.
func (c *Cache) Do(ctx context.Context, key string, fn func(context.Context) (any, error)) (value any, hit bool, err error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(key, v)
		return v, nil
	})

	select {
	case res := <-ch:
		return res.Val, false, res.Err
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

// Load is a typed wrapper around Cache.Do
func Load[V any](ctx context.Context, c *Cache, key string, fn func(context.Context) (V, error)) (V, bool, error) {
	var zero V
	v, hit, err := c.Do(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, hit, err
	}
	typed, ok := v.(V)
	if !ok {
		return zero, hit, fmt.Errorf("memo: cached value for %q has type %T", key, v)
	}
	return typed, hit, nil
}

func (c *Cache) pruneExpired() {
	now := c.now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *Cache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, e := range c.entries {
		if oldestKey == "" || e.cachedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = e.cachedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// Package cache keeps upstream API responses in memory for a fixed time to
// live, keyed by the exact request URL.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a fetched payload is served without refetching.
const DefaultTTL = time.Hour

// Outcomes reported to an Observer.
const (
	OutcomeHit     = "hit"
	OutcomeMiss    = "miss"
	OutcomeRefresh = "refresh"
	OutcomeError   = "error"
)

// Fetcher retrieves the raw payload for a key.
type Fetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// FetcherFunc adapts a function to a Fetcher.
type FetcherFunc func(ctx context.Context, key string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, key string) ([]byte, error) {
	return f(ctx, key)
}

// Entry is a stored payload and the time it was fetched.
type Entry struct {
	Payload   []byte
	FetchedAt time.Time
}

// Cache is safe for concurrent use. Stale entries stay in memory until they
// are refetched or Clear is called.
type Cache struct {
	fetcher  Fetcher
	ttl      time.Duration
	now      func() time.Time
	observer func(outcome string)

	mu      sync.RWMutex
	entries map[string]Entry
	group   singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// WithObserver registers a callback receiving the outcome of every Get.
func WithObserver(fn func(outcome string)) Option {
	return func(c *Cache) {
		c.observer = fn
	}
}

// New creates a cache in front of fetcher.
func New(fetcher Fetcher, opts ...Option) *Cache {
	c := &Cache{
		fetcher: fetcher,
		ttl:     DefaultTTL,
		now:     time.Now,
		entries: make(map[string]Entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the payload stored under key while it is younger than the TTL.
// Otherwise, or when forceRefresh is set, it fetches, stores and returns a
// new payload. Fetch errors are returned as is and nothing is stored.
func (c *Cache) Get(ctx context.Context, key string, forceRefresh bool) ([]byte, error) {
	if !forceRefresh {
		if payload, ok := c.lookup(key); ok {
			c.observe(OutcomeHit)
			log.Debugf("cache hit for %s", key)
			return payload, nil
		}
	}

	// the shared fetch outlives any single caller; each caller waits on its
	// own context only
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		payload, err := c.fetcher.Fetch(fetchCtx, key)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = Entry{Payload: payload, FetchedAt: c.now()}
		c.mu.Unlock()
		return payload, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		c.observe(OutcomeError)
		return nil, errors.Wrapf(ctx.Err(), "fetching %s", key)
	case res = <-ch:
	}
	if res.Err != nil {
		c.observe(OutcomeError)
		return nil, errors.Wrapf(res.Err, "fetching %s", key)
	}

	if forceRefresh {
		c.observe(OutcomeRefresh)
	} else {
		c.observe(OutcomeMiss)
	}
	return res.Val.([]byte), nil
}

// Peek returns the stored entry for key regardless of its age.
func (c *Cache) Peek(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

// Len reports the number of stored entries, fresh or stale.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]Entry)
	c.mu.Unlock()
}

func (c *Cache) lookup(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.FetchedAt) >= c.ttl {
		return nil, false
	}
	return e.Payload, true
}

func (c *Cache) observe(outcome string) {
	if c.observer != nil {
		c.observer(outcome)
	}
}

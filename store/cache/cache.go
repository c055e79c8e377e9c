// Package cache is a small in-memory LRU cache with per-entry expiry.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Config configures a Cache.
type Config struct {
	MaxItems   int
	DefaultTTL time.Duration
}

// Cache is a concurrency-safe LRU cache. Expired entries are dropped on
// access.
type Cache[V any] struct {
	capacity   int
	defaultTTL time.Duration
	now        func() time.Time

	mu    sync.Mutex
	items map[string]*entry[V]
	order *list.List
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
	element   *list.Element
}

// New creates a cache. Zero settings default to 1000 items kept for five
// minutes.
func New[V any](cfg Config) *Cache[V] {
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 1000
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = 5 * time.Minute
	}
	return &Cache[V]{
		capacity:   cfg.MaxItems,
		defaultTTL: cfg.DefaultTTL,
		now:        time.Now,
		items:      make(map[string]*entry[V]),
		order:      list.New(),
	}
}

// Get returns the value stored under key.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		c.remove(e)
		return zero, false
	}
	c.order.MoveToFront(e.element)
	return e.value, true
}

// Set stores value under key, evicting the least recently used entries when
// the cache is full.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.defaultTTL)
	if e, ok := c.items[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.order.MoveToFront(e.element)
		return
	}
	for len(c.items) >= c.capacity {
		c.remove(c.order.Back().Value.(*entry[V]))
	}
	e := &entry[V]{key: key, value: value, expiresAt: expiresAt}
	e.element = c.order.PushFront(e)
	c.items[key] = e
}

// Delete removes key.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok {
		c.remove(e)
	}
}

// Len returns the number of entries, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Must be called with lock held.
func (c *Cache[V]) remove(e *entry[V]) {
	c.order.Remove(e.element)
	delete(c.items, e.key)
}

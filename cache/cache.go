// Package cache provides the content-addressed result cache shared by all
// agent runtimes. Entries are keyed on (agent identity, input fingerprint) and
// hold validated Success results only, so an identical document never pays
// for the same expensive capability call twice.
package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/riskmesh/riskmesh/core"
)

const defaultMaxEntries = 1024

// Options configure the LRU result cache.
type Options struct {
	// MaxEntries bounds the number of cached results before LRU eviction.
	MaxEntries int
}

// LRUCache is an in-memory core.ResultCache backed by an LRU map. It is safe
// for concurrent use across jobs. Writes are at-most-once per key: the first
// writer wins and later identical computations converge to the stored value.
type LRUCache struct {
	mu  sync.Mutex
	lru *lru.Cache[core.CacheKey, core.AgentResult]
}

// New constructs an empty result cache with optional overrides.
func New(optFns ...func(o *Options)) *LRUCache {
	opts := Options{MaxEntries: defaultMaxEntries}
	for _, fn := range optFns {
		fn(&opts)
	}

	// lru.New only fails on a non-positive size.
	backing, err := lru.New[core.CacheKey, core.AgentResult](opts.MaxEntries)
	if err != nil {
		backing, _ = lru.New[core.CacheKey, core.AgentResult](defaultMaxEntries)
	}
	return &LRUCache{lru: backing}
}

// Get returns the cached result for key, if present.
func (c *LRUCache) Get(key core.CacheKey) (core.AgentResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Get(key)
}

// Put stores a Success result under key unless one is already present.
// Non-Success results are rejected: failures are never cached. Returns true
// if this call stored the entry.
func (c *LRUCache) Put(key core.CacheKey, result core.AgentResult) bool {
	if !result.IsSuccess() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	existed, _ := c.lru.ContainsOrAdd(key, result)
	return !existed
}

// Invalidate removes the entry for key, if present.
func (c *LRUCache) Invalidate(key core.CacheKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Remove(key)
}

// Purge removes all entries.
func (c *LRUCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}

// Len returns the number of cached entries.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

package advice

import (
	"sync"
	"time"
)

// RulesCache caches the active rules list so evaluation does not hit the
// store on every request. Implementations must be safe for concurrent use.
type RulesCache interface {
	// Get retrieves cached rules, nil on miss or expiry
	Get() []*Rule

	// Set stores rules in the cache
	Set(rules []*Rule)

	// Invalidate clears the cache, forcing a refresh on next Get
	Invalidate()
}

// CacheConfig holds configuration for cache behavior. A zero TTL means
// entries never expire and are only cleared by Invalidate.
type CacheConfig struct {
	TTL time.Duration
}

// DefaultCacheConfig returns the defaults used by the engine: no TTL,
// invalidation only on rule mutations.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{TTL: 0}
}

// InMemoryRulesCache is the in-process RulesCache implementation.
type InMemoryRulesCache struct {
	rules    []*Rule
	cachedAt time.Time
	config   CacheConfig
	valid    bool
	mu       sync.RWMutex
}

// NewInMemoryRulesCache creates an empty cache with the given config.
func NewInMemoryRulesCache(config CacheConfig) *InMemoryRulesCache {
	return &InMemoryRulesCache{config: config}
}

// Get returns a copy of the cached rules, or nil if the cache is invalid
// or past its TTL.
func (c *InMemoryRulesCache) Get() []*Rule {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.valid {
		return nil
	}
	if c.config.TTL > 0 && time.Since(c.cachedAt) > c.config.TTL {
		return nil
	}

	// Copy to keep callers from mutating the cached slice.
	out := make([]*Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Set stores a copy of the rules in the cache.
func (c *InMemoryRulesCache) Set(rules []*Rule) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rules = make([]*Rule, len(rules))
	copy(c.rules, rules)
	c.cachedAt = time.Now()
	c.valid = true
}

// Invalidate clears the cache.
func (c *InMemoryRulesCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.valid = false
	c.rules = nil
}

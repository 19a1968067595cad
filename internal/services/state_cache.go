package services

import (
	"time"

	"github.com/DIEGO-rav10/UBELEZA/internal/cache"
	"github.com/DIEGO-rav10/UBELEZA/internal/core"
)

const stateCacheKey = "state"

// StateCache memoizes the assembled app state between reads. Every
// mutation invalidates it; the next read rebuilds from storage.
type StateCache struct {
	states *cache.LRUCache[core.State]
}

func NewStateCache(ttl time.Duration) *StateCache {
	// One logical entry; capacity 1 keeps the LRU bookkeeping honest.
	return &StateCache{states: cache.NewLRUCache[core.State](1, ttl)}
}

func (c *StateCache) Get() (core.State, bool) {
	return c.states.Get(stateCacheKey)
}

func (c *StateCache) Set(s core.State) {
	c.states.Set(stateCacheKey, s)
}

func (c *StateCache) Invalidate() {
	c.states.Clear()
}

// CleanExpired lets the cache manager sweep this cache.
func (c *StateCache) CleanExpired() int {
	return c.states.CleanExpired()
}

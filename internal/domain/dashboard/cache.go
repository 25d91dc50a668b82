package dashboard

import (
	"sync"
	"time"
)

// overviewCache memoizes the home view per user. Entries expire on their own
// and are dropped eagerly when a new bank is linked. Plain map+RWMutex: the
// working set is one entry per signed-in user.
type overviewCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

type cacheEntry struct {
	overview  *Overview
	expiresAt time.Time
}

func newOverviewCache(ttl time.Duration) *overviewCache {
	return &overviewCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

func (c *overviewCache) get(userID string) (*Overview, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[userID]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.overview, true
}

func (c *overviewCache) set(userID string, o *Overview) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = cacheEntry{overview: o, expiresAt: time.Now().Add(c.ttl)}
}

func (c *overviewCache) invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}

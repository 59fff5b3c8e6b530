package pr

import (
	"sync"
	"time"
)

// cacheTTL is how long a branch's PR lookup is reused across refreshes.
const cacheTTL = 45 * time.Second

type cacheEntry struct {
	pr        *PullRequest
	timestamp time.Time
}

// infoCache memoizes Info lookups per branch, including "no PR" results.
type infoCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

func newInfoCache(ttl time.Duration) *infoCache {
	return &infoCache{ttl: ttl, entries: make(map[string]cacheEntry), now: time.Now}
}

func (c *infoCache) get(branch string) (*PullRequest, bool) {
	c.mu.RLock()
	entry, ok := c.entries[branch]
	c.mu.RUnlock()
	if !ok || c.now().Sub(entry.timestamp) > c.ttl {
		return nil, false
	}
	if entry.pr == nil {
		return nil, true
	}
	cp := *entry.pr
	return &cp, true
}

func (c *infoCache) put(branch string, pr *PullRequest) {
	var stored *PullRequest
	if pr != nil {
		cp := *pr
		stored = &cp
	}
	c.mu.Lock()
	c.entries[branch] = cacheEntry{pr: stored, timestamp: c.now()}
	c.mu.Unlock()
}

func (c *infoCache) drop(branch string) {
	c.mu.Lock()
	delete(c.entries, branch)
	c.mu.Unlock()
}

func (c *infoCache) clear() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

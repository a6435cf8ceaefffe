package chat

import (
	"sync"
	"time"
)

// Cache memoizes replies per message+category for a TTL so repeated common
// questions never hit the responder twice.
type Cache struct {
	mu    sync.RWMutex
	store map[string]cacheEntry
	ttl   time.Duration
}

type cacheEntry struct {
	reply string
	ts    time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{store: make(map[string]cacheEntry), ttl: ttl}
}

func cacheKey(message, category string) string {
	return category + "|" + message
}

// Get returns the cached reply and true if present and not expired.
func (c *Cache) Get(message, category string) (string, bool) {
	k := cacheKey(message, category)
	c.mu.RLock()
	e, ok := c.store[k]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	if time.Since(e.ts) > c.ttl {
		c.mu.Lock()
		delete(c.store, k)
		c.mu.Unlock()
		return "", false
	}
	return e.reply, true
}

func (c *Cache) Set(message, category, reply string) {
	k := cacheKey(message, category)
	c.mu.Lock()
	c.store[k] = cacheEntry{reply: reply, ts: time.Now()}
	c.mu.Unlock()
}

package storage

import (
	"context"
	"slices"
	"sync"
	"time"
)

type cacheEntry struct {
	etag    string
	body    []byte
	expires time.Time
}

type memoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewMemoryCache returns a process-local cache. A zero ttl keeps entries forever.
func NewMemoryCache(ttl time.Duration) ResponseCache {
	return &memoryCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *memoryCache) Get(_ context.Context, id string) (string, []byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[id]
	if !ok {
		return "", nil, false
	}

	if !entry.expires.IsZero() && c.now().After(entry.expires) {
		delete(c.entries, id)
		return "", nil, false
	}

	return entry.etag, slices.Clone(entry.body), true
}

func (c *memoryCache) Put(_ context.Context, id, etag string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := cacheEntry{etag: etag, body: slices.Clone(body)}
	if c.ttl > 0 {
		entry.expires = c.now().Add(c.ttl)
	}
	c.entries[id] = entry

	return nil
}

func (c *memoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	return nil
}

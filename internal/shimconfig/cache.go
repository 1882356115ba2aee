package shimconfig

import (
	"os"
	"sync"
	"time"
)

// DefaultTTL is how long a cached document is served before it is
// reloaded from disk even though its source file's mtime is unchanged.
// The mtime itself is compared on every GetOrLoad.
const DefaultTTL = 5 * time.Minute

type cacheEntry struct {
	doc      *ShimDocument
	modTime  time.Time
	loadedAt time.Time
}

// Cache holds parsed ShimDocuments keyed by their source path, avoiding
// repeated disk reads and TOML parses across the lifetime of a manager
// command. Entries are invalidated either by TTL expiry or by the
// underlying file's mtime changing since the entry was cached.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

// NewCache constructs an empty cache with the given TTL. A zero TTL
// disables time-based expiry and relies solely on mtime checks.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, entries: make(map[string]cacheEntry)}
}

// GetOrLoad returns the cached document for path if it is still fresh,
// otherwise loads, validates and caches it.
func (c *Cache) GetOrLoad(path string) (*ShimDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	entry, ok := c.entries[path]
	c.mu.Unlock()

	if ok && entry.modTime.Equal(info.ModTime()) {
		if c.ttl == 0 || time.Since(entry.loadedAt) < c.ttl {
			return entry.doc, nil
		}
	}

	doc, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[path] = cacheEntry{doc: doc, modTime: info.ModTime(), loadedAt: time.Now()}
	c.mu.Unlock()

	return doc, nil
}

// Invalidate drops the cached entry for path, if any, forcing the next
// GetOrLoad to re-read the file.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// Clear drops every cached entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Len reports how many documents are currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

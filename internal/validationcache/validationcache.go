// Package validationcache provides a TTL cache of executable validity, so
// a hot shim path repeats the full validity check at most once per TTL
// window; each lookup still stats the target to compare its mtime.
package validationcache

import (
	"os"
	"runtime"
	"sync"
	"time"
)

// DefaultTTL is how long a validity result is trusted.
const DefaultTTL = 30 * time.Second

type entry struct {
	isValid       bool
	lastChecked   time.Time
	fileModTimeAt time.Time
}

// Cache caches is-this-path-a-usable-executable answers keyed by
// absolute path. §4.6 describes two acceptable policies; this is the
// stricter mtime-aware one: a hit requires both the TTL to still hold
// and the file's current mtime not to exceed the mtime recorded when the
// entry was set, so a binary replaced mid-window is never reported valid
// from a stale cache entry. The tradeoff (documented in DESIGN.md) is
// that every call — hit or miss — costs one stat, unlike the simplified
// TTL-only variant which trusts the cache unconditionally within the
// window.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
}

// New constructs a Cache with the given TTL.
func New(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, entries: make(map[string]entry)}
}

// IsValid checks path, using and populating the cache. A miss performs
// the real check: the path exists, is a regular file, and on POSIX has
// some executable bit set.
func (c *Cache) IsValid(path string) bool {
	info, statErr := os.Stat(path)

	c.mu.Lock()
	e, ok := c.entries[path]
	c.mu.Unlock()

	if ok && time.Since(e.lastChecked) < c.ttl {
		if statErr == nil && info.ModTime().After(e.fileModTimeAt) {
			// file changed since last check — fall through to reverify
		} else {
			return e.isValid
		}
	}

	valid := statErr == nil && isExecutable(info)

	var modTime time.Time
	if statErr == nil {
		modTime = info.ModTime()
	}

	c.mu.Lock()
	c.entries[path] = entry{isValid: valid, lastChecked: time.Now(), fileModTimeAt: modTime}
	c.mu.Unlock()

	return valid
}

// Set records a known validity result for path directly, bypassing the
// filesystem check — used when a caller (e.g. the archive extractor)
// already knows the answer.
func (c *Cache) Set(path string, valid bool) {
	info, err := os.Stat(path)
	var modTime time.Time
	if err == nil {
		modTime = info.ModTime()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = entry{isValid: valid, lastChecked: time.Now(), fileModTimeAt: modTime}
}

// Invalidate drops the cached entry for path.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// Clear drops every cached entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

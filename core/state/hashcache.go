package state

import (
	"sort"
	"sync"
)

// HashEntry is one cached command resolution.
type HashEntry struct {
	Name string
	Path string
}

// HashCache remembers where commands were found on PATH so repeated lookups
// skip the directory scan. Entries carry a valid bit; a PATH change flips
// every entry invalid (conservative wholesale invalidation).
type HashCache struct {
	mu      sync.RWMutex
	entries map[string]hashEntry
}

type hashEntry struct {
	path  string
	valid bool
}

// NewHashCache creates an empty cache.
func NewHashCache() *HashCache {
	return &HashCache{entries: make(map[string]hashEntry)}
}

// Get returns the cached path for name if a valid entry exists.
func (c *HashCache) Get(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	if !ok || !e.valid {
		return "", false
	}
	return e.path, true
}

// Put records a resolution.
func (c *HashCache) Put(name, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = hashEntry{path: path, valid: true}
}

// Forget drops a single entry, forcing its next resolution to rescan.
func (c *HashCache) Forget(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, name)
}

// Invalidate marks every entry stale without dropping it.
func (c *HashCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, e := range c.entries {
		e.valid = false
		c.entries[name] = e
	}
}

// Clear drops everything, the rehash builtin's behavior.
func (c *HashCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]hashEntry)
}

// Entries lists valid cache contents sorted by name.
func (c *HashCache) Entries() []HashEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []HashEntry
	for name, e := range c.entries {
		if e.valid {
			out = append(out, HashEntry{Name: name, Path: e.path})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Clone returns an independent deep copy.
func (c *HashCache) Clone() *HashCache {
	c.mu.RLock()
	defer c.mu.RUnlock()

	clone := NewHashCache()
	for k, v := range c.entries {
		clone.entries[k] = v
	}
	return clone
}

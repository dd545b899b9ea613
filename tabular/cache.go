package tabular

import (
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes loaded reference tables across calls, keyed by path and
// invalidated by file modification time. Values are shared and must be
// treated as immutable by callers. Concurrent loads of the same path are
// collapsed into one read.
type Cache struct {
	load func(path string) (*Table, error)

	entries map[string]cacheEntry
	mu      sync.RWMutex
	group   singleflight.Group
}

type cacheEntry struct {
	table   *Table
	modTime time.Time
	size    int64
}

// NewCache creates a cache around a loader, Load by default.
func NewCache(load func(path string) (*Table, error)) *Cache {
	if load == nil {
		load = Load
	}
	return &Cache{
		load:    load,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached table for a path, reloading when the file's
// mtime or size changed since the cached read.
func (c *Cache) Get(path string) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat table %s: %w", path, err)
	}

	c.mu.RLock()
	entry, ok := c.entries[path]
	c.mu.RUnlock()
	if ok && entry.fresh(info) {
		return entry.table, nil
	}

	result, err, _ := c.group.Do(path, func() (any, error) {
		c.mu.RLock()
		entry, ok := c.entries[path]
		c.mu.RUnlock()
		if ok && entry.fresh(info) {
			return entry.table, nil
		}

		table, err := c.load(path)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[path] = cacheEntry{table: table, modTime: info.ModTime(), size: info.Size()}
		c.mu.Unlock()

		return table, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Table), nil
}

// Invalidate drops one path from the cache.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

func (e cacheEntry) fresh(info os.FileInfo) bool {
	return e.modTime.Equal(info.ModTime()) && e.size == info.Size()
}

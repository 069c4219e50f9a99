package main

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedList stores a rendered public list with the time it was loaded
type CachedList struct {
	Items     any
	Timestamp time.Time
}

// ListCache caches the public read-only lists (reviews, updates). Every list
// key carries a version that writers bump, so a load that raced with a write
// never lands in the cache.
type ListCache struct {
	lists    *lru.Cache[string, CachedList]
	versions map[string]uint64
	ttl      time.Duration
	mu       sync.Mutex
}

// NewListCache creates a new list cache with specified size and TTL
func NewListCache(size int, ttl time.Duration) (*ListCache, error) {
	lists, err := lru.New[string, CachedList](size)
	if err != nil {
		return nil, err
	}

	return &ListCache{
		lists:    lists,
		versions: make(map[string]uint64),
		ttl:      ttl,
	}, nil
}

// Get returns the cached list and the current version of the key
func (c *ListCache) Get(key string) (any, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	version := c.versions[key]
	cached, ok := c.lists.Get(key)
	if !ok {
		return nil, version, false
	}

	if time.Since(cached.Timestamp) > c.ttl {
		c.lists.Remove(key)
		return nil, version, false
	}

	return cached.Items, version, true
}

// Set stores items unless the key was invalidated after version was read
func (c *ListCache) Set(key string, version uint64, items any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.versions[key] != version {
		return
	}
	c.lists.Add(key, CachedList{
		Items:     items,
		Timestamp: time.Now(),
	})
}

// Invalidate drops the cached list after a write
func (c *ListCache) Invalidate(key string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.versions[key]++
	c.lists.Remove(key)
}

// Clear removes all entries from the cache
func (c *ListCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.versions {
		c.versions[key]++
	}
	c.lists.Purge()
}

var listCache *ListCache

// cachedList serves key from the cache, falling back to load on a miss
func cachedList[T any](cache *ListCache, key string, load func() ([]T, error)) ([]T, error) {
	if cache == nil {
		return load()
	}

	items, version, ok := cache.Get(key)
	if ok {
		if typed, ok := items.([]T); ok {
			RecordCacheLookup(key, true)
			return typed, nil
		}
	}
	RecordCacheLookup(key, false)

	loaded, err := load()
	if err != nil {
		return nil, err
	}
	cache.Set(key, version, loaded)
	return loaded, nil
}

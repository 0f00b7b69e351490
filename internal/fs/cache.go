package fs

import (
	"container/list"
	"sync"
	"time"

	"github.com/justyntemme/razorfs/internal/debug"
)

// DefaultCacheSize is the number of directory listings kept by default.
const DefaultCacheSize = 64

// DefaultCacheMaxAge bounds how long a listing is served without a re-read.
// A directory's mtime does not change when a child's contents do, so child
// sizes and times can lag by up to this long.
const DefaultCacheMaxAge = 30 * time.Second

// ListingCache is an LRU cache of directory listings. Each listing is
// stored with the directory's modification time at read and is only served
// while that time is unchanged and the listing is younger than MaxAge.
type ListingCache struct {
	mu      sync.Mutex
	cache   map[string]*listingEntry
	lru     *list.List // front = most recent
	maxSize int

	MaxAge time.Duration    // <= 0 disables the age bound
	now    func() time.Time // for tests
}

type listingEntry struct {
	key      string
	modTime  time.Time
	storedAt time.Time
	entries  []Entry
	element  *list.Element
}

// NewListingCache creates a cache holding at most maxEntries listings.
func NewListingCache(maxEntries int) *ListingCache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheSize
	}
	return &ListingCache{
		cache:   make(map[string]*listingEntry),
		lru:     list.New(),
		maxSize: maxEntries,
		MaxAge:  DefaultCacheMaxAge,
		now:     time.Now,
	}
}

func cacheKey(path string, includeHidden bool) string {
	if includeHidden {
		return path + "\x00h"
	}
	return path
}

// Get returns a cached listing if one exists for modTime.
func (c *ListingCache) Get(path string, includeHidden bool, modTime time.Time) ([]Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(path, includeHidden)
	entry, ok := c.cache[key]
	if !ok {
		return nil, false
	}
	if !entry.modTime.Equal(modTime) {
		debug.Log(debug.FS, "ListingCache: stale %s", path)
		c.removeLocked(entry)
		return nil, false
	}
	if c.MaxAge > 0 && c.now().Sub(entry.storedAt) > c.MaxAge {
		debug.Log(debug.FS, "ListingCache: expired %s", path)
		c.removeLocked(entry)
		return nil, false
	}
	c.lru.MoveToFront(entry.element)

	out := make([]Entry, len(entry.entries))
	copy(out, entry.entries)
	return out, true
}

// Put stores a listing, evicting the least recently used one when full.
func (c *ListingCache) Put(path string, includeHidden bool, modTime time.Time, entries []Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(path, includeHidden)
	stored := make([]Entry, len(entries))
	copy(stored, entries)

	if entry, ok := c.cache[key]; ok {
		entry.modTime = modTime
		entry.storedAt = c.now()
		entry.entries = stored
		c.lru.MoveToFront(entry.element)
		return
	}

	entry := &listingEntry{key: key, modTime: modTime, storedAt: c.now(), entries: stored}
	entry.element = c.lru.PushFront(entry)
	c.cache[key] = entry

	for c.lru.Len() > c.maxSize {
		oldest := c.lru.Back()
		if oldest == nil {
			break
		}
		c.removeLocked(oldest.Value.(*listingEntry))
	}
}

// Invalidate drops both hidden variants of path.
func (c *ListingCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range []string{cacheKey(path, false), cacheKey(path, true)} {
		if entry, ok := c.cache[key]; ok {
			c.removeLocked(entry)
		}
	}
}

// Clear removes all entries from the cache.
func (c *ListingCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*listingEntry)
	c.lru = list.New()
}

// Len returns the number of cached listings.
func (c *ListingCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func (c *ListingCache) removeLocked(entry *listingEntry) {
	c.lru.Remove(entry.element)
	delete(c.cache, entry.key)
}

package fs

import (
	"path/filepath"
	"time"

	"github.com/justyntemme/razorfs/internal/debug"
	"github.com/justyntemme/razorfs/internal/metrics"
)

// Lister reads one directory into a flat, unordered batch of entries.
type Lister struct {
	access  Access
	cache   *ListingCache
	metrics *metrics.Metrics
}

// NewLister creates a lister over access. cache may be nil.
func NewLister(access Access, cache *ListingCache) *Lister {
	return &Lister{access: access, cache: cache}
}

// SetMetrics makes the lister record listing outcomes and cache lookups.
func (l *Lister) SetMetrics(m *metrics.Metrics) {
	l.metrics = m
}

// List returns the children of path, served from the cache when the
// directory is unchanged since it was last read. Revalidation only sees the
// directory's own mtime, so an edit inside a child file shows up once the
// cached listing ages out (see ListingCache.MaxAge) or on Read.
func (l *Lister) List(path string, includeHidden bool) ([]Entry, error) {
	return l.list(path, includeHidden, true)
}

// Read always reads path from the file system and refreshes the cache.
func (l *Lister) Read(path string, includeHidden bool) ([]Entry, error) {
	return l.list(path, includeHidden, false)
}

func (l *Lister) list(path string, includeHidden, useCache bool) ([]Entry, error) {
	start := time.Now()
	entries, err := l.read(path, includeHidden, useCache)
	l.metrics.RecordListing(err == nil, time.Since(start))
	return entries, err
}

func (l *Lister) read(path string, includeHidden, useCache bool) ([]Entry, error) {
	meta, err := l.access.ReadMetadata(path)
	if err != nil {
		return nil, Classify("list", path, err)
	}
	if !meta.IsDir {
		return nil, Other("list", path, "not a directory")
	}
	if !l.access.IsReadable(path) {
		return nil, &Error{Kind: KindPermissionDenied, Op: "list", Path: path}
	}

	if useCache && l.cache != nil {
		entries, ok := l.cache.Get(path, includeHidden, meta.ModTime)
		l.metrics.RecordCacheLookup(ok)
		if ok {
			debug.Log(debug.FS, "List: cache hit %s (%d entries)", path, len(entries))
			return entries, nil
		}
	}

	children, err := l.access.ListChildren(path)
	if err != nil {
		return nil, Classify("list", path, err)
	}

	entries := make([]Entry, 0, len(children))
	for _, child := range children {
		if !includeHidden && IsHiddenName(child.Name) {
			continue
		}
		childPath := filepath.Join(path, child.Name)
		childMeta, err := l.access.ReadMetadata(childPath)
		if err != nil {
			debug.Log(debug.FS_ENTRY, "List: skipping %q: %v", child.Name, err)
			continue
		}
		if !includeHidden && childMeta.Hidden {
			continue
		}
		entries = append(entries, NewEntry(childPath, childMeta))
	}

	if l.cache != nil {
		l.cache.Put(path, includeHidden, meta.ModTime, entries)
	}
	debug.Log(debug.FS, "List: %s -> %d entries", path, len(entries))
	return entries, nil
}

// Invalidate drops any cached listing of path.
func (l *Lister) Invalidate(path string) {
	if l.cache != nil {
		l.cache.Invalidate(path)
	}
}

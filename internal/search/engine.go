package search

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"
	"golang.org/x/sync/errgroup"

	"github.com/justyntemme/razorfs/internal/debug"
	"github.com/justyntemme/razorfs/internal/fs"
	"github.com/justyntemme/razorfs/internal/metrics"
)

const (
	DefaultDebounce    = 150 * time.Millisecond
	DefaultResultLimit = 200
	DefaultNodeLimit   = 10000
	DefaultMatchLimit  = 500
)

// Options tunes an Engine. Zero fields take the defaults above.
type Options struct {
	Debounce        time.Duration
	ResultLimit     int
	NodeLimit       int   // nodes visited per root
	MatchLimit      int   // matches collected per root
	ContentMaxBytes int64 // bytes read per file for content matching
	SystemRoots     []string
	Metrics         *metrics.Metrics
}

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.ResultLimit <= 0 {
		o.ResultLimit = DefaultResultLimit
	}
	if o.NodeLimit <= 0 {
		o.NodeLimit = DefaultNodeLimit
	}
	if o.MatchLimit <= 0 {
		o.MatchLimit = DefaultMatchLimit
	}
	if o.ContentMaxBytes <= 0 {
		o.ContentMaxBytes = DefaultContentMaxBytes
	}
	return o
}

// Root is one traversal starting point.
type Root struct {
	Path      string
	Recursive bool
}

// visitFunc is called for every node below a root. It may be called from
// several goroutines at once.
type visitFunc func(path string, d iofs.DirEntry) error

// walkFunc enumerates root. Returning an error from visit stops the walk
// with that error.
type walkFunc func(ctx context.Context, root Root, visit visitFunc) error

// Engine runs searches. Submit debounces and supersedes; Search runs
// one query synchronously.
type Engine struct {
	opts Options
	walk walkFunc

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewEngine creates an Engine that walks the local file system.
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts.withDefaults(), walk: fastWalk}
}

// Submit runs q after the debounce delay, canceling any earlier submission.
// publish is called at most once, and only if no newer Submit or Cancel
// happened before the results were ready. It runs with the engine locked,
// so it must not call back into the engine.
func (e *Engine) Submit(q Query, roots []Root, publish func([]Result)) {
	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	e.gen++
	gen := e.gen
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.mu.Unlock()

	go func() {
		defer cancel()

		timer := time.NewTimer(e.opts.Debounce)
		select {
		case <-ctx.Done():
			timer.Stop()
			debug.Log(debug.SEARCH, "Submit: gen=%d superseded during debounce", gen)
			return
		case <-timer.C:
		}

		results, err := e.Search(ctx, q, roots)
		if err != nil {
			debug.Log(debug.SEARCH, "Submit: gen=%d: %v", gen, err)
			return
		}

		e.mu.Lock()
		defer e.mu.Unlock()
		if gen != e.gen {
			debug.Log(debug.SEARCH, "Submit: gen=%d discarded, current=%d", gen, e.gen)
			return
		}
		publish(results)
	}()
}

// Cancel stops the current submission without starting a new one.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen++
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// candidate is a traversal hit awaiting dedupe and scoring.
type candidate struct {
	path       string
	info       iofs.FileInfo
	contentHit bool
}

// Search runs q over roots, one task per root, and returns the ranked,
// filtered and truncated results. An empty query returns at once without
// touching the file system. The only error returned is ctx's.
func (e *Engine) Search(ctx context.Context, q Query, roots []Root) ([]Result, error) {
	if q.IsEmpty() || len(roots) == 0 {
		return nil, nil
	}
	start := time.Now()
	text := strings.ToLower(strings.TrimSpace(q.Text))

	var content *contentMatcher
	if q.Content {
		content = newContentMatcher(strings.TrimSpace(q.Text), q.Regex, e.opts.ContentMaxBytes)
	}

	var nodes atomic.Int64
	perRoot := make([][]candidate, len(roots))
	g, gctx := errgroup.WithContext(ctx)
	for i, root := range roots {
		i, root := i, root
		g.Go(func() error {
			found, err := e.collect(gctx, q, text, content, root, &nodes)
			perRoot[i] = found
			return err
		})
	}
	if err := g.Wait(); err != nil {
		e.opts.Metrics.RecordSearch(true, nodes.Load(), 0, time.Since(start))
		return nil, err
	}

	seen := make(map[string]bool)
	var merged []candidate
	for _, found := range perRoot {
		for _, c := range found {
			if seen[c.path] {
				continue
			}
			seen[c.path] = true
			merged = append(merged, c)
		}
	}

	results := e.rank(q, text, merged)
	e.opts.Metrics.RecordSearch(false, nodes.Load(), len(results), time.Since(start))
	debug.Log(debug.SEARCH, "Search: %q over %d root(s): %d candidates, %d results in %v",
		q.Text, len(roots), len(merged), len(results), time.Since(start))
	return results, nil
}

var errLimit = errors.New("traversal limit reached")

// collect walks one root and returns its matches. Unreadable nodes are
// skipped; a root that cannot be walked at all yields nothing.
func (e *Engine) collect(ctx context.Context, q Query, text string, content *contentMatcher, root Root, total *atomic.Int64) ([]candidate, error) {
	var (
		mu      sync.Mutex
		found   []candidate
		visited atomic.Int64
		matched atomic.Int64
	)

	err := e.walk(ctx, root, func(path string, d iofs.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		total.Add(1)
		if visited.Add(1) > int64(e.opts.NodeLimit) {
			return errLimit
		}

		name := d.Name()
		if !q.IncludeHidden && fs.IsHiddenName(name) {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		score, _ := scoreName(text, name, d.IsDir())
		contentHit := false
		if content != nil && !d.IsDir() && score < contentScore {
			contentHit = content.match(path)
		}
		if score <= minScore && !contentHit {
			return nil
		}

		info, err := fastwalk.StatDirEntry(path, d)
		if err != nil {
			if info, err = os.Lstat(path); err != nil {
				debug.Log(debug.FS_WALK, "collect: skip %q: %v", path, err)
				return nil
			}
		}
		if !info.IsDir() && !info.Mode().IsRegular() {
			return nil
		}

		mu.Lock()
		found = append(found, candidate{path: path, info: info, contentHit: contentHit})
		mu.Unlock()
		if matched.Add(1) >= int64(e.opts.MatchLimit) {
			return errLimit
		}
		return nil
	})

	switch {
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case errors.Is(err, errLimit):
		debug.Log(debug.SEARCH, "collect: %s stopped at limit (visited=%d matched=%d)", root.Path, visited.Load(), matched.Load())
	case err != nil:
		debug.Log(debug.SEARCH, "collect: %s: %v", root.Path, err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(found) > e.opts.MatchLimit {
		found = found[:e.opts.MatchLimit]
	}
	return found, nil
}

// rank scores candidates, applies filters, sorts and truncates.
func (e *Engine) rank(q Query, text string, candidates []candidate) []Result {
	filter := newFilter(q.Filters)
	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		entry := fs.NewEntry(c.path, fs.MetadataFromInfo(c.path, c.info))
		nameScore, nameType := scoreName(text, entry.Name, entry.IsDir)
		score, mt := combine(nameScore, nameType, c.contentHit)
		if score <= minScore {
			continue
		}
		if !filter.match(entry) {
			continue
		}
		results = append(results, Result{Entry: entry, Score: score, MatchType: mt})
	}

	sortResults(results)
	if len(results) > e.opts.ResultLimit {
		results = results[:e.opts.ResultLimit]
	}
	return results
}

// sortResults orders by match type, then score, then name.
func sortResults(results []Result) {
	compareNames := fs.NameComparer()
	slices.SortStableFunc(results, func(a, b Result) int {
		if a.MatchType != b.MatchType {
			return int(b.MatchType) - int(a.MatchType)
		}
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}
			return 1
		}
		if c := compareNames(a.Entry.Name, b.Entry.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Entry.Path, b.Entry.Path)
	})
}

// fastWalk enumerates root without following symlinks, skipping system
// pseudo-trees. Non-recursive roots stop at their direct children.
func fastWalk(ctx context.Context, root Root, visit visitFunc) error {
	base := filepath.Clean(root.Path)
	f, err := os.Open(base)
	if err != nil {
		return err
	}
	f.Close()

	conf := &fastwalk.Config{Follow: false}
	return fastwalk.Walk(conf, base, func(path string, d iofs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			debug.Log(debug.FS_WALK, "walk: error at %q: %v", path, err)
			return nil
		}
		if path == base {
			return nil
		}
		if shouldSkipPath(path) {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}
		if err := visit(path, d); err != nil {
			return err
		}
		if !root.Recursive && d.IsDir() {
			return fastwalk.SkipDir
		}
		return nil
	})
}

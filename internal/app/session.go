// Package app holds the browsing session: the single stateful object a
// presentation layer drives and observes. It composes history, listing,
// sorting, selection, search and the clipboard, and serializes every state
// change through one apply step.
package app

import (
	"sync"

	"github.com/justyntemme/razorfs/internal/clipboard"
	"github.com/justyntemme/razorfs/internal/config"
	"github.com/justyntemme/razorfs/internal/fs"
	"github.com/justyntemme/razorfs/internal/history"
	"github.com/justyntemme/razorfs/internal/metrics"
	"github.com/justyntemme/razorfs/internal/search"
	"github.com/justyntemme/razorfs/internal/selection"
)

// Recorder receives visited locations and submitted searches.
// *store.DB implements it.
type Recorder interface {
	AddRecent(path string)
	AddSearch(query string)
}

// TextClipboard publishes entry paths as text for other applications.
// *clipboard.SystemText implements it.
type TextClipboard interface {
	WritePaths(entries []fs.Entry) error
}

// Options configures a Session. Zero values fall back to defaults.
type Options struct {
	Access   fs.Access // defaults to the local file system
	Text     TextClipboard
	Recorder Recorder
	Metrics  *metrics.Metrics

	Home           string
	HistoryLimit   int
	CacheSize      int
	SortKey        fs.SortKey
	SortDescending bool
	ShowHidden     bool
	DefaultScope   search.Scope
	Search         search.Options
}

// OptionsFromConfig maps a loaded configuration onto session options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		HistoryLimit:   cfg.Browse.HistoryLimit,
		CacheSize:      cfg.Browse.CacheSize,
		SortKey:        cfg.SortKey(),
		SortDescending: !cfg.Browse.SortAscending,
		ShowHidden:     cfg.Browse.ShowHidden,
		DefaultScope:   search.ParseScope(cfg.Search.DefaultScope),
		Search:         cfg.SearchOptions(),
	}
}

// Session is safe for concurrent use. Observers are notified in apply
// order and must not call back into the session's mutating methods.
type Session struct {
	access   fs.Access
	lister   *fs.Lister
	engine   *search.Engine
	clip     *clipboard.Coordinator
	text     TextClipboard
	recorder Recorder
	metrics  *metrics.Metrics

	home         string
	defaultScope search.Scope

	searchMu sync.Mutex // orders search submissions with their cancellation
	mu       sync.Mutex
	notifyMu sync.Mutex

	history    *history.History
	sel        *selection.Model
	location   string
	status     Status
	err        error
	entries    []fs.Entry
	sortKey    fs.SortKey
	ascending  bool
	showHidden bool
	navGen     uint64

	searchMode    bool
	searchQuery   string
	searching     bool
	results       []search.Result
	resultEntries []fs.Entry
	searchGen     uint64

	observers    []subscription
	nextObserver int
}

type subscription struct {
	id int
	o  Observer
}

// New creates an idle session with no location.
func New(opts Options) *Session {
	if opts.Access == nil {
		opts.Access = fs.NewOS()
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = history.DefaultLimit
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = fs.DefaultCacheSize
	}

	lister := fs.NewLister(opts.Access, fs.NewListingCache(opts.CacheSize))
	lister.SetMetrics(opts.Metrics)

	searchOpts := opts.Search
	searchOpts.Metrics = opts.Metrics

	return &Session{
		access:       opts.Access,
		lister:       lister,
		engine:       search.NewEngine(searchOpts),
		clip:         clipboard.New(opts.Access, opts.Metrics),
		text:         opts.Text,
		recorder:     opts.Recorder,
		metrics:      opts.Metrics,
		home:         opts.Home,
		defaultScope: opts.DefaultScope,
		history:      history.New(opts.HistoryLimit),
		sel:          selection.New(),
		sortKey:      opts.SortKey,
		ascending:    !opts.SortDescending,
		showHidden:   opts.ShowHidden,
	}
}

// Close stops any running search.
func (s *Session) Close() {
	s.engine.Cancel()
}

// Location returns the current location, empty before the first navigation.
func (s *Session) Location() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location
}

// HomePath returns the location Home navigates to.
func (s *Session) HomePath() string {
	return s.home
}

package app

import (
	"slices"

	"github.com/justyntemme/razorfs/internal/clipboard"
	"github.com/justyntemme/razorfs/internal/fs"
	"github.com/justyntemme/razorfs/internal/search"
)

// Status is the load state of the current location.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusErrored
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusErrored:
		return "errored"
	default:
		return "idle"
	}
}

// Snapshot is an immutable view of session state for the UI to render.
// Slices are owned by the snapshot and never written again.
type Snapshot struct {
	Location     string
	CanGoBack    bool
	CanGoForward bool
	CanGoUp      bool

	Status  Status
	Err     error
	Message string // human-readable Err

	Entries  []fs.Entry // sorted directory listing
	Selected []string   // entry IDs
	Cursor   int

	SortKey       fs.SortKey
	SortAscending bool
	ShowHidden    bool

	SearchMode    bool
	SearchQuery   string
	Searching     bool
	SearchResults []search.Result

	Clipboard      clipboard.Kind
	ClipboardCount int
}

// Visible returns what the content area shows: search results in search
// mode, the directory listing otherwise.
func (s Snapshot) Visible() []fs.Entry {
	if !s.SearchMode {
		return s.Entries
	}
	out := make([]fs.Entry, len(s.SearchResults))
	for i, r := range s.SearchResults {
		out[i] = r.Entry
	}
	return out
}

// Observer receives a snapshot after every apply step.
type Observer interface {
	Update(Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) Update(s Snapshot) { f(s) }

// Subscribe registers o and returns a function that removes it.
func (s *Session) Subscribe(o Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextObserver++
	id := s.nextObserver
	s.observers = append(s.observers, subscription{id: id, o: o})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.observers = slices.DeleteFunc(s.observers, func(sub subscription) bool {
			return sub.id == id
		})
	}
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	kind := s.clip.Kind()
	count := 0
	if kind != clipboard.None {
		count = len(s.clip.Items())
	}
	return Snapshot{
		Location:       s.location,
		CanGoBack:      s.history.CanGoBack(),
		CanGoForward:   s.history.CanGoForward(),
		CanGoUp:        canGoUp(s.location),
		Status:         s.status,
		Err:            s.err,
		Message:        Describe(s.err),
		Entries:        s.entries,
		Selected:       s.sel.Selected(),
		Cursor:         s.sel.Cursor(),
		SortKey:        s.sortKey,
		SortAscending:  s.ascending,
		ShowHidden:     s.showHidden,
		SearchMode:     s.searchMode,
		SearchQuery:    s.searchQuery,
		Searching:      s.searching,
		SearchResults:  s.results,
		Clipboard:      kind,
		ClipboardCount: count,
	}
}

// update is the single apply point. fn mutates state under the lock and
// reports whether anything changed; if so the resulting snapshot goes to
// every observer. notifyMu is taken before mu is released, so observers see
// snapshots in apply order.
func (s *Session) update(fn func() bool) {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return
	}
	snap := s.snapshotLocked()
	observers := make([]Observer, len(s.observers))
	for i, sub := range s.observers {
		observers[i] = sub.o
	}
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, o := range observers {
		o.Update(snap)
	}
}

// visibleLocked is the entry list selection indices refer to.
func (s *Session) visibleLocked() []fs.Entry {
	if s.searchMode {
		return s.resultEntries
	}
	return s.entries
}

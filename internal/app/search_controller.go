package app

import (
	"strings"
	"unicode/utf8"

	"github.com/justyntemme/razorfs/internal/debug"
	"github.com/justyntemme/razorfs/internal/fs"
	"github.com/justyntemme/razorfs/internal/search"
)

// minHistoryQuery is the shortest query worth keeping in search history.
const minHistoryQuery = 2

// Search enters search mode and runs input against the current location,
// superseding any earlier search. Empty input leaves search mode.
// The directory listing is left untouched.
func (s *Session) Search(input string) {
	s.search(input, false)
}

// SubmitSearch is Search for a confirmed query, which is also stored in
// the search history.
func (s *Session) SubmitSearch(input string) {
	s.search(input, true)
}

func (s *Session) search(input string, record bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		s.ClearSearch()
		return
	}

	// Directives later in the input override the default scope.
	q := search.Parse("scope:" + s.defaultScope.String() + " " + input)

	s.searchMu.Lock()
	defer s.searchMu.Unlock()

	var gen uint64
	var roots []search.Root
	s.update(func() bool {
		if !s.searchMode {
			s.sel.DeselectAll()
		}
		s.searchMode = true
		s.searchQuery = input
		s.searching = true
		s.searchGen++
		gen = s.searchGen
		q.IncludeHidden = q.IncludeHidden || s.showHidden
		roots = s.engine.Roots(q.Scope, s.location)
		return true
	})

	if record && s.recorder != nil && utf8.RuneCountInString(input) >= minHistoryQuery {
		s.recorder.AddSearch(input)
	}

	debug.Log(debug.SEARCH, "Search: gen=%d query=%q scope=%s roots=%d", gen, q.Text, q.Scope, len(roots))
	s.engine.Submit(q, roots, func(results []search.Result) {
		s.publishResults(gen, results)
	})
}

// publishResults runs from the engine's merge step.
func (s *Session) publishResults(gen uint64, results []search.Result) {
	s.update(func() bool {
		if gen != s.searchGen || !s.searchMode {
			debug.Log(debug.SEARCH, "publishResults: gen=%d discarded, current=%d", gen, s.searchGen)
			return false
		}
		prev := s.resultEntries
		s.results = results
		s.resultEntries = make([]fs.Entry, len(results))
		for i, r := range results {
			s.resultEntries[i] = r.Entry
		}
		s.searching = false
		s.sel.Retain(prev, s.resultEntries)
		return true
	})
}

// ClearSearch leaves search mode and shows the directory listing again.
func (s *Session) ClearSearch() {
	s.searchMu.Lock()
	defer s.searchMu.Unlock()

	left := false
	s.update(func() bool {
		left = s.leaveSearchLocked()
		if left {
			s.sel.DeselectAll()
		}
		return left
	})
	if left {
		s.engine.Cancel()
	}
}

// SearchHistory returns stored queries starting with prefix.
func (s *Session) SearchHistory(prefix string, limit int) []string {
	h, ok := s.recorder.(interface {
		SearchHistory(prefix string, limit int) ([]string, error)
	})
	if !ok {
		return nil
	}
	queries, err := h.SearchHistory(prefix, limit)
	if err != nil {
		debug.Log(debug.SEARCH, "SearchHistory: %v", err)
		return nil
	}
	return queries
}

// leaveSearchLocked resets search state and reports whether search mode was
// active. The caller cancels the engine after releasing the lock.
func (s *Session) leaveSearchLocked() bool {
	if !s.searchMode {
		return false
	}
	s.searchMode = false
	s.searchQuery = ""
	s.searching = false
	s.results = nil
	s.resultEntries = nil
	s.searchGen++
	return true
}

package app

import (
	"path/filepath"
	"strings"

	"github.com/justyntemme/razorfs/internal/debug"
	"github.com/justyntemme/razorfs/internal/fs"
)

// loadRequest describes one directory read started by the apply step.
type loadRequest struct {
	gen    uint64
	loc    string
	hidden bool
	fresh  bool // bypass the listing cache
	retain bool // carry the selection over by path
	record bool // report the visit to the recorder
}

// Navigate lists loc and makes it the current location, pushing it onto the
// history. Navigating to the current location does nothing.
func (s *Session) Navigate(loc string) error {
	target := s.ExpandPath(loc)
	return s.open(func() (string, bool) {
		if target == "" || target == s.location {
			return "", false
		}
		s.history.Push(target)
		return target, true
	})
}

// Back returns to the previous location without pushing history.
func (s *Session) Back() error {
	return s.open(s.history.Back)
}

// Forward moves to the next location without pushing history.
func (s *Session) Forward() error {
	return s.open(s.history.Forward)
}

// Up navigates to the parent of the current location.
func (s *Session) Up() error {
	return s.open(func() (string, bool) {
		if !canGoUp(s.location) {
			return "", false
		}
		parent := filepath.Dir(s.location)
		s.history.Push(parent)
		return parent, true
	})
}

// Home navigates to the home directory.
func (s *Session) Home() error {
	return s.Navigate(s.home)
}

// open runs move under the state lock; when it yields a location the
// session leaves search mode, clears the selection and lists it.
func (s *Session) open(move func() (string, bool)) error {
	var req loadRequest
	moved, wasSearching := false, false

	s.searchMu.Lock()
	s.update(func() bool {
		loc, ok := move()
		if !ok {
			return false
		}
		moved = true
		wasSearching = s.leaveSearchLocked()
		s.sel.DeselectAll()
		s.entries = nil
		req = s.beginLoadLocked(loc)
		req.record = true
		return true
	})
	if wasSearching {
		s.engine.Cancel()
	}
	s.searchMu.Unlock()

	if !moved {
		return nil
	}
	return s.load(req)
}

// Refresh re-reads the current location from disk, keeping the selection
// for entries that still exist.
func (s *Session) Refresh() error {
	var req loadRequest
	ok := false
	s.update(func() bool {
		if s.location == "" {
			return false
		}
		ok = true
		req = s.beginLoadLocked(s.location)
		req.fresh = true
		req.retain = true
		return true
	})
	if !ok {
		return nil
	}
	return s.load(req)
}

// Retry re-runs the last navigation after an error.
func (s *Session) Retry() error {
	return s.Refresh()
}

// SetShowHidden re-lists the current location with or without dotfiles.
func (s *Session) SetShowHidden(show bool) error {
	var req loadRequest
	reload := false
	s.update(func() bool {
		if s.showHidden == show {
			return false
		}
		s.showHidden = show
		if s.location == "" {
			return true
		}
		reload = true
		req = s.beginLoadLocked(s.location)
		req.retain = true
		return true
	})
	if !reload {
		return nil
	}
	return s.load(req)
}

// SetSortOption flips the direction when key is already the sort key and
// otherwise switches to key ascending. The listing is re-sorted in place.
func (s *Session) SetSortOption(key fs.SortKey) {
	s.update(func() bool {
		if key == s.sortKey {
			s.ascending = !s.ascending
		} else {
			s.sortKey = key
			s.ascending = true
		}
		prev := s.entries
		s.entries = fs.Sort(prev, s.sortKey, s.ascending)
		if !s.searchMode {
			s.sel.Retain(prev, s.entries)
		}
		return true
	})
}

func (s *Session) beginLoadLocked(loc string) loadRequest {
	s.navGen++
	s.location = loc
	s.status = StatusLoading
	s.err = nil
	return loadRequest{gen: s.navGen, loc: loc, hidden: s.showHidden}
}

// load performs the read without holding the lock, then applies it unless
// a newer navigation superseded it in the meantime.
func (s *Session) load(req loadRequest) error {
	var entries []fs.Entry
	var err error
	if req.fresh {
		entries, err = s.lister.Read(req.loc, req.hidden)
	} else {
		entries, err = s.lister.List(req.loc, req.hidden)
	}

	stale := false
	s.update(func() bool {
		if req.gen != s.navGen {
			stale = true
			return false
		}
		if err != nil {
			s.status = StatusErrored
			s.err = err
			s.entries = nil
			if !s.searchMode {
				s.sel.DeselectAll()
			}
			return true
		}
		prev := s.entries
		s.entries = fs.Sort(entries, s.sortKey, s.ascending)
		if req.retain && !s.searchMode {
			s.sel.Retain(prev, s.entries)
		}
		s.status = StatusLoaded
		return true
	})

	if stale {
		debug.Log(debug.APP, "load: discarding stale listing of %s", req.loc)
		return nil
	}
	if err != nil {
		debug.Log(debug.APP, "load: %s: %v", req.loc, err)
		return err
	}
	if req.record && s.recorder != nil {
		s.recorder.AddRecent(req.loc)
	}
	return nil
}

// ExpandPath resolves user input to an absolute location: "~" and "~/..."
// expand to the home directory, relative paths join the current location,
// and empty input stays where it is.
func (s *Session) ExpandPath(input string) string {
	input = strings.TrimSpace(input)
	base := s.Location()
	if base == "" {
		base = s.home
	}

	switch {
	case input == "":
		return base
	case input == "~":
		return s.home
	case strings.HasPrefix(input, "~/"):
		return filepath.Join(s.home, input[2:])
	case filepath.IsAbs(input):
		return filepath.Clean(input)
	}
	return filepath.Clean(filepath.Join(base, input))
}

func canGoUp(loc string) bool {
	return loc != "" && filepath.Dir(loc) != loc
}

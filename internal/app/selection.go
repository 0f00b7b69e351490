package app

import (
	"image"

	"gioui.org/io/key"

	"github.com/justyntemme/razorfs/internal/fs"
	"github.com/justyntemme/razorfs/internal/selection"
)

// Selection indices refer to Snapshot.Visible.

func (s *Session) Click(index int, mods key.Modifiers) {
	s.update(func() bool {
		s.sel.Click(s.visibleLocked(), index, mods)
		return true
	})
}

func (s *Session) SelectRange(from, to int) {
	s.update(func() bool {
		s.sel.SelectRange(s.visibleLocked(), from, to)
		return true
	})
}

func (s *Session) SelectAll() {
	s.update(func() bool {
		s.sel.SelectAll(s.visibleLocked())
		return true
	})
}

func (s *Session) DeselectAll() {
	s.update(func() bool {
		if s.sel.Count() == 0 && s.sel.Cursor() < 0 {
			return false
		}
		s.sel.DeselectAll()
		return true
	})
}

// MoveCursor moves the keyboard cursor by delta rows.
func (s *Session) MoveCursor(delta int, mods key.Modifiers) {
	s.update(func() bool {
		s.sel.MoveCursor(s.visibleLocked(), delta, mods)
		return true
	})
}

func (s *Session) BeginMarquee(mods key.Modifiers) {
	s.update(func() bool {
		s.sel.BeginMarquee(mods)
		return false
	})
}

// UpdateMarquee selects the items whose bounds overlap the rectangle
// spanned by start and current.
func (s *Session) UpdateMarquee(start, current image.Point, items []selection.Item) {
	s.update(func() bool {
		s.sel.UpdateMarquee(start, current, items)
		return true
	})
}

func (s *Session) EndMarquee() {
	s.update(func() bool {
		s.sel.EndMarquee()
		return false
	})
}

// SelectedEntries returns the selected entries in display order.
func (s *Session) SelectedEntries() []fs.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Entries(s.visibleLocked())
}

// selectPath makes the visible entry at path the only selection.
func (s *Session) selectPath(path string) {
	s.update(func() bool {
		visible := s.visibleLocked()
		for i, e := range visible {
			if e.Path == path {
				s.sel.Click(visible, i, 0)
				return true
			}
		}
		return false
	})
}

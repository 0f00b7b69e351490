// Package selection tracks which entries of a listing are selected.
//
// Modifier state is always passed in explicitly; nothing here reads global
// input state. The Shortcut modifier (Ctrl, or Cmd on macOS) toggles and
// Shift extends a range.
package selection

import (
	"gioui.org/io/key"

	"github.com/justyntemme/razorfs/internal/debug"
	"github.com/justyntemme/razorfs/internal/fs"
)

// Model is a selection set over entry IDs with O(1) membership.
// It is not safe for concurrent use; the session serializes access.
type Model struct {
	ids   []string       // selection order
	index map[string]int // id -> position in ids

	cursor int // focused index in the listing, -1 for none
	anchor int // origin of Shift ranges, -1 for none

	marquee  bool
	snapshot []string // selection at drag start in union mode
}

func New() *Model {
	return &Model{index: make(map[string]int), cursor: -1, anchor: -1}
}

func (m *Model) IsSelected(id string) bool {
	_, ok := m.index[id]
	return ok
}

// Selected returns the selected IDs in the order they were added.
func (m *Model) Selected() []string {
	out := make([]string, len(m.ids))
	copy(out, m.ids)
	return out
}

func (m *Model) Count() int { return len(m.ids) }

// Cursor is the focused listing index, or -1.
func (m *Model) Cursor() int { return m.cursor }

// Entries returns the selected entries in listing order.
func (m *Model) Entries(entries []fs.Entry) []fs.Entry {
	var out []fs.Entry
	for _, e := range entries {
		if m.IsSelected(e.ID) {
			out = append(out, e)
		}
	}
	return out
}

func (m *Model) add(id string) {
	if _, ok := m.index[id]; ok {
		return
	}
	m.index[id] = len(m.ids)
	m.ids = append(m.ids, id)
}

func (m *Model) remove(id string) {
	pos, ok := m.index[id]
	if !ok {
		return
	}
	delete(m.index, id)
	m.ids = append(m.ids[:pos], m.ids[pos+1:]...)
	for i := pos; i < len(m.ids); i++ {
		m.index[m.ids[i]] = i
	}
}

func (m *Model) reset(ids ...string) {
	m.ids = m.ids[:0]
	clear(m.index)
	for _, id := range ids {
		m.add(id)
	}
}

// Click applies a click on entries[index]. Without modifiers the
// selection becomes that entry alone; Shortcut toggles it; Shift adds the
// range from the cursor to index.
func (m *Model) Click(entries []fs.Entry, index int, mods key.Modifiers) {
	if index < 0 || index >= len(entries) {
		return
	}
	id := entries[index].ID

	switch {
	case mods.Contain(key.ModShift):
		from := m.cursor
		if from < 0 || from >= len(entries) {
			from = index
		}
		m.anchor = from
		lo, hi := order(from, index)
		for i := lo; i <= hi; i++ {
			m.add(entries[i].ID)
		}
	case mods.Contain(key.ModShortcut):
		if m.IsSelected(id) {
			m.remove(id)
		} else {
			m.add(id)
		}
		m.anchor = index
	default:
		m.reset(id)
		m.anchor = index
	}
	m.cursor = index
	debug.Log(debug.SELECT, "Click: index=%d mods=%v count=%d", index, mods, len(m.ids))
}

// SelectRange replaces the selection with entries[from..to], inclusive and
// clamped to the listing.
func (m *Model) SelectRange(entries []fs.Entry, from, to int) {
	if len(entries) == 0 {
		m.DeselectAll()
		return
	}
	from, to = clamp(from, len(entries)), clamp(to, len(entries))
	m.reset()
	lo, hi := order(from, to)
	for i := lo; i <= hi; i++ {
		m.add(entries[i].ID)
	}
	m.anchor = from
	m.cursor = to
}

func (m *Model) SelectAll(entries []fs.Entry) {
	m.reset()
	for _, e := range entries {
		m.add(e.ID)
	}
	if m.cursor < 0 && len(entries) > 0 {
		m.cursor = 0
	}
}

// DeselectAll empties the selection and drops the cursor.
func (m *Model) DeselectAll() {
	m.reset()
	m.cursor = -1
	m.anchor = -1
}

// MoveCursor moves the cursor by delta, clamped. Without modifiers the
// selection follows the cursor; Shift selects from the anchor to the new
// cursor; Shortcut moves focus only.
func (m *Model) MoveCursor(entries []fs.Entry, delta int, mods key.Modifiers) {
	if len(entries) == 0 {
		return
	}
	next := 0
	if m.cursor >= 0 {
		next = clamp(m.cursor+delta, len(entries))
	} else if delta < 0 {
		next = len(entries) - 1
	}

	switch {
	case mods.Contain(key.ModShift):
		if m.anchor < 0 || m.anchor >= len(entries) {
			m.anchor = clamp(m.cursor, len(entries))
		}
		anchor := m.anchor
		m.SelectRange(entries, anchor, next)
	case mods.Contain(key.ModShortcut):
		m.cursor = next
	default:
		m.reset(entries[next].ID)
		m.cursor = next
		m.anchor = next
	}
}

// Retain carries the selection and cursor from previous to current by
// path, for a refresh that produced fresh IDs. Entries that disappeared
// drop out.
func (m *Model) Retain(previous, current []fs.Entry) {
	selected := make(map[string]bool, len(m.ids))
	for _, e := range previous {
		if m.IsSelected(e.ID) {
			selected[e.Path] = true
		}
	}
	cursorPath, anchorPath := pathAt(previous, m.cursor), pathAt(previous, m.anchor)

	m.reset()
	m.cursor, m.anchor = -1, -1
	for i, e := range current {
		if selected[e.Path] {
			m.add(e.ID)
		}
		if e.Path == cursorPath {
			m.cursor = i
		}
		if e.Path == anchorPath {
			m.anchor = i
		}
	}
}

func pathAt(entries []fs.Entry, i int) string {
	if i < 0 || i >= len(entries) {
		return ""
	}
	return entries[i].Path
}

func order(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

package selection

import (
	"image"

	"gioui.org/io/key"

	"github.com/justyntemme/razorfs/internal/debug"
)

// Item is an entry's on-screen rectangle, supplied by the renderer.
type Item struct {
	ID     string
	Bounds image.Rectangle
}

// BeginMarquee starts a rectangle drag. With Shortcut or Shift held the
// drag adds to the current selection; otherwise it replaces it.
func (m *Model) BeginMarquee(mods key.Modifiers) {
	m.marquee = true
	m.snapshot = nil
	if mods.Contain(key.ModShortcut) || mods.Contain(key.ModShift) {
		m.snapshot = m.Selected()
	}
	debug.Log(debug.SELECT, "BeginMarquee: union=%v snapshot=%d", m.snapshot != nil, len(m.snapshot))
}

// UpdateMarquee recomputes the selection for the drag rectangle spanned by
// start and current: the drag-start snapshot (union mode only) plus every
// item whose bounds intersect the rectangle.
func (m *Model) UpdateMarquee(start, current image.Point, items []Item) {
	rect := image.Rectangle{Min: start, Max: current}.Canon()
	m.reset(m.snapshot...)
	for _, it := range items {
		if it.Bounds.Overlaps(rect) {
			m.add(it.ID)
		}
	}
}

// Marquee reports whether a drag is in progress.
func (m *Model) Marquee() bool { return m.marquee }

// EndMarquee finishes the drag and keeps the last computed selection.
func (m *Model) EndMarquee() {
	m.marquee = false
	m.snapshot = nil
}

// Package history implements a bounded back/forward navigation stack.
package history

// DefaultLimit caps history length when no limit is given.
const DefaultLimit = 500

// History is a browser-style navigation history. The zero value is not
// usable; create one with New.
type History struct {
	entries []string
	index   int
	limit   int
}

// New creates an empty history holding at most limit locations.
// A limit <= 0 uses DefaultLimit.
func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{
		entries: make([]string, 0, 16),
		index:   -1,
		limit:   limit,
	}
}

// Push records a visit to loc. Forward entries past the cursor are
// discarded. Pushing the current location does nothing.
func (h *History) Push(loc string) {
	if h.index >= 0 && h.entries[h.index] == loc {
		return
	}

	// Truncate forward history if we're not at the end
	if h.index >= 0 && h.index < len(h.entries)-1 {
		h.entries = h.entries[:h.index+1]
	}
	h.entries = append(h.entries, loc)
	h.index = len(h.entries) - 1

	// Evict oldest entries past the limit
	if len(h.entries) > h.limit {
		excess := len(h.entries) - h.limit
		h.entries = append(h.entries[:0], h.entries[excess:]...)
		h.index -= excess
		if h.index < 0 {
			h.index = 0
		}
	}
}

// Back moves the cursor one step back and returns the location there.
func (h *History) Back() (string, bool) {
	if !h.CanGoBack() {
		return "", false
	}
	h.index--
	return h.entries[h.index], true
}

// Forward moves the cursor one step forward and returns the location there.
func (h *History) Forward() (string, bool) {
	if !h.CanGoForward() {
		return "", false
	}
	h.index++
	return h.entries[h.index], true
}

func (h *History) CanGoBack() bool { return h.index > 0 }

func (h *History) CanGoForward() bool { return h.index >= 0 && h.index < len(h.entries)-1 }

// Current returns the location under the cursor, or "" when empty.
func (h *History) Current() string {
	if h.index < 0 {
		return ""
	}
	return h.entries[h.index]
}

func (h *History) Len() int   { return len(h.entries) }
func (h *History) Index() int { return h.index }

// Entries returns a copy of the recorded locations, oldest first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

package search

import (
	"strings"

	"github.com/justyntemme/razorfs/internal/debug"
	"github.com/justyntemme/razorfs/internal/fs"
)

// filter is Filters with the size target resolved to bytes.
type filter struct {
	Filters
	ext        string
	sizeTarget int64
}

func newFilter(f Filters) filter {
	out := filter{Filters: f, ext: strings.ToLower(strings.TrimPrefix(f.Ext, "."))}
	if f.Size != nil {
		n, err := f.Size.Bytes()
		if err != nil {
			debug.Log(debug.SEARCH, "filter: ignoring size filter: %v", err)
			out.Size = nil
		}
		out.sizeTarget = n
	}
	return out
}

// match applies every set filter. Extension and size filters only pass
// files.
func (f filter) match(e fs.Entry) bool {
	if f.ext != "" && (e.IsDir || e.Ext() != f.ext) {
		return false
	}
	if f.Size != nil && (e.IsDir || !f.Size.match(e.Size, f.sizeTarget)) {
		return false
	}
	if !f.ModifiedFrom.IsZero() && e.ModTime.Before(f.ModifiedFrom) {
		return false
	}
	if !f.ModifiedTo.IsZero() && e.ModTime.After(f.ModifiedTo) {
		return false
	}
	return true
}

// Package clipboard holds a pending copy or cut and performs it on paste.
package clipboard

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/justyntemme/razorfs/internal/debug"
	"github.com/justyntemme/razorfs/internal/fs"
	"github.com/justyntemme/razorfs/internal/metrics"
)

// Kind is the pending operation.
type Kind int

const (
	None Kind = iota
	CopyOp
	CutOp
)

func (k Kind) String() string {
	switch k {
	case CopyOp:
		return "copy"
	case CutOp:
		return "cut"
	default:
		return "none"
	}
}

// Coordinator is safe for concurrent use. Paste performs its I/O without
// holding the lock, so Copy and Cut stay responsive during a long paste.
type Coordinator struct {
	access  fs.Access
	metrics *metrics.Metrics

	mu    sync.Mutex
	kind  Kind
	items []fs.Entry
	gen   uint64 // bumped by Copy, Cut and Clear
}

func New(access fs.Access, m *metrics.Metrics) *Coordinator {
	return &Coordinator{access: access, metrics: m}
}

// Copy replaces the clipboard with entries for duplication.
func (c *Coordinator) Copy(entries []fs.Entry) { c.set(CopyOp, entries) }

// Cut replaces the clipboard with entries for moving.
func (c *Coordinator) Cut(entries []fs.Entry) { c.set(CutOp, entries) }

func (c *Coordinator) set(kind Kind, entries []fs.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.items = append([]fs.Entry(nil), entries...)
	c.kind = kind
	if len(c.items) == 0 {
		c.kind = None
	}
	debug.Log(debug.CLIP, "%s: %d item(s)", kind, len(entries))
}

func (c *Coordinator) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.kind = None
	c.items = nil
}

func (c *Coordinator) CanPaste() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) > 0
}

func (c *Coordinator) Kind() Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kind
}

// Items returns a copy of the held entries.
func (c *Coordinator) Items() []fs.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]fs.Entry(nil), c.items...)
}

// Paste copies or moves every held entry into dest. Name collisions get a
// numbered name. All items are attempted; failures come back as an
// *fs.PartialError. A successful cut empties the clipboard, a failed cut
// keeps only the items that failed, and a copy is kept for repeated pastes.
func (c *Coordinator) Paste(dest string) error {
	c.mu.Lock()
	kind, items, gen := c.kind, append([]fs.Entry(nil), c.items...), c.gen
	c.mu.Unlock()

	if len(items) == 0 {
		return fs.ErrEmptyClipboard
	}
	dest = filepath.Clean(dest)

	var failures []error
	var failed []fs.Entry
	for _, item := range items {
		if err := c.pasteOne(kind, item, dest); err != nil {
			debug.Log(debug.CLIP, "Paste: %s %q: %v", kind, item.Path, err)
			failures = append(failures, fs.Classify(kind.String(), item.Path, err))
			failed = append(failed, item)
		}
	}
	c.metrics.RecordPaste(kind.String(), len(items)-len(failed), len(failed))

	if kind == CutOp {
		c.mu.Lock()
		if c.gen == gen {
			c.items = failed
			if len(failed) == 0 {
				c.kind = None
			}
		}
		c.mu.Unlock()
	}
	return fs.Collect("paste", len(items), failures)
}

func (c *Coordinator) pasteOne(kind Kind, item fs.Entry, dest string) error {
	src := filepath.Clean(item.Path)
	if item.IsDir && (dest == src || strings.HasPrefix(dest, src+string(filepath.Separator))) {
		return fs.Other(kind.String(), src, "cannot paste a folder into itself")
	}

	if kind == CutOp {
		if filepath.Dir(src) == dest {
			// Already here.
			return nil
		}
		target := resolveTarget(c.access.FileExists, dest, item.Name, item.IsDir, moveName)
		debug.Log(debug.CLIP, "Paste: move %s -> %s", src, target)
		return c.access.Move(src, target)
	}

	target := resolveTarget(c.access.FileExists, dest, item.Name, item.IsDir, copyName)
	debug.Log(debug.CLIP, "Paste: copy %s -> %s", src, target)
	return c.access.Copy(src, target)
}

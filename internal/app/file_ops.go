package app

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/justyntemme/razorfs/internal/debug"
	"github.com/justyntemme/razorfs/internal/fs"
)

// Copy puts the selection on the clipboard for a repeatable paste.
func (s *Session) Copy() {
	s.capture(s.clip.Copy)
}

// Cut puts the selection on the clipboard to be moved by the next paste.
func (s *Session) Cut() {
	s.capture(s.clip.Cut)
}

func (s *Session) capture(set func([]fs.Entry)) {
	s.update(func() bool {
		entries := s.sel.Entries(s.visibleLocked())
		if len(entries) == 0 {
			return false
		}
		set(entries)
		return true
	})
}

// Paste copies or moves the clipboard into the current location and
// refreshes it. Per-item failures are reported together.
func (s *Session) Paste() error {
	dest := s.Location()
	if dest == "" {
		return fs.Other("paste", "", "no current location")
	}
	err := s.clip.Paste(dest)
	if errors.Is(err, fs.ErrEmptyClipboard) {
		return err
	}
	return s.afterChange(err)
}

// Trash moves every selected entry to the trash. All entries are
// attempted; failures come back as an *fs.PartialError.
func (s *Session) Trash() error {
	items := s.SelectedEntries()
	if len(items) == 0 {
		return nil
	}

	var failures []error
	for _, item := range items {
		if err := s.access.Trash(item.Path); err != nil {
			debug.Log(debug.APP, "Trash: %q: %v", item.Path, err)
			failures = append(failures, fs.Classify("trash", item.Path, err))
		}
	}
	s.metrics.RecordTrash(len(items)-len(failures), len(failures))
	return s.afterChange(fs.Collect("trash", len(items), failures))
}

// CreateFolder creates name in the current location and selects it.
func (s *Session) CreateFolder(name string) error {
	name = strings.TrimSpace(name)
	if err := validateName("mkdir", name); err != nil {
		return err
	}
	dir := s.Location()
	if dir == "" {
		return fs.Other("mkdir", "", "no current location")
	}

	path := filepath.Join(dir, name)
	if s.access.FileExists(path) {
		return fs.Other("mkdir", path, "already exists")
	}
	if err := s.access.CreateDirectory(path); err != nil {
		return fs.Classify("mkdir", path, err)
	}
	debug.Log(debug.APP, "CreateFolder: %s", path)

	err := s.afterChange(nil)
	s.selectPath(path)
	return err
}

// Rename gives entry a new name in the same directory and selects it.
func (s *Session) Rename(entry fs.Entry, newName string) error {
	newName = strings.TrimSpace(newName)
	if err := validateName("rename", newName); err != nil {
		return err
	}

	dst := filepath.Join(filepath.Dir(entry.Path), newName)
	if dst == entry.Path {
		return nil
	}
	if s.access.FileExists(dst) {
		return fs.Other("rename", dst, "destination already exists")
	}
	if err := s.access.Move(entry.Path, dst); err != nil {
		return fs.Classify("rename", entry.Path, err)
	}
	debug.Log(debug.APP, "Rename: %s -> %s", entry.Path, dst)

	err := s.afterChange(nil)
	s.selectPath(dst)
	return err
}

// CopyPaths writes the selected entries' paths to the system clipboard.
func (s *Session) CopyPaths() error {
	if s.text == nil {
		return fs.Other("copy paths", "", "system clipboard unavailable")
	}
	return s.text.WritePaths(s.SelectedEntries())
}

// afterChange refreshes the view after a file operation whose result is
// opErr. In search mode the query is run again so results drop moved and
// trashed entries. opErr wins over a refresh failure.
func (s *Session) afterChange(opErr error) error {
	err := s.Refresh()

	s.mu.Lock()
	query, searching := s.searchQuery, s.searchMode
	s.mu.Unlock()
	if searching {
		s.Search(query)
	}

	if opErr != nil {
		return opErr
	}
	return err
}

func validateName(op, name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fs.Other(op, name, "invalid name")
	case strings.ContainsRune(name, '/'), strings.ContainsRune(name, filepath.Separator):
		return fs.Other(op, name, "name must not contain a path separator")
	}
	return nil
}

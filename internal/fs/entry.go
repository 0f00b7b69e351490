package fs

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one file or directory as read at a point in time. Entries are
// never mutated; a refresh produces new values with new IDs.
type Entry struct {
	ID      string // unique per read, not derived from Path
	Name    string
	Path    string
	IsDir   bool
	Size    int64 // 0 for directories
	ModTime time.Time
	Created time.Time
	Hidden  bool
}

// NewEntry builds an Entry for path from its metadata and assigns a fresh ID.
func NewEntry(path string, meta Metadata) Entry {
	size := meta.Size
	if meta.IsDir {
		size = 0
	}
	name := filepath.Base(path)
	return Entry{
		ID:      uuid.NewString(),
		Name:    name,
		Path:    path,
		IsDir:   meta.IsDir,
		Size:    size,
		ModTime: meta.ModTime,
		Created: meta.Created,
		Hidden:  meta.Hidden || IsHiddenName(name),
	}
}

// Ext returns the lower-case extension without the dot. Directories and
// dotfiles without a further dot have no extension.
func (e Entry) Ext() string {
	if e.IsDir {
		return ""
	}
	_, ext := SplitExt(e.Name)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// BaseName returns the name without its extension.
func (e Entry) BaseName() string {
	if e.IsDir {
		return e.Name
	}
	base, _ := SplitExt(e.Name)
	return base
}

// SplitExt splits name into base and extension (with the dot). A leading
// dot does not start an extension: ".bashrc" has none, ".config.json" has ".json".
func SplitExt(name string) (base, ext string) {
	ext = filepath.Ext(name)
	if ext == name {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}

// IsHiddenName reports whether name is a dotfile.
func IsHiddenName(name string) bool {
	return strings.HasPrefix(name, ".")
}

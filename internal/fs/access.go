package fs

import (
	iofs "io/fs"
	"time"
)

// Common file permission modes
const (
	DirPermission  = 0o755
	FilePermission = 0o644
)

// RawEntry is a child name as reported by the file system, before its
// metadata is read. IsDir describes the entry itself, so it is false for a
// symlink to a directory.
type RawEntry struct {
	Name  string
	IsDir bool
}

// Metadata describes one file system node.
type Metadata struct {
	IsDir   bool
	Size    int64
	Mode    iofs.FileMode
	ModTime time.Time
	Created time.Time
	Hidden  bool
}

// Access is the file system collaborator the core reads and mutates
// through. Paths are absolute.
type Access interface {
	IsReadable(path string) bool
	ListChildren(path string) ([]RawEntry, error)
	ReadMetadata(path string) (Metadata, error)
	Copy(src, dst string) error
	Move(src, dst string) error
	CreateDirectory(path string) error
	Trash(path string) error
	FileExists(path string) bool
}

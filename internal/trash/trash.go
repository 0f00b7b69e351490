// Package trash moves files into the user's trash instead of deleting
// them, and lets callers inspect and empty that trash.
package trash

import (
	"errors"
	"time"
)

// ErrUnavailable is returned when the platform has no usable trash.
var ErrUnavailable = errors.New("trash unavailable")

// Item is one entry currently held in the trash.
type Item struct {
	Name         string
	OriginalPath string // empty when the platform keeps no record
	TrashPath    string
	DeletedAt    time.Time
	Size         int64
	IsDir        bool
}

// MoveToTrash moves path into the trash. The entry disappears from its
// parent directory on success.
func MoveToTrash(path string) error {
	return moveToTrash(path)
}

// List returns the items currently in the trash.
func List() ([]Item, error) {
	return list()
}

// Empty permanently deletes everything in the trash.
func Empty() error {
	return empty()
}

// Delete permanently deletes one item from the trash.
func Delete(item Item) error {
	return deleteItem(item)
}

// Path returns the trash directory, or "" when it cannot be determined.
func Path() string {
	return getPath()
}

// IsAvailable reports whether MoveToTrash can work on this platform.
func IsAvailable() bool {
	return isAvailable()
}

// DisplayName is the user-facing name of the trash.
func DisplayName() string {
	return "Trash"
}

// uniqueName returns the first candidate produced by next that exists
// reports as free. next(0) must return the original name.
func uniqueName(exists func(string) bool, next func(n int) string) string {
	for n := 0; ; n++ {
		name := next(n)
		if !exists(name) {
			return name
		}
	}
}

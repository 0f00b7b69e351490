package fs

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/charlievieth/fastwalk"
	cp "github.com/otiai10/copy"

	"github.com/justyntemme/razorfs/internal/debug"
	"github.com/justyntemme/razorfs/internal/trash"
)

// OS is the Access implementation backed by the local file system.
type OS struct {
	// moveToTrash is replaceable so tests don't touch the user's trash
	moveToTrash func(path string) error
}

// NewOS returns the local file system collaborator.
func NewOS() *OS {
	return &OS{moveToTrash: trash.MoveToTrash}
}

func (o *OS) IsReadable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

func (o *OS) FileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// ListChildren reads the direct children of path with a depth-1 fastwalk.
func (o *OS) ListChildren(path string) ([]RawEntry, error) {
	// fastwalk swallows an unreadable root; open it first so the caller
	// sees permission and existence failures.
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	f.Close()

	var result []RawEntry
	var mu sync.Mutex

	// Links are reported, not traversed; ReadMetadata resolves their targets.
	conf := &fastwalk.Config{Follow: false}
	pathLen := len(path)

	err = fastwalk.Walk(conf, path, func(fullPath string, d iofs.DirEntry, err error) error {
		if err != nil {
			debug.Log(debug.FS_ENTRY, "ListChildren: walk error at %q: %v", fullPath, err)
			return nil
		}
		if fullPath == path {
			return nil
		}

		relStart := pathLen
		if relStart < len(fullPath) && (fullPath[relStart] == '/' || fullPath[relStart] == '\\') {
			relStart++
		}
		if strings.ContainsAny(fullPath[relStart:], "/\\") {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		mu.Lock()
		result = append(result, RawEntry{Name: d.Name(), IsDir: d.IsDir()})
		mu.Unlock()

		// Single level only
		if d.IsDir() {
			return fastwalk.SkipDir
		}
		return nil
	})
	if err != nil {
		return result, err
	}
	return result, nil
}

// ReadMetadata stats path, following symlinks and falling back to the link
// itself when its target is gone.
func (o *OS) ReadMetadata(path string) (Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		info, err = os.Lstat(path)
		if err != nil {
			return Metadata{}, err
		}
		debug.Log(debug.FS_ENTRY, "ReadMetadata: %q: using lstat (symlink target inaccessible)", path)
	}
	return MetadataFromInfo(path, info), nil
}

// MetadataFromInfo converts a stat result for path.
func MetadataFromInfo(path string, info iofs.FileInfo) Metadata {
	return Metadata{
		IsDir:   info.IsDir(),
		Size:    info.Size(),
		Mode:    info.Mode(),
		ModTime: info.ModTime(),
		Created: birthTime(path, info),
		Hidden:  IsHiddenName(info.Name()),
	}
}

// Copy duplicates a file or directory tree. dst must not exist.
func (o *OS) Copy(src, dst string) error {
	if o.FileExists(dst) {
		return &os.PathError{Op: "copy", Path: dst, Err: iofs.ErrExist}
	}
	return cp.Copy(src, dst, cp.Options{
		OnSymlink:     func(string) cp.SymlinkAction { return cp.Shallow },
		PreserveTimes: true,
	})
}

// Move renames src to dst, copying then deleting when they are on
// different volumes. dst must not exist.
func (o *OS) Move(src, dst string) error {
	if o.FileExists(dst) {
		return &os.PathError{Op: "move", Path: dst, Err: iofs.ErrExist}
	}
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	debug.Log(debug.FS, "Move: cross-device %s -> %s, copying", src, dst)
	if err := o.Copy(src, dst); err != nil {
		return fmt.Errorf("cross-device copy: %w", err)
	}
	return os.RemoveAll(src)
}

func (o *OS) CreateDirectory(path string) error {
	return os.Mkdir(path, DirPermission)
}

func (o *OS) Trash(path string) error {
	return o.moveToTrash(path)
}

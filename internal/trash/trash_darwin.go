//go:build darwin

package trash

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	cp "github.com/otiai10/copy"
)

// ~/.Trash keeps no record of where an entry came from. Name clashes get a
// timestamp suffix the way Finder does.

func getPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".Trash")
}

func isAvailable() bool {
	p := getPath()
	if p == "" {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

func moveToTrash(path string) error {
	trashDir := getPath()
	if trashDir == "" {
		return ErrUnavailable
	}
	if _, err := os.Lstat(path); err != nil {
		return err
	}

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	stamp := time.Now().Format("2006-01-02-150405")
	dest := filepath.Join(trashDir, uniqueName(func(name string) bool {
		_, err := os.Lstat(filepath.Join(trashDir, name))
		return err == nil
	}, func(n int) string {
		switch n {
		case 0:
			return base
		case 1:
			return fmt.Sprintf("%s %s%s", stem, stamp, ext)
		default:
			return fmt.Sprintf("%s %s %d%s", stem, stamp, n, ext)
		}
	}))

	err := os.Rename(path, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return fmt.Errorf("move to trash: %w", err)
	}
	if err := cp.Copy(path, dest, cp.Options{OnSymlink: func(string) cp.SymlinkAction { return cp.Shallow }, PreserveTimes: true}); err != nil {
		os.RemoveAll(dest)
		return fmt.Errorf("move to trash: %w", err)
	}
	return os.RemoveAll(path)
}

func list() ([]Item, error) {
	trashDir := getPath()
	if trashDir == "" {
		return nil, ErrUnavailable
	}
	entries, err := os.ReadDir(trashDir)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var items []Item
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		items = append(items, Item{
			Name:      entry.Name(),
			TrashPath: filepath.Join(trashDir, entry.Name()),
			DeletedAt: info.ModTime(),
			Size:      info.Size(),
			IsDir:     entry.IsDir(),
		})
	}
	return items, nil
}

func empty() error {
	trashDir := getPath()
	if trashDir == "" {
		return ErrUnavailable
	}
	entries, err := os.ReadDir(trashDir)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil
		}
		return err
	}
	var errs []error
	for _, entry := range entries {
		if entry.Name() == ".DS_Store" {
			continue
		}
		if err := os.RemoveAll(filepath.Join(trashDir, entry.Name())); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func deleteItem(item Item) error {
	return os.RemoveAll(item.TrashPath)
}

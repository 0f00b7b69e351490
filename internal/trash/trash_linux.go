//go:build linux

package trash

import (
	"bufio"
	"errors"
	"fmt"
	iofs "io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// freedesktop.org layout under $XDG_DATA_HOME/Trash:
//
//	files/            trashed entries
//	info/NAME.trashinfo
//
// [Trash Info]
// Path=/original/path
// DeletionDate=2024-01-15T10:30:45

const infoTimeLayout = "2006-01-02T15:04:05"

func getPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "Trash")
}

func filesDir() string { return filepath.Join(getPath(), "files") }
func infoDir() string { return filepath.Join(getPath(), "info") }

func ensureDirs() error {
	if getPath() == "" {
		return ErrUnavailable
	}
	if err := os.MkdirAll(filesDir(), 0o700); err != nil {
		return fmt.Errorf("create trash files dir: %w", err)
	}
	if err := os.MkdirAll(infoDir(), 0o700); err != nil {
		return fmt.Errorf("create trash info dir: %w", err)
	}
	return nil
}

func isAvailable() bool {
	return ensureDirs() == nil
}

func moveToTrash(path string) error {
	if err := ensureDirs(); err != nil {
		return err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(absPath); err != nil {
		return err
	}

	base := filepath.Base(absPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	destName := uniqueName(func(name string) bool {
		_, errFile := os.Lstat(filepath.Join(filesDir(), name))
		_, errInfo := os.Lstat(filepath.Join(infoDir(), name+".trashinfo"))
		return errFile == nil || errInfo == nil
	}, func(n int) string {
		if n == 0 {
			return base
		}
		return fmt.Sprintf("%s.%d%s", stem, n, ext)
	})

	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		escapePath(absPath), time.Now().Format(infoTimeLayout))
	infoPath := filepath.Join(infoDir(), destName+".trashinfo")
	if err := os.WriteFile(infoPath, []byte(info), 0o600); err != nil {
		return fmt.Errorf("write trashinfo: %w", err)
	}

	if err := os.Rename(absPath, filepath.Join(filesDir(), destName)); err != nil {
		os.Remove(infoPath)
		return fmt.Errorf("move to trash: %w", err)
	}
	return nil
}

// escapePath percent-encodes each segment and keeps the separators.
func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

func list() ([]Item, error) {
	entries, err := os.ReadDir(filesDir())
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		item := Item{
			Name:      entry.Name(),
			TrashPath: filepath.Join(filesDir(), entry.Name()),
			DeletedAt: fi.ModTime(),
			Size:      fi.Size(),
			IsDir:     entry.IsDir(),
		}
		if orig, when, err := parseTrashInfo(filepath.Join(infoDir(), entry.Name()+".trashinfo")); err == nil {
			item.OriginalPath = orig
			if orig != "" {
				item.Name = filepath.Base(orig)
			}
			if !when.IsZero() {
				item.DeletedAt = when
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func parseTrashInfo(path string) (string, time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", time.Time{}, err
	}
	defer f.Close()

	var orig string
	var when time.Time
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "Path="):
			raw := strings.TrimPrefix(line, "Path=")
			if decoded, err := url.PathUnescape(raw); err == nil {
				orig = decoded
			} else {
				orig = raw
			}
		case strings.HasPrefix(line, "DeletionDate="):
			if t, err := time.ParseInLocation(infoTimeLayout, strings.TrimPrefix(line, "DeletionDate="), time.Local); err == nil {
				when = t
			}
		}
	}
	return orig, when, scanner.Err()
}

func empty() error {
	var errs []error
	for _, dir := range []string{filesDir(), infoDir()} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, iofs.ErrNotExist) {
				continue
			}
			return err
		}
		for _, entry := range entries {
			if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func deleteItem(item Item) error {
	if err := os.RemoveAll(item.TrashPath); err != nil {
		return err
	}
	os.Remove(filepath.Join(infoDir(), filepath.Base(item.TrashPath)+".trashinfo"))
	return nil
}

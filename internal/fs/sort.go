package fs

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the column entries are ordered by.
type SortKey int

const (
	SortByName SortKey = iota
	SortByDate
	SortByType
	SortBySize
)

func (k SortKey) String() string {
	switch k {
	case SortByDate:
		return "date"
	case SortByType:
		return "type"
	case SortBySize:
		return "size"
	default:
		return "name"
	}
}

// ParseSortKey maps a config value to a SortKey, defaulting to name.
func ParseSortKey(s string) SortKey {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "date", "modified", "mtime":
		return SortByDate
	case "type", "ext", "extension":
		return SortByType
	case "size":
		return SortBySize
	default:
		return SortByName
	}
}

// NameComparer returns a case-insensitive, locale-aware string comparison.
// The returned func is not safe for concurrent use.
func NameComparer() func(a, b string) int {
	c := collate.New(language.Und, collate.IgnoreCase)
	return c.CompareString
}

// Sort returns entries ordered by key. Directories always precede files;
// ascending only affects the order within each group. Equal keys keep
// their input order.
func Sort(entries []Entry, key SortKey, ascending bool) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)

	compareNames := NameComparer()
	slices.SortStableFunc(out, func(a, b Entry) int {
		// Directories first
		if a.IsDir != b.IsDir {
			if a.IsDir {
				return -1
			}
			return 1
		}

		var c int
		switch key {
		case SortByDate:
			c = a.ModTime.Compare(b.ModTime)
		case SortBySize:
			c = cmp.Compare(a.Size, b.Size)
		case SortByType:
			c = strings.Compare(a.Ext(), b.Ext())
		default:
			c = compareNames(a.Name, b.Name)
		}

		if !ascending {
			return -c
		}
		return c
	})
	return out
}

package search

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Scope selects the root set and recursion policy of a search.
type Scope int

const (
	ScopeFolder          Scope = iota // current folder, direct children only
	ScopeFolderRecursive              // current folder subtree
	ScopeSystem                       // home and application directories
)

func (s Scope) String() string {
	switch s {
	case ScopeFolderRecursive:
		return "recursive"
	case ScopeSystem:
		return "system"
	default:
		return "folder"
	}
}

// ParseScope maps a config or directive value to a Scope.
func ParseScope(s string) Scope {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "recursive", "subtree", "deep":
		return ScopeFolderRecursive
	case "system", "all", "everywhere":
		return ScopeSystem
	default:
		return ScopeFolder
	}
}

// Comparison operators for size filters
type Operator int

const (
	OpNone Operator = iota
	OpGreater
	OpLess
	OpGreaterEq
	OpLessEq
	OpEquals
)

// sizeTolerance is how far apart two sizes may be and still compare equal.
const sizeTolerance = 1024

// SizeFilter compares an entry's size against Value expressed in Unit.
type SizeFilter struct {
	Op    Operator
	Value float64
	Unit  string // B, KB, MB, GB or TB, 1024-based
}

var iecUnits = map[string]string{
	"":   "B",
	"B":  "B",
	"K":  "KiB",
	"KB": "KiB",
	"M":  "MiB",
	"MB": "MiB",
	"G":  "GiB",
	"GB": "GiB",
	"T":  "TiB",
	"TB": "TiB",
}

// Bytes normalizes the filter value to bytes. An unknown unit yields an error.
func (f SizeFilter) Bytes() (int64, error) {
	unit, ok := iecUnits[strings.ToUpper(f.Unit)]
	if !ok {
		return 0, fmt.Errorf("unknown size unit %q", f.Unit)
	}
	n, err := humanize.ParseBytes(strconv.FormatFloat(f.Value, 'f', -1, 64) + " " + unit)
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}

// match reports whether size satisfies the filter against target bytes.
func (f SizeFilter) match(size, target int64) bool {
	switch f.Op {
	case OpGreater:
		return size > target
	case OpLess:
		return size < target
	case OpGreaterEq:
		return size >= target
	case OpLessEq:
		return size <= target
	default:
		d := size - target
		if d < 0 {
			d = -d
		}
		return d <= sizeTolerance
	}
}

// Filters are optional post-filters, AND-combined. Zero values disable.
type Filters struct {
	Ext          string // without the dot, compared case-insensitively
	Size         *SizeFilter
	ModifiedFrom time.Time // inclusive
	ModifiedTo   time.Time // inclusive
}

// Query is an immutable search request.
type Query struct {
	Text          string
	Scope         Scope
	Filters       Filters
	Regex         bool // Text is a regular expression for content matching
	Content       bool // also match file contents
	IncludeHidden bool
}

// IsEmpty reports whether the query has nothing to match on.
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.Text) == ""
}

// Parse turns a search box string into a Query. Directives:
//
//	foo                 name text
//	contents:hello      match file contents too
//	regex:^func         content regex
//	ext:go              extension filter
//	size:>1MB           size filter (B, KB, MB, GB, TB)
//	modified:>=2024-01  modified date filter, also today/yesterday/week/month/year
//	recursive:          search the current folder subtree
//	scope:system        search home and application directories
//	hidden:             include dotfiles
//
// Words that are not directives are joined into Text.
func Parse(input string) Query {
	var q Query
	var words []string

	for _, part := range splitRespectingQuotes(strings.TrimSpace(input)) {
		idx := strings.Index(part, ":")
		if idx <= 0 {
			words = append(words, part)
			continue
		}
		directive := strings.ToLower(part[:idx])
		value := strings.Trim(part[idx+1:], "\"'")

		switch directive {
		case "filename", "name", "file":
			words = append(words, value)
		case "contents", "content", "text", "body":
			q.Content = true
			words = append(words, value)
		case "regex", "re":
			q.Content = true
			q.Regex = true
			words = append(words, value)
		case "ext", "extension", "type":
			q.Filters.Ext = strings.ToLower(strings.TrimPrefix(value, "."))
		case "size":
			if f, ok := parseSize(value); ok {
				q.Filters.Size = &f
			}
		case "modified", "date", "mtime":
			op, dateStr := parseOperator(value)
			if t := parseDate(dateStr); !t.IsZero() {
				q.Filters.ModifiedFrom, q.Filters.ModifiedTo = dateRange(op, t)
			}
		case "recursive", "r":
			q.Scope = ScopeFolderRecursive
		case "scope", "in":
			q.Scope = ParseScope(value)
		case "hidden":
			q.IncludeHidden = true
		default:
			words = append(words, part)
		}
	}

	q.Text = strings.Join(words, " ")
	return q
}

func splitRespectingQuotes(s string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false
	quoteChar := rune(0)

	for _, r := range s {
		switch {
		case (r == '"' || r == '\'') && !inQuotes:
			inQuotes = true
			quoteChar = r
		case r == quoteChar && inQuotes:
			inQuotes = false
			quoteChar = 0
		case r == ' ' && !inQuotes:
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

func parseOperator(s string) (Operator, string) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, ">="):
		return OpGreaterEq, strings.TrimSpace(s[2:])
	case strings.HasPrefix(s, "<="):
		return OpLessEq, strings.TrimSpace(s[2:])
	case strings.HasPrefix(s, ">"):
		return OpGreater, strings.TrimSpace(s[1:])
	case strings.HasPrefix(s, "<"):
		return OpLess, strings.TrimSpace(s[1:])
	case strings.HasPrefix(s, "="):
		return OpEquals, strings.TrimSpace(s[1:])
	default:
		return OpEquals, s
	}
}

// parseSize reads "[op]number[unit]" such as ">1.5MB" or "<=200".
func parseSize(s string) (SizeFilter, bool) {
	op, rest := parseOperator(s)
	rest = strings.ToUpper(rest)

	i := 0
	for i < len(rest) && (rest[i] == '.' || (rest[i] >= '0' && rest[i] <= '9')) {
		i++
	}
	n, err := strconv.ParseFloat(rest[:i], 64)
	if err != nil {
		return SizeFilter{}, false
	}
	f := SizeFilter{Op: op, Value: n, Unit: strings.TrimSpace(rest[i:])}
	if _, err := f.Bytes(); err != nil {
		return SizeFilter{}, false
	}
	return f, true
}

// parseDate parses date strings like "2024-01-01", "2024-01", "today", "yesterday"
func parseDate(s string) time.Time {
	s = strings.ToLower(strings.TrimSpace(s))
	now := time.Now()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	switch s {
	case "today":
		return today
	case "yesterday":
		return today.AddDate(0, 0, -1)
	case "week":
		return today.AddDate(0, 0, -7)
	case "month":
		return today.AddDate(0, -1, 0)
	case "year":
		return today.AddDate(-1, 0, 0)
	}

	formats := []string{
		"2006-01-02",
		"2006-01",
		"2006/01/02",
		"01/02/2006",
	}
	for _, layout := range formats {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// dateRange converts a comparison against day t into an inclusive range.
// A zero bound is open.
func dateRange(op Operator, t time.Time) (from, to time.Time) {
	endOfDay := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	switch op {
	case OpGreater:
		return endOfDay.Add(time.Nanosecond), time.Time{}
	case OpGreaterEq:
		return t, time.Time{}
	case OpLess:
		return time.Time{}, t.Add(-time.Nanosecond)
	case OpLessEq:
		return time.Time{}, endOfDay
	default:
		return t, endOfDay
	}
}

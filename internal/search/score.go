package search

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/justyntemme/razorfs/internal/fs"
)

// MatchType is how a query matched; a higher value ranks first.
type MatchType int

const (
	MatchFuzzy MatchType = iota
	MatchExtension
	MatchContains
	MatchPrefix
	MatchExact
)

func (m MatchType) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchPrefix:
		return "prefix"
	case MatchContains:
		return "contains"
	case MatchExtension:
		return "extension"
	default:
		return "fuzzy"
	}
}

const (
	contentScore = 0.5
	minScore     = 0.1

	fuzzyMaxQuery = 8
	fuzzyMaxName  = 50
)

// Result is one ranked search hit.
type Result struct {
	Entry     fs.Entry
	Score     float64 // 0..1
	MatchType MatchType
}

// scoreName ranks name against the lower-cased query. The first tier that
// applies wins. A zero score means no name match.
func scoreName(query, name string, isDir bool) (float64, MatchType) {
	if query == "" {
		return 0, MatchFuzzy
	}
	name = strings.ToLower(name)
	base, ext := name, ""
	if !isDir {
		base, ext = fs.SplitExt(name)
		ext = strings.TrimPrefix(ext, ".")
	}

	switch {
	case name == query:
		return 1.0, MatchExact
	case base == query:
		return 0.95, MatchExact
	case strings.HasPrefix(base, query):
		return 0.85, MatchPrefix
	case strings.HasPrefix(name, query):
		return 0.9, MatchPrefix
	}
	if idx := strings.Index(name, query); idx >= 0 {
		scale := 1 - float64(idx)/float64(len(name))
		if scale < 0.3 {
			scale = 0.3
		}
		return 0.8 * scale, MatchContains
	}
	if strings.Contains(base, query) {
		return 0.75, MatchContains
	}
	if ext != "" && ext == strings.TrimPrefix(query, ".") {
		return 0.7, MatchExtension
	}
	if len(query) > 2 && len(query) <= fuzzyMaxQuery && len(name) <= fuzzyMaxName && isSubsequence(query, name) {
		return 0.4 * float64(len(query)) / float64(len(name)), MatchFuzzy
	}
	return 0, MatchFuzzy
}

// isSubsequence reports whether every rune of pattern appears in s in order.
func isSubsequence(pattern, s string) bool {
	return len(fuzzy.Find(pattern, []string{s})) > 0
}

// combine merges name and content signals. A content hit that outscores the
// name is classified as fuzzy.
func combine(nameScore float64, nameType MatchType, contentHit bool) (float64, MatchType) {
	if contentHit && contentScore > nameScore {
		return contentScore, MatchFuzzy
	}
	return nameScore, nameType
}

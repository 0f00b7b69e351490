package search

import (
	"bytes"
	"io"
	"os"
	"regexp"

	"github.com/gabriel-vasile/mimetype"

	"github.com/justyntemme/razorfs/internal/debug"
)

// DefaultContentMaxBytes caps how much of a file content matching reads.
const DefaultContentMaxBytes = 1 << 20

// contentMatcher tests the leading bytes of text-like files.
type contentMatcher struct {
	re       *regexp.Regexp // nil for plain substring matching
	needle   []byte         // lower-cased
	maxBytes int64
}

// newContentMatcher compiles text as a case-insensitive regex when asked
// to. A pattern that does not compile falls back to substring matching.
func newContentMatcher(text string, useRegex bool, maxBytes int64) *contentMatcher {
	if maxBytes <= 0 {
		maxBytes = DefaultContentMaxBytes
	}
	m := &contentMatcher{needle: bytes.ToLower([]byte(text)), maxBytes: maxBytes}
	if useRegex {
		re, err := regexp.Compile("(?i)" + text)
		if err != nil {
			debug.Log(debug.SEARCH, "content: regex %q: %v, using substring", text, err)
		} else {
			m.re = re
		}
	}
	return m
}

// readPrefix reads up to maxBytes from path.
func (m *contentMatcher) readPrefix(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, m.maxBytes))
}

func (m *contentMatcher) match(path string) bool {
	data, err := m.readPrefix(path)
	if err != nil {
		debug.Log(debug.SEARCH, "content: skip %q: %v", path, err)
		return false
	}
	return m.matchBytes(data)
}

func (m *contentMatcher) matchBytes(data []byte) bool {
	if len(data) == 0 || !isText(data) {
		return false
	}
	if m.re != nil {
		return m.re.Match(data)
	}
	return bytes.Contains(bytes.ToLower(data), m.needle)
}

// isText reports whether data sniffs as text/plain or a descendant of it.
func isText(data []byte) bool {
	for mt := mimetype.Detect(data); mt != nil; mt = mt.Parent() {
		if mt.Is("text/plain") {
			return true
		}
	}
	return false
}

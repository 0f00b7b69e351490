package clipboard

import (
	"strings"

	"github.com/atotto/clipboard"

	"github.com/justyntemme/razorfs/internal/fs"
)

// SystemText writes to the operating system's text clipboard, so copied
// paths can be pasted into other programs.
type SystemText struct {
	write func(string) error
}

func NewSystemText() *SystemText {
	return &SystemText{write: clipboard.WriteAll}
}

// Available reports whether a clipboard utility was found.
func (s *SystemText) Available() bool {
	return !clipboard.Unsupported
}

// WritePaths puts one path per line on the system clipboard.
func (s *SystemText) WritePaths(entries []fs.Entry) error {
	if len(entries) == 0 {
		return fs.ErrEmptyClipboard
	}
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return s.write(strings.Join(paths, "\n"))
}

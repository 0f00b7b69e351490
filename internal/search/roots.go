package search

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// skipDirRoots are top-level pseudo file systems never worth searching.
var skipDirRoots = map[string]bool{
	"dev":        true,
	"proc":       true,
	"sys":        true,
	"run":        true,
	"snap":       true,
	"boot":       true,
	"lost+found": true,
}

// shouldSkipPath reports whether path lies under one of skipDirRoots.
func shouldSkipPath(path string) bool {
	if len(path) < 2 || path[0] != '/' {
		return false
	}
	rest := path[1:]
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return skipDirRoots[rest]
}

// Roots resolves scope against the current folder.
func (e *Engine) Roots(scope Scope, current string) []Root {
	switch scope {
	case ScopeFolderRecursive:
		return []Root{{Path: current, Recursive: true}}
	case ScopeSystem:
		paths := e.opts.SystemRoots
		if len(paths) == 0 {
			paths = DefaultSystemRoots()
		}
		roots := make([]Root, 0, len(paths))
		for _, p := range paths {
			roots = append(roots, Root{Path: p, Recursive: true})
		}
		return roots
	default:
		return []Root{{Path: current}}
	}
}

// DefaultSystemRoots lists the home directory and the platform's
// application directories.
func DefaultSystemRoots() []string {
	home, _ := os.UserHomeDir()
	var roots []string
	if home != "" {
		roots = append(roots, home)
	}
	switch runtime.GOOS {
	case "darwin":
		roots = append(roots, "/Applications")
		if home != "" {
			roots = append(roots, filepath.Join(home, "Applications"))
		}
	case "linux":
		roots = append(roots, "/usr/share/applications", "/opt")
		if home != "" {
			roots = append(roots, filepath.Join(home, ".local", "share", "applications"))
		}
	}
	return roots
}

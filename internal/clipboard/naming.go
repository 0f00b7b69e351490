package clipboard

import (
	"path/filepath"
	"strconv"

	"github.com/justyntemme/razorfs/internal/fs"
)

// copyName is the n-th collision name for a copy: "report (copy 2).txt".
func copyName(name string, isDir bool, n int) string {
	base, ext := splitName(name, isDir)
	return base + " (copy " + strconv.Itoa(n) + ")" + ext
}

// moveName is the n-th collision name for a move: "report 2.txt".
func moveName(name string, isDir bool, n int) string {
	base, ext := splitName(name, isDir)
	return base + " " + strconv.Itoa(n) + ext
}

// splitName keeps directory names whole; "v1.2" is a folder name, not an
// extension.
func splitName(name string, isDir bool) (string, string) {
	if isDir {
		return name, ""
	}
	return fs.SplitExt(name)
}

// resolveTarget returns the first free path in dir for name, using rename
// to produce candidates when name is taken.
func resolveTarget(exists func(string) bool, dir, name string, isDir bool, rename func(string, bool, int) string) string {
	target := filepath.Join(dir, name)
	for n := 1; exists(target); n++ {
		target = filepath.Join(dir, rename(name, isDir, n))
	}
	return target
}

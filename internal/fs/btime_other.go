//go:build !linux && !darwin

package fs

import (
	iofs "io/fs"
	"time"
)

func birthTime(path string, info iofs.FileInfo) time.Time {
	return info.ModTime()
}

//go:build linux

package fs

import (
	iofs "io/fs"
	"time"

	"golang.org/x/sys/unix"
)

// birthTime reads the creation time via statx, falling back to the
// modification time on file systems that don't record it.
func birthTime(path string, info iofs.FileInfo) time.Time {
	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME, &stx); err != nil {
		return info.ModTime()
	}
	if stx.Mask&unix.STATX_BTIME == 0 {
		return info.ModTime()
	}
	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
}

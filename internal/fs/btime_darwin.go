//go:build darwin

package fs

import (
	iofs "io/fs"
	"syscall"
	"time"
)

func birthTime(path string, info iofs.FileInfo) time.Time {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec)
}

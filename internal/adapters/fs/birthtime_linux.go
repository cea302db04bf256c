//go:build linux

package fs

import (
	"os"

	"golang.org/x/sys/unix"
)

// birthTimeMillis reads the creation time through statx.
// File systems that do not record it report zero.
func birthTimeMillis(path string, _ os.FileInfo) int64 {
	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, unix.STATX_BTIME, &stx); err != nil {
		return 0
	}
	if stx.Mask&unix.STATX_BTIME == 0 {
		return 0
	}
	return stx.Btime.Sec*1000 + int64(stx.Btime.Nsec)/1_000_000
}

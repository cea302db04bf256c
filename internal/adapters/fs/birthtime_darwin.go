//go:build darwin

package fs

import (
	"os"

	"golang.org/x/sys/unix"
)

func birthTimeMillis(path string, _ os.FileInfo) int64 {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0
	}
	return st.Btim.Sec*1000 + st.Btim.Nsec/1_000_000
}

//go:build !linux && !darwin

package fs

import "os"

func birthTimeMillis(string, os.FileInfo) int64 {
	return 0
}

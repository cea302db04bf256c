package fs

import (
	"context"
	"os"

	"go.trai.ch/atlas/internal/core/ports"
)

var _ ports.ContentReader = (*Reader)(nil)

// Reader reads asset bytes from disk.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadFile returns the contents of path.
func (r *Reader) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(path) //nolint:gosec // Path comes from the scanned source directory
}

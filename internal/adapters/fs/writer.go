package fs

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/atlas/internal/core/domain"
	"go.trai.ch/atlas/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ArtifactWriter = (*Writer)(nil)

// Writer writes emitted artifacts below a project root, creating directories as needed.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write stores content at the posix path relative to root.
func (w *Writer) Write(ctx context.Context, root, path string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.Join(root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrEmitFailed.Error()), "path", target)
	}

	//nolint:gosec // Path is composed from configured output directories
	if err := os.WriteFile(target, content, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrEmitFailed.Error()), "path", target)
	}

	return nil
}

// Package fs provides file system adapters for scanning, fingerprinting and writing assets.
package fs

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every regular file below root, skipping .git and .jj directories.
// When recursive is false only the direct children of root are visited.
// Symbolic links are followed; files behind a link are reported below the
// link's own path and every directory is visited at most once.
// Walk errors and context cancellation are yielded once and end the iteration.
func (w *Walker) WalkFiles(ctx context.Context, root string, recursive bool) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		visited := make(map[string]struct{})
		if _, err := w.walk(ctx, root, recursive, visited, yield); err != nil {
			yield("", err)
		}
	}
}

// walk visits the resolved tree of dir and reports paths as if the tree were
// located at dir. It returns false once yield asked to stop.
func (w *Walker) walk(
	ctx context.Context,
	dir string,
	recursive bool,
	visited map[string]struct{},
	yield func(string, error) bool,
) (bool, error) {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return true, err
	}
	if _, ok := visited[resolved]; ok {
		return true, nil
	}

	stopped := false
	err = filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		display := dir
		if rel, relErr := filepath.Rel(resolved, path); relErr == nil && rel != "." {
			display = filepath.Join(dir, rel)
		}

		if d.IsDir() {
			if path != resolved && (!recursive || w.shouldSkipDir(d.Name())) {
				return filepath.SkipDir
			}
			if _, ok := visited[path]; ok {
				return filepath.SkipDir
			}
			visited[path] = struct{}{}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			info, statErr := os.Stat(path)
			if statErr != nil {
				// Dangling links are not assets.
				return nil
			}
			if info.IsDir() {
				if !recursive || w.shouldSkipDir(d.Name()) {
					return nil
				}
				more, err := w.walk(ctx, display, recursive, visited, yield)
				if err != nil {
					return err
				}
				if !more {
					stopped = true
					return filepath.SkipAll
				}
				return nil
			}
			if !info.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}

		if !yield(display, nil) {
			stopped = true
			return filepath.SkipAll
		}

		return nil
	})
	return !stopped, err
}

func (w *Walker) shouldSkipDir(name string) bool {
	return name == ".git" || name == ".jj"
}

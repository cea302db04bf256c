package fs

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
	"go.trai.ch/atlas/internal/core/domain"
	"go.trai.ch/atlas/internal/core/ports"
	"go.trai.ch/zerr"
)

// ImagePattern is the allow-list of source image file names.
const ImagePattern = "*.{png,gif,jpg,bmp,tiff}"

var _ ports.AssetScanner = (*Scanner)(nil)

// Scanner enumerates image files below the source directories of an atlas.
type Scanner struct {
	walker *Walker
	hasher Fingerprinter
	images glob.Glob
}

// NewScanner creates a Scanner using the given fingerprinter.
func NewScanner(walker *Walker, hasher Fingerprinter) *Scanner {
	return &Scanner{
		walker: walker,
		hasher: hasher,
		images: glob.MustCompile(ImagePattern),
	}
}

// Scan walks each source entry and returns the matching assets sorted by name.
// Files reachable from several entries are reported once, for the first entry.
func (s *Scanner) Scan(
	ctx context.Context,
	atlasRoot string,
	sources []domain.SourceEntry,
) ([]domain.AssetRecord, error) {
	seen := make(map[string]struct{})
	records := make([]domain.AssetRecord, 0)

	for _, entry := range sources {
		found, err := s.scanEntry(ctx, atlasRoot, entry, seen)
		if err != nil {
			return nil, err
		}
		records = append(records, found...)
	}

	slices.SortFunc(records, func(a, b domain.AssetRecord) int {
		return strings.Compare(a.Name, b.Name)
	})

	return records, nil
}

func (s *Scanner) scanEntry(
	ctx context.Context,
	atlasRoot string,
	entry domain.SourceEntry,
	seen map[string]struct{},
) ([]domain.AssetRecord, error) {
	dir := filepath.Join(atlasRoot, filepath.FromSlash(entry.Path))

	info, err := os.Stat(dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrScanFailed.Error()), "path", dir)
	}
	if !info.IsDir() {
		return nil, zerr.With(domain.ErrScanFailed, "path", dir)
	}

	excludes, err := CompileExcludes(entry.Exclude)
	if err != nil {
		return nil, err
	}

	var records []domain.AssetRecord
	for path, err := range s.walker.WalkFiles(ctx, dir, entry.Recursive) {
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrScanFailed.Error()), "path", dir)
		}

		if !s.images.Match(filepath.Base(path)) {
			continue
		}
		if matchesAny(excludes, relativeSlash(dir, path)) {
			continue
		}
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}

		record, err := s.record(atlasRoot, path)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

func (s *Scanner) record(atlasRoot, path string) (domain.AssetRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.AssetRecord{}, zerr.With(zerr.Wrap(err, domain.ErrFingerprintFailed.Error()), "path", path)
	}

	name := relativeSlash(atlasRoot, path)
	fingerprint, err := s.hasher.Fingerprint(name, path, info)
	if err != nil {
		return domain.AssetRecord{}, err
	}

	return domain.AssetRecord{Path: path, Name: name, Fingerprint: fingerprint}, nil
}

// CompileExcludes compiles exclude globs with '/' as the path separator.
func CompileExcludes(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidExcludePattern.Error()), "pattern", p)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func matchesAny(globs []glob.Glob, s string) bool {
	for _, g := range globs {
		if g.Match(s) {
			return true
		}
	}
	return false
}

func relativeSlash(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

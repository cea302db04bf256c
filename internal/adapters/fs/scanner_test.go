package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/atlas/internal/adapters/fs"
	"go.trai.ch/atlas/internal/core/domain"
)

func touch(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(name), 0o600))
	}
}

func names(records []domain.AssetRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}

func newScanner() *fs.Scanner {
	return fs.NewScanner(fs.NewWalker(), fs.MetadataFingerprinter{})
}

func TestScanner_Scan(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"enemies/orc.png",
		"enemies/bosses/dragon.gif",
		"enemies/notes.txt",
		"enemies/ORC.PSD",
		"environment/grass.jpg",
		"weapons/sword.bmp",
		"weapons/weapon_r1.png",
		"weapons/weapon_l1.tiff",
		"weapons/old/weapon_r2.png",
	)

	tests := []struct {
		name    string
		sources []domain.SourceEntry
		want    []string
	}{
		{
			name:    "recursive directory keeps only images",
			sources: []domain.SourceEntry{{Path: "enemies", Recursive: true}},
			want:    []string{"enemies/bosses/dragon.gif", "enemies/orc.png"},
		},
		{
			name:    "non-recursive directory",
			sources: []domain.SourceEntry{{Path: "enemies"}},
			want:    []string{"enemies/orc.png"},
		},
		{
			name: "exclude matches paths relative to the entry",
			sources: []domain.SourceEntry{{
				Path:      "weapons",
				Exclude:   []string{"weapon_r*"},
				Recursive: true,
			}},
			want: []string{"weapons/old/weapon_r2.png", "weapons/sword.bmp", "weapons/weapon_l1.tiff"},
		},
		{
			name: "exclude with directory glob",
			sources: []domain.SourceEntry{{
				Path:      "weapons",
				Exclude:   []string{"**/weapon_r*", "weapon_r*"},
				Recursive: true,
			}},
			want: []string{"weapons/sword.bmp", "weapons/weapon_l1.tiff"},
		},
		{
			name: "several entries are merged and sorted",
			sources: []domain.SourceEntry{
				{Path: "weapons", Exclude: []string{"weapon_*"}},
				{Path: "environment", Recursive: true},
			},
			want: []string{"environment/grass.jpg", "weapons/sword.bmp"},
		},
		{
			name: "overlapping entries are deduplicated",
			sources: []domain.SourceEntry{
				{Path: "enemies", Recursive: true},
				{Path: "enemies/bosses", Recursive: true},
			},
			want: []string{"enemies/bosses/dragon.gif", "enemies/orc.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := newScanner().Scan(context.Background(), root, tt.sources)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(records))
		})
	}
}

func TestScanner_Scan_EmptyPathIsAtlasRoot(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.png", "sub/b.png")

	records, err := newScanner().Scan(context.Background(), root, []domain.SourceEntry{{Recursive: true}})
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "a.png", records[0].Name)
	assert.Equal(t, filepath.Join(root, "a.png"), records[0].Path)
	assert.Equal(t, "sub/b.png", records[1].Name)
	assert.NotEmpty(t, records[1].Fingerprint)
}

func TestScanner_Scan_EmptyDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o750))

	records, err := newScanner().Scan(context.Background(), root, []domain.SourceEntry{{Path: "empty", Recursive: true}})
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestScanner_Scan_MissingDirectory(t *testing.T) {
	root := t.TempDir()

	_, err := newScanner().Scan(context.Background(), root, []domain.SourceEntry{{Path: "missing"}})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrScanFailed.Error())
}

func TestScanner_Scan_InvalidExclude(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.png")

	_, err := newScanner().Scan(context.Background(), root, []domain.SourceEntry{{Exclude: []string{"[a-"}}})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidExcludePattern.Error())
}

func TestScanner_Scan_FingerprintsAreStable(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "ui/button.png", "ui/panel.png")
	sources := []domain.SourceEntry{{Path: "ui", Recursive: true}}

	first, err := newScanner().Scan(context.Background(), root, sources)
	require.NoError(t, err)
	second, err := newScanner().Scan(context.Background(), root, sources)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEqual(t, first[0].Fingerprint, first[1].Fingerprint)
}

func TestScannerFactory(t *testing.T) {
	factory := fs.NewScannerFactory(fs.NewWalker())

	scanner, err := factory.NewScanner(domain.FingerprintContent)
	require.NoError(t, err)
	require.NotNil(t, scanner)

	_, err = factory.NewScanner("bogus")
	require.Error(t, err)
}

func TestScanner_Scan_FollowsSymlinks(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "src/a.png", "elsewhere/b.png", "shared/c.png")
	require.NoError(t, os.Symlink(filepath.Join(root, "elsewhere", "b.png"), filepath.Join(root, "src", "b.png")))
	require.NoError(t, os.Symlink(filepath.Join(root, "shared"), filepath.Join(root, "src", "linked")))

	records, err := newScanner().Scan(context.Background(), root, []domain.SourceEntry{{Path: "src", Recursive: true}})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.png", "src/b.png", "src/linked/c.png"}, names(records))

	records, err = newScanner().Scan(context.Background(), root, []domain.SourceEntry{{Path: "src"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.png", "src/b.png"}, names(records))
}

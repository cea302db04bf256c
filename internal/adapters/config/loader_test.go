package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/atlas/internal/adapters/config"
	"go.trai.ch/atlas/internal/core/domain"
	"go.trai.ch/atlas/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const fullConfig = `
rootDir: assets
outDir: public
fingerprint: content
cache:
  dir: tmp/cache
  compression: lz4
afterBuild: ["echo", "done"]
packerOptions:
  padding: 4
items:
  - name: enemies
    outDir: assets/atlases
    source: enemies
    recursive: false
    packerOptions:
      scale: 2
    extra:
      group: game
  - name: environment
    outDir: assets/atlases
    source:
      - environment
      - path: weapons
        exclude: weapon_r*
        recursive: true
      - path: props
        exclude: ["*_old.png", "draft/**"]
  - name: ui
    rootDir: ui
    packerOptions:
      scale: 0.5
    overwrite: true
`

func TestLoader_Load(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, fullConfig)

	cfg, err := config.NewLoader(mockLogger).Load(rootDir)
	require.NoError(t, err)

	notRecursive := false
	want := &domain.Configuration{
		Root:          rootDir,
		RootDir:       "assets",
		OutDir:        "public",
		PackerOptions: domain.PackerOptions{"padding": 4},
		Cache:         domain.CacheSettings{Dir: "tmp/cache", Compression: domain.CompressionLZ4},
		Fingerprint:   domain.FingerprintContent,
		AfterBuild:    []string{"echo", "done"},
		Items: []domain.AtlasConfig{
			{
				Name:          "enemies",
				OutDir:        "assets/atlases",
				Sources:       []domain.SourceEntry{{Path: "enemies", Recursive: false}},
				Recursive:     &notRecursive,
				PackerOptions: domain.PackerOptions{"scale": 2},
				Extra:         map[string]any{"group": "game"},
			},
			{
				Name:   "environment",
				OutDir: "assets/atlases",
				Sources: []domain.SourceEntry{
					{Path: "environment", Recursive: true},
					{Path: "weapons", Exclude: []string{"weapon_r*"}, Recursive: true},
					{Path: "props", Exclude: []string{"*_old.png", "draft/**"}, Recursive: true},
				},
			},
			{
				Name:          "ui",
				RootDir:       "ui",
				Sources:       []domain.SourceEntry{{Path: "", Recursive: true}},
				PackerOptions: domain.PackerOptions{"scale": 0.5},
				Overwrite:     true,
			},
		},
	}

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_Load_Defaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, "items:\n  - name: hud\n    source: hud\n")

	cfg, err := config.NewLoader(mockLogger).Load(rootDir)
	require.NoError(t, err)

	assert.Equal(t, domain.FingerprintMetadata, cfg.Fingerprint)
	assert.Equal(t, domain.CompressionZstd, cfg.Cache.Compression)
	assert.Nil(t, cfg.PackerOptions, "nil global options select the built-in defaults")
	assert.Empty(t, cfg.Packer.Command)
	require.Len(t, cfg.Items, 1)
	assert.Equal(t, []domain.SourceEntry{{Path: "hud", Recursive: true}}, cfg.Items[0].Sources)
}

func TestLoader_Load_PathResolution(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	loader := config.NewLoader(mockLogger)

	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, "items: []\n")

	nested := filepath.Join(rootDir, "assets", "enemies")
	require.NoError(t, os.MkdirAll(nested, domain.DirPerm))

	cfg, err := loader.Load(nested)
	require.NoError(t, err)
	assert.Equal(t, rootDir, cfg.Root)
	assert.Empty(t, cfg.Items)

	root, err := loader.DiscoverRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, rootDir, root)
}

func TestLoader_Load_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := config.NewLoaderWithFS(mocks.NewMockLogger(ctrl), config.NewMapFSAdapter("/project", fstest.MapFS{}))

	_, err := loader.Load("/project/assets")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigNotFound.Error())

	_, err = loader.DiscoverRoot("/project")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigNotFound.Error())
}

func TestLoader_Load_MapFS(t *testing.T) {
	ctrl := gomock.NewController(t)
	fsys := fstest.MapFS{
		"atlas.yaml":          {Data: []byte("items:\n  - name: ui\n    source: [ui]\n")},
		"ui/button.png":       {Data: []byte("png")},
		"nested/dir/.keep":    {Data: nil},
		"nested/atlas.yaml/x": {Data: nil},
	}
	root := filepath.FromSlash("/project")
	loader := config.NewLoaderWithFS(mocks.NewMockLogger(ctrl), config.NewMapFSAdapter(root, fsys))

	// A directory named atlas.yaml is not a configuration file.
	cfg, err := loader.Load(filepath.Join(root, "nested", "atlas.yaml"))
	require.NoError(t, err)
	assert.Equal(t, root, cfg.Root)
	require.Len(t, cfg.Items, 1)
	assert.Equal(t, "ui", cfg.Items[0].Sources[0].Path)
}

func TestLoader_Load_OverwriteWithoutOptionsWarns(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn("'overwrite' on atlas ui has no effect without packerOptions").Times(1)

	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, "items:\n  - name: ui\n    overwrite: true\n")

	_, err := config.NewLoader(mockLogger).Load(rootDir)
	require.NoError(t, err)
}

func TestLoader_Load_ExternalPackerOptionsAreOpaque(t *testing.T) {
	ctrl := gomock.NewController(t)
	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, `
packer:
  command: ["texture-packer", "--stdio"]
items:
  - name: ui
    packerOptions: {scale: -1, exporter: Phaser3}
`)

	cfg, err := config.NewLoader(mocks.NewMockLogger(ctrl)).Load(rootDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"texture-packer", "--stdio"}, cfg.Packer.Command)
}

func TestLoader_Load_ValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		expectedErr error
	}{
		{
			name:        "Missing Atlas Name",
			content:     "items:\n  - source: ui\n",
			expectedErr: domain.ErrMissingAtlasName,
		},
		{
			name:        "Empty Item",
			content:     "items:\n  -\n",
			expectedErr: domain.ErrMissingAtlasName,
		},
		{
			name:        "Atlas Name With Separator",
			content:     "items:\n  - name: ui/hud\n",
			expectedErr: domain.ErrInvalidAtlasName,
		},
		{
			name:        "Duplicate Output",
			content:     "items:\n  - name: ui\n    outDir: out\n  - name: ui\n    outDir: out/\n",
			expectedErr: domain.ErrDuplicateAtlas,
		},
		{
			name:        "Invalid Exclude",
			content:     "items:\n  - name: ui\n    source:\n      - path: ui\n        exclude: '[a-'\n",
			expectedErr: domain.ErrInvalidExcludePattern,
		},
		{
			name:        "Absolute Source",
			content:     "items:\n  - name: ui\n    source: /etc\n",
			expectedErr: domain.ErrInvalidSource,
		},
		{
			name:        "Empty Source List",
			content:     "items:\n  - name: ui\n    source: []\n",
			expectedErr: domain.ErrInvalidSource,
		},
		{
			name:        "Nested Source List",
			content:     "items:\n  - name: ui\n    source: [[ui]]\n",
			expectedErr: domain.ErrConfigParseFailed,
		},
		{
			name:        "Invalid Fingerprint",
			content:     "fingerprint: mtime\nitems: []\n",
			expectedErr: domain.ErrInvalidFingerprintMode,
		},
		{
			name:        "Invalid Compression",
			content:     "cache:\n  compression: brotli\nitems: []\n",
			expectedErr: domain.ErrInvalidCompression,
		},
		{
			name:        "Invalid Packer Option",
			content:     "packerOptions: {padding: -4}\nitems:\n  - name: ui\n",
			expectedErr: domain.ErrInvalidPackerOptions,
		},
		{
			name:        "NaN Packer Option",
			content:     "items:\n  - name: ui\n    packerOptions: {scale: .nan}\n",
			expectedErr: domain.ErrInvalidPackerOptions,
		},
		{
			name:        "Infinite Option For External Packer",
			content:     "packer:\n  command: [texture-packer]\npackerOptions: {limits: [1, .inf]}\nitems:\n  - name: ui\n",
			expectedErr: domain.ErrInvalidPackerOptions,
		},
		{
			name:        "Invalid YAML Syntax",
			content:     "items: [ name: ui\n",
			expectedErr: domain.ErrConfigParseFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockLogger := mocks.NewMockLogger(ctrl)
			mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()

			rootDir := t.TempDir()
			createFile(t, rootDir, domain.ConfigFileName, tt.content)

			cfg, err := config.NewLoader(mockLogger).Load(rootDir)
			require.Error(t, err)
			require.ErrorContains(t, err, tt.expectedErr.Error())
			assert.Nil(t, cfg)
		})
	}
}

// Helpers.

func createFile(t *testing.T, dir, name, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, name), []byte(content), domain.PrivateFilePerm)
	require.NoError(t, err)
}

// Package config provides the configuration loader for atlas.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"go.trai.ch/atlas/internal/core/domain"
	"go.trai.ch/atlas/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a new Loader reading from the OS filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return NewLoaderWithFS(logger, NewOSFS())
}

// NewLoaderWithFS creates a new Loader reading from fsys.
func NewLoaderWithFS(logger ports.Logger, fsys FileSystem) *Loader {
	return &Loader{Logger: logger, FS: fsys}
}

// Load finds atlas.yaml above cwd and returns the normalized configuration.
func (l *Loader) Load(cwd string) (*domain.Configuration, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	var atlasfile Atlasfile
	if err := readAndUnmarshalYAML(l.FS, configPath, &atlasfile); err != nil {
		return nil, zerr.With(err, "file", configPath)
	}

	return l.build(filepath.Dir(configPath), &atlasfile)
}

// DiscoverRoot returns the directory containing atlas.yaml.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return "", err
	}
	return filepath.Dir(configPath), nil
}

func (l *Loader) findConfiguration(cwd string) (string, error) {
	currentDir := filepath.Clean(cwd)

	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := l.FS.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func (l *Loader) build(root string, file *Atlasfile) (*domain.Configuration, error) {
	fingerprint, err := domain.ParseFingerprintMode(file.Fingerprint)
	if err != nil {
		return nil, err
	}

	compression, err := domain.ParseCompression(file.Cache.Compression)
	if err != nil {
		return nil, err
	}

	if err := optionsOrNil(file.PackerOptions).Validate(); err != nil {
		return nil, err
	}

	cfg := &domain.Configuration{
		Root:          root,
		RootDir:       file.RootDir,
		OutDir:        file.OutDir,
		PackerOptions: optionsOrNil(file.PackerOptions),
		Cache:         domain.CacheSettings{Dir: file.Cache.Dir, Compression: compression},
		Fingerprint:   fingerprint,
		Packer:        domain.PackerSettings{Command: file.Packer.Command},
		AfterBuild:    file.AfterBuild,
		Items:         make([]domain.AtlasConfig, 0, len(file.Items)),
	}

	keys := make(map[string]int, len(file.Items))
	for i, dto := range file.Items {
		if dto == nil {
			return nil, zerr.With(domain.ErrMissingAtlasName, "item", i)
		}

		atlas, err := l.buildAtlas(i, dto)
		if err != nil {
			return nil, err
		}

		key := domain.OutputKey(&atlas)
		if first, exists := keys[key]; exists {
			err := zerr.With(domain.ErrDuplicateAtlas, "output", key)
			err = zerr.With(err, "first_occurrence", first)
			return nil, zerr.With(err, "duplicate_at", i)
		}
		keys[key] = i

		cfg.Items = append(cfg.Items, atlas)
	}

	// External packers receive options verbatim; only the built-in packer's settings are checked.
	if len(cfg.Packer.Command) == 0 {
		for i := range cfg.Items {
			opts := domain.ResolvePackerOptions(cfg.PackerOptions, &cfg.Items[i], domain.AppInfo{})
			if _, err := domain.DecodePackSettings(opts); err != nil {
				return nil, zerr.With(err, "atlas", cfg.Items[i].Name)
			}
		}
	}

	return cfg, nil
}

func (l *Loader) buildAtlas(index int, dto *AtlasDTO) (domain.AtlasConfig, error) {
	if err := validateAtlasName(index, dto.Name); err != nil {
		return domain.AtlasConfig{}, err
	}

	if dto.Overwrite && dto.PackerOptions == nil {
		l.Logger.Warn(fmt.Sprintf("'overwrite' on atlas %s has no effect without packerOptions", dto.Name))
	}

	if err := optionsOrNil(dto.PackerOptions).Validate(); err != nil {
		return domain.AtlasConfig{}, zerr.With(err, "atlas", dto.Name)
	}

	sources, err := normalizeSources(dto)
	if err != nil {
		return domain.AtlasConfig{}, zerr.With(err, "atlas", dto.Name)
	}

	return domain.AtlasConfig{
		Name:          dto.Name,
		OutDir:        dto.OutDir,
		RootDir:       dto.RootDir,
		Sources:       sources,
		Recursive:     dto.Recursive,
		PackerOptions: optionsOrNil(dto.PackerOptions),
		Overwrite:     dto.Overwrite,
		Extra:         dto.Extra,
	}, nil
}

// normalizeSources turns the source union into entries with resolved recursion.
// An atlas without a source key scans its own root.
func normalizeSources(dto *AtlasDTO) ([]domain.SourceEntry, error) {
	specs := dto.Source.Entries
	if !dto.Source.Set {
		specs = []SourceDTO{{}}
	}
	if dto.Source.Set && len(specs) == 0 {
		return nil, zerr.With(domain.ErrInvalidSource, "reason", "empty source list")
	}

	atlasRecursive := true
	if dto.Recursive != nil {
		atlasRecursive = *dto.Recursive
	}

	entries := make([]domain.SourceEntry, 0, len(specs))
	for _, spec := range specs {
		path := filepath.ToSlash(strings.TrimSpace(spec.Path))
		if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
			return nil, zerr.With(domain.ErrInvalidSource, "path", spec.Path)
		}

		recursive := atlasRecursive
		if spec.Recursive != nil {
			recursive = *spec.Recursive
		}

		for _, pattern := range spec.Exclude {
			if _, err := glob.Compile(pattern, '/'); err != nil {
				err = zerr.Wrap(err, domain.ErrInvalidExcludePattern.Error())
				return nil, zerr.With(err, "pattern", pattern)
			}
		}

		entries = append(entries, domain.SourceEntry{
			Path:      path,
			Exclude:   []string(spec.Exclude),
			Recursive: recursive,
		})
	}

	return entries, nil
}

// validateAtlasName checks that an atlas has a name usable as a file name.
func validateAtlasName(index int, name string) error {
	if strings.TrimSpace(name) == "" {
		return zerr.With(domain.ErrMissingAtlasName, "item", index)
	}
	if strings.ContainsAny(name, `/\`) {
		return zerr.With(domain.ErrInvalidAtlasName, "atlas", name)
	}
	return nil
}

func optionsOrNil(opts map[string]any) domain.PackerOptions {
	if opts == nil {
		return nil
	}
	return domain.PackerOptions(opts)
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](fsys FileSystem, configPath string, target *T) error {
	configFile, err := fsys.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}

package domain

import (
	"path/filepath"

	"go.trai.ch/zerr"
)

// FingerprintMode selects how asset fingerprints are derived.
type FingerprintMode string

const (
	// FingerprintMetadata derives fingerprints from name, size and timestamps.
	FingerprintMetadata FingerprintMode = "metadata"
	// FingerprintContent derives fingerprints from name and file bytes.
	FingerprintContent FingerprintMode = "content"
)

// Compression names a byte store codec.
type Compression string

const (
	// CompressionNone stores entries as-is.
	CompressionNone Compression = "none"
	// CompressionLZ4 stores entries with LZ4 block compression.
	CompressionLZ4 Compression = "lz4"
	// CompressionZstd stores entries with zstd compression.
	CompressionZstd Compression = "zstd"
)

// ParseFingerprintMode validates a configured fingerprint mode.
// An empty mode selects metadata fingerprints.
func ParseFingerprintMode(mode string) (FingerprintMode, error) {
	switch FingerprintMode(mode) {
	case "", FingerprintMetadata:
		return FingerprintMetadata, nil
	case FingerprintContent:
		return FingerprintContent, nil
	default:
		return "", zerr.With(ErrInvalidFingerprintMode, "fingerprint", mode)
	}
}

// ParseCompression validates a configured compression name.
// An empty name selects zstd.
func ParseCompression(name string) (Compression, error) {
	switch Compression(name) {
	case "":
		return CompressionZstd, nil
	case CompressionNone, CompressionLZ4, CompressionZstd:
		return Compression(name), nil
	default:
		return "", zerr.With(ErrInvalidCompression, "compression", name)
	}
}

// SourceEntry is a normalized source specification.
type SourceEntry struct {
	// Path is relative to the atlas root. Empty means the atlas root itself.
	Path string `json:"path"`
	// Exclude lists glob patterns matched against paths relative to Path.
	Exclude []string `json:"exclude,omitempty"`
	// Recursive controls descent into subdirectories.
	Recursive bool `json:"recursive"`
}

// AtlasConfig describes one configured atlas.
type AtlasConfig struct {
	Name          string         `json:"name"`
	OutDir        string         `json:"outDir,omitempty"`
	RootDir       string         `json:"rootDir,omitempty"`
	Sources       []SourceEntry  `json:"source,omitempty"`
	Recursive     *bool          `json:"recursive,omitempty"`
	PackerOptions PackerOptions  `json:"packerOptions,omitempty"`
	Overwrite     bool           `json:"overwrite,omitempty"`
	Extra         map[string]any `json:"extra,omitempty"`
}

// CacheSettings configures the persistent cache.
type CacheSettings struct {
	// Dir is the cache directory relative to the project root.
	Dir string
	// Compression is the codec used for stored entries.
	Compression Compression
}

// PackerSettings configures the packer collaborator.
type PackerSettings struct {
	// Command, when set, runs an external packer process instead of the built-in one.
	Command []string
}

// Configuration is the loaded project configuration.
type Configuration struct {
	// Root is the absolute directory containing the configuration file.
	Root string
	// RootDir is the global asset root relative to Root.
	RootDir string
	// OutDir is the global output directory relative to Root.
	OutDir string
	// PackerOptions are the global packer options. Nil selects the built-in defaults.
	PackerOptions PackerOptions
	// Items are the configured atlases in declaration order.
	Items       []AtlasConfig
	Cache       CacheSettings
	Fingerprint FingerprintMode
	Packer      PackerSettings
	// AfterBuild is a command run once after every build pass.
	AfterBuild []string
}

// AtlasRoot returns the absolute root directory of the given atlas.
func (c *Configuration) AtlasRoot(atlas *AtlasConfig) string {
	return filepath.Join(c.Root, filepath.FromSlash(c.RootDir), filepath.FromSlash(atlas.RootDir))
}

// CacheDir returns the absolute directory of the persistent cache.
func (c *Configuration) CacheDir() string {
	if c.Cache.Dir == "" {
		return filepath.Join(c.Root, DefaultCachePath())
	}
	if filepath.IsAbs(c.Cache.Dir) {
		return filepath.Clean(c.Cache.Dir)
	}
	return filepath.Join(c.Root, filepath.FromSlash(c.Cache.Dir))
}

// ArtifactPath composes the emitted path of an atlas output.
func (c *Configuration) ArtifactPath(atlas *AtlasConfig, outputName string) string {
	return JoinAssetPath(c.OutDir, atlas.OutDir, outputName)
}

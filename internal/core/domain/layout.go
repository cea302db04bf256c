package domain

import "path/filepath"

const (
	// AtlasDirName is the name of the internal workspace directory.
	AtlasDirName = ".atlas"

	// CacheDirName is the name of the persistent cache directory.
	CacheDirName = "cache"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "atlas.yaml"

	// SnapshotKey is the byte store key holding the serialized structures.
	SnapshotKey = "structures.json"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultAtlasPath returns the default root directory for atlas metadata.
func DefaultAtlasPath() string {
	return AtlasDirName
}

// DefaultCachePath returns the default path for the persistent cache.
// It joins .atlas and cache.
func DefaultCachePath() string {
	return filepath.Join(AtlasDirName, CacheDirName)
}

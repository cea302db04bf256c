package domain

import "go.trai.ch/zerr"

var (
	// ErrConfigNotFound is returned when no atlas.yaml can be found.
	ErrConfigNotFound = zerr.New("could not find atlas.yaml")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrMissingAtlasName is returned when an atlas has no name.
	ErrMissingAtlasName = zerr.New("atlas name is required")

	// ErrInvalidAtlasName is returned when an atlas name contains path separators.
	ErrInvalidAtlasName = zerr.New("atlas name must not contain path separators")

	// ErrDuplicateAtlas is returned when two atlases resolve to the same output key.
	ErrDuplicateAtlas = zerr.New("duplicate atlas output")

	// ErrInvalidSource is returned when a source specification has an unsupported shape.
	ErrInvalidSource = zerr.New("invalid source specification")

	// ErrInvalidExcludePattern is returned when an exclude glob cannot be compiled.
	ErrInvalidExcludePattern = zerr.New("invalid exclude pattern")

	// ErrInvalidPackerOptions is returned when packer options cannot be decoded.
	ErrInvalidPackerOptions = zerr.New("invalid packer options")

	// ErrInvalidFingerprintMode is returned for an unknown fingerprint mode.
	ErrInvalidFingerprintMode = zerr.New("invalid fingerprint mode, expected 'metadata' or 'content'")

	// ErrInvalidCompression is returned for an unknown cache compression codec.
	ErrInvalidCompression = zerr.New("invalid cache compression, expected 'none', 'lz4' or 'zstd'")

	// ErrScanFailed is returned when a configured source directory cannot be enumerated.
	ErrScanFailed = zerr.New("failed to scan asset source")

	// ErrFingerprintFailed is returned when an asset fingerprint cannot be computed.
	ErrFingerprintFailed = zerr.New("failed to fingerprint asset")

	// ErrPackFailed is returned when the packer rejects an atlas.
	ErrPackFailed = zerr.New("failed to pack atlas")

	// ErrImageDecodeFailed is returned when a source image cannot be decoded.
	ErrImageDecodeFailed = zerr.New("failed to decode image")

	// ErrAtlasTooSmall is returned when the sprites do not fit into the configured atlas size.
	ErrAtlasTooSmall = zerr.New("sprites do not fit into the atlas size")

	// ErrPackerProcessFailed is returned when the external packer process fails or answers garbage.
	ErrPackerProcessFailed = zerr.New("external packer failed")

	// ErrEmitFailed is returned when an output artifact cannot be written.
	ErrEmitFailed = zerr.New("failed to emit atlas artifact")

	// ErrBuildFailed is returned when at least one atlas failed during a build pass.
	ErrBuildFailed = zerr.New("atlas build failed")

	// ErrCacheLoadFailed is reported when the structure snapshot cannot be loaded.
	ErrCacheLoadFailed = zerr.New("failed to load atlas cache, starting cold")

	// ErrCacheWriteFailed is reported when a structure or byte entry cannot be persisted.
	ErrCacheWriteFailed = zerr.New("failed to write atlas cache")

	// ErrStoreCreateFailed is returned when the byte store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create cache store directory")

	// ErrStoreReadFailed is returned when a byte store entry cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read cache entry")

	// ErrStoreWriteFailed is returned when a byte store entry cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write cache entry")

	// ErrStoreCorrupt is returned when a byte store entry cannot be decoded.
	ErrStoreCorrupt = zerr.New("corrupt cache entry")

	// ErrSnapshotMarshalFailed is returned when the structure snapshot cannot be marshaled.
	ErrSnapshotMarshalFailed = zerr.New("failed to marshal structure snapshot")

	// ErrSnapshotUnmarshalFailed is returned when the structure snapshot cannot be unmarshaled.
	ErrSnapshotUnmarshalFailed = zerr.New("failed to unmarshal structure snapshot")

	// ErrCommandFailed is returned when an external command exits unsuccessfully.
	ErrCommandFailed = zerr.New("command failed")

	// ErrFailedToCleanOutput is returned when removing an emitted artifact fails.
	ErrFailedToCleanOutput = zerr.New("failed to clean output file")
)

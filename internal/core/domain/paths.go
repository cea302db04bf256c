package domain

import (
	"path"
	"strings"
)

// JoinAssetPath joins path parts with forward slashes regardless of the host separator.
func JoinAssetPath(parts ...string) string {
	normalized := make([]string, 0, len(parts))
	for _, p := range parts {
		normalized = append(normalized, strings.ReplaceAll(p, `\`, "/"))
	}
	return path.Join(normalized...)
}

// OutputKey returns the cache key of an atlas: its output directory joined with its name.
func OutputKey(atlas *AtlasConfig) string {
	return JoinAssetPath(atlas.OutDir, atlas.Name)
}

// ByteKey returns the byte store key of one built output of an atlas.
func ByteKey(identityHash, outputName string) string {
	return identityHash + "_" + outputName
}

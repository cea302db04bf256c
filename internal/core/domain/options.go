package domain

import (
	"maps"
	"math"

	"go.trai.ch/zerr"
)

// PackerOptions holds packer settings as JSON-like values.
type PackerOptions map[string]any

const (
	// OptionTextureName is the option key naming the packer output files.
	OptionTextureName = "textureName"
	// OptionAppInfo is the option key carrying the builder's identity.
	OptionAppInfo = "appInfo"
)

// DefaultPackerOptions returns the options used when no global options are configured.
func DefaultPackerOptions() PackerOptions {
	return PackerOptions{
		"fixedSize":           false,
		"padding":             1,
		"allowRotation":       true,
		"detectIdentical":     true,
		"allowTrim":           true,
		"exporter":            "Pixi",
		"removeFileExtension": true,
		"prependFolderName":   true,
		"packer":              "MaxRectsPacker",
		"packerMethod":        "Smart",
	}
}

// Validate rejects NaN and infinite numbers at any depth. They have no JSON
// form and never compare equal to themselves, so a structure holding one
// could not be cached.
func (o PackerOptions) Validate() error {
	for key, value := range o {
		if !finite(value) {
			return zerr.With(zerr.With(ErrInvalidPackerOptions, "option", key), "reason", "non-finite number")
		}
	}
	return nil
}

func finite(v any) bool {
	switch n := v.(type) {
	case float64:
		return !math.IsNaN(n) && !math.IsInf(n, 0)
	case float32:
		return !math.IsNaN(float64(n)) && !math.IsInf(float64(n), 0)
	case map[string]any:
		for _, item := range n {
			if !finite(item) {
				return false
			}
		}
	case []any:
		for _, item := range n {
			if !finite(item) {
				return false
			}
		}
	}
	return true
}

// AppInfo identifies the builder inside resolved packer options.
type AppInfo struct {
	DisplayName string
	URL         string
	Version     string
}

func (a AppInfo) value() map[string]any {
	return map[string]any{
		"displayName": a.DisplayName,
		"url":         a.URL,
		"version":     a.Version,
	}
}

// MergePackerOptions merges global and atlas-local options.
//
// When local options are present and overwrite is set, they stand alone.
// Otherwise the global options, or the defaults when global is nil, are
// shallow-merged with the local options and local keys win.
func MergePackerOptions(global, local PackerOptions, overwrite bool) PackerOptions {
	if local != nil && overwrite {
		return maps.Clone(local)
	}
	base := global
	if base == nil {
		base = DefaultPackerOptions()
	}
	merged := make(PackerOptions, len(base)+len(local))
	maps.Copy(merged, base)
	maps.Copy(merged, local)
	return merged
}

// ResolvePackerOptions returns the options an atlas is packed with.
// The atlas name is always injected as the texture name.
func ResolvePackerOptions(global PackerOptions, atlas *AtlasConfig, app AppInfo) PackerOptions {
	opts := MergePackerOptions(global, atlas.PackerOptions, atlas.Overwrite)
	opts[OptionTextureName] = atlas.Name
	opts[OptionAppInfo] = app.value()
	return opts
}

package domain

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// AtlasStructure is the full description of one atlas compared across builds.
type AtlasStructure struct {
	// RootDir is the absolute atlas root the assets were scanned from.
	RootDir string
	// Config is the atlas configuration.
	Config AtlasConfig
	// Options are the resolved packer options.
	Options PackerOptions
	// Assets is the scanned asset set. Order is irrelevant.
	Assets []AssetRecord
	// ResultAssetNames lists the outputs of the last build.
	// Nil means the outputs are unknown; empty means the build produced nothing.
	ResultAssetNames []string

	byFingerprint map[string]*AssetRecord
}

// NewAtlasStructure creates a structure for a freshly scanned atlas.
func NewAtlasStructure(rootDir string, config AtlasConfig, options PackerOptions, assets []AssetRecord) *AtlasStructure {
	s := &AtlasStructure{
		RootDir: rootDir,
		Config:  config,
		Options: options,
		Assets:  assets,
	}
	s.index()
	return s
}

func (s *AtlasStructure) index() {
	s.byFingerprint = make(map[string]*AssetRecord, len(s.Assets))
	for i := range s.Assets {
		s.byFingerprint[s.Assets[i].Fingerprint] = &s.Assets[i]
	}
}

// IdentityHash returns the stable identity of the atlas.
// It covers the name and the configured root and output directories, never the assets.
func (s *AtlasStructure) IdentityHash() string {
	return IdentityHash(&s.Config)
}

// IdentityHash hashes the identity fields of an atlas configuration.
func IdentityHash(atlas *AtlasConfig) string {
	if atlas.Name == "" {
		return ""
	}
	h := xxhash.New()
	_, _ = h.WriteString(atlas.Name)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(atlas.RootDir)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(atlas.OutDir)
	return fmt.Sprintf("%016x", h.Sum64())
}

// Equals reports whether other describes the same atlas with the same assets,
// meaning previously built outputs are still valid.
func (s *AtlasStructure) Equals(other *AtlasStructure) bool {
	if s == nil || other == nil {
		return false
	}
	if s.IdentityHash() == "" || other.IdentityHash() == "" {
		return false
	}
	if !DeepEqual(map[string]any(s.Options), map[string]any(other.Options)) {
		return false
	}
	if !configsEqual(&s.Config, &other.Config) {
		return false
	}
	if len(s.Assets) != len(other.Assets) {
		return false
	}

	if other.byFingerprint == nil {
		other.index()
	}
	remaining := make(map[*AssetRecord]struct{}, len(other.Assets))
	for i := range other.Assets {
		remaining[&other.Assets[i]] = struct{}{}
	}
	for _, asset := range s.Assets {
		match, ok := other.byFingerprint[asset.Fingerprint]
		if !ok || *match != asset {
			return false
		}
		delete(remaining, match)
	}
	return len(remaining) == 0
}

func configsEqual(a, b *AtlasConfig) bool {
	ca, ok := canonical(a)
	if !ok {
		return false
	}
	cb, ok := canonical(b)
	if !ok {
		return false
	}
	return DeepEqual(ca, cb)
}

type structureJSON struct {
	Hash             string        `json:"hash"`
	RootDir          string        `json:"rootDir"`
	Config           AtlasConfig   `json:"config"`
	Options          PackerOptions `json:"options"`
	Assets           []AssetRecord `json:"assets"`
	ResultAssetNames []string      `json:"resultAssetNames"`
}

// MarshalJSON encodes the structure together with its identity hash.
func (s *AtlasStructure) MarshalJSON() ([]byte, error) {
	return json.Marshal(structureJSON{
		Hash:             s.IdentityHash(),
		RootDir:          s.RootDir,
		Config:           s.Config,
		Options:          s.Options,
		Assets:           s.Assets,
		ResultAssetNames: s.ResultAssetNames,
	})
}

// UnmarshalJSON restores a structure and rebuilds its fingerprint index.
func (s *AtlasStructure) UnmarshalJSON(data []byte) error {
	var raw structureJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.RootDir = raw.RootDir
	s.Config = raw.Config
	s.Options = raw.Options
	s.Assets = raw.Assets
	s.ResultAssetNames = raw.ResultAssetNames
	s.index()
	return nil
}

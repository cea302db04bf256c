package config

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// Atlasfile represents the structure of the atlas.yaml configuration file.
type Atlasfile struct {
	RootDir       string         `yaml:"rootDir"`
	OutDir        string         `yaml:"outDir"`
	Fingerprint   string         `yaml:"fingerprint"`
	Cache         CacheDTO       `yaml:"cache"`
	Packer        PackerDTO      `yaml:"packer"`
	AfterBuild    []string       `yaml:"afterBuild"`
	PackerOptions map[string]any `yaml:"packerOptions"`
	Items         []*AtlasDTO    `yaml:"items"`
}

// CacheDTO configures the persistent cache.
type CacheDTO struct {
	Dir         string `yaml:"dir"`
	Compression string `yaml:"compression"`
}

// PackerDTO configures the packer collaborator.
type PackerDTO struct {
	Command []string `yaml:"command"`
}

// AtlasDTO represents one atlas definition in the configuration.
type AtlasDTO struct {
	Name          string         `yaml:"name"`
	OutDir        string         `yaml:"outDir"`
	RootDir       string         `yaml:"rootDir"`
	Source        SourceSpec     `yaml:"source"`
	Recursive     *bool          `yaml:"recursive"`
	PackerOptions map[string]any `yaml:"packerOptions"`
	Overwrite     bool           `yaml:"overwrite"`
	Extra         map[string]any `yaml:"extra"`
}

// SourceSpec is the source union of an atlas: a path, or a list of paths and
// source objects. It is normalized to a list of objects while decoding.
type SourceSpec struct {
	Entries []SourceDTO
	// Set is false when the atlas has no source key.
	Set bool
}

// SourceDTO is one source object.
type SourceDTO struct {
	Path      string     `yaml:"path"`
	Exclude   StringList `yaml:"exclude"`
	Recursive *bool      `yaml:"recursive"`
}

// StringList decodes from a scalar or a sequence of scalars.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *SourceSpec) UnmarshalYAML(node *yaml.Node) error {
	s.Set = true

	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil
		}
		s.Entries = []SourceDTO{{Path: node.Value}}
		return nil
	case yaml.MappingNode:
		var entry SourceDTO
		if err := node.Decode(&entry); err != nil {
			return err
		}
		s.Entries = []SourceDTO{entry}
		return nil
	case yaml.SequenceNode:
		entries := make([]SourceDTO, 0, len(node.Content))
		for _, item := range node.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				entries = append(entries, SourceDTO{Path: item.Value})
			case yaml.MappingNode:
				var entry SourceDTO
				if err := item.Decode(&entry); err != nil {
					return err
				}
				entries = append(entries, entry)
			default:
				return &yaml.TypeError{Errors: []string{unsupportedSource(item)}}
			}
		}
		s.Entries = entries
		return nil
	default:
		return &yaml.TypeError{Errors: []string{unsupportedSource(node)}}
	}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if node.Tag == "!!null" {
			*s = nil
			return nil
		}
		*s = StringList{node.Value}
		return nil
	}

	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*s = list
	return nil
}

func unsupportedSource(node *yaml.Node) string {
	return "line " + strconv.Itoa(node.Line) + ": source must be a path, a source object or a list of them"
}

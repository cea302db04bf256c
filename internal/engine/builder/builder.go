// Package builder turns a scanned atlas structure into packed outputs.
package builder

import (
	"context"

	"go.trai.ch/atlas/internal/core/domain"
	"go.trai.ch/atlas/internal/core/ports"
	"go.trai.ch/zerr"
)

// Builder reads asset bytes and hands them to a packer.
type Builder struct {
	reader ports.ContentReader
	packer ports.Packer
	logger ports.Logger
}

// New creates a Builder.
func New(reader ports.ContentReader, packer ports.Packer, logger ports.Logger) *Builder {
	return &Builder{reader: reader, packer: packer, logger: logger}
}

// Build packs the assets of s. Files that cannot be read are left out of the
// atlas. When nothing is readable the packer is not called and Build returns
// no outputs.
func (b *Builder) Build(ctx context.Context, s *domain.AtlasStructure) ([]domain.OutputAsset, error) {
	inputs := make([]domain.PackInput, 0, len(s.Assets))
	for _, asset := range s.Assets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		contents, err := b.reader.ReadFile(ctx, asset.Path)
		if err != nil {
			b.logger.Info("skipping unreadable asset " + asset.Name + " of " + s.Config.Name + ": " + err.Error())
			continue
		}
		inputs = append(inputs, domain.PackInput{Name: asset.Name, Contents: contents})
	}

	if len(inputs) == 0 {
		return nil, nil
	}

	outputs, err := b.packer.Pack(ctx, inputs, s.Options)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrPackFailed.Error()), "atlas", s.Config.Name)
	}
	return outputs, nil
}

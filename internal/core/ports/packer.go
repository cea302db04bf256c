package ports

import (
	"context"

	"go.trai.ch/atlas/internal/core/domain"
)

// Packer packs named image buffers into atlas outputs.
//
//go:generate mockgen -source=packer.go -destination=mocks/mock_packer.go -package=mocks
type Packer interface {
	// Pack returns the outputs for the given inputs, conventionally a texture and a manifest.
	// The call is atomic: it returns every output or an error.
	Pack(ctx context.Context, inputs []domain.PackInput, options domain.PackerOptions) ([]domain.OutputAsset, error)
}

// PackerFactory selects the packer for the configured settings.
type PackerFactory interface {
	// NewPacker returns the built-in packer, or an external process packer when a command is set.
	NewPacker(settings domain.PackerSettings) (Packer, error)
}

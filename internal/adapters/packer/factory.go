package packer

import (
	"go.trai.ch/atlas/internal/core/domain"
	"go.trai.ch/atlas/internal/core/ports"
)

// Factory picks the packer for the configured settings.
type Factory struct{}

// NewPacker implements ports.PackerFactory.
func (Factory) NewPacker(settings domain.PackerSettings) (ports.Packer, error) {
	if len(settings.Command) > 0 {
		return NewProcess(settings.Command), nil
	}
	return NewBuiltin(), nil
}

package packer

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/atlas/internal/core/ports"
)

// NodeID is the unique identifier for the packer factory Graft node.
const NodeID graft.ID = "adapter.packer"

func init() {
	graft.Register(graft.Node[ports.PackerFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.PackerFactory, error) {
			return Factory{}, nil
		},
	})
}

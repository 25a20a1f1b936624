package rpmdb

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rpmd/internal/core/ports"
)

// NodeID is the unique identifier for the installed database Graft node.
const NodeID graft.ID = "adapter.rpmdb"

func init() {
	graft.Register(graft.Node[ports.RPMDatabaseOpener]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.RPMDatabaseOpener, error) {
			return NewOpener(), nil
		},
	})
}

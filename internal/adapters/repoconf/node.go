package repoconf

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rpmd/internal/core/ports"
)

// NodeID is the unique identifier for the repository configuration reader Graft node.
const NodeID graft.ID = "adapter.repoconf"

func init() {
	graft.Register(graft.Node[ports.RepoConfigReader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.RepoConfigReader, error) {
			return NewReader(), nil
		},
	})
}

package primarydb

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rpmd/internal/adapters/logger"
	"go.trai.ch/rpmd/internal/core/ports"
)

// NodeID is the unique identifier for the metadata source Graft node.
const NodeID graft.ID = "adapter.primarydb"

func init() {
	graft.Register(graft.Node[ports.MetadataSource]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.MetadataSource, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewSource(log, NewCache()), nil
		},
	})
}

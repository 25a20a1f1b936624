package daemon

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rpmd/internal/core/ports"
)

// NodeID is the unique identifier for the daemon connector Graft node.
const NodeID graft.ID = "adapter.daemon"

// ConnectorFactory creates a connector for the daemon at socketPath. A daemon
// it spawns receives args after "daemon serve".
type ConnectorFactory func(socketPath string, args ...string) (ports.DaemonConnector, error)

func init() {
	graft.Register(graft.Node[ConnectorFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ConnectorFactory, error) {
			return func(socketPath string, args ...string) (ports.DaemonConnector, error) {
				return NewConnector(socketPath, args...)
			}, nil
		},
	})
}

package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rpmd/internal/adapters/config" //nolint:depguard // Wired in app layer
	"go.trai.ch/rpmd/internal/adapters/daemon" //nolint:depguard // Wired in app layer
	"go.trai.ch/rpmd/internal/adapters/logger" //nolint:depguard // Wired in app layer
	"go.trai.ch/rpmd/internal/core/ports"
	"go.trai.ch/rpmd/internal/engine/session"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			session.NodeID,
			daemon.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(app, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[*config.Loader](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	deps, err := graft.Dep[session.Deps](ctx)
	if err != nil {
		return nil, err
	}

	connect, err := graft.Dep[daemon.ConnectorFactory](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, deps, connect), nil
}

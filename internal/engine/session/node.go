package session

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rpmd/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rpmd/internal/adapters/primarydb" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rpmd/internal/adapters/repoconf"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rpmd/internal/adapters/rpmdb"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rpmd/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rpmd/internal/adapters/watcher"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rpmd/internal/core/ports"
	"go.trai.ch/rpmd/internal/engine/solver"
)

// NodeID is the unique identifier for the session dependencies Graft node.
const NodeID graft.ID = "engine.session"

func init() {
	graft.Register(graft.Node[Deps]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			primarydb.NodeID,
			rpmdb.NodeID,
			repoconf.NodeID,
			solver.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
			watcher.NodeID,
		},
		Run: func(ctx context.Context) (Deps, error) {
			metadata, err := graft.Dep[ports.MetadataSource](ctx)
			if err != nil {
				return Deps{}, err
			}
			opener, err := graft.Dep[ports.RPMDatabaseOpener](ctx)
			if err != nil {
				return Deps{}, err
			}
			conf, err := graft.Dep[ports.RepoConfigReader](ctx)
			if err != nil {
				return Deps{}, err
			}
			solve, err := graft.Dep[ports.Solver](ctx)
			if err != nil {
				return Deps{}, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return Deps{}, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return Deps{}, err
			}
			newWatcher, err := graft.Dep[watcher.Factory](ctx)
			if err != nil {
				return Deps{}, err
			}
			return Deps{
				Metadata:   metadata,
				RPMDB:      opener,
				RepoConf:   conf,
				Solver:     solve,
				Tracer:     tracer,
				Logger:     log,
				NewWatcher: newWatcher,
			}, nil
		},
	})
}

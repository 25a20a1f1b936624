// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/rpmd/internal/adapters/config"
	_ "go.trai.ch/rpmd/internal/adapters/daemon"
	_ "go.trai.ch/rpmd/internal/adapters/logger"
	_ "go.trai.ch/rpmd/internal/adapters/primarydb"
	_ "go.trai.ch/rpmd/internal/adapters/repoconf"
	_ "go.trai.ch/rpmd/internal/adapters/rpmdb"
	_ "go.trai.ch/rpmd/internal/adapters/telemetry"
	_ "go.trai.ch/rpmd/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/rpmd/internal/app"
	_ "go.trai.ch/rpmd/internal/engine/session"
	_ "go.trai.ch/rpmd/internal/engine/solver"
)

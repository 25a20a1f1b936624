package app

import (
	"context"
	"fmt"

	"go.trai.ch/rpmd/internal/adapters/config"
	"go.trai.ch/rpmd/internal/adapters/primarydb"
	"go.trai.ch/rpmd/internal/ui/style"
	"go.trai.ch/zerr"
)

// CreateRepo writes repository metadata for the packages listed in manifest into dir.
func (a *App) CreateRepo(ctx context.Context, dir, manifest string) error {
	metas, err := config.LoadManifest(manifest)
	if err != nil {
		return zerr.Wrap(err, "failed to load manifest")
	}
	revision, err := primarydb.WriteRepo(ctx, dir, metas)
	if err != nil {
		return zerr.Wrap(err, "failed to write repository")
	}
	a.logger.Debug(fmt.Sprintf("wrote %d packages to %s", len(metas), dir))
	_, _ = fmt.Fprintf(a.out, "%s %s: %d packages, revision %s\n", style.Check, dir, len(metas), revision)
	return nil
}

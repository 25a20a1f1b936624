package ports

import (
	"context"

	"go.trai.ch/rpmd/internal/core/domain"
)

//go:generate mockgen -source=rpmdb.go -destination=mocks/mock_rpmdb.go -package=mocks

// RPMDatabase is the installed-package state of one install root.
type RPMDatabase interface {
	// Installed returns the installed packages in installation order.
	Installed(ctx context.Context) ([]domain.PackageMetadata, error)
	// Apply performs a single transaction entry.
	Apply(ctx context.Context, item domain.TransactionItem) error
	// Close releases the database.
	Close() error
}

// RPMDatabaseOpener opens the installed-package database below an install root.
type RPMDatabaseOpener interface {
	Open(ctx context.Context, installroot string) (RPMDatabase, error)
}

package ports

import (
	"context"

	"go.trai.ch/rpmd/internal/core/domain"
)

//go:generate mockgen -source=metadata.go -destination=mocks/mock_metadata.go -package=mocks

// RepoMetadata is the package metadata read for one repository.
type RepoMetadata struct {
	// RepoID is the repository the metadata belongs to.
	RepoID string
	// Revision fingerprints the metadata that was read.
	Revision string
	// Packages holds the packages in metadata order.
	Packages []domain.PackageMetadata
}

// MetadataSource reads repository package metadata.
type MetadataSource interface {
	// Load reads the metadata of repo, using cachedir for local copies.
	// Flags select which optional metadata is read.
	Load(ctx context.Context, repo *domain.Repo, cachedir string, flags domain.LoadFlags) (*RepoMetadata, error)
}

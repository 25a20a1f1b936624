package ports

import "go.trai.ch/rpmd/internal/core/domain"

//go:generate mockgen -source=repoconf.go -destination=mocks/mock_repoconf.go -package=mocks

// RepoConfigReader reads the main configuration file and repository definition files.
type RepoConfigReader interface {
	// ReadMain parses the main configuration file. A missing file yields an empty result.
	ReadMain(path string) (*domain.ConfigFile, error)
	// ReadDirs parses every *.repo file in dirs, in lexical path order per directory.
	// Missing directories are skipped.
	ReadDirs(dirs []string) ([]domain.RepoDefinition, error)
}

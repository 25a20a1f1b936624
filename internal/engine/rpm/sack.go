// Package rpm holds the per-session package universe: the sack, queries over
// it and sack-scoped dependency interning.
package rpm

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/zerr"
)

// cancelCheckInterval is how many packages are built between context checks while loading.
const cancelCheckInterval = 256

// LoadedRepo records one repository load into a sack.
type LoadedRepo struct {
	ID string
	// Flags are the optional metadata kinds that were loaded.
	Flags domain.LoadFlags
	// First is the id of the first package of the repository.
	First domain.PackageID
	// Count is the number of packages loaded.
	Count int
	// Revision fingerprints the loaded metadata, if known.
	Revision string
}

// Sack owns the packages of one session. Packages are only ever appended;
// a package id is its position and never changes.
//
// Queries and dependency lists keep a pointer to the sack, so it stays alive
// as long as any of them does. Once the owning session closes the sack is
// invalidated and every access through it fails with domain.ErrInvalidReference.
type Sack struct {
	mu       sync.RWMutex
	packages []*domain.Package
	repos    []LoadedRepo
	interner *Interner
	invalid  atomic.Bool
}

// NewSack creates an empty sack.
func NewSack() *Sack {
	return &Sack{interner: NewInterner()}
}

// LoadRepo appends the packages of repoID. The new packages get the next block
// of ascending ids. Loading a repository that is already in the sack is rejected.
// If ctx is canceled before the packages are committed the sack is unchanged.
func (s *Sack) LoadRepo(ctx context.Context, repoID, revision string, metas []domain.PackageMetadata, flags domain.LoadFlags) error {
	if err := s.check(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.ContainsFunc(s.repos, func(r LoadedRepo) bool { return r.ID == repoID }) {
		return zerr.With(zerr.Wrap(domain.ErrRepoAlreadyLoaded, "cannot load repository"), "repoid", repoID)
	}

	first := domain.PackageID(len(s.packages))
	added := make([]*domain.Package, 0, len(metas))
	for i := range metas {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return zerr.With(zerr.Wrap(err, "repository load canceled"), "repoid", repoID)
			}
		}
		added = append(added, domain.NewPackage(first+domain.PackageID(i), repoID, metas[i], flags))
	}
	if err := ctx.Err(); err != nil {
		return zerr.With(zerr.Wrap(err, "repository load canceled"), "repoid", repoID)
	}

	s.packages = append(s.packages, added...)
	s.repos = append(s.repos, LoadedRepo{
		ID:       repoID,
		Flags:    flags,
		First:    first,
		Count:    len(added),
		Revision: revision,
	})
	return nil
}

// LoadSystem appends the installed packages under the @System origin.
func (s *Sack) LoadSystem(ctx context.Context, metas []domain.PackageMetadata) error {
	return s.LoadRepo(ctx, domain.SystemRepoID, "", metas, domain.LoadAll)
}

// Len returns the number of packages.
func (s *Sack) Len() (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.packages), nil
}

// Package returns the package with the given id.
func (s *Sack) Package(id domain.PackageID) (*domain.Package, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if id < 0 || int(id) >= len(snap) {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidReference, "no such package"), "id", int(id))
	}
	return snap[id], nil
}

// Repos returns the loaded repositories in load order.
func (s *Sack) Repos() ([]LoadedRepo, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.repos), nil
}

// HasRepo reports whether repoID was loaded.
func (s *Sack) HasRepo(repoID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.ContainsFunc(s.repos, func(r LoadedRepo) bool { return r.ID == repoID })
}

// Interner returns the sack's dependency interner.
func (s *Sack) Interner() *Interner {
	return s.interner
}

// Invalidate marks the sack as released. It is idempotent.
func (s *Sack) Invalidate() {
	s.invalid.Store(true)
}

// Valid reports whether the sack may still be used.
func (s *Sack) Valid() bool {
	return !s.invalid.Load()
}

func (s *Sack) check() error {
	if s == nil || s.invalid.Load() {
		return zerr.Wrap(domain.ErrInvalidReference, "sack is no longer valid")
	}
	return nil
}

// snapshot returns the packages present now. The slice is capped so later
// loads never write into it.
func (s *Sack) snapshot() ([]*domain.Package, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.packages[:len(s.packages):len(s.packages)], nil
}

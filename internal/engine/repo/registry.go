// Package repo implements the per-session repository registry.
package repo

import (
	"slices"
	"sync"

	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/zerr"
)

// Registry is the catalog of configured repositories of one session.
// Repositories keep their registration order. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	order []string
	repos map[string]*domain.Repo
	// main supplies inherited defaults such as gpgcheck.
	main *domain.Config
}

// NewRegistry creates an empty registry. main may be nil.
func NewRegistry(main *domain.Config) *Registry {
	return &Registry{repos: make(map[string]*domain.Repo), main: main}
}

// Add registers repo. If the id is already known the new definition's set
// options are merged into the existing one at their own priorities.
func (r *Registry) Add(repo *domain.Repo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.repos[repo.ID]
	if !ok {
		r.inherit(repo)
		r.repos[repo.ID] = repo
		r.order = append(r.order, repo.ID)
		return
	}
	for name := range repo.Config.Attributes() {
		value, _ := repo.Config.Get(name)
		_ = existing.Config.Set(name, value, repo.Config.Priority(name))
	}
}

// inherit copies main options that repositories fall back to.
func (r *Registry) inherit(repo *domain.Repo) {
	if r.main == nil {
		return
	}
	for _, name := range []string{domain.OptGPGCheck, domain.OptSkipIfUnavailable} {
		if repo.Config.Priority(name) > domain.PriorityDefault {
			continue
		}
		if value, err := r.main.Get(name); err == nil {
			_ = repo.Config.Set(name, value, domain.PriorityDefault)
		}
	}
}

// AddDefinition registers a repository from a parsed file section. Options
// are written at REPO_CONFIG priority.
func (r *Registry) AddDefinition(def domain.RepoDefinition) error {
	repo := domain.NewRepo(def.ID, def.FilePath)
	for _, key := range def.Keys {
		if err := repo.Config.Set(key, def.Values[key], domain.PriorityRepoConfig); err != nil {
			return zerr.With(zerr.With(err, "repoid", def.ID), "file", def.FilePath)
		}
	}
	r.Add(repo)
	return nil
}

// Merge applies a fresh set of definitions, as after re-reading the
// repository files. New repositories are added and known ones updated.
// Nothing is removed, and runtime enable or disable overrides survive.
// Definitions that fail to apply are skipped; their errors are returned together.
func (r *Registry) Merge(defs []domain.RepoDefinition) error {
	var errs []error
	for _, def := range defs {
		if err := r.AddDefinition(def); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	err := zerr.Wrap(errs[0], "cannot merge repository definitions")
	return zerr.With(err, "failed", len(errs))
}

// Remove deletes a repository. It reports whether it existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.repos[id]; !ok {
		return false
	}
	delete(r.repos, id)
	r.order = slices.DeleteFunc(r.order, func(o string) bool { return o == id })
	return true
}

// List returns the repositories in registration order. A non-nil ids
// restricts the result to those ids; unknown ids are left out.
func (r *Registry) List(ids []string) []*domain.Repo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Repo, 0, len(r.order))
	for _, id := range r.order {
		if ids != nil && !slices.Contains(ids, id) {
			continue
		}
		out = append(out, r.repos[id])
	}
	return out
}

// Get returns the repository with the given id.
func (r *Registry) Get(id string) (*domain.Repo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	repo, ok := r.repos[id]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrRepoNotFound, "cannot get repository"), "repoid", id)
	}
	return repo, nil
}

// Enabled returns the enabled repositories in registration order.
func (r *Registry) Enabled() []*domain.Repo {
	return slices.DeleteFunc(r.List(nil), func(repo *domain.Repo) bool { return !repo.Enabled() })
}

// Enable enables the given repositories and returns the ids whose state changed.
func (r *Registry) Enable(ids []string) []string {
	return r.setEnabled(ids, true)
}

// Disable disables the given repositories and returns the ids whose state changed.
func (r *Registry) Disable(ids []string) []string {
	return r.setEnabled(ids, false)
}

// setEnabled flips only the enabled option. Unknown ids are skipped.
func (r *Registry) setEnabled(ids []string, enabled bool) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	changed := []string{}
	for _, id := range ids {
		repo, ok := r.repos[id]
		if !ok || repo.Enabled() == enabled || slices.Contains(changed, id) {
			continue
		}
		if err := repo.Config.SetBool(domain.OptEnabled, enabled, domain.PriorityRuntime); err != nil {
			continue
		}
		changed = append(changed, id)
	}
	return changed
}

// Len returns the number of repositories.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Package session implements isolated client sessions and the table that owns them.
package session

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/rpmd/internal/core/ports"
	"go.trai.ch/rpmd/internal/engine/goal"
	"go.trai.ch/rpmd/internal/engine/repo"
	"go.trai.ch/rpmd/internal/engine/rpm"
	"go.trai.ch/rpmd/internal/engine/transaction"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// loadFlags are the optional metadata kinds loaded with every repository.
const loadFlags = domain.LoadAll

// maxParallelLoads bounds concurrent repository metadata reads.
const maxParallelLoads = 4

// Deps are the collaborators a session is built from.
type Deps struct {
	Metadata ports.MetadataSource
	RPMDB    ports.RPMDatabaseOpener
	RepoConf ports.RepoConfigReader
	Solver   ports.Solver
	// Tracer and Logger are required.
	Tracer ports.Tracer
	Logger ports.Logger
	// NewWatcher creates a watcher for reposdir. Nil disables watching.
	NewWatcher func() (ports.Watcher, error)
	// SessionLogger returns the logger of a new session. Nil means Logger.
	SessionLogger func(path string) ports.Logger
}

// Session is one client's isolated view: its own configuration, repositories,
// sack and goal. Reads may run in parallel. Structural mutations (loading,
// enabling or disabling repositories, resolving, running a transaction) are
// serialized; a client request that finds one in flight fails with
// domain.ErrSessionBusy.
type Session struct {
	path    string
	owner   string
	deps    Deps
	logger  ports.Logger
	options domain.SessionOptions
	config  *domain.Config
	repos   *repo.Registry

	// mutation is held for the duration of a structural mutation.
	mutation sync.Mutex

	state  sync.RWMutex
	sack   *rpm.Sack
	goal   *goal.Goal
	closed bool

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	watcher ports.Watcher
}

func newSession(ctx context.Context, path, owner string, opts domain.SessionOptions, deps Deps) (*Session, error) {
	logger := deps.Logger
	if deps.SessionLogger != nil {
		logger = deps.SessionLogger(path)
	}

	config := domain.NewMainConfig()
	for _, name := range slices.Sorted(maps.Keys(opts.Config)) {
		if err := config.Set(name, opts.Config[name], domain.PriorityRuntime); err != nil {
			return nil, zerr.With(err, "option", name)
		}
	}

	file, err := deps.RepoConf.ReadMain(config.String(domain.OptConfigFilePath))
	if err != nil {
		return nil, err
	}
	for _, name := range slices.Sorted(maps.Keys(file.Main)) {
		if err := config.Set(name, file.Main[name], domain.PriorityMainConfig); err != nil {
			logger.Warn(fmt.Sprintf("%s: ignoring option %q: %v", file.Path, name, err))
		}
	}

	s := &Session{
		path:    path,
		owner:   owner,
		deps:    deps,
		logger:  logger,
		options: opts,
		config:  config,
		repos:   repo.NewRegistry(config),
	}
	if err := s.repos.Merge(file.Repos); err != nil {
		logger.Warn(err.Error())
	}
	if err := s.readRepoDirs(); err != nil {
		return nil, err
	}
	s.resetSack()

	// Work started by requests must stop when the session closes,
	// not when the request that opened it returns.
	s.ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))

	if opts.WatchReposdir && deps.NewWatcher != nil {
		if err := s.startWatcher(); err != nil {
			s.cancel()
			return nil, err
		}
	}
	return s, nil
}

// Path returns the session's object path.
func (s *Session) Path() string { return s.path }

// Owner returns the connection that opened the session.
func (s *Session) Owner() string { return s.owner }

// Config returns the session's configuration store.
func (s *Session) Config() *domain.Config { return s.config }

// Repos returns the session's repository registry.
func (s *Session) Repos() *repo.Registry { return s.repos }

// Sack returns the current package sack.
func (s *Session) Sack() *rpm.Sack {
	s.state.RLock()
	defer s.state.RUnlock()
	return s.sack
}

// Goal returns the goal bound to the current sack.
func (s *Session) Goal() *goal.Goal {
	s.state.RLock()
	defer s.state.RUnlock()
	return s.goal
}

// Closed reports whether the session has been closed.
func (s *Session) Closed() bool {
	s.state.RLock()
	defer s.state.RUnlock()
	return s.closed
}

// resetSack replaces the sack and the goal bound to it. The old sack is invalidated.
func (s *Session) resetSack() {
	s.state.Lock()
	defer s.state.Unlock()
	if s.sack != nil {
		s.sack.Invalidate()
	}
	s.sack = rpm.NewSack()
	s.goal = goal.New(s.sack, s.repos, s.deps.Solver, goal.Settings{
		Strict: s.config.Bool(domain.OptStrict),
		Best:   s.config.Bool(domain.OptBest),
		Arch:   s.config.String(domain.OptArch),
	})
}

// begin registers an operation with the session. The returned context is
// canceled when either ctx or the session ends.
func (s *Session) begin(ctx context.Context) (context.Context, func(), error) {
	s.state.RLock()
	defer s.state.RUnlock()
	if s.closed {
		return nil, nil, zerr.With(zerr.Wrap(domain.ErrSessionClosed, "session is closed"), "session", s.path)
	}
	s.wg.Add(1)
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
		s.wg.Done()
	}, nil
}

// mutate runs fn under the mutation lock, failing fast when it is taken.
func (s *Session) mutate(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, done, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer done()
	if !s.mutation.TryLock() {
		return zerr.With(zerr.Wrap(domain.ErrSessionBusy, "another operation is in progress"), "session", s.path)
	}
	defer s.mutation.Unlock()
	return fn(ctx)
}

// read runs fn as a registered operation without the mutation lock.
func (s *Session) read(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, done, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer done()
	return fn(ctx)
}

// FillSack loads whatever the session options ask for and the sack does not
// hold yet: the installed system and every enabled repository. Repositories
// enabled after an earlier fill are picked up by the next one.
func (s *Session) FillSack(ctx context.Context) error {
	return s.mutate(ctx, s.fillSack)
}

// ReadAllRepos fills the sack and reports whether every repository loaded.
// Load failures are logged and reported as false rather than as an error.
func (s *Session) ReadAllRepos(ctx context.Context) (bool, error) {
	ok := true
	err := s.mutate(ctx, func(ctx context.Context) error {
		if err := s.fillSack(ctx); err != nil {
			if ctx.Err() != nil {
				return err
			}
			s.logger.Error(err)
			ok = false
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return ok, nil
}

// needsFill reports whether a fill would load anything.
func (s *Session) needsFill() bool {
	sack := s.Sack()
	if s.options.LoadSystemRepo && !sack.HasRepo(domain.SystemRepoID) {
		return true
	}
	if !s.options.LoadAvailableRepos {
		return false
	}
	for _, r := range s.repos.Enabled() {
		if !sack.HasRepo(r.ID) {
			return true
		}
	}
	return false
}

// ensureFilled fills the sack on behalf of a read. Unlike FillSack it waits
// for the mutation lock, so concurrent first reads share one fill.
func (s *Session) ensureFilled(ctx context.Context) error {
	return s.read(ctx, func(ctx context.Context) error {
		s.mutation.Lock()
		defer s.mutation.Unlock()
		if !s.needsFill() {
			return nil
		}
		return s.fillSack(ctx)
	})
}

func (s *Session) fillSack(ctx context.Context) error {
	ctx, span := s.deps.Tracer.Start(ctx, "session.fill_sack")
	defer span.End()
	span.SetAttribute("session", s.path)

	sack := s.Sack()
	if s.options.LoadSystemRepo && !sack.HasRepo(domain.SystemRepoID) {
		if err := s.loadSystem(ctx, sack); err != nil {
			span.RecordError(err)
			return err
		}
	}
	if !s.options.LoadAvailableRepos {
		return nil
	}

	var pending []*domain.Repo
	for _, r := range s.repos.Enabled() {
		if !sack.HasRepo(r.ID) {
			pending = append(pending, r)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	results := make([]*ports.RepoMetadata, len(pending))
	cachedir := s.config.String(domain.OptCachedir)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLoads)
	for i, r := range pending {
		g.Go(func() error {
			md, err := s.deps.Metadata.Load(gctx, r, cachedir, loadFlags)
			if err == nil {
				results[i] = md
				return nil
			}
			if r.Config.Bool(domain.OptSkipIfUnavailable) && gctx.Err() == nil {
				s.logger.Warn(fmt.Sprintf("skipping unavailable repository %s: %v", r.ID, err))
				return nil
			}
			return zerr.With(err, "repoid", r.ID)
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return err
	}

	// Commit in registration order so ids follow repository order.
	loaded := 0
	for i, r := range pending {
		md := results[i]
		if md == nil {
			continue
		}
		if err := sack.LoadRepo(ctx, r.ID, md.Revision, md.Packages, loadFlags); err != nil {
			span.RecordError(err)
			return zerr.With(err, "repoid", r.ID)
		}
		loaded++
		s.logger.Debug(fmt.Sprintf("loaded repository %s: %d packages", r.ID, len(md.Packages)))
	}
	span.SetAttribute("repos", loaded)
	return nil
}

func (s *Session) loadSystem(ctx context.Context, sack *rpm.Sack) error {
	db, err := s.deps.RPMDB.Open(ctx, s.config.String(domain.OptInstallroot))
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	metas, err := db.Installed(ctx)
	if err != nil {
		return err
	}
	if err := sack.LoadSystem(ctx, metas); err != nil {
		return err
	}
	s.logger.Debug(fmt.Sprintf("loaded %d installed packages", len(metas)))
	return nil
}

// ListPackages fills the sack when needed and lists the packages matching
// opts.Patterns, or all packages, in ascending id order.
func (s *Session) ListPackages(ctx context.Context, opts ports.PackageListOptions) ([]map[string]any, error) {
	if err := checkAttrs(opts.Attrs, func(a string) bool { return packageAttrs[a] != nil }); err != nil {
		return nil, err
	}
	if s.needsFill() {
		if err := s.ensureFilled(ctx); err != nil {
			return nil, err
		}
	}

	var out []map[string]any
	err := s.read(ctx, func(_ context.Context) error {
		pkgs, err := s.matchPackages(opts)
		if err != nil {
			return err
		}
		out = make([]map[string]any, 0, len(pkgs))
		for _, p := range pkgs {
			m, err := PackageMap(p, opts.Attrs)
			if err != nil {
				return err
			}
			out = append(out, m)
		}
		return nil
	})
	return out, err
}

// matchPackages unions the matches of every pattern, keeping id order.
func (s *Session) matchPackages(opts ports.PackageListOptions) ([]*domain.Package, error) {
	base := rpm.NewQuery(s.Sack())
	if len(opts.Patterns) == 0 {
		return base.List()
	}
	settings := rpm.SpecSettings{
		ICase:         opts.ICase,
		WithNEVRA:     opts.WithNEVRA,
		WithProvides:  opts.WithProvides,
		WithFilenames: opts.WithFilenames,
		WithSrc:       opts.WithSrc,
	}
	seen := make(map[domain.PackageID]*domain.Package)
	for _, pattern := range opts.Patterns {
		q, ok := base.Clone().ResolveSpec(pattern, settings)
		if !ok {
			continue
		}
		pkgs, err := q.List()
		if err != nil {
			return nil, err
		}
		for _, p := range pkgs {
			seen[p.ID()] = p
		}
	}
	out := slices.Collect(maps.Values(seen))
	slices.SortFunc(out, func(a, b *domain.Package) int { return cmp.Compare(a.ID(), b.ID()) })
	return out, nil
}

// ListRepos lists configured repositories whose id matches any of patterns
// (all when empty), with the requested attributes.
func (s *Session) ListRepos(ctx context.Context, attrs, patterns []string) ([]map[string]any, error) {
	if err := checkAttrs(attrs, func(a string) bool { return repoAttrs[a] != nil }); err != nil {
		return nil, err
	}
	var out []map[string]any
	err := s.read(ctx, func(_ context.Context) error {
		loaded := make(map[string]rpm.LoadedRepo)
		if lr, err := s.Sack().Repos(); err == nil {
			for _, l := range lr {
				loaded[l.ID] = l
			}
		}
		out = []map[string]any{}
		for _, r := range s.repos.List(nil) {
			if !matchID(patterns, r.ID) {
				continue
			}
			var lr *rpm.LoadedRepo
			if l, ok := loaded[r.ID]; ok {
				lr = &l
			}
			out = append(out, repoMap(r, lr, attrs))
		}
		return nil
	})
	return out, err
}

func matchID(patterns []string, id string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, err := filepath.Match(p, id); err == nil && ok {
			return true
		}
	}
	return false
}

// ListRepoConf returns the attribute maps of the configured repositories.
// A nil ids lists all of them; unknown ids are left out.
func (s *Session) ListRepoConf(ctx context.Context, ids []string) ([]map[string]string, error) {
	var out []map[string]string
	err := s.read(ctx, func(_ context.Context) error {
		repos := s.repos.List(ids)
		out = make([]map[string]string, len(repos))
		for i, r := range repos {
			out[i] = r.Attributes()
		}
		return nil
	})
	return out, err
}

// GetRepoConf returns the attribute map of one repository.
func (s *Session) GetRepoConf(ctx context.Context, id string) (map[string]string, error) {
	var out map[string]string
	err := s.read(ctx, func(_ context.Context) error {
		r, err := s.repos.Get(id)
		if err != nil {
			return err
		}
		out = r.Attributes()
		return nil
	})
	return out, err
}

// EnableRepos enables repositories and returns the ids that changed.
func (s *Session) EnableRepos(ctx context.Context, ids []string) ([]string, error) {
	var changed []string
	err := s.mutate(ctx, func(_ context.Context) error {
		changed = s.repos.Enable(ids)
		return nil
	})
	return changed, err
}

// DisableRepos disables repositories and returns the ids that changed.
func (s *Session) DisableRepos(ctx context.Context, ids []string) ([]string, error) {
	var changed []string
	err := s.mutate(ctx, func(_ context.Context) error {
		changed = s.repos.Disable(ids)
		return nil
	})
	return changed, err
}

// AddJobs queues requests on the session goal.
func (s *Session) AddJobs(ctx context.Context, action domain.GoalAction, specs []string, settings domain.GoalJobSettings) error {
	return s.read(ctx, func(_ context.Context) error {
		return s.Goal().Add(action, specs, settings)
	})
}

// Resolve fills the sack when needed and resolves the goal.
func (s *Session) Resolve(ctx context.Context) (*domain.TransactionPlan, error) {
	var plan *domain.TransactionPlan
	err := s.mutate(ctx, func(ctx context.Context) error {
		if err := s.fillSack(ctx); err != nil {
			return err
		}
		ctx, span := s.deps.Tracer.Start(ctx, "goal.resolve")
		defer span.End()
		g := s.Goal()
		span.SetAttribute("jobs", len(g.Jobs()))

		var err error
		plan, err = g.Resolve(ctx)
		if err != nil {
			span.RecordError(err)
			return err
		}
		span.SetAttribute("entries", plan.Len())
		return nil
	})
	return plan, err
}

// DoTransaction applies the resolved plan. After a run that changed the
// system the sack is rebuilt, which invalidates earlier queries and drops the goal.
func (s *Session) DoTransaction(ctx context.Context, opts transaction.Options) (*domain.TransactionResult, error) {
	var result *domain.TransactionResult
	err := s.mutate(ctx, func(ctx context.Context) error {
		plan, err := s.Goal().Plan()
		if err != nil {
			return err
		}
		ctx, span := s.deps.Tracer.Start(ctx, "transaction.do")
		defer span.End()
		span.SetAttribute("entries", plan.Len())
		span.SetAttribute("test", opts.Test)

		db, err := s.deps.RPMDB.Open(ctx, s.config.String(domain.OptInstallroot))
		if err != nil {
			span.RecordError(err)
			return err
		}
		defer func() { _ = db.Close() }()

		var runErr error
		result, runErr = transaction.New(db, s.logger).Do(ctx, plan, opts)
		if result != nil {
			span.SetAttribute("applied", len(result.Applied()))
			if len(result.Applied()) > 0 {
				s.resetSack()
			}
		}
		if runErr != nil {
			span.RecordError(runErr)
		}
		span.AddEvent("transaction_done")
		return runErr
	})
	return result, err
}

// ReloadRepoConfig re-reads the repository directories and merges the result.
// It waits for any in-flight mutation instead of failing.
func (s *Session) ReloadRepoConfig(ctx context.Context) error {
	return s.read(ctx, func(_ context.Context) error {
		s.mutation.Lock()
		defer s.mutation.Unlock()
		return s.readRepoDirs()
	})
}

func (s *Session) readRepoDirs() error {
	defs, err := s.deps.RepoConf.ReadDirs(s.config.StringList(domain.OptReposdir))
	if err != nil {
		return err
	}
	if err := s.repos.Merge(defs); err != nil {
		s.logger.Warn(err.Error())
	}
	return nil
}

func (s *Session) startWatcher() error {
	w, err := s.deps.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Start(s.ctx, s.config.StringList(domain.OptReposdir)); err != nil {
		return err
	}
	s.watcher = w
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for ev := range w.Events() {
			if !strings.HasSuffix(ev.Path, ".repo") {
				continue
			}
			if err := s.ReloadRepoConfig(s.ctx); err != nil {
				if s.ctx.Err() != nil {
					return
				}
				s.logger.Error(err)
				continue
			}
			s.logger.Info(fmt.Sprintf("reloaded repository configuration after change to %s", ev.Path))
		}
	}()
	return nil
}

// close cancels in-flight work, waits for it and invalidates the sack.
// It reports false if the session was already closed.
func (s *Session) close() bool {
	s.state.Lock()
	if s.closed {
		s.state.Unlock()
		return false
	}
	s.closed = true
	s.state.Unlock()

	s.cancel()
	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			s.logger.Error(zerr.Wrap(err, "failed to stop reposdir watcher"))
		}
	}
	s.wg.Wait()

	s.state.Lock()
	s.sack.Invalidate()
	s.state.Unlock()
	return true
}

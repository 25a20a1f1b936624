// Package goal turns requested package actions into a transaction plan.
package goal

import (
	"context"
	"slices"
	"sync"

	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/rpmd/internal/core/ports"
	"go.trai.ch/rpmd/internal/engine/repo"
	"go.trai.ch/rpmd/internal/engine/rpm"
	"go.trai.ch/zerr"
)

// State is the resolution state of a goal.
type State uint8

const (
	// StateNew means the goal has not been resolved since it last changed.
	StateNew State = iota
	// StateResolving means a resolve is in progress.
	StateResolving
	// StateResolved means the last resolve produced a plan.
	StateResolved
	// StateFailed means the last resolve failed.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateResolving:
		return "resolving"
	case StateResolved:
		return "resolved"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Settings are the configured defaults jobs fall back to.
type Settings struct {
	Strict bool
	Best   bool
	Arch   string
}

// Goal collects requested actions for one sack and resolves them.
// A goal is bound to its sack for life.
type Goal struct {
	sack     *rpm.Sack
	registry *repo.Registry
	solver   ports.Solver
	settings Settings

	mu    sync.Mutex
	jobs  []domain.GoalJob
	state State
	plan  *domain.TransactionPlan
	err   error
}

// New creates a goal over sack. The registry supplies enabled repositories
// and their priorities.
func New(sack *rpm.Sack, registry *repo.Registry, solver ports.Solver, settings Settings) *Goal {
	return &Goal{sack: sack, registry: registry, solver: solver, settings: settings}
}

// Sack returns the sack the goal is bound to.
func (g *Goal) Sack() *rpm.Sack {
	return g.sack
}

func (g *Goal) add(action domain.GoalAction, specs []string, settings domain.GoalJobSettings) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateResolving {
		return zerr.Wrap(domain.ErrSessionBusy, "goal is being resolved")
	}
	for _, spec := range specs {
		g.jobs = append(g.jobs, domain.GoalJob{Action: action, Spec: spec, Settings: settings})
	}
	g.state = StateNew
	g.plan = nil
	return nil
}

// AddInstall queues install requests.
func (g *Goal) AddInstall(specs []string, settings domain.GoalJobSettings) error {
	return g.add(domain.GoalInstall, specs, settings)
}

// AddRemove queues remove requests.
func (g *Goal) AddRemove(specs []string, settings domain.GoalJobSettings) error {
	return g.add(domain.GoalRemove, specs, settings)
}

// AddReinstall queues reinstall requests.
func (g *Goal) AddReinstall(specs []string, settings domain.GoalJobSettings) error {
	return g.add(domain.GoalReinstall, specs, settings)
}

// AddUpgrade queues upgrade requests. No specs means upgrade everything.
func (g *Goal) AddUpgrade(specs []string, settings domain.GoalJobSettings) error {
	if len(specs) == 0 {
		specs = []string{"*"}
	}
	return g.add(domain.GoalUpgrade, specs, settings)
}

// AddDowngrade queues downgrade requests.
func (g *Goal) AddDowngrade(specs []string, settings domain.GoalJobSettings) error {
	return g.add(domain.GoalDowngrade, specs, settings)
}

// Add queues requests of any action.
func (g *Goal) Add(action domain.GoalAction, specs []string, settings domain.GoalJobSettings) error {
	if action == domain.GoalUpgrade {
		return g.AddUpgrade(specs, settings)
	}
	return g.add(action, specs, settings)
}

// Jobs returns the queued requests.
func (g *Goal) Jobs() []domain.GoalJob {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.jobs)
}

// Reset drops every queued request and the last plan.
func (g *Goal) Reset() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateResolving {
		return zerr.Wrap(domain.ErrSessionBusy, "goal is being resolved")
	}
	g.jobs = nil
	g.plan = nil
	g.err = nil
	g.state = StateNew
	return nil
}

// State returns the current state.
func (g *Goal) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Plan returns the plan of the last successful resolve.
func (g *Goal) Plan() (*domain.TransactionPlan, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateResolved {
		return nil, zerr.With(zerr.Wrap(domain.ErrGoalNotResolved, "no resolved plan"), "state", g.state.String())
	}
	return g.plan, nil
}

// Err returns the error of the last failed resolve.
func (g *Goal) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

// Resolve computes the plan for the queued requests. Either a complete plan is
// returned or an error; a failed resolve never leaves a partial plan behind.
// A resolve started while another is running fails with domain.ErrSessionBusy.
func (g *Goal) Resolve(ctx context.Context) (*domain.TransactionPlan, error) {
	g.mu.Lock()
	if g.state == StateResolving {
		g.mu.Unlock()
		return nil, zerr.Wrap(domain.ErrSessionBusy, "goal is already being resolved")
	}
	g.state = StateResolving
	g.plan = nil
	jobs := slices.Clone(g.jobs)
	g.mu.Unlock()

	plan, err := g.resolve(ctx, jobs)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.state = StateFailed
		g.err = err
		return nil, err
	}
	g.state = StateResolved
	g.plan = plan
	g.err = nil
	return plan, nil
}

func (g *Goal) resolve(ctx context.Context, jobs []domain.GoalJob) (*domain.TransactionPlan, error) {
	req, err := g.request(jobs)
	if err != nil {
		return nil, err
	}
	items, err := g.solver.Solve(ctx, req)
	if err != nil {
		return nil, err
	}
	return domain.NewTransactionPlan(items), nil
}

// request matches every job's spec against the sack and collects the
// installed and enabled-available packages.
func (g *Goal) request(jobs []domain.GoalJob) (domain.SolveRequest, error) {
	enabled := make(map[string]int)
	for _, r := range g.registry.Enabled() {
		enabled[r.ID] = r.Priority()
	}

	all, err := rpm.NewQuery(g.sack).List()
	if err != nil {
		return domain.SolveRequest{}, err
	}
	req := domain.SolveRequest{
		RepoPriority: enabled,
		Arch:         g.settings.Arch,
		Strict:       g.settings.Strict,
		Best:         g.settings.Best,
	}
	for _, p := range all {
		if p.IsInstalled() {
			req.Installed = append(req.Installed, p)
		} else if _, ok := enabled[p.RepoID()]; ok {
			req.Available = append(req.Available, p)
		}
	}

	for _, job := range jobs {
		solveJob := domain.SolveJob{GoalJob: job}
		if job.Action == domain.GoalUpgrade && job.Spec == "*" {
			req.Jobs = append(req.Jobs, solveJob)
			continue
		}
		q := rpm.NewQuery(g.sack)
		if ids := job.Settings.RepoIDs; len(ids) > 0 {
			q.FilterRepo(append(slices.Clone(ids), domain.SystemRepoID), rpm.QueryEQ)
		}
		settings := rpm.DefaultSpecSettings()
		settings.ICase = job.Settings.ICase
		if matched, ok := q.ResolveSpec(job.Spec, settings); ok {
			if solveJob.Matches, err = matched.List(); err != nil {
				return domain.SolveRequest{}, err
			}
		}
		req.Jobs = append(req.Jobs, solveJob)
	}
	return req, nil
}

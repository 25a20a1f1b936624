// Package solver provides the default dependency solver.
//
// It handles the common cases of a package manager goal: picking the best
// candidate by repository priority and version, pairing replaced packages with
// their replacements, and pulling in providers of missing requirements.
// It does not backtrack across jobs.
package solver

import (
	"context"
	"slices"
	"strings"

	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/rpmd/internal/core/ports"
	"go.trai.ch/zerr"
)

// Reasons recorded on plan entries.
const (
	ReasonUser       = "user"
	ReasonDependency = "dependency"
)

// maxDepth bounds requirement chains.
const maxDepth = 64

// Solver is the default ports.Solver.
type Solver struct{}

var _ ports.Solver = (*Solver)(nil)

// New creates a solver.
func New() *Solver {
	return &Solver{}
}

// step is a forward entry with the installed package it replaces, if any.
// A step without a forward action only records an extra replaced package.
type step struct {
	forward, backward domain.TransactionAction
	pkg, old          *domain.Package
	reason            string
}

// state is the working set of one solve.
type state struct {
	req      *domain.SolveRequest
	steps    []step
	removals []*domain.Package
	leaving  map[domain.PackageID]bool
	arriving map[domain.PackageID]bool
}

func (s *state) clone() *state {
	c := *s
	c.steps = slices.Clone(s.steps)
	c.removals = slices.Clone(s.removals)
	c.leaving = cloneSet(s.leaving)
	c.arriving = cloneSet(s.arriving)
	return &c
}

func cloneSet(m map[domain.PackageID]bool) map[domain.PackageID]bool {
	out := make(map[domain.PackageID]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Solve implements ports.Solver.
func (s *Solver) Solve(ctx context.Context, req domain.SolveRequest) ([]domain.TransactionItem, error) {
	st := &state{
		req:      &req,
		leaving:  make(map[domain.PackageID]bool),
		arriving: make(map[domain.PackageID]bool),
	}

	for _, job := range req.Jobs {
		if err := ctx.Err(); err != nil {
			return nil, zerr.Wrap(err, "solve canceled")
		}
		var err error
		switch job.Action {
		case domain.GoalInstall:
			err = st.install(job)
		case domain.GoalRemove:
			err = st.remove(job)
		case domain.GoalReinstall:
			err = st.reinstall(job)
		case domain.GoalUpgrade:
			err = st.upgrade(job)
		case domain.GoalDowngrade:
			err = st.downgrade(job)
		default:
			err = zerr.With(zerr.New("unknown goal action"), "action", job.Action.String())
		}
		if err != nil {
			return nil, err
		}
	}
	return st.items(), nil
}

func unsatisfied(job domain.SolveJob, msg string) error {
	err := zerr.With(zerr.Wrap(domain.ErrUnsatisfiedRequest, msg), "spec", job.Spec)
	return zerr.With(err, "action", job.Action.String())
}

// strict reports whether an unmatched job fails the solve.
func (s *state) strict(job domain.SolveJob) bool {
	return job.Settings.Strict.Resolve(s.req.Strict)
}

func (s *state) archOK(p *domain.Package) bool {
	if p.Arch() == "src" || p.Arch() == "nosrc" {
		return false
	}
	return s.req.Arch == "" || p.Arch() == "noarch" || p.Arch() == s.req.Arch
}

func (s *state) repoAllowed(job domain.SolveJob, p *domain.Package) bool {
	return len(job.Settings.RepoIDs) == 0 || slices.Contains(job.Settings.RepoIDs, p.RepoID())
}

func (s *state) priority(p *domain.Package) int {
	if prio, ok := s.req.RepoPriority[p.RepoID()]; ok {
		return prio
	}
	return domain.DefaultRepoPriority
}

// prefer orders candidates: lower repository priority first, then higher
// EVR, then lower id.
func (s *state) prefer(a, b *domain.Package) int {
	if pa, pb := s.priority(a), s.priority(b); pa != pb {
		return pa - pb
	}
	if c := domain.CompareEVR(b.EVR(), a.EVR()); c != 0 {
		return c
	}
	return int(a.ID()) - int(b.ID())
}

// splitMatches separates installed matches from available ones usable by job.
func (s *state) splitMatches(job domain.SolveJob) (installed, available []*domain.Package) {
	for _, p := range job.Matches {
		switch {
		case p.IsInstalled():
			installed = append(installed, p)
		case s.archOK(p) && s.repoAllowed(job, p) && s.isAvailable(p):
			available = append(available, p)
		}
	}
	return installed, available
}

func (s *state) isAvailable(p *domain.Package) bool {
	_, ok := slices.BinarySearchFunc(s.req.Available, p.ID(), func(a *domain.Package, id domain.PackageID) int {
		return int(a.ID()) - int(id)
	})
	return ok
}

// installedByName returns the installed packages with the given name that are still present.
func (s *state) installedByName(name string) []*domain.Package {
	var out []*domain.Package
	for _, p := range s.req.Installed {
		if p.Name() == name && !s.leaving[p.ID()] {
			out = append(out, p)
		}
	}
	return out
}

func groupByName(pkgs []*domain.Package) ([]string, map[string][]*domain.Package) {
	var order []string
	groups := make(map[string][]*domain.Package)
	for _, p := range pkgs {
		if _, ok := groups[p.Name()]; !ok {
			order = append(order, p.Name())
		}
		groups[p.Name()] = append(groups[p.Name()], p)
	}
	return order, groups
}

func (s *state) install(job domain.SolveJob) error {
	installed, available := s.splitMatches(job)
	if len(available) == 0 {
		if len(installed) > 0 || !s.strict(job) {
			return nil
		}
		return unsatisfied(job, "no package available")
	}

	order, groups := groupByName(available)
	for _, name := range order {
		candidates := groups[name]
		slices.SortFunc(candidates, s.prefer)

		current := s.installedByName(name)
		candidates = slices.DeleteFunc(candidates, func(c *domain.Package) bool {
			return slices.ContainsFunc(current, func(p *domain.Package) bool {
				return domain.CompareEVR(p.EVR(), c.EVR()) >= 0
			})
		})
		if len(candidates) == 0 {
			continue
		}
		if err := s.tryCandidates(job, candidates, func(st *state, c *domain.Package) error {
			return st.bring(c, oldest(current), ReasonUser, 0)
		}); err != nil {
			return err
		}
	}
	return nil
}

// tryCandidates applies the first candidate whose requirements can be met.
// With best set only the most preferred candidate is tried.
func (s *state) tryCandidates(job domain.SolveJob, candidates []*domain.Package, apply func(*state, *domain.Package) error) error {
	if s.req.Best {
		candidates = candidates[:1]
	}
	var firstErr error
	for _, c := range candidates {
		trial := s.clone()
		err := apply(trial, c)
		if err == nil {
			*s = *trial
			return nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return zerr.With(firstErr, "spec", job.Spec)
}

func oldest(pkgs []*domain.Package) *domain.Package {
	if len(pkgs) == 0 {
		return nil
	}
	return slices.MinFunc(pkgs, func(a, b *domain.Package) int { return domain.CompareEVR(a.EVR(), b.EVR()) })
}

// bring schedules pkg to arrive, replacing old when set, and resolves its requirements.
func (s *state) bring(pkg, old *domain.Package, reason string, depth int) error {
	if s.arriving[pkg.ID()] {
		return nil
	}
	fwd, back := domain.ActionInstall, domain.TransactionAction(0)
	if old != nil {
		switch c := domain.CompareEVR(pkg.EVR(), old.EVR()); {
		case c > 0:
			fwd, back = domain.ActionUpgrade, domain.ActionUpgraded
		case c < 0:
			fwd, back = domain.ActionDowngrade, domain.ActionDowngraded
		default:
			fwd, back = domain.ActionReinstall, domain.ActionReinstalled
		}
		s.leaving[old.ID()] = true
	}
	s.arriving[pkg.ID()] = true
	s.steps = append(s.steps, step{forward: fwd, backward: back, pkg: pkg, old: old, reason: reason})
	return s.require(pkg, depth)
}

// require installs providers for every unmet requirement of pkg.
func (s *state) require(pkg *domain.Package, depth int) error {
	if depth > maxDepth {
		return zerr.With(zerr.Wrap(domain.ErrUnsatisfiedRequest, "requirement chain too deep"), "package", pkg.NEVRA())
	}
	for _, dep := range pkg.Requires() {
		if dep.IsRich() || strings.HasPrefix(dep.Name, "rpmlib(") || s.provided(dep) {
			continue
		}
		provider := s.bestProvider(dep)
		if provider == nil {
			err := zerr.Wrap(domain.ErrUnsatisfiedRequest, "nothing provides "+dep.String())
			return zerr.With(err, "package", pkg.NEVRA())
		}
		if err := s.bring(provider, oldest(s.installedByName(provider.Name())), ReasonDependency, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func provides(p *domain.Package, dep domain.Dependency) bool {
	if dep.Cmp == domain.CmpNone && strings.HasPrefix(dep.Name, "/") && slices.Contains(p.Files(), dep.Name) {
		return true
	}
	return slices.ContainsFunc(p.Provides(), dep.Satisfies)
}

// provided reports whether the system after the planned changes satisfies dep.
func (s *state) provided(dep domain.Dependency) bool {
	for _, p := range s.req.Installed {
		if !s.leaving[p.ID()] && provides(p, dep) {
			return true
		}
	}
	for _, st := range s.steps {
		if provides(st.pkg, dep) {
			return true
		}
	}
	return false
}

func (s *state) bestProvider(dep domain.Dependency) *domain.Package {
	var candidates []*domain.Package
	for _, p := range s.req.Available {
		if s.archOK(p) && provides(p, dep) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return slices.MinFunc(candidates, s.prefer)
}

func (s *state) remove(job domain.SolveJob) error {
	installed, _ := s.splitMatches(job)
	if len(installed) == 0 {
		if s.strict(job) {
			return unsatisfied(job, "no package installed")
		}
		return nil
	}
	for _, p := range installed {
		if s.leaving[p.ID()] {
			continue
		}
		s.leaving[p.ID()] = true
		s.removals = append(s.removals, p)
	}
	return nil
}

func (s *state) reinstall(job domain.SolveJob) error {
	installed, _ := s.splitMatches(job)
	if len(installed) == 0 {
		if s.strict(job) {
			return unsatisfied(job, "no package installed")
		}
		return nil
	}
	for _, old := range installed {
		if s.leaving[old.ID()] {
			continue
		}
		var candidates []*domain.Package
		for _, p := range s.req.Available {
			if p.NEVRA() == old.NEVRA() && s.repoAllowed(job, p) {
				candidates = append(candidates, p)
			}
		}
		if len(candidates) == 0 {
			return zerr.With(unsatisfied(job, "installed package not available"), "package", old.NEVRA())
		}
		slices.SortFunc(candidates, s.prefer)
		if err := s.bring(candidates[0], old, ReasonUser, 0); err != nil {
			return zerr.With(err, "spec", job.Spec)
		}
	}
	return nil
}

// upgradeTargets returns the installed packages an upgrade job applies to.
// An empty spec or "*" selects every installed package.
func (s *state) upgradeTargets(job domain.SolveJob) []*domain.Package {
	if job.Spec == "" || job.Spec == "*" {
		return slices.Clone(s.req.Installed)
	}
	installed, available := s.splitMatches(job)
	for _, p := range available {
		for _, inst := range s.installedByName(p.Name()) {
			if !slices.Contains(installed, inst) {
				installed = append(installed, inst)
			}
		}
	}
	return installed
}

func (s *state) upgrade(job domain.SolveJob) error {
	targets := s.upgradeTargets(job)
	if len(targets) == 0 && s.strict(job) && job.Spec != "" && job.Spec != "*" {
		return unsatisfied(job, "no package installed")
	}
	for _, old := range targets {
		if s.leaving[old.ID()] {
			continue
		}
		if obsoleter := s.obsoleter(job, old); obsoleter != nil {
			s.leaving[old.ID()] = true
			if s.arriving[obsoleter.ID()] {
				// Already coming in: only record the extra package it replaces.
				s.steps = append(s.steps, step{backward: domain.ActionObsoleted, pkg: obsoleter, old: old, reason: ReasonUser})
				continue
			}
			s.arriving[obsoleter.ID()] = true
			s.steps = append(s.steps, step{
				forward: domain.ActionObsolete, backward: domain.ActionObsoleted,
				pkg: obsoleter, old: old, reason: ReasonUser,
			})
			if err := s.require(obsoleter, 0); err != nil {
				return zerr.With(err, "spec", job.Spec)
			}
			continue
		}
		candidates := s.versions(job, old, func(c int) bool { return c > 0 })
		if len(candidates) == 0 {
			continue
		}
		if err := s.tryCandidates(job, candidates, func(st *state, c *domain.Package) error {
			return st.bring(c, old, ReasonUser, 0)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *state) downgrade(job domain.SolveJob) error {
	installed, _ := s.splitMatches(job)
	if len(installed) == 0 {
		if s.strict(job) {
			return unsatisfied(job, "no package installed")
		}
		return nil
	}
	for _, old := range installed {
		if s.leaving[old.ID()] {
			continue
		}
		candidates := s.versions(job, old, func(c int) bool { return c < 0 })
		if len(candidates) == 0 {
			if s.strict(job) {
				return zerr.With(unsatisfied(job, "no lower version available"), "package", old.NEVRA())
			}
			continue
		}
		// The closest lower version comes first.
		slices.SortStableFunc(candidates, func(a, b *domain.Package) int {
			return domain.CompareEVR(b.EVR(), a.EVR())
		})
		if err := s.tryCandidates(job, candidates, func(st *state, c *domain.Package) error {
			return st.bring(c, old, ReasonUser, 0)
		}); err != nil {
			return err
		}
	}
	return nil
}

// versions returns the available packages with old's name and arch whose EVR
// relation to old satisfies keep, in preference order.
func (s *state) versions(job domain.SolveJob, old *domain.Package, keep func(int) bool) []*domain.Package {
	var out []*domain.Package
	for _, p := range s.req.Available {
		if p.Name() != old.Name() || !s.repoAllowed(job, p) || !s.archOK(p) {
			continue
		}
		if p.Arch() != old.Arch() && p.Arch() != "noarch" && old.Arch() != "noarch" {
			continue
		}
		if keep(domain.CompareEVR(p.EVR(), old.EVR())) && !s.arriving[p.ID()] {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, s.prefer)
	return out
}

// obsoleter returns the preferred available package of another name that obsoletes old.
func (s *state) obsoleter(job domain.SolveJob, old *domain.Package) *domain.Package {
	var candidates []*domain.Package
	for _, p := range s.req.Available {
		if p.Name() == old.Name() || !s.archOK(p) || !s.repoAllowed(job, p) {
			continue
		}
		if slices.ContainsFunc(p.Obsoletes(), func(o domain.Dependency) bool {
			return o.Name == old.Name() && slices.ContainsFunc(old.Provides(), o.Satisfies)
		}) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return slices.MinFunc(candidates, s.prefer)
}

// items renders the plan: paired entries sorted by name and arch, each forward
// entry immediately followed by the package it replaces, then removals.
func (s *state) items() []domain.TransactionItem {
	steps := slices.Clone(s.steps)
	slices.SortStableFunc(steps, func(a, b step) int {
		return domain.ComparePackages(a.pkg, b.pkg)
	})
	removals := slices.Clone(s.removals)
	slices.SortFunc(removals, domain.ComparePackages)

	items := make([]domain.TransactionItem, 0, 2*len(steps)+len(removals))
	for _, st := range steps {
		if st.forward != 0 {
			items = append(items, domain.TransactionItem{Action: st.forward, Package: st.pkg, Reason: st.reason})
		}
		if st.old != nil {
			items = append(items, domain.TransactionItem{Action: st.backward, Package: st.old, Reason: st.reason})
		}
	}
	for _, p := range removals {
		items = append(items, domain.TransactionItem{Action: domain.ActionRemove, Package: p, Reason: ReasonUser})
	}
	return items
}

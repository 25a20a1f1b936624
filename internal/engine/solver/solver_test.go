package solver_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/rpmd/internal/engine/solver"
)

type universe struct {
	installed []*domain.Package
	available []*domain.Package
	next      domain.PackageID
}

func (u *universe) add(repo, nevra string, edit ...func(*domain.PackageMetadata)) *domain.Package {
	n, ok := domain.ParseNEVRA(nevra)
	if !ok {
		panic("bad nevra " + nevra)
	}
	m := domain.PackageMetadata{Name: n.Name, Epoch: n.Epoch, Version: n.Version, Release: n.Release, Arch: n.Arch}
	for _, e := range edit {
		e(&m)
	}
	p := domain.NewPackage(u.next, repo, m, domain.LoadAll)
	u.next++
	if repo == domain.SystemRepoID {
		u.installed = append(u.installed, p)
	} else {
		u.available = append(u.available, p)
	}
	return p
}

func requires(deps ...string) func(*domain.PackageMetadata) {
	return func(m *domain.PackageMetadata) {
		for _, d := range deps {
			dep, err := domain.ParseDependency(d)
			if err != nil {
				panic(err)
			}
			m.Requires = append(m.Requires, dep)
		}
	}
}

func obsoletes(deps ...string) func(*domain.PackageMetadata) {
	return func(m *domain.PackageMetadata) {
		for _, d := range deps {
			dep, err := domain.ParseDependency(d)
			if err != nil {
				panic(err)
			}
			m.Obsoletes = append(m.Obsoletes, dep)
		}
	}
}

// job matches spec by name against every package, the way a name spec resolves.
func (u *universe) job(action domain.GoalAction, spec string) domain.SolveJob {
	job := domain.SolveJob{GoalJob: domain.GoalJob{Action: action, Spec: spec}}
	all := append(append([]*domain.Package{}, u.installed...), u.available...)
	for id := range u.next {
		for _, p := range all {
			if p.ID() == id && p.Name() == spec {
				job.Matches = append(job.Matches, p)
			}
		}
	}
	return job
}

func (u *universe) request(jobs ...domain.SolveJob) domain.SolveRequest {
	return domain.SolveRequest{
		Jobs:         jobs,
		Installed:    u.installed,
		Available:    u.available,
		RepoPriority: map[string]int{"rpm-repo1": 99, "rpm-repo2": 99},
		Arch:         "x86_64",
		Strict:       true,
		Best:         true,
	}
}

func render(items []domain.TransactionItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = fmt.Sprintf("%s %s@%s", it.Action, it.Package.NEVRA(), it.Package.RepoID())
	}
	return out
}

func TestSolve_Reinstall(t *testing.T) {
	u := &universe{}
	u.add(domain.SystemRepoID, "one-1-1.noarch")
	u.add("rpm-repo1", "one-1-1.noarch")
	u.add("rpm-repo1", "one-2-1.noarch")

	items, err := solver.New().Solve(context.Background(), u.request(u.job(domain.GoalReinstall, "one")))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Reinstall one-1-1.noarch@rpm-repo1",
		"Reinstalled one-1-1.noarch@@System",
	}, render(items))
}

func TestSolve_ReinstallWithoutCandidateFails(t *testing.T) {
	u := &universe{}
	u.add(domain.SystemRepoID, "one-1-1.noarch")
	u.add("rpm-repo1", "one-2-1.noarch")

	_, err := solver.New().Solve(context.Background(), u.request(u.job(domain.GoalReinstall, "one")))
	require.ErrorIs(t, err, domain.ErrUnsatisfiedRequest)
}

func TestSolve_InstallPullsDependencies(t *testing.T) {
	u := &universe{}
	u.add(domain.SystemRepoID, "base-1-1.x86_64")
	u.add("rpm-repo1", "app-1-1.x86_64", requires("libfoo >= 2", "base", "rpmlib(PayloadIsZstd)"))
	u.add("rpm-repo1", "libfoo-1-1.x86_64")
	u.add("rpm-repo2", "libfoo-2-1.x86_64")

	items, err := solver.New().Solve(context.Background(), u.request(u.job(domain.GoalInstall, "app")))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Install app-1-1.x86_64@rpm-repo1",
		"Install libfoo-2-1.x86_64@rpm-repo2",
	}, render(items))
	assert.Equal(t, solver.ReasonDependency, items[1].Reason)
}

func TestSolve_InstallMissingDependency(t *testing.T) {
	u := &universe{}
	u.add("rpm-repo1", "app-1-1.x86_64", requires("libmissing"))

	_, err := solver.New().Solve(context.Background(), u.request(u.job(domain.GoalInstall, "app")))
	require.ErrorIs(t, err, domain.ErrUnsatisfiedRequest)
}

func TestSolve_InstallFallsBackWhenNotBest(t *testing.T) {
	u := &universe{}
	u.add("rpm-repo1", "app-1-1.x86_64")
	u.add("rpm-repo1", "app-2-1.x86_64", requires("libmissing"))

	req := u.request(u.job(domain.GoalInstall, "app"))
	_, err := solver.New().Solve(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrUnsatisfiedRequest)

	req.Best = false
	items, err := solver.New().Solve(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"Install app-1-1.x86_64@rpm-repo1"}, render(items))
}

func TestSolve_InstallUpgradesOlderInstalled(t *testing.T) {
	u := &universe{}
	u.add(domain.SystemRepoID, "one-1-1.noarch")
	u.add("rpm-repo1", "one-2-1.noarch")

	items, err := solver.New().Solve(context.Background(), u.request(u.job(domain.GoalInstall, "one")))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Upgrade one-2-1.noarch@rpm-repo1",
		"Upgraded one-1-1.noarch@@System",
	}, render(items))
}

func TestSolve_InstallAlreadyInstalledIsNoop(t *testing.T) {
	u := &universe{}
	u.add(domain.SystemRepoID, "one-2-1.noarch")
	u.add("rpm-repo1", "one-2-1.noarch")

	items, err := solver.New().Solve(context.Background(), u.request(u.job(domain.GoalInstall, "one")))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSolve_StrictSetting(t *testing.T) {
	u := &universe{}
	job := u.job(domain.GoalInstall, "ghost")

	_, err := solver.New().Solve(context.Background(), u.request(job))
	require.ErrorIs(t, err, domain.ErrUnsatisfiedRequest)

	job.Settings.Strict = domain.SettingFalse
	items, err := solver.New().Solve(context.Background(), u.request(job))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSolve_RepoPriority(t *testing.T) {
	u := &universe{}
	u.add("rpm-repo1", "one-2-1.noarch")
	u.add("rpm-repo2", "one-1-1.noarch")

	req := u.request(u.job(domain.GoalInstall, "one"))
	req.RepoPriority["rpm-repo2"] = 10

	items, err := solver.New().Solve(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"Install one-1-1.noarch@rpm-repo2"}, render(items))
}

func TestSolve_RemoveAndOrdering(t *testing.T) {
	u := &universe{}
	u.add(domain.SystemRepoID, "zeta-1-1.noarch")
	u.add(domain.SystemRepoID, "alpha-1-1.noarch")
	u.add(domain.SystemRepoID, "one-1-1.noarch")
	u.add("rpm-repo1", "one-1-1.noarch")
	u.add("rpm-repo1", "beta-1-1.noarch")

	items, err := solver.New().Solve(context.Background(), u.request(
		u.job(domain.GoalRemove, "zeta"),
		u.job(domain.GoalRemove, "alpha"),
		u.job(domain.GoalReinstall, "one"),
		u.job(domain.GoalInstall, "beta"),
	))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Install beta-1-1.noarch@rpm-repo1",
		"Reinstall one-1-1.noarch@rpm-repo1",
		"Reinstalled one-1-1.noarch@@System",
		"Remove alpha-1-1.noarch@@System",
		"Remove zeta-1-1.noarch@@System",
	}, render(items))
}

func TestSolve_UpgradeAll(t *testing.T) {
	u := &universe{}
	u.add(domain.SystemRepoID, "one-1-1.noarch")
	u.add(domain.SystemRepoID, "old-1-1.noarch")
	u.add(domain.SystemRepoID, "same-1-1.noarch")
	u.add("rpm-repo1", "one-2-1.noarch")
	u.add("rpm-repo1", "one-3-1.noarch")
	u.add("rpm-repo1", "new-1-1.noarch", obsoletes("old < 2"))
	u.add("rpm-repo1", "same-1-1.noarch")

	items, err := solver.New().Solve(context.Background(), u.request(u.job(domain.GoalUpgrade, "*")))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Obsolete new-1-1.noarch@rpm-repo1",
		"Obsoleted old-1-1.noarch@@System",
		"Upgrade one-3-1.noarch@rpm-repo1",
		"Upgraded one-1-1.noarch@@System",
	}, render(items))
}

func TestSolve_ObsoletesSeveralInstalled(t *testing.T) {
	u := &universe{}
	u.add(domain.SystemRepoID, "old-a-1-1.noarch")
	u.add(domain.SystemRepoID, "old-b-1-1.noarch")
	u.add("rpm-repo1", "merged-1-1.noarch", obsoletes("old-a", "old-b"))

	items, err := solver.New().Solve(context.Background(), u.request(u.job(domain.GoalUpgrade, "*")))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Obsolete merged-1-1.noarch@rpm-repo1",
		"Obsoleted old-a-1-1.noarch@@System",
		"Obsoleted old-b-1-1.noarch@@System",
	}, render(items))
}

func TestSolve_Downgrade(t *testing.T) {
	u := &universe{}
	u.add(domain.SystemRepoID, "one-3-1.noarch")
	u.add("rpm-repo1", "one-1-1.noarch")
	u.add("rpm-repo1", "one-2-1.noarch")

	items, err := solver.New().Solve(context.Background(), u.request(u.job(domain.GoalDowngrade, "one")))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Downgrade one-2-1.noarch@rpm-repo1",
		"Downgraded one-3-1.noarch@@System",
	}, render(items))
}

func TestSolve_Canceled(t *testing.T) {
	u := &universe{}
	u.add("rpm-repo1", "one-1-1.noarch")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := solver.New().Solve(ctx, u.request(u.job(domain.GoalInstall, "one")))
	require.ErrorIs(t, err, context.Canceled)
}

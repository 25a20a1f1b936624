package rpm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/rpmd/internal/engine/rpm"
)

func meta(name, version, release, arch string, provides ...string) domain.PackageMetadata {
	m := domain.PackageMetadata{Name: name, Version: version, Release: release, Arch: arch}
	for _, p := range provides {
		d, err := domain.ParseDependency(p)
		if err != nil {
			panic(err)
		}
		m.Provides = append(m.Provides, d)
	}
	return m
}

// newTestSack loads a small system repository followed by two repositories.
func newTestSack(t *testing.T) *rpm.Sack {
	t.Helper()
	ctx := context.Background()
	sack := rpm.NewSack()

	require.NoError(t, sack.LoadSystem(ctx, []domain.PackageMetadata{
		meta("one", "1", "1", "noarch"),
	}))
	require.NoError(t, sack.LoadRepo(ctx, "rpm-repo1", "", []domain.PackageMetadata{
		meta("one", "1", "1", "noarch"),
		meta("one", "2", "1", "noarch"),
		meta("pkg", "1.2", "3", "x86_64", "pkg.conf", "pkg.conf.d"),
		meta("pkg-libs", "1.2", "3", "x86_64"),
	}, domain.LoadNone))
	require.NoError(t, sack.LoadRepo(ctx, "rpm-repo2", "", []domain.PackageMetadata{
		meta("pkg-libs", "1.2", "3", "x86_64"),
		meta("two", "1", "1", "src"),
	}, domain.LoadNone))
	return sack
}

func names(t *testing.T, q *rpm.PackageQuery) []string {
	t.Helper()
	var out []string
	for p, err := range q.All() {
		require.NoError(t, err)
		out = append(out, p.NEVRA()+"@"+p.RepoID())
	}
	return out
}

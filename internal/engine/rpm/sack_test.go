package rpm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/rpmd/internal/engine/rpm"
)

func TestSack_IDsAscendByLoadOrder(t *testing.T) {
	sack := newTestSack(t)

	repos, err := sack.Repos()
	require.NoError(t, err)
	require.Len(t, repos, 3)
	assert.Equal(t, domain.SystemRepoID, repos[0].ID)

	for i := 1; i < len(repos); i++ {
		prev, cur := repos[i-1], repos[i]
		assert.Less(t, int(prev.First)+prev.Count-1, int(cur.First), "%s before %s", prev.ID, cur.ID)
	}

	n, err := sack.Len()
	require.NoError(t, err)
	for id := range n {
		pkg, err := sack.Package(domain.PackageID(id))
		require.NoError(t, err)
		assert.Equal(t, domain.PackageID(id), pkg.ID())
	}
}

func TestSack_SameNEVRADistinctRecords(t *testing.T) {
	sack := newTestSack(t)

	pkgs, err := rpm.NewQuery(sack).FilterNEVRA([]string{"pkg-libs-1.2-3.x86_64"}, rpm.QueryEQ).List()
	require.NoError(t, err)
	require.Len(t, pkgs, 2)
	assert.NotEqual(t, pkgs[0].ID(), pkgs[1].ID())
	assert.Equal(t, "rpm-repo1", pkgs[0].RepoID())
	assert.Equal(t, "rpm-repo2", pkgs[1].RepoID())
}

func TestSack_RejectsSecondLoad(t *testing.T) {
	sack := newTestSack(t)

	err := sack.LoadRepo(context.Background(), "rpm-repo1", "", nil, domain.LoadNone)
	require.ErrorIs(t, err, domain.ErrRepoAlreadyLoaded)

	n, err := sack.Len()
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestSack_CanceledLoadLeavesSackUnchanged(t *testing.T) {
	sack := newTestSack(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sack.LoadRepo(ctx, "late", "", []domain.PackageMetadata{meta("late", "1", "1", "noarch")}, domain.LoadNone)
	require.ErrorIs(t, err, context.Canceled)

	n, err := sack.Len()
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.False(t, sack.HasRepo("late"))
}

func TestSack_Invalidate(t *testing.T) {
	sack := newTestSack(t)
	query := rpm.NewQuery(sack)
	list := rpm.NewReldepList(sack)
	require.NoError(t, list.AddReldep("pkg"))
	reldep, err := list.Get(0)
	require.NoError(t, err)

	sack.Invalidate()

	_, err = sack.Len()
	require.ErrorIs(t, err, domain.ErrInvalidReference)
	_, err = query.List()
	require.ErrorIs(t, err, domain.ErrInvalidReference)
	_, err = list.Get(0)
	require.ErrorIs(t, err, domain.ErrInvalidReference)
	_, err = reldep.Dependency()
	require.ErrorIs(t, err, domain.ErrInvalidReference)
	require.ErrorIs(t, list.AddReldep("other"), domain.ErrInvalidReference)

	for _, err := range query.All() {
		require.ErrorIs(t, err, domain.ErrInvalidReference)
	}
}

func TestSack_LoadFlagsNarrowAttributes(t *testing.T) {
	ctx := context.Background()
	m := meta("doc", "1", "1", "noarch")
	m.Description = "long text"
	m.Files = []string{"/usr/bin/doc", "/usr/share/doc/doc/README"}

	narrow := rpm.NewSack()
	require.NoError(t, narrow.LoadRepo(ctx, "r", "", []domain.PackageMetadata{m}, domain.LoadNone))
	full := rpm.NewSack()
	require.NoError(t, full.LoadRepo(ctx, "r", "", []domain.PackageMetadata{m}, domain.LoadFilelists|domain.LoadOther))

	a, err := narrow.Package(0)
	require.NoError(t, err)
	b, err := full.Package(0)
	require.NoError(t, err)

	assert.Empty(t, a.Description())
	assert.Equal(t, []string{"/usr/bin/doc"}, a.Files())
	assert.Equal(t, "long text", b.Description())
	assert.Len(t, b.Files(), 2)
}

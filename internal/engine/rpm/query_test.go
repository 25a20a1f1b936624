package rpm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rpmd/internal/engine/rpm"
)

func TestQuery_FilterName(t *testing.T) {
	sack := newTestSack(t)

	exact := names(t, rpm.NewQuery(sack).FilterName([]string{"pkg"}, rpm.QueryEQ))
	assert.Equal(t, []string{"pkg-1.2-3.x86_64@rpm-repo1"}, exact)

	glob := names(t, rpm.NewQuery(sack).FilterName([]string{"pk*"}, rpm.QueryGlob))
	assert.Equal(t, []string{
		"pkg-1.2-3.x86_64@rpm-repo1",
		"pkg-libs-1.2-3.x86_64@rpm-repo1",
		"pkg-libs-1.2-3.x86_64@rpm-repo2",
	}, glob)
	assert.Subset(t, glob, exact)

	icase := names(t, rpm.NewQuery(sack).FilterName([]string{"PKG"}, rpm.QueryEQ|rpm.QueryICase))
	assert.Equal(t, exact, icase)

	assert.Empty(t, names(t, rpm.NewQuery(sack).FilterName([]string{"missing"}, rpm.QueryEQ)))
}

func TestQuery_IsRestartableAndDeterministic(t *testing.T) {
	sack := newTestSack(t)
	q := rpm.NewQuery(sack).FilterName([]string{"one"}, rpm.QueryEQ)

	first := names(t, q)
	assert.Equal(t, first, names(t, q))
	assert.Equal(t, first, names(t, rpm.NewQuery(sack).FilterName([]string{"one"}, rpm.QueryEQ)))
	assert.Len(t, first, 3)
}

func TestQuery_OutlivesCreator(t *testing.T) {
	q := func() *rpm.PackageQuery {
		return rpm.NewQuery(newTestSack(t)).FilterAvailable()
	}()

	n, err := q.Size()
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, names(t, q), names(t, q))
}

func TestQuery_Filters(t *testing.T) {
	sack := newTestSack(t)

	installed := names(t, rpm.NewQuery(sack).FilterInstalled())
	assert.Equal(t, []string{"one-1-1.noarch@@System"}, installed)

	repo2 := names(t, rpm.NewQuery(sack).FilterRepo([]string{"rpm-repo2"}, rpm.QueryEQ))
	assert.Len(t, repo2, 2)

	latest := names(t, rpm.NewQuery(sack).FilterName([]string{"one"}, rpm.QueryEQ).FilterLatest())
	assert.Equal(t, []string{"one-2-1.noarch@rpm-repo1"}, latest)

	evr := names(t, rpm.NewQuery(sack).FilterName([]string{"one"}, rpm.QueryEQ).FilterEVR([]string{"1"}))
	assert.Len(t, evr, 2)

	noSrc := names(t, rpm.NewQuery(sack).FilterSource(false).FilterName([]string{"two"}, rpm.QueryEQ))
	assert.Empty(t, noSrc)
}

func TestQuery_FilterProvides(t *testing.T) {
	sack := newTestSack(t)
	deps := rpm.NewReldepList(sack)
	require.NoError(t, deps.AddReldep("pkg.conf"))

	assert.Equal(t, []string{"pkg-1.2-3.x86_64@rpm-repo1"}, names(t, rpm.NewQuery(sack).FilterProvides(deps)))
}

func TestQuery_ResolveSpec(t *testing.T) {
	sack := newTestSack(t)
	base := rpm.NewQuery(sack)

	tests := []struct {
		spec string
		want []string
	}{
		{spec: "pkg", want: []string{"pkg-1.2-3.x86_64@rpm-repo1"}},
		{spec: "one-2-1.noarch", want: []string{"one-2-1.noarch@rpm-repo1"}},
		{spec: "one-0:2-1.noarch", want: []string{"one-2-1.noarch@rpm-repo1"}},
		{spec: "pkg.x86_64", want: []string{"pkg-1.2-3.x86_64@rpm-repo1"}},
		{spec: "one-2", want: []string{"one-2-1.noarch@rpm-repo1"}},
		{spec: "pkg.conf.d", want: []string{"pkg-1.2-3.x86_64@rpm-repo1"}},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, ok := base.ResolveSpec(tt.spec, rpm.DefaultSpecSettings())
			require.True(t, ok)
			assert.Equal(t, tt.want, names(t, got))
		})
	}

	_, ok := base.ResolveSpec("two", rpm.DefaultSpecSettings())
	assert.False(t, ok)

	settings := rpm.DefaultSpecSettings()
	settings.WithSrc = true
	_, ok = base.ResolveSpec("two", settings)
	assert.True(t, ok)

	n, err := base.Size()
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

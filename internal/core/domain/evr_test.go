package domain_test

import (
	"testing"

	"github.com/cavaliercoder/go-rpm/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rpmd/internal/core/domain"
)

func TestParseEVR(t *testing.T) {
	e := domain.ParseEVR("2:1.0.3-4.fc40")
	assert.Equal(t, 2, e.Epoch())
	assert.Equal(t, "1.0.3", e.Version())
	assert.Equal(t, "4.fc40", e.Release())
	assert.Equal(t, "2:1.0.3-4.fc40", e.String())

	e = domain.ParseEVR("1.0")
	assert.Equal(t, 0, e.Epoch())
	assert.Equal(t, "", e.Release())
	assert.Equal(t, "1.0", e.String())
}

func TestEVR_VersionInterface(t *testing.T) {
	var newer, older version.Interface = domain.ParseEVR("1:1.0-1"), domain.ParseEVR("2.0-1")
	assert.Empty(t, newer.Name())
	assert.Equal(t, 1, version.Compare(newer, older))
	assert.Equal(t, -1, domain.CompareEVR(domain.ParseEVR("1.0~rc1-1"), domain.ParseEVR("1.0-1")))
}

func TestCompareEVR(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{a: "1.0-1", b: "1.0-1", want: 0},
		{a: "1.0-2", b: "1.0-1", want: 1},
		{a: "1.10-1", b: "1.9-1", want: 1},
		{a: "1:0.1-1", b: "9.9-9", want: 1},
		{a: "1.0-1", b: "1.0.1-1", want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.CompareEVR(domain.ParseEVR(tt.a), domain.ParseEVR(tt.b)))
		})
	}

	assert.Equal(t, 0, domain.CompareEVRLoose(domain.ParseEVR("1.0"), domain.ParseEVR("1.0-5")))
}

func TestParseNEVRA(t *testing.T) {
	n, ok := domain.ParseNEVRA("one-0:1-1.noarch")
	require.True(t, ok)
	assert.Equal(t, domain.NEVRA{Name: "one", Epoch: 0, Version: "1", Release: "1", Arch: "noarch", HasEpoch: true}, n)

	n, ok = domain.ParseNEVRA("python3-labirinto-4.2.0-1.fc40.x86_64")
	require.True(t, ok)
	assert.Equal(t, "python3-labirinto", n.Name)
	assert.Equal(t, "4.2.0", n.Version)
	assert.Equal(t, "1.fc40", n.Release)
	assert.Equal(t, "x86_64", n.Arch)
	assert.False(t, n.HasEpoch)
	assert.Equal(t, "python3-labirinto-4.2.0-1.fc40.x86_64", n.String())

	for _, bad := range []string{"one", "one.noarch", "one-1.noarch", "one-x:1-1.noarch"} {
		_, ok := domain.ParseNEVRA(bad)
		assert.False(t, ok, bad)
	}
}

func TestPackage_Identity(t *testing.T) {
	pkg := domain.NewPackage(3, "repo1", domain.PackageMetadata{
		Name: "one", Version: "1", Release: "1", Arch: "noarch",
		Description: "dropped without other metadata",
		Files:       []string{"/usr/bin/one", "/usr/share/doc/one/README"},
	}, domain.LoadNone)

	assert.Equal(t, domain.PackageID(3), pkg.ID())
	assert.Equal(t, "one-1-1.noarch", pkg.NEVRA())
	assert.Equal(t, "one-0:1-1.noarch", pkg.FullNEVRA())
	assert.Equal(t, "repo1", pkg.RepoID())
	assert.False(t, pkg.IsInstalled())
	assert.Empty(t, pkg.Description())
	assert.Equal(t, []string{"/usr/bin/one"}, pkg.Files())
	require.NotEmpty(t, pkg.Provides())
	assert.Equal(t, "one = 1-1", pkg.Provides()[0].String())
}

package primarydb_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rpmd/internal/adapters/primarydb"
	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/rpmd/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func deps(t *testing.T, texts ...string) []domain.Dependency {
	t.Helper()
	out := make([]domain.Dependency, 0, len(texts))
	for _, text := range texts {
		d, err := domain.ParseDependency(text)
		require.NoError(t, err)
		out = append(out, d)
	}
	return out
}

func sampleMetas(t *testing.T) []domain.PackageMetadata {
	t.Helper()
	return []domain.PackageMetadata{
		{
			Name: "app", Epoch: 2, Version: "1.0", Release: "3", Arch: "x86_64",
			Summary: "The app", Description: "Longer text", URL: "https://example.com",
			Location: "Packages/app.rpm", InstallSize: 4096, PackageSize: 1024,
			Provides:   deps(t, "app = 2:1.0-3", "webserver"),
			Requires:   deps(t, "libfoo >= 2", "(bash if shell)"),
			Conflicts:  deps(t, "oldapp < 1"),
			Recommends: deps(t, "app-docs"),
			Files:      []string{"/usr/bin/app", "/usr/share/doc/app/README"},
		},
		{Name: "libfoo", Version: "2", Release: "1", Arch: "x86_64", Obsoletes: deps(t, "libbar <= 1.5")},
	}
}

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repodata", "primary.sqlite")
	metas := sampleMetas(t)

	revision, err := primarydb.Write(t.Context(), path, metas)
	require.NoError(t, err)
	assert.Equal(t, primarydb.Revision(metas), revision)

	gotRevision, got, err := primarydb.Read(t.Context(), path)
	require.NoError(t, err)
	assert.Equal(t, revision, gotRevision)
	require.Len(t, got, 2)

	app := got[0]
	assert.Equal(t, "app-2:1.0-3.x86_64", app.NEVRA().String())
	assert.Equal(t, "The app", app.Summary)
	assert.Equal(t, "Longer text", app.Description)
	assert.Equal(t, "Packages/app.rpm", app.Location)
	assert.Equal(t, int64(4096), app.InstallSize)
	assert.Equal(t, int64(1), app.SourceKey)
	assert.NotEmpty(t, app.Checksum)

	render := func(ds []domain.Dependency) []string {
		var out []string
		for _, d := range ds {
			out = append(out, d.String())
		}
		return out
	}
	assert.Equal(t, []string{"app = 2:1.0-3", "webserver"}, render(app.Provides))
	assert.Equal(t, []string{"libfoo >= 2", "(bash if shell)"}, render(app.Requires))
	assert.Equal(t, []string{"oldapp < 1"}, render(app.Conflicts))
	assert.Equal(t, []string{"app-docs"}, render(app.Recommends))
	assert.Equal(t, []string{"/usr/bin/app", "/usr/share/doc/app/README"}, app.Files)
	assert.Equal(t, []string{"libbar <= 1.5"}, render(got[1].Obsoletes))
}

func TestWrite_ReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	metas := sampleMetas(t)

	first, err := primarydb.WriteRepo(t.Context(), dir, metas)
	require.NoError(t, err)
	second, err := primarydb.WriteRepo(t.Context(), dir, metas[:1])
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	_, got, err := primarydb.Read(t.Context(), filepath.Join(dir, domain.PrimaryDBRelPath))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRead_NotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "primary.sqlite")
	require.NoError(t, os.WriteFile(path, []byte("definitely not sqlite"), domain.FilePerm))

	_, _, err := primarydb.Read(t.Context(), path)
	require.ErrorIs(t, err, domain.ErrMetadataReadFailed)
}

func newRepo(t *testing.T, id string, baseurls ...string) *domain.Repo {
	t.Helper()
	r := domain.NewRepo(id, "/etc/yum.repos.d/test.repo")
	if len(baseurls) > 0 {
		require.NoError(t, r.Config.Set(domain.OptBaseURL, strings.Join(baseurls, " "), domain.PriorityRepoConfig))
	}
	return r
}

func newSource(t *testing.T, cache *primarydb.Cache) *primarydb.Source {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	return primarydb.NewSource(log, cache)
}

func TestSource_Load(t *testing.T) {
	repoDir := t.TempDir()
	revision, err := primarydb.WriteRepo(t.Context(), repoDir, sampleMetas(t))
	require.NoError(t, err)

	cache := primarydb.NewCache()
	src := newSource(t, cache)

	md, err := src.Load(t.Context(), newRepo(t, "rpm-repo1", "file://"+repoDir), "", domain.LoadAll)
	require.NoError(t, err)
	assert.Equal(t, "rpm-repo1", md.RepoID)
	assert.Equal(t, revision, md.Revision)
	assert.Len(t, md.Packages, 2)
	assert.Equal(t, 1, cache.Len())

	md, err = src.Load(t.Context(), newRepo(t, "same-dir", repoDir), "", domain.LoadNone)
	require.NoError(t, err)
	assert.Equal(t, "same-dir", md.RepoID)
	assert.Equal(t, 1, cache.Len())
}

func TestSource_LoadFallsBackToNextBaseURL(t *testing.T) {
	repoDir := t.TempDir()
	_, err := primarydb.WriteRepo(t.Context(), repoDir, sampleMetas(t))
	require.NoError(t, err)

	md, err := newSource(t, nil).Load(t.Context(),
		newRepo(t, "rpm-repo1", "https://mirror.example/repo", filepath.Join(t.TempDir(), "empty"), repoDir),
		"", domain.LoadAll)
	require.NoError(t, err)
	assert.Len(t, md.Packages, 2)
}

func TestSource_LoadUsesCachedCopy(t *testing.T) {
	repoDir, cachedir := t.TempDir(), t.TempDir()
	revision, err := primarydb.WriteRepo(t.Context(), repoDir, sampleMetas(t))
	require.NoError(t, err)

	src := newSource(t, nil)
	repo := newRepo(t, "rpm-repo1", repoDir)
	_, err = src.Load(t.Context(), repo, cachedir, domain.LoadAll)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(cachedir, "rpm-repo1", "primary.sqlite"))

	require.NoError(t, os.RemoveAll(repoDir))
	md, err := src.Load(t.Context(), repo, cachedir, domain.LoadAll)
	require.NoError(t, err)
	assert.Equal(t, revision, md.Revision)
}

func TestSource_LoadErrors(t *testing.T) {
	src := newSource(t, nil)

	_, err := src.Load(t.Context(), newRepo(t, "no-url"), "", domain.LoadAll)
	require.ErrorIs(t, err, domain.ErrMetadataReadFailed)

	_, err = src.Load(t.Context(), newRepo(t, "remote", "https://mirror.example/repo"), "", domain.LoadAll)
	require.ErrorIs(t, err, domain.ErrMetadataReadFailed)

	_, err = src.Load(t.Context(), newRepo(t, "missing", filepath.Join(t.TempDir(), "nothing")), "", domain.LoadAll)
	require.ErrorIs(t, err, domain.ErrMetadataReadFailed)
}

func TestRevision_ChangesWithContent(t *testing.T) {
	metas := sampleMetas(t)
	base := primarydb.Revision(metas)
	assert.Equal(t, base, primarydb.Revision(sampleMetas(t)))

	metas[1].Release = "2"
	assert.NotEqual(t, base, primarydb.Revision(metas))
}

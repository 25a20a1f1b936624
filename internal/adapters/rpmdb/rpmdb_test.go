package rpmdb_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rpmd/internal/adapters/rpmdb"
	"go.trai.ch/rpmd/internal/core/domain"
)

func meta(t *testing.T, nevra string, requires ...string) domain.PackageMetadata {
	t.Helper()
	n, ok := domain.ParseNEVRA(nevra)
	require.True(t, ok, nevra)
	m := domain.PackageMetadata{Name: n.Name, Epoch: n.Epoch, Version: n.Version, Release: n.Release, Arch: n.Arch}
	for _, r := range requires {
		d, err := domain.ParseDependency(r)
		require.NoError(t, err)
		m.Requires = append(m.Requires, d)
	}
	return m
}

func item(action domain.TransactionAction, repo string, m domain.PackageMetadata) domain.TransactionItem {
	return domain.TransactionItem{Action: action, Package: domain.NewPackage(0, repo, m, domain.LoadAll)}
}

func names(t *testing.T, db *rpmdb.DB) []string {
	t.Helper()
	metas, err := db.Installed(t.Context())
	require.NoError(t, err)
	var out []string
	for _, m := range metas {
		out = append(out, m.NEVRA().String())
	}
	return out
}

func openDB(t *testing.T) *rpmdb.DB {
	t.Helper()
	db, err := rpmdb.OpenPath(t.Context(), filepath.Join(t.TempDir(), "rpmdb.sqlite"), func() time.Time {
		return time.Unix(1700000000, 0)
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpener_CreatesDatabaseInInstallroot(t *testing.T) {
	root := t.TempDir()
	db, err := rpmdb.NewOpener().Open(t.Context(), root)
	require.NoError(t, err)
	defer func() { require.NoError(t, db.Close()) }()

	assert.FileExists(t, domain.RPMDBPath(root))
	installed, err := db.Installed(t.Context())
	require.NoError(t, err)
	assert.Empty(t, installed)
}

func TestDB_RecordKeepsMetadata(t *testing.T) {
	db := openDB(t)
	m := meta(t, "app-2:1.0-3.x86_64", "libfoo >= 2", "(bash if shell)")
	m.Summary = "The app"
	m.Files = []string{"/usr/bin/app"}
	require.NoError(t, db.Record(t.Context(), m, "rpm-repo1"))

	installed, err := db.Installed(t.Context())
	require.NoError(t, err)
	require.Len(t, installed, 1)
	got := installed[0]
	assert.Equal(t, "app-2:1.0-3.x86_64", got.NEVRA().String())
	assert.Equal(t, "The app", got.Summary)
	assert.Equal(t, []string{"/usr/bin/app"}, got.Files)
	require.Len(t, got.Requires, 2)
	assert.Equal(t, "libfoo >= 2", got.Requires[0].String())
	assert.Equal(t, "(bash if shell)", got.Requires[1].String())

	err = db.Record(t.Context(), m, "rpm-repo1")
	require.ErrorIs(t, err, domain.ErrRPMDBFailed)
}

func TestDB_ApplyUpgrade(t *testing.T) {
	db := openDB(t)
	require.NoError(t, db.Record(t.Context(), meta(t, "one-1-1.noarch"), "rpm-repo1"))
	require.NoError(t, db.Record(t.Context(), meta(t, "two-1-1.noarch"), "rpm-repo1"))

	require.NoError(t, db.Apply(t.Context(), item(domain.ActionUpgrade, "rpm-repo1", meta(t, "one-2-1.noarch"))))
	require.NoError(t, db.Apply(t.Context(), item(domain.ActionUpgraded, domain.SystemRepoID, meta(t, "one-1-1.noarch"))))
	require.NoError(t, db.Apply(t.Context(), item(domain.ActionRemove, domain.SystemRepoID, meta(t, "two-1-1.noarch"))))

	assert.Equal(t, []string{"one-2-1.noarch"}, names(t, db))
}

func TestDB_ApplyReinstall(t *testing.T) {
	db := openDB(t)
	require.NoError(t, db.Record(t.Context(), meta(t, "one-1-1.noarch"), "rpm-repo1"))
	require.NoError(t, db.Record(t.Context(), meta(t, "two-1-1.noarch"), "rpm-repo1"))

	require.NoError(t, db.Apply(t.Context(), item(domain.ActionReinstall, "rpm-repo1", meta(t, "one-1-1.noarch"))))
	require.NoError(t, db.Apply(t.Context(), item(domain.ActionReinstalled, domain.SystemRepoID, meta(t, "one-1-1.noarch"))))

	assert.Equal(t, []string{"two-1-1.noarch", "one-1-1.noarch"}, names(t, db))
}

func TestDB_ApplyRemoveMissing(t *testing.T) {
	db := openDB(t)

	err := db.Apply(t.Context(), item(domain.ActionRemove, domain.SystemRepoID, meta(t, "ghost-1-1.noarch")))
	require.ErrorIs(t, err, domain.ErrRPMDBFailed)

	err = db.Apply(t.Context(), domain.TransactionItem{Action: domain.ActionInstall})
	require.ErrorIs(t, err, domain.ErrRPMDBFailed)
}

func TestDB_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rpmdb.sqlite")
	db, err := rpmdb.OpenPath(t.Context(), path, nil)
	require.NoError(t, err)
	require.NoError(t, db.Apply(t.Context(), item(domain.ActionInstall, "rpm-repo1", meta(t, "one-1-1.noarch"))))
	require.NoError(t, db.Close())

	db, err = rpmdb.OpenPath(t.Context(), path, nil)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	assert.Equal(t, []string{"one-1-1.noarch"}, names(t, db))
}

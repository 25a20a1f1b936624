package repoconf_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rpmd/internal/adapters/repoconf"
	"go.trai.ch/rpmd/internal/core/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func TestReader_ReadMain(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "dnf.conf", `
# system wide settings
[main]
gpgcheck=1
best = False
reposdir=/etc/yum.repos.d

[inline-repo]
name=Inline repository
baseurl=file:///srv/inline
`)

	file, err := repoconf.NewReader().ReadMain(path)
	require.NoError(t, err)

	assert.Equal(t, path, file.Path)
	assert.Equal(t, map[string]string{
		"gpgcheck": "1",
		"best":     "False",
		"reposdir": "/etc/yum.repos.d",
	}, file.Main)
	require.Len(t, file.Repos, 1)
	assert.Equal(t, "inline-repo", file.Repos[0].ID)
	assert.Equal(t, path, file.Repos[0].FilePath)
	assert.Equal(t, []string{"name", "baseurl"}, file.Repos[0].Keys)
	assert.Equal(t, "file:///srv/inline", file.Repos[0].Values["baseurl"])
}

func TestReader_ReadMainMissing(t *testing.T) {
	r := repoconf.NewReader()

	file, err := r.ReadMain(filepath.Join(t.TempDir(), "absent.conf"))
	require.NoError(t, err)
	assert.Empty(t, file.Main)
	assert.Empty(t, file.Repos)

	file, err = r.ReadMain("")
	require.NoError(t, err)
	assert.Empty(t, file.Main)
}

func TestReader_ReadMainInvalid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "dnf.conf", "[main\ngpgcheck=1\n")

	_, err := repoconf.NewReader().ReadMain(path)
	require.ErrorIs(t, err, domain.ErrConfigParseFailed)
}

func TestReader_ReadDirs(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeFile(t, first, "b.repo", `
[rpm-repo2]
name=Second
enabled=0

[rpm-repo3]
baseurl=http://a.example/repo
    http://b.example/repo
`)
	writeFile(t, first, "a.repo", "[rpm-repo1]\nname=First\nbaseurl=file:///srv/repo1 # local mirror\n")
	writeFile(t, first, "notes.txt", "[ignored]\n")
	writeFile(t, first, "sub/nested.repo", "[nested]\n")
	writeFile(t, second, "z.repo", "[rpm-repo4]\n")

	defs, err := repoconf.NewReader().ReadDirs([]string{first, filepath.Join(first, "missing"), second})
	require.NoError(t, err)

	ids := make([]string, len(defs))
	for i, d := range defs {
		ids[i] = d.ID
	}
	assert.Equal(t, []string{"rpm-repo1", "rpm-repo2", "rpm-repo3", "rpm-repo4"}, ids)
	assert.Equal(t, filepath.Join(first, "a.repo"), defs[0].FilePath)
	assert.Equal(t, "file:///srv/repo1", defs[0].Values["baseurl"])
	assert.Equal(t, "0", defs[1].Values["enabled"])
	assert.Equal(t, []string{"http://a.example/repo", "http://b.example/repo"}, domain.SplitList(defs[2].Values["baseurl"]))
}

func TestReader_ReadDirsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.repo", "[broken\n")

	_, err := repoconf.NewReader().ReadDirs([]string{dir})
	require.ErrorIs(t, err, domain.ErrConfigParseFailed)
}

package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rpmd/internal/core/domain"
)

func TestConfig_PriorityOrdering(t *testing.T) {
	cfg := domain.NewMainConfig()

	require.NoError(t, cfg.Set(domain.OptCachedir, "/runtime", domain.PriorityRuntime))
	require.NoError(t, cfg.Set(domain.OptCachedir, "/main", domain.PriorityMainConfig))

	got, err := cfg.Get(domain.OptCachedir)
	require.NoError(t, err)
	assert.Equal(t, "/runtime", got)
	assert.Equal(t, domain.PriorityRuntime, cfg.Priority(domain.OptCachedir))
}

func TestConfig_EqualPriorityOverwrites(t *testing.T) {
	cfg := domain.NewMainConfig()

	require.NoError(t, cfg.Set(domain.OptBest, "0", domain.PriorityMainConfig))
	require.NoError(t, cfg.Set(domain.OptBest, "yes", domain.PriorityMainConfig))

	assert.True(t, cfg.Bool(domain.OptBest))
}

func TestConfig_Errors(t *testing.T) {
	cfg := domain.NewMainConfig()

	_, err := cfg.Get("no_such_option")
	require.ErrorIs(t, err, domain.ErrUnknownOption)

	err = cfg.Set("no_such_option", "1", domain.PriorityRuntime)
	require.ErrorIs(t, err, domain.ErrUnknownOption)

	err = cfg.Set(domain.OptBest, "maybe", domain.PriorityRuntime)
	require.ErrorIs(t, err, domain.ErrInvalidOptionValue)

	err = cfg.Set(domain.OptInstallroot, "relative/root", domain.PriorityRuntime)
	require.ErrorIs(t, err, domain.ErrInvalidOptionValue)
}

func TestConfig_LowerPriorityIsNotParsed(t *testing.T) {
	cfg := domain.NewMainConfig()
	require.NoError(t, cfg.Set(domain.OptBest, "1", domain.PriorityRuntime))

	// Ignored before parsing, so an invalid value is not an error.
	require.NoError(t, cfg.Set(domain.OptBest, "maybe", domain.PriorityDefault))
	assert.True(t, cfg.Bool(domain.OptBest))
}

func TestConfig_ListAndAttributes(t *testing.T) {
	cfg := domain.NewRepoConfig()
	require.NoError(t, cfg.Set(domain.OptName, "Main", domain.PriorityRepoConfig))
	require.NoError(t, cfg.Set(domain.OptBaseURL, "http://a/, http://b/", domain.PriorityRepoConfig))

	assert.IsIncreasing(t, cfg.List())
	assert.Contains(t, cfg.List(), domain.OptEnabled)
	assert.Equal(t, map[string]string{
		domain.OptName:    "Main",
		domain.OptBaseURL: "http://a/, http://b/",
	}, cfg.Attributes())
	assert.Equal(t, []string{"http://a/", "http://b/"}, cfg.StringList(domain.OptBaseURL))
}

func TestConfig_CloneIsIndependent(t *testing.T) {
	cfg := domain.NewMainConfig()
	clone := cfg.Clone()

	require.NoError(t, clone.Set(domain.OptArch, "riscv64", domain.PriorityRuntime))
	assert.Equal(t, "riscv64", clone.String(domain.OptArch))
	assert.NotEqual(t, "riscv64", cfg.String(domain.OptArch))
}

func TestRepo_Attributes(t *testing.T) {
	repo := domain.NewRepo("main_repo", "/etc/rpmd/rpmd.conf")
	require.NoError(t, repo.Config.Set(domain.OptName, "repo with plain text", domain.PriorityRepoConfig))
	require.NoError(t, repo.Config.Set(domain.OptBaseURL, "http://plain.repo.org/", domain.PriorityRepoConfig))

	assert.Equal(t, map[string]string{
		"repoid":  "main_repo",
		"name":    "repo with plain text",
		"baseurl": "http://plain.repo.org/",
		"enabled": "1",
	}, repo.Attributes())

	require.NoError(t, repo.Config.SetBool(domain.OptEnabled, false, domain.PriorityRuntime))
	assert.Equal(t, "0", repo.Attributes()["enabled"])
	assert.False(t, repo.Enabled())
}

func TestParsePriority(t *testing.T) {
	p, err := domain.ParsePriority("RepoConfig")
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityRepoConfig, p)
	assert.Equal(t, "runtime", domain.PriorityRuntime.String())

	_, err = domain.ParsePriority("bogus")
	require.Error(t, err)
}

package domain

// Session open option keys. Any main configuration option name is accepted as well.
const (
	SessionOptInstallroot        = OptInstallroot
	SessionOptConfigFilePath     = OptConfigFilePath
	SessionOptReposdir           = OptReposdir
	SessionOptCachedir           = OptCachedir
	SessionOptLoadSystemRepo     = "load_system_repo"
	SessionOptLoadAvailableRepos = "load_available_repos"
	SessionOptWatchReposdir      = "watch_reposdir"
)

// SessionOptions are the typed settings a session is opened with.
type SessionOptions struct {
	// Config holds main configuration overrides applied at runtime priority.
	Config map[string]string
	// LoadSystemRepo loads the installed packages into the sack.
	LoadSystemRepo bool
	// LoadAvailableRepos loads enabled repositories into the sack.
	LoadAvailableRepos bool
	// WatchReposdir reloads repository definitions when *.repo files change.
	WatchReposdir bool
}

// DefaultSessionOptions returns the options used when a client passes none.
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		Config:             map[string]string{},
		LoadSystemRepo:     true,
		LoadAvailableRepos: true,
	}
}

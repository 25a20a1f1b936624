package domain

// RepoDefinition is a repository section as read from a configuration file.
type RepoDefinition struct {
	// ID is the section name.
	ID string
	// FilePath is the file the section was read from.
	FilePath string
	// Keys lists the option names in file order.
	Keys []string
	// Values maps option names to their raw text.
	Values map[string]string
}

// ConfigFile is the parsed content of the main configuration file.
type ConfigFile struct {
	// Path is the file that was read.
	Path string
	// Main holds the [main] section.
	Main map[string]string
	// Repos holds every other section in file order.
	Repos []RepoDefinition
}

// Repo is a registered repository: an id, the file that defined it and its options.
type Repo struct {
	ID       string
	FilePath string
	Config   *Config
}

// NewRepo creates a repository with default options.
func NewRepo(id, filePath string) *Repo {
	return &Repo{
		ID:       id,
		FilePath: filePath,
		Config:   NewRepoConfig(),
	}
}

// Enabled reports whether the repository takes part in loading and resolution.
func (r *Repo) Enabled() bool {
	return r.Config.Bool(OptEnabled)
}

// Name returns the human readable name, falling back to the id.
func (r *Repo) Name() string {
	if name := r.Config.String(OptName); name != "" {
		return name
	}
	return r.ID
}

// BaseURLs returns the configured base URLs.
func (r *Repo) BaseURLs() []string {
	return r.Config.StringList(OptBaseURL)
}

// Priority returns the repository priority. Lower values win.
func (r *Repo) Priority() int {
	return r.Config.Int(OptPriority)
}

// Attributes returns the string attributes reported for the repository:
// its id, every explicitly configured option and the enabled flag.
func (r *Repo) Attributes() map[string]string {
	attrs := r.Config.Attributes()
	attrs["repoid"] = r.ID
	attrs[OptEnabled] = FormatBool(r.Enabled())
	return attrs
}

// Clone returns an independent copy of the repository.
func (r *Repo) Clone() *Repo {
	return &Repo{ID: r.ID, FilePath: r.FilePath, Config: r.Config.Clone()}
}

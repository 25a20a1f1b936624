package config

// SettingsFile represents the structure of the rpmd.yaml daemon settings file.
type SettingsFile struct {
	Socket          string         `yaml:"socket"`
	IdleTimeout     string         `yaml:"idle_timeout"`
	Log             LogDTO         `yaml:"log"`
	SessionDefaults map[string]any `yaml:"session_defaults"`
}

// LogDTO represents the log section of the settings file.
type LogDTO struct {
	JSON  bool   `yaml:"json"`
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Manifest represents a repository manifest consumed by createrepo.
type Manifest struct {
	Packages []PackageDTO `yaml:"packages"`
}

// PackageDTO represents one package entry of a manifest.
type PackageDTO struct {
	Name        string   `yaml:"name"`
	Epoch       int      `yaml:"epoch"`
	Version     string   `yaml:"version"`
	Release     string   `yaml:"release"`
	Arch        string   `yaml:"arch"`
	Summary     string   `yaml:"summary"`
	Description string   `yaml:"description"`
	URL         string   `yaml:"url"`
	Location    string   `yaml:"location"`
	InstallSize int64    `yaml:"installSize"`
	PackageSize int64    `yaml:"packageSize"`
	Provides    []string `yaml:"provides"`
	Requires    []string `yaml:"requires"`
	Conflicts   []string `yaml:"conflicts"`
	Obsoletes   []string `yaml:"obsoletes"`
	Recommends  []string `yaml:"recommends"`
	Suggests    []string `yaml:"suggests"`
	Supplements []string `yaml:"supplements"`
	Enhances    []string `yaml:"enhances"`
	Files       []string `yaml:"files"`
}

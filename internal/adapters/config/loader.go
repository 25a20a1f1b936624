// Package config loads the daemon settings and createrepo manifests.
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/rpmd/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Settings are the resolved daemon settings.
type Settings struct {
	// Path is the file the settings were read from. Empty when defaults are used.
	Path string
	// Socket is the Unix socket the daemon listens on.
	Socket string
	// IdleTimeout stops the daemon after this long without requests.
	IdleTimeout time.Duration
	// LogJSON switches the daemon log to JSON lines.
	LogJSON bool
	// LogLevel is the minimum level written to the daemon log.
	LogLevel slog.Level
	// LogFile receives a timestamped copy of every daemon log line. Empty disables it.
	LogFile string
	// SessionDefaults are merged under the options of every opened session.
	SessionDefaults map[string]any
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() *Settings {
	return &Settings{
		Socket:          domain.DefaultDaemonSocketPath(),
		IdleTimeout:     domain.DefaultIdleTimeout,
		LogLevel:        slog.LevelInfo,
		SessionDefaults: map[string]any{},
	}
}

// Loader reads daemon settings from a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the settings at path. An empty path selects the default location.
// A missing file yields the defaults.
func (l *Loader) Load(path string) (*Settings, error) {
	if path == "" {
		path = domain.DefaultSettingsPath()
	}

	settings := DefaultSettings()
	var file SettingsFile
	if err := readAndUnmarshalYAML(path, &file); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.Logger.Debug("no settings file at " + path + ", using defaults")
			return settings, nil
		}
		return nil, err
	}
	settings.Path = path

	if file.Socket != "" {
		socket, err := resolvePath(path, file.Socket)
		if err != nil {
			return nil, err
		}
		settings.Socket = socket
	}
	if file.IdleTimeout != "" {
		d, err := time.ParseDuration(file.IdleTimeout)
		if err != nil || d <= 0 {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "invalid idle_timeout"),
				"idle_timeout", file.IdleTimeout)
		}
		settings.IdleTimeout = d
	}
	settings.LogJSON = file.Log.JSON
	if file.Log.Level != "" {
		if err := settings.LogLevel.UnmarshalText([]byte(file.Log.Level)); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "invalid log level"),
				"level", file.Log.Level)
		}
	}
	if file.Log.File != "" {
		logFile, err := resolvePath(path, file.Log.File)
		if err != nil {
			return nil, err
		}
		settings.LogFile = logFile
	}
	for k, v := range file.SessionDefaults {
		settings.SessionDefaults[k] = v
	}
	return settings, nil
}

// LoadManifest reads a createrepo manifest into package metadata.
func LoadManifest(path string) ([]domain.PackageMetadata, error) {
	var manifest Manifest
	if err := readAndUnmarshalYAML(path, &manifest); err != nil {
		return nil, err
	}

	metas := make([]domain.PackageMetadata, 0, len(manifest.Packages))
	for i := range manifest.Packages {
		meta, err := manifest.Packages[i].toMetadata()
		if err != nil {
			return nil, zerr.With(zerr.With(err, "manifest", path), "index", i)
		}
		metas = append(metas, meta)
	}
	return metas, nil
}

func (p *PackageDTO) toMetadata() (domain.PackageMetadata, error) {
	if p.Name == "" || p.Version == "" || p.Arch == "" {
		return domain.PackageMetadata{}, zerr.With(
			zerr.Wrap(domain.ErrConfigParseFailed, "package needs name, version and arch"),
			"name", p.Name)
	}
	meta := domain.PackageMetadata{
		Name:        p.Name,
		Epoch:       p.Epoch,
		Version:     p.Version,
		Release:     p.Release,
		Arch:        p.Arch,
		Summary:     p.Summary,
		Description: p.Description,
		URL:         p.URL,
		Location:    p.Location,
		InstallSize: p.InstallSize,
		PackageSize: p.PackageSize,
		Files:       p.Files,
	}
	if meta.Location == "" {
		nevra := meta.NEVRA()
		nevra.Epoch = 0
		meta.Location = "Packages/" + nevra.String() + ".rpm"
	}

	lists := []struct {
		dst *[]domain.Dependency
		src []string
	}{
		{&meta.Provides, p.Provides},
		{&meta.Requires, p.Requires},
		{&meta.Conflicts, p.Conflicts},
		{&meta.Obsoletes, p.Obsoletes},
		{&meta.Recommends, p.Recommends},
		{&meta.Suggests, p.Suggests},
		{&meta.Supplements, p.Supplements},
		{&meta.Enhances, p.Enhances},
	}
	for _, l := range lists {
		for _, text := range l.src {
			dep, err := domain.ParseDependency(text)
			if err != nil {
				return domain.PackageMetadata{}, zerr.With(err, "name", p.Name)
			}
			*l.dst = append(*l.dst, dep)
		}
	}
	return meta, nil
}

// resolvePath makes rel absolute relative to the settings file directory.
func resolvePath(settingsPath, rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return rel, nil
	}
	abs, err := filepath.Abs(filepath.Join(filepath.Dir(settingsPath), rel))
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve path")
	}
	return abs, nil
}

func readAndUnmarshalYAML[T any](path string, target *T) error {
	// #nosec G304 -- path comes from the command line or the user config dir
	data, err := os.ReadFile(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	if parseErr := yaml.Unmarshal(data, target); parseErr != nil {
		return zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, parseErr.Error()), "path", path)
	}
	return nil
}

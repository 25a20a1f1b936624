// Package repoconf reads the main configuration file and *.repo files.
package repoconf

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/rpmd/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/ini.v1"
)

// MainSection is the section holding main configuration options.
const MainSection = "main"

// RepoFileExt is the extension of repository definition files.
const RepoFileExt = ".repo"

// Reader implements ports.RepoConfigReader for INI files.
type Reader struct{}

var _ ports.RepoConfigReader = (*Reader)(nil)

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadMain parses the main configuration file. The [main] section becomes
// the main options; every other section is a repository definition.
func (r *Reader) ReadMain(path string) (*domain.ConfigFile, error) {
	out := &domain.ConfigFile{Path: path, Main: map[string]string{}}
	if path == "" {
		return out, nil
	}

	file, err := load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return out, nil
		}
		return nil, err
	}

	for _, sec := range file.Sections() {
		switch sec.Name() {
		case ini.DefaultSection:
			continue
		case MainSection:
			for _, key := range sec.Keys() {
				out.Main[key.Name()] = key.Value()
			}
		default:
			out.Repos = append(out.Repos, definition(path, sec))
		}
	}
	return out, nil
}

// ReadDirs parses every *.repo file in dirs. Files are read in lexical path
// order per directory and sections in file order. Missing directories are skipped.
func (r *Reader) ReadDirs(dirs []string) ([]domain.RepoDefinition, error) {
	var defs []domain.RepoDefinition
	for _, dir := range dirs {
		paths, err := repoFiles(dir)
		if err != nil {
			return nil, err
		}
		for _, path := range paths {
			file, err := load(path)
			if err != nil {
				return nil, err
			}
			for _, sec := range file.Sections() {
				if sec.Name() == ini.DefaultSection {
					continue
				}
				defs = append(defs, definition(path, sec))
			}
		}
	}
	return defs, nil
}

// repoFiles lists the *.repo files directly inside dir in lexical order.
func repoFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "dir", dir)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != RepoFileExt {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	slices.Sort(paths)
	return paths, nil
}

func load(path string) (*ini.File, error) {
	// #nosec G304 -- repository files come from configured directories
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}
	file, err := ini.LoadSources(ini.LoadOptions{
		AllowPythonMultilineValues: true,
		SpaceBeforeInlineComment:   true,
	}, data)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "path", path)
	}
	return file, nil
}

func definition(path string, sec *ini.Section) domain.RepoDefinition {
	def := domain.RepoDefinition{
		ID:       sec.Name(),
		FilePath: path,
		Values:   make(map[string]string, len(sec.Keys())),
	}
	for _, key := range sec.Keys() {
		def.Keys = append(def.Keys, key.Name())
		def.Values[key.Name()] = key.Value()
	}
	return def
}

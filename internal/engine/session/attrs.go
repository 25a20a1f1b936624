package session

import (
	"slices"
	"strconv"

	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/rpmd/internal/engine/rpm"
	"go.trai.ch/zerr"
)

// packageAttrs renders the package attributes a listing may request.
// Values are limited to the types a structured reply can carry.
var packageAttrs = map[string]func(*domain.Package) any{
	"name":         func(p *domain.Package) any { return p.Name() },
	"epoch":        func(p *domain.Package) any { return strconv.Itoa(p.Epoch()) },
	"version":      func(p *domain.Package) any { return p.Version() },
	"release":      func(p *domain.Package) any { return p.Release() },
	"arch":         func(p *domain.Package) any { return p.Arch() },
	"repo":         func(p *domain.Package) any { return p.RepoID() },
	"is_installed": func(p *domain.Package) any { return p.IsInstalled() },
	"install_size": func(p *domain.Package) any { return p.InstallSize() },
	"package_size": func(p *domain.Package) any { return p.PackageSize() },
	"nevra":        func(p *domain.Package) any { return p.NEVRA() },
	"full_nevra":   func(p *domain.Package) any { return p.FullNEVRA() },
	"evr":          func(p *domain.Package) any { return p.EVR().String() },
	"summary":      func(p *domain.Package) any { return p.Summary() },
	"description":  func(p *domain.Package) any { return p.Description() },
	"url":          func(p *domain.Package) any { return p.URL() },
	"location":     func(p *domain.Package) any { return p.Location() },
	"provides":     func(p *domain.Package) any { return depList(p.Provides()) },
	"requires":     func(p *domain.Package) any { return depList(p.Requires()) },
	"files":        func(p *domain.Package) any { return stringList(p.Files()) },
}

// PackageAttrNames returns the supported package attribute names, sorted.
func PackageAttrNames() []string {
	names := make([]string, 0, len(packageAttrs))
	for name := range packageAttrs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func checkAttrs(attrs []string, known func(string) bool) error {
	for _, attr := range attrs {
		if !known(attr) {
			return zerr.With(zerr.Wrap(domain.ErrUnknownAttribute, "attribute not supported"), "attribute", attr)
		}
	}
	return nil
}

// PackageMap renders p with its id and the requested attributes.
func PackageMap(p *domain.Package, attrs []string) (map[string]any, error) {
	if err := checkAttrs(attrs, func(a string) bool { return packageAttrs[a] != nil }); err != nil {
		return nil, err
	}
	out := map[string]any{"id": int64(p.ID())}
	for _, attr := range attrs {
		out[attr] = packageAttrs[attr](p)
	}
	return out, nil
}

// planAttrs are the attributes reported for plan entries.
var planAttrs = []string{"name", "epoch", "version", "release", "arch", "repo", "nevra"}

// PlanPackageMap renders a package the way plan and transaction listings report it.
func PlanPackageMap(p *domain.Package) map[string]any {
	out, _ := PackageMap(p, planAttrs)
	return out
}

var repoAttrs = map[string]func(*domain.Repo, *rpm.LoadedRepo) any{
	"name":     func(r *domain.Repo, _ *rpm.LoadedRepo) any { return r.Name() },
	"enabled":  func(r *domain.Repo, _ *rpm.LoadedRepo) any { return r.Enabled() },
	"baseurl":  func(r *domain.Repo, _ *rpm.LoadedRepo) any { return stringList(r.BaseURLs()) },
	"priority": func(r *domain.Repo, _ *rpm.LoadedRepo) any { return int64(r.Priority()) },
	"file":     func(r *domain.Repo, _ *rpm.LoadedRepo) any { return r.FilePath },
	"loaded":   func(_ *domain.Repo, l *rpm.LoadedRepo) any { return l != nil },
	"revision": func(_ *domain.Repo, l *rpm.LoadedRepo) any {
		if l == nil {
			return ""
		}
		return l.Revision
	},
	"size": func(_ *domain.Repo, l *rpm.LoadedRepo) any {
		if l == nil {
			return int64(0)
		}
		return int64(l.Count)
	},
}

func repoMap(r *domain.Repo, loaded *rpm.LoadedRepo, attrs []string) map[string]any {
	out := map[string]any{"id": r.ID}
	for _, attr := range attrs {
		out[attr] = repoAttrs[attr](r, loaded)
	}
	return out
}

func depList(deps []domain.Dependency) []any {
	out := make([]any, len(deps))
	for i, d := range deps {
		out[i] = d.String()
	}
	return out
}

func stringList(items []string) []any {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}

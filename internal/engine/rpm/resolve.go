package rpm

import (
	"strings"

	"go.trai.ch/rpmd/internal/core/domain"
)

// SpecSettings select the forms a package spec may take.
type SpecSettings struct {
	ICase         bool
	WithNEVRA     bool
	WithProvides  bool
	WithFilenames bool
	WithSrc       bool
}

// DefaultSpecSettings accepts every form except source packages.
func DefaultSpecSettings() SpecSettings {
	return SpecSettings{WithNEVRA: true, WithProvides: true, WithFilenames: true}
}

// HasGlob reports whether s contains shell glob characters.
func HasGlob(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

// ResolveSpec returns a query for the packages spec selects, trying the forms in
// order: name or NEVRA forms, provides, then file paths. The first form that
// matches anything wins. The boolean is false if no form matched.
// The receiver is not modified.
func (q *PackageQuery) ResolveSpec(spec string, settings SpecSettings) (*PackageQuery, bool) {
	cmp := QueryEQ
	if HasGlob(spec) {
		cmp = QueryGlob
	}
	if settings.ICase {
		cmp |= QueryICase
	}
	base := q.Clone().FilterSource(settings.WithSrc)

	if settings.WithNEVRA {
		for _, filter := range []func(*PackageQuery) *PackageQuery{
			func(c *PackageQuery) *PackageQuery { return c.FilterName([]string{spec}, cmp) },
			func(c *PackageQuery) *PackageQuery { return c.FilterNEVRA([]string{spec}, cmp) },
			func(c *PackageQuery) *PackageQuery { return c.filterAttr(spec, cmp, (*domain.Package).NA) },
			func(c *PackageQuery) *PackageQuery { return c.filterAttr(spec, cmp, nameVersion) },
			func(c *PackageQuery) *PackageQuery { return c.filterAttr(spec, cmp, nameVersionRelease) },
		} {
			if candidate := filter(base.Clone()); !candidate.Empty() {
				return candidate, true
			}
		}
	}

	if settings.WithProvides {
		deps := NewReldepList(q.sack)
		var err error
		if HasGlob(spec) {
			err = deps.AddReldepWithGlob(spec)
		} else {
			err = deps.AddReldep(spec)
		}
		if err == nil && deps.Size() > 0 {
			if candidate := base.Clone().FilterProvides(deps); !candidate.Empty() {
				return candidate, true
			}
		}
	}

	if settings.WithFilenames && strings.HasPrefix(spec, "/") {
		if candidate := base.Clone().FilterFile([]string{spec}, cmp); !candidate.Empty() {
			return candidate, true
		}
	}

	return base.where(func(*domain.Package) bool { return false }), false
}

func (q *PackageQuery) filterAttr(spec string, cmp QueryCmp, attr func(*domain.Package) string) *PackageQuery {
	patterns := []string{spec}
	return q.where(func(p *domain.Package) bool { return matchAny(patterns, cmp, attr(p)) })
}

func nameVersion(p *domain.Package) string {
	return p.Name() + "-" + p.Version()
}

func nameVersionRelease(p *domain.Package) string {
	return p.Name() + "-" + p.EVR().String()
}

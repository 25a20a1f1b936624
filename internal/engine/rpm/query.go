package rpm

import (
	"iter"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/rpmd/internal/core/domain"
)

// QueryCmp selects how a filter compares package attributes with its patterns.
type QueryCmp uint8

const (
	// QueryEQ matches exactly.
	QueryEQ QueryCmp = iota
	// QueryNEQ matches when no pattern is equal.
	QueryNEQ
	// QueryGlob treats each pattern as a shell glob.
	QueryGlob
	// QueryNotGlob matches when no pattern glob-matches.
	QueryNotGlob
	// QueryContains matches when the value contains a pattern.
	QueryContains
)

// QueryICase can be combined with any comparison to ignore case.
const QueryICase QueryCmp = 0x80

func (c QueryCmp) base() QueryCmp { return c &^ QueryICase }
func (c QueryCmp) icase() bool    { return c&QueryICase != 0 }

// stage narrows a candidate list. Per-package predicates and whole-set
// filters such as FilterLatest are both stages.
type stage func([]*domain.Package) []*domain.Package

// PackageQuery is a lazily evaluated, ordered view over a sack. Filters are
// recorded in place and only applied when the query is iterated, so every
// iteration starts fresh and sees the packages present at that time.
// Results are always in ascending package id order.
type PackageQuery struct {
	sack   *Sack
	stages []stage
}

// NewQuery returns an unfiltered query over every package of sack.
func NewQuery(sack *Sack) *PackageQuery {
	return &PackageQuery{sack: sack}
}

// Sack returns the sack the query reads.
func (q *PackageQuery) Sack() *Sack {
	return q.sack
}

// Clone returns an independent copy of the query.
func (q *PackageQuery) Clone() *PackageQuery {
	return &PackageQuery{sack: q.sack, stages: slices.Clone(q.stages)}
}

func (q *PackageQuery) where(pred func(*domain.Package) bool) *PackageQuery {
	q.stages = append(q.stages, func(in []*domain.Package) []*domain.Package {
		out := in[:0:0]
		for _, p := range in {
			if pred(p) {
				out = append(out, p)
			}
		}
		return out
	})
	return q
}

// matchAny reports whether value matches any of the patterns under cmp.
func matchAny(patterns []string, cmp QueryCmp, value string) bool {
	if cmp.icase() {
		value = strings.ToLower(value)
	}
	negate := false
	switch cmp.base() {
	case QueryNEQ, QueryNotGlob:
		negate = true
	}
	for _, p := range patterns {
		if cmp.icase() {
			p = strings.ToLower(p)
		}
		var ok bool
		switch cmp.base() {
		case QueryGlob, QueryNotGlob:
			ok, _ = filepath.Match(p, value)
		case QueryContains:
			ok = strings.Contains(value, p)
		default:
			ok = p == value
		}
		if ok {
			return !negate
		}
	}
	return negate
}

// FilterName keeps packages whose name matches any of names.
func (q *PackageQuery) FilterName(names []string, cmp QueryCmp) *PackageQuery {
	names = slices.Clone(names)
	return q.where(func(p *domain.Package) bool { return matchAny(names, cmp, p.Name()) })
}

// FilterArch keeps packages whose arch matches any of arches.
func (q *PackageQuery) FilterArch(arches []string, cmp QueryCmp) *PackageQuery {
	arches = slices.Clone(arches)
	return q.where(func(p *domain.Package) bool { return matchAny(arches, cmp, p.Arch()) })
}

// FilterRepo keeps packages loaded from any of the repositories.
func (q *PackageQuery) FilterRepo(ids []string, cmp QueryCmp) *PackageQuery {
	ids = slices.Clone(ids)
	return q.where(func(p *domain.Package) bool { return matchAny(ids, cmp, p.RepoID()) })
}

// FilterNEVRA keeps packages whose NEVRA, with or without epoch, matches any pattern.
func (q *PackageQuery) FilterNEVRA(nevras []string, cmp QueryCmp) *PackageQuery {
	nevras = slices.Clone(nevras)
	return q.where(func(p *domain.Package) bool {
		return matchAny(nevras, cmp, p.NEVRA()) || matchAny(nevras, cmp, p.FullNEVRA())
	})
}

// FilterEVR keeps packages whose EVR compares equal to any of evrs.
// A version without release matches every release.
func (q *PackageQuery) FilterEVR(evrs []string) *PackageQuery {
	parsed := make([]domain.EVR, len(evrs))
	for i, e := range evrs {
		parsed[i] = domain.ParseEVR(e)
	}
	return q.where(func(p *domain.Package) bool {
		return slices.ContainsFunc(parsed, func(e domain.EVR) bool {
			return domain.CompareEVRLoose(e, p.EVR()) == 0
		})
	})
}

// FilterInstalled keeps packages of the installed system.
func (q *PackageQuery) FilterInstalled() *PackageQuery {
	return q.where((*domain.Package).IsInstalled)
}

// FilterAvailable keeps packages from configured repositories.
func (q *PackageQuery) FilterAvailable() *PackageQuery {
	return q.where(func(p *domain.Package) bool { return !p.IsInstalled() })
}

// FilterProvides keeps packages with a provide satisfying any reldep of deps.
func (q *PackageQuery) FilterProvides(deps *ReldepList) *PackageQuery {
	var wanted []domain.Dependency
	for _, r := range deps.All() {
		if d, err := r.Dependency(); err == nil {
			wanted = append(wanted, d)
		}
	}
	return q.where(func(p *domain.Package) bool {
		return slices.ContainsFunc(wanted, func(w domain.Dependency) bool {
			return slices.ContainsFunc(p.Provides(), w.Satisfies)
		})
	})
}

// FilterFile keeps packages owning a file matching any of paths.
func (q *PackageQuery) FilterFile(paths []string, cmp QueryCmp) *PackageQuery {
	paths = slices.Clone(paths)
	return q.where(func(p *domain.Package) bool {
		return slices.ContainsFunc(p.Files(), func(f string) bool { return matchAny(paths, cmp, f) })
	})
}

// FilterSource drops source packages unless keep is set.
func (q *PackageQuery) FilterSource(keep bool) *PackageQuery {
	if keep {
		return q
	}
	return q.where(func(p *domain.Package) bool { return p.Arch() != "src" && p.Arch() != "nosrc" })
}

// FilterLatest keeps, for each name and arch, the packages with the highest EVR.
func (q *PackageQuery) FilterLatest() *PackageQuery {
	q.stages = append(q.stages, func(in []*domain.Package) []*domain.Package {
		best := make(map[string]domain.EVR)
		for _, p := range in {
			if e, ok := best[p.NA()]; !ok || domain.CompareEVR(p.EVR(), e) > 0 {
				best[p.NA()] = p.EVR()
			}
		}
		out := in[:0:0]
		for _, p := range in {
			if domain.CompareEVR(p.EVR(), best[p.NA()]) == 0 {
				out = append(out, p)
			}
		}
		return out
	})
	return q
}

// evaluate runs every stage over a fresh snapshot of the sack.
func (q *PackageQuery) evaluate() ([]*domain.Package, error) {
	pkgs, err := q.sack.snapshot()
	if err != nil {
		return nil, err
	}
	for _, s := range q.stages {
		pkgs = s(pkgs)
	}
	return pkgs, nil
}

// List returns the matching packages in ascending id order.
func (q *PackageQuery) List() ([]*domain.Package, error) {
	pkgs, err := q.evaluate()
	if err != nil {
		return nil, err
	}
	return slices.Clone(pkgs), nil
}

// Size returns the number of matching packages.
func (q *PackageQuery) Size() (int, error) {
	pkgs, err := q.evaluate()
	return len(pkgs), err
}

// Empty reports whether nothing matches.
func (q *PackageQuery) Empty() bool {
	n, err := q.Size()
	return err != nil || n == 0
}

// All iterates over the matching packages in ascending id order. Each call
// evaluates the query again. A failed evaluation yields a single error.
func (q *PackageQuery) All() iter.Seq2[*domain.Package, error] {
	return func(yield func(*domain.Package, error) bool) {
		pkgs, err := q.evaluate()
		if err != nil {
			yield(nil, err)
			return
		}
		for _, p := range pkgs {
			if !yield(p, nil) {
				return
			}
		}
	}
}

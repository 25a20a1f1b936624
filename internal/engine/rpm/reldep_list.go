package rpm

import (
	"iter"
	"path/filepath"
	"slices"

	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/zerr"
)

// ReldepList is an ordered list of reldeps of one sack. Duplicates are kept.
type ReldepList struct {
	sack *Sack
	ids  []ReldepID
}

// NewReldepList creates an empty list bound to sack.
func NewReldepList(sack *Sack) *ReldepList {
	return &ReldepList{sack: sack}
}

// Sack returns the owning sack.
func (l *ReldepList) Sack() *Sack {
	return l.sack
}

// Add appends r. It must come from the list's sack.
func (l *ReldepList) Add(r Reldep) error {
	if err := l.sack.check(); err != nil {
		return err
	}
	if r.sack != l.sack {
		return zerr.Wrap(domain.ErrInvalidReference, "reldep belongs to another sack")
	}
	l.ids = append(l.ids, r.id)
	return nil
}

// AddID appends an already interned id.
func (l *ReldepList) AddID(id ReldepID) error {
	if err := l.sack.check(); err != nil {
		return err
	}
	if _, err := l.sack.interner.Lookup(id); err != nil {
		return err
	}
	l.ids = append(l.ids, id)
	return nil
}

// AddReldep parses text, interns it and appends the result.
func (l *ReldepList) AddReldep(text string) error {
	r, err := NewReldep(l.sack, text)
	if err != nil {
		return err
	}
	l.ids = append(l.ids, r.id)
	return nil
}

// AddReldepWithGlob expands the name of pattern as a shell glob against the
// dependency names and file paths of every package, in ascending package id
// order and, within a package, in the order provides, obsoletes, conflicts,
// requires, recommends, suggests, supplements, enhances, files. Each match is
// appended with the comparison and version of pattern; repeated matches are
// appended again.
func (l *ReldepList) AddReldepWithGlob(pattern string) error {
	glob, err := domain.ParseDependency(pattern)
	if err != nil {
		return err
	}
	if glob.IsRich() {
		return zerr.With(zerr.Wrap(domain.ErrInvalidReldep, "rich dependency cannot be a glob"), "reldep", pattern)
	}
	if _, err := filepath.Match(glob.Name, ""); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrInvalidReldep, err.Error()), "reldep", pattern)
	}

	pkgs, err := l.sack.snapshot()
	if err != nil {
		return err
	}

	add := func(name string) {
		if ok, _ := filepath.Match(glob.Name, name); ok {
			l.ids = append(l.ids, l.sack.interner.Intern(domain.NewDependency(name, glob.Cmp, glob.EVR)))
		}
	}
	for _, pkg := range pkgs {
		for _, deps := range [][]domain.Dependency{
			pkg.Provides(), pkg.Obsoletes(), pkg.Conflicts(), pkg.Requires(),
			pkg.Recommends(), pkg.Suggests(), pkg.Supplements(), pkg.Enhances(),
		} {
			for _, d := range deps {
				if !d.IsRich() {
					add(d.Name)
				}
			}
		}
		for _, f := range pkg.Files() {
			add(f)
		}
	}
	return nil
}

// Append concatenates other onto l, keeping both orders.
func (l *ReldepList) Append(other *ReldepList) error {
	if err := l.sack.check(); err != nil {
		return err
	}
	if other.sack != l.sack {
		return zerr.Wrap(domain.ErrInvalidReference, "reldep list belongs to another sack")
	}
	l.ids = append(l.ids, other.ids...)
	return nil
}

// Get returns the reldep at index i.
func (l *ReldepList) Get(i int) (Reldep, error) {
	if err := l.sack.check(); err != nil {
		return Reldep{}, err
	}
	if i < 0 || i >= len(l.ids) {
		return Reldep{}, zerr.With(zerr.New("reldep list index out of range"), "index", i)
	}
	return Reldep{sack: l.sack, id: l.ids[i]}, nil
}

// GetID returns the id at index i.
func (l *ReldepList) GetID(i int) (ReldepID, error) {
	r, err := l.Get(i)
	return r.id, err
}

// Size returns the number of entries.
func (l *ReldepList) Size() int {
	return len(l.ids)
}

// IDs returns a copy of the ids in order.
func (l *ReldepList) IDs() []ReldepID {
	return slices.Clone(l.ids)
}

// Equal reports whether both lists belong to the same sack and hold the same
// ids in the same order.
func (l *ReldepList) Equal(other *ReldepList) bool {
	return l.sack == other.sack && slices.Equal(l.ids, other.ids)
}

// All iterates over the entries. Iteration stops early if the sack is invalidated.
func (l *ReldepList) All() iter.Seq2[int, Reldep] {
	return func(yield func(int, Reldep) bool) {
		for i, id := range l.ids {
			if !l.sack.Valid() {
				return
			}
			if !yield(i, Reldep{sack: l.sack, id: id}) {
				return
			}
		}
	}
}

// Clone returns an independent copy of the list.
func (l *ReldepList) Clone() *ReldepList {
	return &ReldepList{sack: l.sack, ids: slices.Clone(l.ids)}
}

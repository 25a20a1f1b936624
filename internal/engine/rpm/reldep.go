package rpm

import (
	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/zerr"
)

// Reldep is an interned dependency expression bound to the sack that interned it.
// Two reldeps of the same sack are equal exactly when their ids are equal.
type Reldep struct {
	sack *Sack
	id   ReldepID
}

// NewReldep parses text and interns it in sack.
func NewReldep(sack *Sack, text string) (Reldep, error) {
	if err := sack.check(); err != nil {
		return Reldep{}, err
	}
	id, err := sack.interner.InternText(text)
	if err != nil {
		return Reldep{}, err
	}
	return Reldep{sack: sack, id: id}, nil
}

// NewReldepFromParts interns a simple name/comparison/version triple.
func NewReldepFromParts(sack *Sack, name string, cmp domain.Cmp, evr string) (Reldep, error) {
	if err := sack.check(); err != nil {
		return Reldep{}, err
	}
	if name == "" {
		return Reldep{}, zerr.Wrap(domain.ErrInvalidReldep, "reldep name is empty")
	}
	return Reldep{sack: sack, id: sack.interner.Intern(domain.NewDependency(name, cmp, evr))}, nil
}

// ReldepByID returns the reldep with an already interned id.
func ReldepByID(sack *Sack, id ReldepID) (Reldep, error) {
	if err := sack.check(); err != nil {
		return Reldep{}, err
	}
	if _, err := sack.interner.Lookup(id); err != nil {
		return Reldep{}, err
	}
	return Reldep{sack: sack, id: id}, nil
}

// ID returns the interned id.
func (r Reldep) ID() ReldepID {
	return r.id
}

// Sack returns the owning sack.
func (r Reldep) Sack() *Sack {
	return r.sack
}

// Dependency returns the parsed expression.
func (r Reldep) Dependency() (domain.Dependency, error) {
	if err := r.sack.check(); err != nil {
		return domain.Dependency{}, err
	}
	return r.sack.interner.Lookup(r.id)
}

// Name returns the name part, or "" if the sack is gone.
func (r Reldep) Name() string {
	d, _ := r.Dependency()
	return d.Name
}

// Relation returns the padded operator, or "" for a bare name.
func (r Reldep) Relation() string {
	d, _ := r.Dependency()
	return d.Relation()
}

// Version returns the version part.
func (r Reldep) Version() string {
	d, _ := r.Dependency()
	return d.EVR
}

// String returns the canonical text.
func (r Reldep) String() string {
	d, err := r.Dependency()
	if err != nil {
		return ""
	}
	return d.String()
}

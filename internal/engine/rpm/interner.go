package rpm

import (
	"sync"

	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/zerr"
)

// ReldepID identifies an interned dependency expression within one sack.
// The zero value is never assigned.
type ReldepID int

// Interner maps dependency expressions to small stable ids. Expressions are
// keyed by their canonical text, so spacing differences intern to the same id.
type Interner struct {
	mu    sync.RWMutex
	ids   map[string]ReldepID
	exprs []domain.Dependency
}

// NewInterner creates an empty interner.
func NewInterner() *Interner {
	return &Interner{ids: make(map[string]ReldepID)}
}

// Intern returns the id of dep, assigning the next free id on first sight.
func (in *Interner) Intern(dep domain.Dependency) ReldepID {
	key := dep.String()

	in.mu.RLock()
	id, ok := in.ids[key]
	in.mu.RUnlock()
	if ok {
		return id
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.ids[key]; ok {
		return id
	}
	in.exprs = append(in.exprs, dep)
	id = ReldepID(len(in.exprs))
	in.ids[key] = id
	return id
}

// InternText parses text and interns the result.
func (in *Interner) InternText(text string) (ReldepID, error) {
	dep, err := domain.ParseDependency(text)
	if err != nil {
		return 0, err
	}
	return in.Intern(dep), nil
}

// Lookup returns the expression with the given id.
func (in *Interner) Lookup(id ReldepID) (domain.Dependency, error) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if id < 1 || int(id) > len(in.exprs) {
		return domain.Dependency{}, zerr.With(zerr.Wrap(domain.ErrInvalidReference, "unknown reldep id"), "id", int(id))
	}
	return in.exprs[id-1], nil
}

// Len returns the number of interned expressions.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.exprs)
}

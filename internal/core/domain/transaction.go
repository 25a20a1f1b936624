package domain

import "iter"

// TransactionAction is the change a plan entry applies to a package.
// The numeric values are part of the external interface.
type TransactionAction uint

const (
	// ActionInstall installs a new package.
	ActionInstall TransactionAction = 1
	// ActionDowngrade installs an older version of an installed package.
	ActionDowngrade TransactionAction = 2
	// ActionDowngraded removes the version replaced by a downgrade.
	ActionDowngraded TransactionAction = 3
	// ActionObsolete installs a package that obsoletes an installed one.
	ActionObsolete TransactionAction = 4
	// ActionObsoleted removes the package replaced by an obsoleting one.
	ActionObsoleted TransactionAction = 5
	// ActionUpgrade installs a newer version of an installed package.
	ActionUpgrade TransactionAction = 6
	// ActionUpgraded removes the version replaced by an upgrade.
	ActionUpgraded TransactionAction = 7
	// ActionRemove removes an installed package.
	ActionRemove TransactionAction = 8
	// ActionReinstall installs the same version of an installed package again.
	ActionReinstall TransactionAction = 9
	// ActionReinstalled removes the copy replaced by a reinstall.
	ActionReinstalled TransactionAction = 10
)

var actionNames = map[TransactionAction]string{
	ActionInstall:     "Install",
	ActionDowngrade:   "Downgrade",
	ActionDowngraded:  "Downgraded",
	ActionObsolete:    "Obsolete",
	ActionObsoleted:   "Obsoleted",
	ActionUpgrade:     "Upgrade",
	ActionUpgraded:    "Upgraded",
	ActionRemove:      "Remove",
	ActionReinstall:   "Reinstall",
	ActionReinstalled: "Reinstalled",
}

// String returns the action name.
func (a TransactionAction) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// Short returns the one-letter code used in compact listings.
func (a TransactionAction) Short() string {
	switch a {
	case ActionInstall:
		return "I"
	case ActionDowngrade:
		return "D"
	case ActionObsolete:
		return "O"
	case ActionUpgrade:
		return "U"
	case ActionRemove, ActionObsoleted, ActionUpgraded, ActionDowngraded, ActionReinstalled:
		return "E"
	case ActionReinstall:
		return "R"
	default:
		return "?"
	}
}

// IsForward reports whether the action brings a package onto the system.
func (a TransactionAction) IsForward() bool {
	switch a {
	case ActionInstall, ActionDowngrade, ActionObsolete, ActionUpgrade, ActionReinstall:
		return true
	default:
		return false
	}
}

// IsBackward reports whether the action takes a package off the system.
func (a TransactionAction) IsBackward() bool {
	switch a {
	case ActionRemove, ActionDowngraded, ActionObsoleted, ActionUpgraded, ActionReinstalled:
		return true
	default:
		return false
	}
}

// TransactionItem is one planned package change.
type TransactionItem struct {
	Action  TransactionAction
	Package *Package
	// Reason names the request or dependency that caused the entry.
	Reason string
}

// TransactionPlan is an immutable ordered list of package changes.
type TransactionPlan struct {
	items []TransactionItem
}

// NewTransactionPlan takes ownership of items.
func NewTransactionPlan(items []TransactionItem) *TransactionPlan {
	return &TransactionPlan{items: items}
}

// Len returns the number of entries.
func (p *TransactionPlan) Len() int {
	if p == nil {
		return 0
	}
	return len(p.items)
}

// At returns the i-th entry.
func (p *TransactionPlan) At(i int) TransactionItem {
	return p.items[i]
}

// Items returns a copy of the entries.
func (p *TransactionPlan) Items() []TransactionItem {
	if p == nil {
		return nil
	}
	out := make([]TransactionItem, len(p.items))
	copy(out, p.items)
	return out
}

// All iterates over the entries in order.
func (p *TransactionPlan) All() iter.Seq2[int, TransactionItem] {
	return func(yield func(int, TransactionItem) bool) {
		if p == nil {
			return
		}
		for i, item := range p.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Outcome is the result of applying one plan entry.
type Outcome uint8

const (
	// OutcomeSkipped means the entry was not attempted.
	OutcomeSkipped Outcome = iota
	// OutcomeApplied means the entry was applied.
	OutcomeApplied
	// OutcomeFailed means applying the entry failed.
	OutcomeFailed
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// EntryResult pairs a plan entry with its outcome.
type EntryResult struct {
	Index   int
	Item    TransactionItem
	Outcome Outcome
	Err     error
}

// TransactionResult is the per-entry report of an executed plan.
type TransactionResult struct {
	Entries []EntryResult
}

// Applied returns the entries that were applied, in plan order.
func (r *TransactionResult) Applied() []EntryResult {
	return r.filter(OutcomeApplied)
}

// Failed returns the entries that failed.
func (r *TransactionResult) Failed() []EntryResult {
	return r.filter(OutcomeFailed)
}

// Skipped returns the entries that were not attempted.
func (r *TransactionResult) Skipped() []EntryResult {
	return r.filter(OutcomeSkipped)
}

func (r *TransactionResult) filter(o Outcome) []EntryResult {
	var out []EntryResult
	for _, e := range r.Entries {
		if e.Outcome == o {
			out = append(out, e)
		}
	}
	return out
}

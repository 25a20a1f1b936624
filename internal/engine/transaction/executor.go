// Package transaction applies resolved plans to the installed system.
package transaction

import (
	"context"
	"fmt"

	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/rpmd/internal/core/ports"
	"go.trai.ch/zerr"
)

// Options tune a transaction run.
type Options struct {
	// Test reports every entry as skipped without touching the system.
	Test bool
	// ContinueOnError keeps applying entries after a failure.
	ContinueOnError bool
}

// Executor applies plans through an RPM database.
type Executor struct {
	db     ports.RPMDatabase
	logger ports.Logger
}

// New creates an executor.
func New(db ports.RPMDatabase, logger ports.Logger) *Executor {
	return &Executor{db: db, logger: logger}
}

// Do applies plan entries strictly in order and reports the outcome of each.
// By default the first failure skips every later entry. When any entry
// fails the returned error wraps domain.ErrTransactionFailed and carries
// the entries that were applied. The result is returned in either case.
func (e *Executor) Do(ctx context.Context, plan *domain.TransactionPlan, opts Options) (*domain.TransactionResult, error) {
	if plan == nil {
		return nil, zerr.Wrap(domain.ErrGoalNotResolved, "no plan to execute")
	}

	result := &domain.TransactionResult{Entries: make([]domain.EntryResult, 0, plan.Len())}
	for i, item := range plan.All() {
		result.Entries = append(result.Entries, domain.EntryResult{Index: i, Item: item, Outcome: domain.OutcomeSkipped})
	}
	if opts.Test {
		e.logger.Info(fmt.Sprintf("test transaction: %d entries checked", plan.Len()))
		return result, nil
	}

	aborted := false
	for i := range result.Entries {
		entry := &result.Entries[i]
		if aborted {
			continue
		}
		if err := ctx.Err(); err != nil {
			entry.Err = err
			aborted = true
			continue
		}
		if err := e.db.Apply(ctx, entry.Item); err != nil {
			entry.Outcome = domain.OutcomeFailed
			entry.Err = err
			e.logger.Error(zerr.With(zerr.Wrap(err, "transaction entry failed"), "package", entry.Item.Package.NEVRA()))
			if !opts.ContinueOnError {
				aborted = true
			}
			continue
		}
		entry.Outcome = domain.OutcomeApplied
		e.logger.Debug(fmt.Sprintf("%s %s", entry.Item.Action, entry.Item.Package.NEVRA()))
	}

	if err := ctx.Err(); err != nil && aborted {
		return result, zerr.With(zerr.Wrap(err, "transaction canceled"), "applied", appliedNames(result))
	}
	if failed := result.Failed(); len(failed) > 0 {
		err := zerr.With(zerr.Wrap(domain.ErrTransactionFailed, failed[0].Err.Error()), "applied", appliedNames(result))
		return result, zerr.With(err, "failed", len(failed))
	}
	return result, nil
}

func appliedNames(result *domain.TransactionResult) []string {
	var out []string
	for _, e := range result.Applied() {
		out = append(out, e.Item.Action.Short()+" "+e.Item.Package.NEVRA())
	}
	return out
}

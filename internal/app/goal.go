package app

import (
	"context"
	"fmt"

	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/rpmd/internal/core/ports"
	"go.trai.ch/rpmd/internal/ui/style"
	"go.trai.ch/rpmd/internal/ui/table"
	"go.trai.ch/zerr"
)

// GoalOptions tune a package action run from the CLI.
type GoalOptions struct {
	// AssumeYes runs the transaction without asking.
	AssumeYes bool
	// DryRun resolves and prints the plan only.
	DryRun bool
	// Test runs the transaction without changing the system.
	Test bool
	// Strict overrides the configured strictness when not SettingAuto.
	Strict domain.GoalSetting
	// RepoIDs restricts candidates to these repositories.
	RepoIDs []string
}

// RunGoal queues action for specs, resolves the goal, prints the plan and,
// once confirmed, executes it.
func (a *App) RunGoal(
	ctx context.Context,
	opts ClientOptions,
	action domain.GoalAction,
	specs []string,
	goal GoalOptions,
) error {
	if len(specs) == 0 && action != domain.GoalUpgrade {
		return zerr.With(zerr.New("no package specs given"), "action", action.String())
	}

	return a.withSession(ctx, opts, func(client ports.DaemonClient, path string) error {
		if ok, err := client.ReadAllRepos(ctx, path); err != nil {
			return err
		} else if !ok {
			a.logger.Warn("some repositories failed to load")
		}

		settings := domain.GoalJobSettings{Strict: goal.Strict, RepoIDs: goal.RepoIDs}
		if err := client.AddJobs(ctx, path, action, specs, settings); err != nil {
			return zerr.Wrap(err, "failed to queue request")
		}
		plan, err := client.Resolve(ctx, path)
		if err != nil {
			return zerr.Wrap(err, "failed to resolve")
		}

		if opts.JSON && goal.DryRun {
			return writeJSON(a.out, planJSON(plan))
		}
		if len(plan) == 0 {
			if !opts.JSON {
				_, _ = fmt.Fprintln(a.out, "Nothing to do.")
			}
			return nil
		}
		if !opts.JSON {
			if err := planTable(plan).Render(a.out); err != nil {
				return err
			}
		}
		if goal.DryRun {
			return nil
		}
		if !goal.AssumeYes && !a.confirm("Is this ok?") {
			_, _ = fmt.Fprintln(a.out, "Operation aborted.")
			return nil
		}

		results, err := client.DoTransaction(ctx, path, ports.TransactionOptions{Test: goal.Test})
		if err != nil {
			return zerr.Wrap(err, "transaction failed")
		}
		if opts.JSON {
			return writeJSON(a.out, resultsJSON(results))
		}
		return a.printResults(results)
	})
}

func planTable(plan []ports.PlanEntry) *table.Table {
	t := table.New("Action", "Package", "Repository").StyleCells(actionStyle(0))
	for _, entry := range plan {
		t.Row(entry.Action.String(), cell(entry.Package["nevra"]), cell(entry.Package["repo"]))
	}
	return t
}

func planJSON(plan []ports.PlanEntry) []map[string]any {
	out := make([]map[string]any, len(plan))
	for i, entry := range plan {
		out[i] = map[string]any{"action": entry.Action.String(), "package": entry.Package}
	}
	return out
}

func resultsJSON(results []ports.TransactionEntry) []map[string]any {
	out := make([]map[string]any, len(results))
	for i, r := range results {
		out[i] = map[string]any{
			"index":   r.Index,
			"action":  r.Action.String(),
			"outcome": r.Outcome,
			"package": r.Package,
		}
		if r.Error != "" {
			out[i]["error"] = r.Error
		}
	}
	return out
}

func (a *App) printResults(results []ports.TransactionEntry) error {
	var failed int
	for _, r := range results {
		icon := style.Check
		switch r.Outcome {
		case domain.OutcomeFailed.String():
			icon = style.Cross
			failed++
		case domain.OutcomeSkipped.String():
			icon = style.Tilde
		}
		line := fmt.Sprintf("%s %s %s", icon, r.Action, cell(r.Package["nevra"]))
		if r.Error != "" {
			line += ": " + r.Error
		}
		_, _ = fmt.Fprintln(a.out, line)
	}
	if failed > 0 {
		return zerr.With(zerr.Wrap(domain.ErrTransactionFailed, "some entries failed"), "failed", failed)
	}
	_, _ = fmt.Fprintln(a.out, "Complete!")
	return nil
}

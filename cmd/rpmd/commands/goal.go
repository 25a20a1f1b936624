package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/rpmd/internal/app"
	"go.trai.ch/rpmd/internal/core/domain"
)

var goalActions = []domain.GoalAction{
	domain.GoalInstall,
	domain.GoalRemove,
	domain.GoalReinstall,
	domain.GoalUpgrade,
	domain.GoalDowngrade,
}

func (c *CLI) newGoalCmd(action domain.GoalAction) *cobra.Command {
	var (
		goal   app.GoalOptions
		strict bool
	)
	name := action.String()
	cmd := &cobra.Command{
		Use:   name + " <specs...>",
		Short: "Resolve and " + name + " packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && action != domain.GoalUpgrade {
				return cmd.Help()
			}
			if cmd.Flags().Changed("strict") {
				goal.Strict = domain.SettingFromBool(strict)
			}
			return c.app.RunGoal(cmd.Context(), c.clientOptions(), action, args, goal)
		},
	}
	if action == domain.GoalUpgrade {
		cmd.Use = name + " [specs...]"
	}

	cmd.Flags().BoolVarP(&goal.AssumeYes, "assumeyes", "y", false, "Answer yes to the confirmation prompt")
	cmd.Flags().BoolVar(&goal.DryRun, "dry-run", false, "Resolve and print the plan without running it")
	cmd.Flags().BoolVar(&goal.Test, "test", false, "Run the transaction without changing the system")
	cmd.Flags().BoolVar(&strict, "strict", true, "Fail when a spec matches nothing")
	cmd.Flags().StringSliceVar(&goal.RepoIDs, "repo", nil, "Only consider packages from these repositories")
	return cmd
}

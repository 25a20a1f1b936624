package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/rpmd/internal/app"
)

func (c *CLI) newRepoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Inspect loaded repositories",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list [patterns...]",
		Short: "Load the enabled repositories and list them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.ListRepos(cmd.Context(), c.clientOptions(), args)
		},
	})
	return cmd
}

func (c *CLI) newRepoConfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repoconf",
		Short: "Inspect and toggle repository configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list [ids...]",
		Short: "List configured repositories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.ListRepoConf(cmd.Context(), c.clientOptions(), args)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show every attribute of a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.GetRepoConf(cmd.Context(), c.clientOptions(), args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "enable <ids...>",
		Short: "Enable repositories in a session and report what changed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.EnableRepos(cmd.Context(), c.clientOptions(), args)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "disable <ids...>",
		Short: "Disable repositories in a session and report what changed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.DisableRepos(cmd.Context(), c.clientOptions(), args)
		},
	})

	return cmd
}

func (c *CLI) newRepoQueryCmd() *cobra.Command {
	var query app.QueryOptions
	cmd := &cobra.Command{
		Use:   "repoquery [patterns...]",
		Short: "Search packages in the loaded repositories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.RepoQuery(cmd.Context(), c.clientOptions(), args, query)
		},
	}
	cmd.Flags().BoolVarP(&query.ICase, "icase", "i", false, "Match patterns case-insensitively")
	cmd.Flags().BoolVar(&query.Installed, "installed", false, "Show installed packages only")
	cmd.Flags().StringSliceVar(&query.Attrs, "attrs", nil, "Package attributes to print")
	return cmd
}

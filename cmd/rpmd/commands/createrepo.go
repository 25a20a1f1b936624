package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newCreateRepoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "createrepo <dir> <manifest.yaml>",
		Short: "Write repository metadata for the packages of a manifest",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.CreateRepo(cmd.Context(), args[0], args[1])
		},
	}
}

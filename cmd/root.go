// Package cmd implements the clibate CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root clibate command with all subcommands
// registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "clibate",
		Short:         "clibate - black-box integration testing for CLI programs",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE:          rootRunE,
	}
	root.AddCommand(NewRunCmd(newDefaultRunIO()))
	root.AddCommand(NewCheckCmd(newDefaultCheckIO()))
	root.AddCommand(NewPreviewEditCmd(newDefaultPreviewEditIO()))
	return root
}

func rootRunE(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}

// Package cmd implements the prosedoc CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root prosedoc command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "prosedoc",
		Short:         "prosedoc - a schema-validated rich text document toolkit",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE:          rootRunE,
	}
	root.AddCommand(NewParseCmd())
	root.AddCommand(NewRenderCmd())
	root.AddCommand(NewImportMarkdownCmd())
	root.AddCommand(NewValidateCmd())
	root.AddCommand(NewInspectCmd())
	root.AddCommand(NewBatchCmd())
	return root
}

func rootRunE(_ *cobra.Command, _ []string) error {
	return nil
}

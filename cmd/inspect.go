package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/eykd/prosedoc/internal/logging"
	"github.com/eykd/prosedoc/internal/model"
)

var (
	inspectHeaderStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	inspectNameStyle   = lipgloss.NewStyle().Bold(true)
	inspectDimStyle    = lipgloss.NewStyle().Faint(true)
)

// NewInspectCmd creates the inspect subcommand, printing a compiled
// schema's node and mark types as a styled summary.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "inspect",
		Short:        "Print a summary of a compiled schema",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := uuid.New()
			logging.Default().With("run", runID.String()).Debug("inspecting schema")

			bundle, err := loadSchemaBundle(cmd)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), inspectHeaderStyle.Render("Node types"))
			for _, nt := range bundle.schema.NodeTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), formatNodeType(nt, bundle.schema.TopNode == nt))
			}

			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), inspectHeaderStyle.Render("Mark types"))
			for _, mt := range bundle.schema.MarkTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), formatMarkType(mt))
			}

			return nil
		},
	}

	addSchemaFlags(cmd)

	return cmd
}

func formatNodeType(nt *model.NodeType, isTop bool) string {
	var tags []string
	if isTop {
		tags = append(tags, "top")
	}
	if nt.IsBlock() {
		tags = append(tags, "block")
	} else {
		tags = append(tags, "inline")
	}
	if nt.IsLeaf() {
		tags = append(tags, "leaf")
	}
	if len(nt.Groups) > 0 {
		tags = append(tags, "groups="+strings.Join(nt.Groups, ","))
	}
	return fmt.Sprintf("  %s %s", inspectNameStyle.Render(nt.Name), inspectDimStyle.Render("("+strings.Join(tags, ", ")+")"))
}

func formatMarkType(mt *model.MarkType) string {
	var tags []string
	if mt.Inclusive {
		tags = append(tags, "inclusive")
	}
	if mt.Group != "" {
		tags = append(tags, "group="+mt.Group)
	}
	descr := ""
	if len(tags) > 0 {
		descr = " " + inspectDimStyle.Render("("+strings.Join(tags, ", ")+")")
	}
	return fmt.Sprintf("  %s%s", inspectNameStyle.Render(mt.Name), descr)
}

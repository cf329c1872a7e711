package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eykd/prosedoc/internal/docjson"
	"github.com/eykd/prosedoc/internal/domparser"
	"github.com/eykd/prosedoc/internal/mdimport"
)

// NewImportMarkdownCmd creates the import-markdown subcommand: Markdown
// source in, document JSON out.
func NewImportMarkdownCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "import-markdown <markdown-path>",
		Short:        "Convert a Markdown file into document JSON",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := loadSchemaBundle(cmd)
			if err != nil {
				return err
			}

			src, err := openOrStdin(args[0], cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("opening source: %w", err)
			}
			defer src.Close()

			raw, err := io.ReadAll(src)
			if err != nil {
				return fmt.Errorf("reading source: %w", err)
			}

			parser := domparser.NewDOMParser(bundle.schema, bundle.rules)
			doc, err := mdimport.Import(parser, raw)
			if err != nil {
				return fmt.Errorf("importing markdown: %w", err)
			}

			out, err := docjson.Encode(doc)
			if err != nil {
				return fmt.Errorf("encoding document json: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	addSchemaFlags(cmd)

	return cmd
}

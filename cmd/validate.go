package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/eykd/prosedoc/internal/docjson"
	"github.com/eykd/prosedoc/internal/logging"
)

// NewValidateCmd creates the validate subcommand. With only --schema (or
// --basic/--list) given it reports whether the schema compiles; with --doc
// also given it additionally decodes that document JSON against the
// compiled schema, which is where unknown node/mark names and missing
// required attributes surface.
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "validate",
		Short:        "Validate a schema spec, and optionally a document against it",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.Default().With("run", uuid.New().String())

			bundle, err := loadSchemaBundle(cmd)
			if err != nil {
				log.Debug("schema compilation failed", "err", err)
				fmt.Fprintf(cmd.ErrOrStderr(), "schema invalid: %v\n", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema ok: %d node types, %d mark types\n",
				len(bundle.schema.NodeTypes()), len(bundle.schema.MarkTypes()))

			docPath, _ := cmd.Flags().GetString("doc")
			if docPath == "" {
				return nil
			}

			f, err := os.Open(docPath)
			if err != nil {
				return fmt.Errorf("opening document %s: %w", sanitizePath(docPath), err)
			}
			defer f.Close()
			raw, err := io.ReadAll(f)
			if err != nil {
				return fmt.Errorf("reading document: %w", err)
			}

			if _, err := docjson.Decode(bundle.schema, raw); err != nil {
				log.Debug("document decode failed", "doc", sanitizePath(docPath), "err", err)
				fmt.Fprintf(cmd.ErrOrStderr(), "document invalid: %v\n", err)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "document ok")
			return nil
		},
	}

	addSchemaFlags(cmd)
	cmd.Flags().String("doc", "", "path to a document JSON file to validate against the schema")

	return cmd
}

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eykd/prosedoc/internal/docjson"
	"github.com/eykd/prosedoc/internal/domserializer"
	"github.com/eykd/prosedoc/internal/domtree/htmladapter"
)

// NewRenderCmd creates the render subcommand: document JSON in, HTML out.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "render <doc-json-path>",
		Short:        "Render document JSON as HTML",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := loadSchemaBundle(cmd)
			if err != nil {
				return err
			}
			if bundle.nodeSpecs == nil {
				return fmt.Errorf("schema %q has no registered HTML output, use --basic or --list", args[0])
			}

			src, err := openOrStdin(args[0], cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("opening document: %w", err)
			}
			defer src.Close()

			raw, err := io.ReadAll(src)
			if err != nil {
				return fmt.Errorf("reading document: %w", err)
			}

			doc, err := docjson.Decode(bundle.schema, raw)
			if err != nil {
				return fmt.Errorf("decoding document json: %w", err)
			}

			serializer := &domserializer.DOMSerializer{
				Schema: bundle.schema,
				Nodes:  bundle.nodeSpecs,
				Marks:  bundle.markSpecs,
			}
			rendered, err := serializer.SerializeNode(htmladapter.Builder{}, doc)
			if err != nil {
				return fmt.Errorf("serializing document: %w", err)
			}

			html, err := htmladapter.Render(rendered)
			if err != nil {
				return fmt.Errorf("rendering html: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), html)
			return nil
		},
	}

	addSchemaFlags(cmd)

	return cmd
}

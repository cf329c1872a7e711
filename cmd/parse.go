package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/eykd/prosedoc/internal/docjson"
	"github.com/eykd/prosedoc/internal/domparser"
	"github.com/eykd/prosedoc/internal/domtree/htmladapter"
	"github.com/eykd/prosedoc/internal/logging"
)

// NewParseCmd creates the parse subcommand: HTML source in, document JSON out.
func NewParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "parse <html-path>",
		Short:        "Parse an HTML document into document JSON",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.Default().With("run", uuid.New().String())

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

			sanitize, _ := cmd.Flags().GetBool("sanitize")
			html := string(raw)
			if sanitize {
				log.Debug("sanitizing input before parsing", "bytes", len(raw))
				html = htmladapter.Sanitize(html)
			}

			dom, err := htmladapter.Parse(strings.NewReader(html))
			if err != nil {
				return fmt.Errorf("parsing html: %w", err)
			}

			parser := domparser.NewDOMParser(bundle.schema, bundle.rules)
			doc, err := parser.Parse(dom)
			if err != nil {
				return fmt.Errorf("parsing document: %w", err)
			}
			log.Debug("parsed document", "children", doc.ChildCount())

			out, err := docjson.Encode(doc)
			if err != nil {
				return fmt.Errorf("encoding document json: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	addSchemaFlags(cmd)
	cmd.Flags().Bool("sanitize", false, "run input through an HTML sanitizer before parsing")

	return cmd
}

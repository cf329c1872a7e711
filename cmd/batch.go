package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/eykd/prosedoc/internal/docjson"
	"github.com/eykd/prosedoc/internal/domparser"
	"github.com/eykd/prosedoc/internal/domtree/htmladapter"
	"github.com/eykd/prosedoc/internal/logging"
	"github.com/eykd/prosedoc/internal/mdimport"
	"github.com/eykd/prosedoc/internal/model"
)

// NewBatchCmd creates the batch subcommand, which walks a directory for
// .html and .md files and writes a ".json" sidecar document next to each.
func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "batch <dir>",
		Short:        "Convert every .html/.md file under a directory into a document JSON sidecar",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.Default().With("run", uuid.New().String())

			bundle, err := loadSchemaBundle(cmd)
			if err != nil {
				return err
			}
			parser := domparser.NewDOMParser(bundle.schema, bundle.rules)

			dir := args[0]
			converted := 0
			defer func() { log.Debug("batch conversion finished", "converted", converted) }()
			return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					return nil
				}
				ext := strings.ToLower(filepath.Ext(path))
				if ext != ".html" && ext != ".htm" && ext != ".md" {
					return nil
				}
				doc, convertErr := convertFile(parser, path, ext)
				if convertErr != nil {
					log.Debug("conversion failed", "path", sanitizePath(path), "err", convertErr)
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", sanitizePath(path), convertErr)
					return nil
				}
				converted++
				out, encErr := docjson.Encode(doc)
				if encErr != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: encoding: %v\n", sanitizePath(path), encErr)
					return nil
				}
				sidecar := path + ".json"
				if writeErr := os.WriteFile(sidecar, out, 0o644); writeErr != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: writing sidecar: %v\n", sanitizePath(path), writeErr)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", sanitizePath(path), sanitizePath(sidecar))
				return nil
			})
		},
	}

	addSchemaFlags(cmd)

	return cmd
}

func convertFile(parser *domparser.DOMParser, path, ext string) (*model.Node, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if ext == ".md" {
		return mdimport.Import(parser, raw)
	}
	dom, err := htmladapter.Parse(strings.NewReader(string(raw)))
	if err != nil {
		return nil, err
	}
	return parser.Parse(dom)
}

// Package mdimport imports Markdown source into a document by converting
// it to HTML with goldmark and running the result through a DOMParser, the
// same convenience path prosemirror-markdown offers in the wider
// ProseMirror ecosystem.
package mdimport

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/eykd/prosedoc/internal/domparser"
	"github.com/eykd/prosedoc/internal/domtree/htmladapter"
	"github.com/eykd/prosedoc/internal/model"
)

// Import converts markdown source to a document valid under parser's
// schema.
func Import(parser *domparser.DOMParser, source []byte) (*model.Node, error) {
	md := goldmark.New()
	var buf bytes.Buffer
	if err := md.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("mdimport: convert markdown: %w", err)
	}
	dom, err := htmladapter.ParseFragment(strings.NewReader(buf.String()), "div")
	if err != nil {
		return nil, fmt.Errorf("mdimport: parse converted html: %w", err)
	}
	return parser.Parse(dom)
}

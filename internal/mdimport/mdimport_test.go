package mdimport

import (
	"testing"

	"github.com/eykd/prosedoc/internal/basicschema"
	"github.com/eykd/prosedoc/internal/domparser"
)

func TestImportHeadingAndParagraph(t *testing.T) {
	parser := domparser.NewDOMParser(basicschema.Schema, basicschema.ParseRules())
	doc, err := Import(parser, []byte("# Title\n\nSome *emphasis* text.\n"))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if doc.ChildCount() != 2 {
		t.Fatalf("ChildCount() = %d, want 2", doc.ChildCount())
	}
	heading := doc.FirstChild()
	if heading.Type.Name != "heading" {
		t.Fatalf("first child type = %q, want heading", heading.Type.Name)
	}
	if heading.TextContent() != "Title" {
		t.Errorf("heading text = %q, want %q", heading.TextContent(), "Title")
	}
}

func TestImportHandlesEmptyInput(t *testing.T) {
	parser := domparser.NewDOMParser(basicschema.Schema, basicschema.ParseRules())
	doc, err := Import(parser, []byte(""))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if doc.Type.Name != "doc" {
		t.Errorf("Type.Name = %q, want doc", doc.Type.Name)
	}
}

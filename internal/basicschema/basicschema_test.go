package basicschema

import (
	"strings"
	"testing"

	"github.com/eykd/prosedoc/internal/domparser"
	"github.com/eykd/prosedoc/internal/domtree/htmladapter"
)

func TestSchemaCompiles(t *testing.T) {
	if Schema.TopNode.Name != "doc" {
		t.Fatalf("TopNode.Name = %q, want doc", Schema.TopNode.Name)
	}
	if _, ok := Schema.Nodes["heading"]; !ok {
		t.Fatal("expected a heading node type")
	}
	if _, ok := ListSchema.Nodes["bullet_list"]; !ok {
		t.Fatal("expected ListSchema to contain bullet_list")
	}
}

func TestParseRulesRoundTripHeading(t *testing.T) {
	dom, err := htmladapter.Parse(strings.NewReader("<h2>Title</h2><p>Body <em>text</em></p>"))
	if err != nil {
		t.Fatalf("htmladapter.Parse() error = %v", err)
	}
	parser := domparser.NewDOMParser(Schema, ParseRules())
	doc, err := parser.Parse(dom)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	heading := doc.FirstChild()
	if heading.Type.Name != "heading" {
		t.Fatalf("first child type = %q, want heading", heading.Type.Name)
	}
	if level, _ := heading.Attrs["level"].(int); level != 2 {
		t.Errorf("heading level = %v, want 2", heading.Attrs["level"])
	}
}

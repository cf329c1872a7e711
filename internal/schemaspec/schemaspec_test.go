package schemaspec

import (
	"bytes"
	"strings"
	"testing"
)

const yamlSpec = `
top_node: doc
nodes:
  - name: doc
    content: paragraph+
  - name: paragraph
    content: text*
    group: block
  - name: text
    group: inline
marks:
  - name: em
`

func TestLoadCompilesASchema(t *testing.T) {
	schema, err := Load(strings.NewReader(yamlSpec))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := schema.Nodes["paragraph"]; !ok {
		t.Fatal("expected schema to contain a paragraph node type")
	}
	if _, ok := schema.Marks["em"]; !ok {
		t.Fatal("expected schema to contain an em mark type")
	}
	if schema.TopNode.Name != "doc" {
		t.Errorf("TopNode.Name = %q, want doc", schema.TopNode.Name)
	}
}

func TestLoadRejectsMissingTextType(t *testing.T) {
	bad := `
nodes:
  - name: doc
    content: "paragraph+"
  - name: paragraph
    content: ""
`
	if _, err := Load(strings.NewReader(bad)); err == nil {
		t.Fatal("expected an error for a schema with no text node")
	}
}

func TestSaveRoundTrips(t *testing.T) {
	doc := &Doc{
		TopNode: "doc",
		Nodes: []NodeSpec{
			{Name: "doc", Content: "paragraph+"},
			{Name: "paragraph", Content: "text*", Group: "block"},
			{Name: "text", Group: "inline"},
		},
	}
	var buf bytes.Buffer
	if err := Save(&buf, doc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := Load(&buf); err != nil {
		t.Fatalf("Load() of saved doc error = %v", err)
	}
}

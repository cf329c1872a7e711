package docjson

import (
	"testing"

	"github.com/eykd/prosedoc/internal/model"
)

func testSchema(t *testing.T) *model.Schema {
	spec := &model.SchemaSpec{
		Nodes: []*model.NodeSpec{
			{Key: "doc", Content: "block+"},
			{Key: "paragraph", Content: "inline*", Group: "block"},
			{Key: "heading", Content: "inline*", Group: "block", Attrs: map[string]*model.AttributeSpec{
				"level": {Default: 1, HasDefault: true},
			}},
			{Key: "text", Group: "inline"},
		},
		Marks: []*model.MarkSpec{{Key: "em"}},
	}
	s, err := model.NewSchema(spec)
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}
	return s
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := testSchema(t)
	text, _ := s.Text("hi", nil)
	content, _ := model.NewFragment([]*model.Node{text})
	para, err := s.Nodes["paragraph"].CreateChecked(nil, content, nil)
	if err != nil {
		t.Fatalf("CreateChecked() error = %v", err)
	}
	docContent, _ := model.NewFragment([]*model.Node{para})
	doc, err := s.Nodes["doc"].CreateChecked(nil, docContent, nil)
	if err != nil {
		t.Fatalf("CreateChecked() error = %v", err)
	}

	encoded, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	decoded, err := Decode(s, encoded)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !decoded.Eq(doc) {
		t.Errorf("decoded document does not equal the original:\ngot:  %s\nwant: %s", decoded, doc)
	}
}

func TestDecodeNormalizesIntAttrs(t *testing.T) {
	s := testSchema(t)
	raw := `{"type":"doc","content":[{"type":"heading","attrs":{"level":3},"content":[{"type":"text","text":"Hi"}]}]}`

	doc, err := Decode(s, []byte(raw))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	level, ok := doc.FirstChild().Attrs["level"].(int)
	if !ok {
		t.Fatalf("level attr has type %T, want int", doc.FirstChild().Attrs["level"])
	}
	if level != 3 {
		t.Errorf("level = %d, want 3", level)
	}
}

func TestDecodeRejectsUnknownType(t *testing.T) {
	s := testSchema(t)
	if _, err := Decode(s, []byte(`{"type":"not_a_type"}`)); err == nil {
		t.Fatal("expected an error for an unknown node type")
	}
}

func TestDecodeRejectsEmptyTextNode(t *testing.T) {
	s := testSchema(t)
	raw := `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":""}]}]}`
	if _, err := Decode(s, []byte(raw)); err == nil {
		t.Fatal("expected an error for an empty text node")
	}
}

package domserializer

import (
	"testing"

	"github.com/eykd/prosedoc/internal/domtree/htmladapter"
	"github.com/eykd/prosedoc/internal/model"
)

func testSchema(t *testing.T) *model.Schema {
	spec := &model.SchemaSpec{
		Nodes: []*model.NodeSpec{
			{Key: "doc", Content: "paragraph+"},
			{Key: "paragraph", Content: "inline*", Group: "block"},
			{Key: "text", Group: "inline"},
		},
		Marks: []*model.MarkSpec{{Key: "em"}, {Key: "strong"}},
	}
	s, err := model.NewSchema(spec)
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}
	return s
}

func testSerializer(t *testing.T) (*model.Schema, *DOMSerializer) {
	s := testSchema(t)
	ser := &DOMSerializer{
		Schema: s,
		Nodes: map[string]NodeSpecFunc{
			"doc": func(n *model.Node) (Spec, error) { return Hole, nil },
			"paragraph": func(n *model.Node) (Spec, error) {
				return Elem("p", nil, Hole), nil
			},
			"text": func(n *model.Node) (Spec, error) {
				return TextSpec(n.Text()), nil
			},
		},
		Marks: map[string]MarkSpecFunc{
			"em":     func(m *model.Mark, inline bool) (Spec, error) { return Elem("em", nil, Hole), nil },
			"strong": func(m *model.Mark, inline bool) (Spec, error) { return Elem("strong", nil, Hole), nil },
		},
	}
	return s, ser
}

func TestSerializeNodeRendersParagraph(t *testing.T) {
	s, ser := testSerializer(t)
	text, _ := s.Text("hello", nil)
	para, err := s.Nodes["paragraph"].CreateChecked(nil, mustFrag(t, text), nil)
	if err != nil {
		t.Fatalf("CreateChecked() error = %v", err)
	}

	var b htmladapter.Builder
	out, err := ser.SerializeNode(b, para)
	if err != nil {
		t.Fatalf("SerializeNode() error = %v", err)
	}
	html, err := htmladapter.Render(out)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if html != "<p>hello</p>" {
		t.Errorf("Render() = %q, want %q", html, "<p>hello</p>")
	}
}

func TestSerializeNodeWrapsMarksInnermostFirst(t *testing.T) {
	s, ser := testSerializer(t)
	em := s.Marks["em"]
	strong := s.Marks["strong"]
	emMark, _ := em.Create(nil)
	strongMark, _ := strong.Create(nil)

	// SortMarks orders by declared rank: em (declared first) before
	// strong. wrapMarks wraps the highest-rank mark directly around the
	// text first, so strong (last in rank order) ends up innermost and em
	// ends up outermost.
	marks := model.SortMarks([]*model.Mark{emMark, strongMark})
	text, _ := s.Text("hi", nil)
	marked := text.Mark(marks)

	var b htmladapter.Builder
	out, err := ser.serializeText(b, marked)
	if err != nil {
		t.Fatalf("serializeText() error = %v", err)
	}
	html, err := htmladapter.Render(out)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if html != "<em><strong>hi</strong></em>" {
		t.Errorf("Render() = %q, want %q", html, "<em><strong>hi</strong></em>")
	}
}

func TestSerializeFragmentRendersEachChild(t *testing.T) {
	s, ser := testSerializer(t)
	t1, _ := s.Text("a", nil)
	t2, _ := s.Text("b", nil)
	p1, _ := s.Nodes["paragraph"].CreateChecked(nil, mustFrag(t, t1), nil)
	p2, _ := s.Nodes["paragraph"].CreateChecked(nil, mustFrag(t, t2), nil)
	frag := mustFrag(t, p1, p2)

	var b htmladapter.Builder
	out, err := ser.SerializeFragment(b, frag)
	if err != nil {
		t.Fatalf("SerializeFragment() error = %v", err)
	}
	html, err := htmladapter.Render(out)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if html != "<p>a</p><p>b</p>" {
		t.Errorf("Render() = %q, want %q", html, "<p>a</p><p>b</p>")
	}
}

func TestSerializeNodeRejectsUnknownType(t *testing.T) {
	s, ser := testSerializer(t)
	delete(ser.Nodes, "paragraph")
	text, _ := s.Text("hi", nil)
	para, _ := s.Nodes["paragraph"].CreateChecked(nil, mustFrag(t, text), nil)

	var b htmladapter.Builder
	if _, err := ser.SerializeNode(b, para); err == nil {
		t.Fatal("expected an error for a node type with no output spec")
	}
}

func TestRenderSpecRejectsMissingHole(t *testing.T) {
	s, ser := testSerializer(t)
	ser.Nodes["paragraph"] = func(n *model.Node) (Spec, error) {
		return Elem("p", nil), nil // no Hole: content would be silently dropped
	}
	text, _ := s.Text("hi", nil)
	para, _ := s.Nodes["paragraph"].CreateChecked(nil, mustFrag(t, text), nil)

	var b htmladapter.Builder
	if _, err := ser.SerializeNode(b, para); err == nil {
		t.Fatal("expected an error for a non-leaf spec with no content hole")
	}
}

func mustFrag(t *testing.T, nodes ...*model.Node) *model.Fragment {
	f, err := model.NewFragment(nodes)
	if err != nil {
		t.Fatalf("NewFragment() error = %v", err)
	}
	return f
}

package htmladapter

import (
	"strings"
	"testing"

	"github.com/eykd/prosedoc/internal/domtree"
)

func TestParseFindsBody(t *testing.T) {
	dom, err := Parse(strings.NewReader("<h1>Title</h1><p>Hello <em>world</em></p>"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if dom.TagName() != "body" {
		t.Fatalf("TagName() = %q, want body", dom.TagName())
	}
	children := dom.ChildNodes()
	if len(children) != 2 {
		t.Fatalf("ChildNodes() len = %d, want 2", len(children))
	}
	if children[0].TagName() != "h1" || children[1].TagName() != "p" {
		t.Errorf("child tags = %q, %q", children[0].TagName(), children[1].TagName())
	}
}

func TestTreeAttrAndStyle(t *testing.T) {
	dom, err := Parse(strings.NewReader(`<p style="font-weight: bold; color: red">x</p>`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	p := dom.ChildNodes()[0]
	if _, ok := p.Attr("missing"); ok {
		t.Error("Attr() found a nonexistent attribute")
	}
	weight, ok := p.Style("font-weight")
	if !ok || weight != "bold" {
		t.Errorf("Style(font-weight) = %q, %v, want bold, true", weight, ok)
	}
	color, ok := p.Style("COLOR")
	if !ok || color != "red" {
		t.Errorf("Style(COLOR) = %q, %v, want red, true (case-insensitive)", color, ok)
	}
}

func TestTreeMatchesSelector(t *testing.T) {
	dom, err := Parse(strings.NewReader(`<p class="intro">hi</p>`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	p := dom.ChildNodes()[0]
	if !p.Matches("p.intro") {
		t.Error("expected p.intro to match")
	}
	if p.Matches("div") {
		t.Error("did not expect p to match div")
	}
}

func TestTreeParentAndContains(t *testing.T) {
	dom, err := Parse(strings.NewReader(`<p>hi <em>there</em></p>`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	p := dom.ChildNodes()[0]
	em := p.ChildNodes()[1]
	if em.Parent().TagName() != "p" {
		t.Errorf("Parent().TagName() = %q, want p", em.Parent().TagName())
	}
	if !p.Contains(em) {
		t.Error("expected p to contain its em child")
	}
	if em.Contains(p) {
		t.Error("did not expect em to contain its own parent")
	}
}

func TestSanitizeStripsScriptTags(t *testing.T) {
	out := Sanitize(`<p>hi</p><script>alert(1)</script>`)
	if strings.Contains(out, "script") {
		t.Errorf("Sanitize() left a script tag in: %q", out)
	}
	if !strings.Contains(out, "hi") {
		t.Errorf("Sanitize() dropped safe content: %q", out)
	}
}

func TestBuilderRoundTripsThroughRender(t *testing.T) {
	var b Builder
	root := b.CreateFragment()
	el := b.CreateElement("p")
	el.SetAttr("class", "intro")
	el.AppendChild(b.CreateText("hello"))
	root.AppendChild(el)

	out, err := Render(root)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out != `<p class="intro">hello</p>` {
		t.Errorf("Render() = %q", out)
	}
}

func TestParseFragmentWrapsNodesInSyntheticRoot(t *testing.T) {
	dom, err := ParseFragment(strings.NewReader("<em>a</em><strong>b</strong>"), "div")
	if err != nil {
		t.Fatalf("ParseFragment() error = %v", err)
	}
	if dom.Kind() != domtree.KindDocumentFragment {
		t.Fatalf("Kind() = %v, want KindDocumentFragment", dom.Kind())
	}
	children := dom.ChildNodes()
	if len(children) != 2 {
		t.Fatalf("ChildNodes() len = %d, want 2", len(children))
	}
}

func TestSizeToInt(t *testing.T) {
	cases := map[string]int{"42px": 42, "100": 100, "": 0, "not-a-size": 0}
	for in, want := range cases {
		if got := SizeToInt(in); got != want {
			t.Errorf("SizeToInt(%q) = %d, want %d", in, got, want)
		}
	}
}

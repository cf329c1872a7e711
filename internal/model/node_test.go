package model

import "testing"

func TestNodeCreateCheckedAndTextContent(t *testing.T) {
	s := testSchema(t)
	text, err := s.Text("hi there", nil)
	if err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	content := mustFragment(t, text)
	para, err := s.Nodes["paragraph"].CreateChecked(nil, content, nil)
	if err != nil {
		t.Fatalf("CreateChecked() error = %v", err)
	}
	if got := para.TextContent(); got != "hi there" {
		t.Errorf("TextContent() = %q, want %q", got, "hi there")
	}
	if para.NodeSize() != content.Size+2 {
		t.Errorf("NodeSize() = %d, want %d", para.NodeSize(), content.Size+2)
	}
}

func TestNodeCreateCheckedRejectsInvalidContent(t *testing.T) {
	s := testSchema(t)
	text, _ := s.Text("oops", nil)
	content := mustFragment(t, text)
	// text content isn't valid directly under blockquote, which requires block+.
	if _, err := s.Nodes["blockquote"].CreateChecked(nil, content, nil); err == nil {
		t.Fatal("expected CreateChecked to reject a text child under blockquote")
	}
}

func TestNodeMarkReplacesMarkSet(t *testing.T) {
	s := testSchema(t)
	em := s.Marks["em"]
	m, _ := em.Create(nil)
	text, _ := s.Text("hi", nil)

	marked := text.Mark(NoMarks.Add(m))
	if !marked.Marks.IsInSet(em) {
		t.Fatal("expected marked text node to carry the em mark")
	}
	if text.Marks.IsInSet(em) {
		t.Fatal("Mark() must not mutate the receiver")
	}
}

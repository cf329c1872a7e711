package model

import "testing"

func buildTestDoc(t *testing.T, s *Schema) *Node {
	t1, _ := s.Text("ab", nil)
	p1, err := s.Nodes["paragraph"].CreateChecked(nil, mustFragment(t, t1), nil)
	if err != nil {
		t.Fatalf("CreateChecked(paragraph) error = %v", err)
	}
	t2, _ := s.Text("cd", nil)
	p2, err := s.Nodes["paragraph"].CreateChecked(nil, mustFragment(t, t2), nil)
	if err != nil {
		t.Fatalf("CreateChecked(paragraph) error = %v", err)
	}
	doc, err := s.Nodes["doc"].CreateChecked(nil, mustFragment(t, p1, p2), nil)
	if err != nil {
		t.Fatalf("CreateChecked(doc) error = %v", err)
	}
	return doc
}

// doc(paragraph("ab") paragraph("cd")): positions are
// 0 <p 1 a 2 b 3 /p> 4 <p 5 c 6 d 7 /p> 8
func TestResolveInsideFirstParagraph(t *testing.T) {
	s := testSchema(t)
	doc := buildTestDoc(t, s)

	rp, err := Resolve(doc, 2)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if rp.Depth != 1 {
		t.Fatalf("Depth = %d, want 1", rp.Depth)
	}
	if rp.Parent().Type.Name != "paragraph" {
		t.Fatalf("Parent() = %s, want paragraph", rp.Parent().Type.Name)
	}
	if rp.ParentOffset != 1 {
		t.Fatalf("ParentOffset = %d, want 1", rp.ParentOffset)
	}
}

func TestResolveAtTopLevel(t *testing.T) {
	s := testSchema(t)
	doc := buildTestDoc(t, s)

	rp, err := Resolve(doc, 4)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if rp.Depth != 0 {
		t.Fatalf("Depth = %d, want 0", rp.Depth)
	}
	if rp.Parent() != doc {
		t.Fatal("Parent() at depth 0 should be doc")
	}
}

// doc(paragraph("ab"), blockquote(paragraph(em("cd"), "ef"))): resolving
// position 8 lands inside the nested paragraph, between the marked "cd"
// run and the plain "ef" run.
func TestResolvedPosNodeBeforeAfterNested(t *testing.T) {
	s := testSchema(t)
	em := s.Marks["em"]

	p1t, _ := s.Text("ab", nil)
	p1, err := s.Nodes["paragraph"].CreateChecked(nil, mustFragment(t, p1t), nil)
	if err != nil {
		t.Fatalf("CreateChecked(paragraph) error = %v", err)
	}

	emMark, err := em.Create(nil)
	if err != nil {
		t.Fatalf("em.Create() error = %v", err)
	}
	cd, err := s.Text("cd", MarkSet{emMark})
	if err != nil {
		t.Fatalf("Text(cd) error = %v", err)
	}
	ef, err := s.Text("ef", nil)
	if err != nil {
		t.Fatalf("Text(ef) error = %v", err)
	}
	p2, err := s.Nodes["paragraph"].CreateChecked(nil, mustFragment(t, cd, ef), nil)
	if err != nil {
		t.Fatalf("CreateChecked(paragraph) error = %v", err)
	}
	bq, err := s.Nodes["blockquote"].CreateChecked(nil, mustFragment(t, p2), nil)
	if err != nil {
		t.Fatalf("CreateChecked(blockquote) error = %v", err)
	}
	doc, err := s.Nodes["doc"].CreateChecked(nil, mustFragment(t, p1, bq), nil)
	if err != nil {
		t.Fatalf("CreateChecked(doc) error = %v", err)
	}

	rp, err := Resolve(doc, 8)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if rp.Depth != 2 {
		t.Fatalf("Depth = %d, want 2", rp.Depth)
	}
	if rp.ParentOffset != 2 {
		t.Fatalf("ParentOffset = %d, want 2", rp.ParentOffset)
	}
	before := rp.NodeBefore()
	if before == nil || before.Text() != "cd" {
		t.Fatalf("NodeBefore() = %v, want text %q", before, "cd")
	}
	if !before.Marks.IsInSet(em) {
		t.Error("NodeBefore() should carry the em mark")
	}
	after := rp.NodeAfter()
	if after == nil || after.Text() != "ef" {
		t.Fatalf("NodeAfter() = %v, want text %q", after, "ef")
	}
}

func TestResolvedPosBeforeAfterStartEnd(t *testing.T) {
	s := testSchema(t)
	doc := buildTestDoc(t, s)

	rp, err := Resolve(doc, 2)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if rp.Start(1) != 1 {
		t.Errorf("Start(1) = %d, want 1", rp.Start(1))
	}
	before, err := rp.Before(1)
	if err != nil || before != 0 {
		t.Errorf("Before(1) = %d, %v, want 0, nil", before, err)
	}
	if rp.End(1) != 3 {
		t.Errorf("End(1) = %d, want 3", rp.End(1))
	}
	after, err := rp.After(1)
	if err != nil || after != 4 {
		t.Errorf("After(1) = %d, %v, want 4, nil", after, err)
	}
}

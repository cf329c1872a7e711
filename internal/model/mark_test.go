package model

import "testing"

func TestMarkSetAddExcludesBySelfDefault(t *testing.T) {
	s := testSchema(t)
	em := s.Marks["em"]

	m1, err := em.Create(nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	m2, err := em.Create(nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	set := NoMarks.Add(m1)
	set = set.Add(m2)
	if len(set) != 1 {
		t.Fatalf("expected a single em mark after re-adding an equal mark, got %d", len(set))
	}
}

func TestMarkSetAddAndRemove(t *testing.T) {
	s := testSchema(t)
	em := s.Marks["em"]
	m, _ := em.Create(nil)

	set := NoMarks.Add(m)
	if !set.IsInSet(em) {
		t.Fatal("expected em to be in set after Add")
	}

	set = set.Remove(m)
	if set.IsInSet(em) {
		t.Fatal("expected em to be removed")
	}
}

func TestSortMarksByRank(t *testing.T) {
	spec := &SchemaSpec{
		Nodes: []*NodeSpec{
			{Key: "doc", Content: "text*"},
			{Key: "text"},
		},
		Marks: []*MarkSpec{
			{Key: "a"},
			{Key: "b"},
		},
	}
	s, err := NewSchema(spec)
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}
	ma, _ := s.Marks["a"].Create(nil)
	mb, _ := s.Marks["b"].Create(nil)

	sorted := SortMarks([]*Mark{mb, ma})
	if sorted[0].Type.Name != "a" || sorted[1].Type.Name != "b" {
		t.Fatalf("expected marks sorted by rank a,b; got %s,%s", sorted[0].Type.Name, sorted[1].Type.Name)
	}
}

package model

// testSchema builds a small schema shared by this package's tests:
// doc(block+) paragraph(inline*) with an "em" mark, plus a "blockquote"
// node (block+) to exercise wrapping and nested replace.
func testSchema(t interface{ Fatalf(string, ...interface{}) }) *Schema {
	spec := &SchemaSpec{
		Nodes: []*NodeSpec{
			{Key: "doc", Content: "block+"},
			{Key: "paragraph", Content: "inline*", Group: "block"},
			{Key: "blockquote", Content: "block+", Group: "block"},
			{Key: "text", Group: "inline"},
		},
		Marks: []*MarkSpec{
			{Key: "em"},
		},
	}
	s, err := NewSchema(spec)
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}
	return s
}

func mustFragment(t interface{ Fatalf(string, ...interface{}) }, nodes ...*Node) *Fragment {
	f, err := NewFragment(nodes)
	if err != nil {
		t.Fatalf("NewFragment() error = %v", err)
	}
	return f
}

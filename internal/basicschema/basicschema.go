// Package basicschema defines a ready-to-use document schema, roughly
// corresponding to the document model used by CommonMark, plus a second
// variant that adds list nodes.
package basicschema

import "github.com/eykd/prosedoc/internal/model"

var (
	headingAttrs = map[string]*model.AttributeSpec{
		"level": {Default: 1, HasDefault: true},
	}
	imageAttrs = map[string]*model.AttributeSpec{
		"src":    {},
		"alt":    {Default: nil, HasDefault: true},
		"title":  {Default: nil, HasDefault: true},
		"width":  {Default: nil, HasDefault: true},
		"height": {Default: nil, HasDefault: true},
	}
	linkAttrs = map[string]*model.AttributeSpec{
		"href":  {},
		"title": {Default: nil, HasDefault: true},
	}
	noMarks    = ""
	nonInclusive = false
)

// Nodes are the specs for the nodes defined in this schema.
var Nodes = []*model.NodeSpec{
	{Key: "doc", Content: "block+"},
	{Key: "paragraph", Content: "inline*", Group: "block"},
	{Key: "blockquote", Content: "block+", Group: "block"},
	{Key: "horizontal_rule", Group: "block"},
	{Key: "heading", Content: "inline*", Group: "block", Attrs: headingAttrs},
	{Key: "code_block", Content: "text*", Marks: &noMarks, Group: "block", Whitespace: "pre"},
	{Key: "text", Group: "inline"},
	{Key: "image", Group: "inline", Inline: true, Attrs: imageAttrs, Atom: true},
	{Key: "hard_break", Group: "inline", Inline: true, Atom: true},
}

// Marks are the specs for the marks in this schema.
var Marks = []*model.MarkSpec{
	{Key: "link", Attrs: linkAttrs, Inclusive: &nonInclusive},
	{Key: "em"},
	{Key: "strong"},
	{Key: "code"},
}

// Schema is the compiled document schema.
var Schema = mustCompile(&model.SchemaSpec{Nodes: Nodes, Marks: Marks})

// ListNodes supplements Nodes with ordered_list, bullet_list, and
// list_item, mirroring prosemirror-schema-list.
var ListNodes = append(append([]*model.NodeSpec{}, Nodes...),
	&model.NodeSpec{Key: "ordered_list", Content: "list_item+", Group: "block", Attrs: map[string]*model.AttributeSpec{
		"order": {Default: 1, HasDefault: true},
	}},
	&model.NodeSpec{Key: "bullet_list", Content: "list_item+", Group: "block"},
	&model.NodeSpec{Key: "list_item", Content: "paragraph block*"},
)

// ListSchema is the compiled document schema including list nodes.
var ListSchema = mustCompile(&model.SchemaSpec{Nodes: ListNodes, Marks: Marks})

func mustCompile(spec *model.SchemaSpec) *model.Schema {
	s, err := model.NewSchema(spec)
	if err != nil {
		panic(err)
	}
	return s
}

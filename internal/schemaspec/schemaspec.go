// Package schemaspec provides a YAML-loadable representation of a document
// schema, compiled into an internal/model.Schema.
package schemaspec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/eykd/prosedoc/internal/model"
)

// AttributeSpec is the YAML shape of a node or mark attribute descriptor.
// An attribute is required (must be supplied whenever a node/mark of that
// type is created) only when Required is true; otherwise it defaults to
// Default, which is nil when omitted.
type AttributeSpec struct {
	Default  interface{} `yaml:"default,omitempty"`
	Required bool        `yaml:"required,omitempty"`
}

// NodeSpec is the YAML shape of one node type declaration.
type NodeSpec struct {
	Name       string                    `yaml:"name"`
	Content    string                    `yaml:"content,omitempty"`
	Marks      *string                   `yaml:"marks,omitempty"`
	Group      string                    `yaml:"group,omitempty"`
	Inline     bool                      `yaml:"inline,omitempty"`
	Atom       bool                      `yaml:"atom,omitempty"`
	Defining   bool                      `yaml:"defining,omitempty"`
	Isolating  bool                      `yaml:"isolating,omitempty"`
	Whitespace string                    `yaml:"whitespace,omitempty"`
	Attrs      map[string]AttributeSpec  `yaml:"attrs,omitempty"`
}

// MarkSpec is the YAML shape of one mark type declaration.
type MarkSpec struct {
	Name      string                   `yaml:"name"`
	Group     string                   `yaml:"group,omitempty"`
	Inclusive *bool                    `yaml:"inclusive,omitempty"`
	Excludes  string                   `yaml:"excludes,omitempty"`
	Attrs     map[string]AttributeSpec `yaml:"attrs,omitempty"`
}

// Doc is the top-level YAML document: an ordered list of node specs (order
// matters — it decides group ordering, per model.NodeSpec's doc comment)
// and mark specs, plus the name
// of the schema's top-level node.
type Doc struct {
	TopNode string     `yaml:"top_node,omitempty"`
	Nodes   []NodeSpec `yaml:"nodes"`
	Marks   []MarkSpec `yaml:"marks,omitempty"`
}

// Load reads a YAML schema document from r and compiles it into a
// model.Schema.
func Load(r io.Reader) (*model.Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("schemaspec: read: %w", err)
	}
	var doc Doc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schemaspec: parse yaml: %w", err)
	}
	return doc.Compile()
}

// Compile converts doc into a model.SchemaSpec and compiles it.
func (doc *Doc) Compile() (*model.Schema, error) {
	spec := &model.SchemaSpec{TopNode: doc.TopNode}
	for _, n := range doc.Nodes {
		spec.Nodes = append(spec.Nodes, &model.NodeSpec{
			Key:        n.Name,
			Content:    n.Content,
			Marks:      n.Marks,
			Group:      n.Group,
			Inline:     n.Inline,
			Atom:       n.Atom,
			Defining:   n.Defining,
			Isolating:  n.Isolating,
			Whitespace: n.Whitespace,
			Attrs:      toAttrSpecs(n.Attrs),
		})
	}
	for _, m := range doc.Marks {
		spec.Marks = append(spec.Marks, &model.MarkSpec{
			Key:       m.Name,
			Group:     m.Group,
			Inclusive: m.Inclusive,
			Excludes:  m.Excludes,
			Attrs:     toAttrSpecs(m.Attrs),
		})
	}
	return model.NewSchema(spec)
}

func toAttrSpecs(in map[string]AttributeSpec) map[string]*model.AttributeSpec {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]*model.AttributeSpec, len(in))
	for name, a := range in {
		out[name] = &model.AttributeSpec{
			Default:    a.Default,
			HasDefault: !a.Required,
		}
	}
	return out
}

// Save renders doc as YAML, writing it to w, so a Doc built in code or
// read with Load's YAML shape can be written back out as an editable
// document. There is no conversion from a compiled model.Schema to a Doc.
func Save(w io.Writer, doc *Doc) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(doc)
}

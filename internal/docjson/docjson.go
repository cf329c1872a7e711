// Package docjson implements the document's JSON wire format:
// {"type": ..., "attrs": ..., "content": [...], "marks": [...]} for
// element nodes and {"type": "text", "text": ..., "marks": [...]} for
// text nodes, schema-checked on decode.
package docjson

import (
	"encoding/json"
	"fmt"

	"github.com/eykd/prosedoc/internal/model"
)

type nodeJSON struct {
	Type    string          `json:"type"`
	Attrs   model.Attrs     `json:"attrs,omitempty"`
	Content []nodeJSON      `json:"content,omitempty"`
	Marks   []markJSON      `json:"marks,omitempty"`
	Text    string          `json:"text,omitempty"`
}

type markJSON struct {
	Type  string      `json:"type"`
	Attrs model.Attrs `json:"attrs,omitempty"`
}

// Encode marshals n (typically a document's top node) to the wire format.
func Encode(n *model.Node) ([]byte, error) {
	return json.Marshal(toJSON(n))
}

func toJSON(n *model.Node) nodeJSON {
	out := nodeJSON{Type: n.Type.Name}
	if len(n.Attrs) > 0 {
		out.Attrs = n.Attrs
	}
	if n.IsText() {
		out.Text = n.Text()
	} else {
		n.Content.ForEach(func(child *model.Node, offset, index int) {
			out.Content = append(out.Content, toJSON(child))
		})
	}
	for _, m := range n.Marks {
		out.Marks = append(out.Marks, markJSON{Type: m.Type.Name, Attrs: m.Attrs})
	}
	return out
}

// Decode unmarshals data against schema, validating every node/mark type
// name and attribute along the way.
func Decode(schema *model.Schema, data []byte) (*model.Node, error) {
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("docjson: %w", err)
	}
	return fromJSON(schema, &raw)
}

// normalizeAttrs converts whole-number float64s produced by
// encoding/json's untyped number decoding back to int, so attribute
// values like "level" or "order" round-trip as the int the schema's
// AttributeSpec defaults were declared with.
func normalizeAttrs(attrs model.Attrs) model.Attrs {
	for k, v := range attrs {
		if f, ok := v.(float64); ok && f == float64(int(f)) {
			attrs[k] = int(f)
		}
	}
	return attrs
}

func fromJSON(schema *model.Schema, raw *nodeJSON) (*model.Node, error) {
	marks, err := decodeMarks(schema, raw.Marks)
	if err != nil {
		return nil, err
	}

	if raw.Type == "text" {
		if raw.Text == "" {
			return nil, fmt.Errorf("%w: text node with empty text", model.ErrInvalidContent)
		}
		return schema.Text(raw.Text, marks)
	}

	var children []*model.Node
	for i := range raw.Content {
		child, err := fromJSON(schema, &raw.Content[i])
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	content, err := model.NewFragment(children)
	if err != nil {
		return nil, err
	}
	node, err := schema.Node(raw.Type, normalizeAttrs(raw.Attrs), content, marks)
	if err != nil {
		return nil, fmt.Errorf("docjson: node %q: %w", raw.Type, err)
	}
	return node, nil
}

func decodeMarks(schema *model.Schema, raw []markJSON) (model.MarkSet, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var marks []*model.Mark
	for _, mj := range raw {
		mt, ok := schema.Marks[mj.Type]
		if !ok {
			return nil, fmt.Errorf("%w: mark %q", model.ErrUnknownType, mj.Type)
		}
		m, err := mt.Create(normalizeAttrs(mj.Attrs))
		if err != nil {
			return nil, err
		}
		marks = append(marks, m)
	}
	return model.SortMarks(marks), nil
}

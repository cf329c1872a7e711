// Package domserializer walks a document and renders it into a target
// domtree via a per-node-type output specification.
package domserializer

import (
	"fmt"

	"github.com/eykd/prosedoc/internal/domtree"
	"github.com/eykd/prosedoc/internal/model"
)

// Spec is the tagged variant a NodeSpecFunc/MarkSpecFunc returns: exactly
// one of Text, External, or Elem is set. Hole marks the single point
// within an Elem's Children where the node's own content (or, for marks,
// the marked content) is rendered. A spec for a mark or for a node with
// content has exactly one hole, which may be nested arbitrarily deep inside
// wrapper elements; a leaf node's spec has none.
type Spec struct {
	Text     string
	External domtree.Node
	Elem     *ElemSpec
	IsHole   bool
}

// ElemSpec describes an element to create, its attributes, and its
// children (each itself a Spec, so holes can nest inside wrapper markup).
type ElemSpec struct {
	Name     string
	Attrs    map[string]string
	Children []Spec
}

// TextSpec builds a Spec rendering literal text.
func TextSpec(s string) Spec { return Spec{Text: s} }

// ExternalSpec builds a Spec that copies an existing DOM node verbatim.
func ExternalSpec(n domtree.Node) Spec { return Spec{External: n} }

// Elem builds a Spec rendering an element with the given children.
func Elem(name string, attrs map[string]string, children ...Spec) Spec {
	return Spec{Elem: &ElemSpec{Name: name, Attrs: attrs, Children: children}}
}

// Hole is the content-hole marker.
var Hole = Spec{IsHole: true}

// NodeSpecFunc computes the output Spec for a node.
type NodeSpecFunc func(n *model.Node) (Spec, error)

// MarkSpecFunc computes the output Spec wrapping marked content. inline
// reports whether the mark is being rendered around inline content, as
// opposed to a hypothetical block-level mark; marks are scoped to inline
// content today, so this is always true and kept for symmetry with
// NodeSpecFunc's signature.
type MarkSpecFunc func(m *model.Mark, inline bool) (Spec, error)

// DOMSerializer renders model.Node/Fragment values into a domtree.Builder
// target, one node-type/mark-type output Spec at a time.
type DOMSerializer struct {
	Schema *model.Schema
	Nodes  map[string]NodeSpecFunc
	Marks  map[string]MarkSpecFunc
}

// SerializeNode renders a single node (and its content) into target,
// wrapped in the output specs of the node's own marks. No mark stack is
// kept across nodes: each node gets its own mark wrappers.
func (s *DOMSerializer) SerializeNode(b domtree.Builder, n *model.Node) (domtree.MutableNode, error) {
	fn, ok := s.Nodes[n.Type.Name]
	if !ok {
		return nil, fmt.Errorf("domserializer: no output spec for node type %q", n.Type.Name)
	}
	spec, err := fn(n)
	if err != nil {
		return nil, err
	}
	var content domtree.MutableNode
	if !n.IsLeaf() {
		content, err = s.serializeContent(b, n.Content)
		if err != nil {
			return nil, err
		}
	}
	rendered, err := s.renderSpec(b, spec, content)
	if err != nil {
		return nil, err
	}
	return s.wrapMarks(b, n.Marks, rendered)
}

// SerializeFragment renders every child of frag into a single detached
// fragment node, wrapping each child in its own marks. Adjacent children
// that share a mark get separate wrapper elements; they are not merged
// under one.
func (s *DOMSerializer) SerializeFragment(b domtree.Builder, frag *model.Fragment) (domtree.MutableNode, error) {
	return s.serializeContent(b, frag)
}

func (s *DOMSerializer) serializeContent(b domtree.Builder, frag *model.Fragment) (domtree.MutableNode, error) {
	root := b.CreateFragment()
	var err error
	frag.ForEach(func(child *model.Node, offset, index int) {
		if err != nil {
			return
		}
		var rendered domtree.MutableNode
		if child.IsText() {
			rendered, err = s.serializeText(b, child)
		} else {
			rendered, err = s.SerializeNode(b, child)
		}
		if err == nil && rendered != nil {
			root.AppendChild(rendered)
		}
	})
	if err != nil {
		return nil, err
	}
	return root, nil
}

func (s *DOMSerializer) serializeText(b domtree.Builder, n *model.Node) (domtree.MutableNode, error) {
	text := b.CreateText(n.Text())
	return s.wrapMarks(b, n.Marks, text)
}

// wrapMarks wraps rendered in each of n's marks' output specs, innermost
// mark first: the mark closest to the text sits nearest it.
func (s *DOMSerializer) wrapMarks(b domtree.Builder, marks model.MarkSet, rendered domtree.MutableNode) (domtree.MutableNode, error) {
	for i := len(marks) - 1; i >= 0; i-- {
		m := marks[i]
		fn, ok := s.Marks[m.Type.Name]
		if !ok {
			continue
		}
		spec, err := fn(m, true)
		if err != nil {
			return nil, err
		}
		rendered, err = s.renderSpec(b, spec, rendered)
		if err != nil {
			return nil, err
		}
	}
	return rendered, nil
}

// renderSpec materializes spec into the target tree, substituting content
// at the single Hole it may contain. A non-leaf Spec with no Hole anywhere
// in it is an error: silently dropping a node's content would be a worse
// surprise than failing loudly.
func (s *DOMSerializer) renderSpec(b domtree.Builder, spec Spec, content domtree.MutableNode) (domtree.MutableNode, error) {
	switch {
	case spec.IsHole:
		if content == nil {
			return nil, fmt.Errorf("domserializer: content hole used where no content was available")
		}
		return content, nil
	case spec.External != nil:
		if mn, ok := spec.External.(domtree.MutableNode); ok {
			return mn, nil
		}
		return nil, fmt.Errorf("domserializer: external node is not appendable into this target tree")
	case spec.Elem != nil:
		el := b.CreateElement(spec.Elem.Name)
		for k, v := range spec.Elem.Attrs {
			el.SetAttr(k, v)
		}
		holeSeen := false
		for _, child := range spec.Elem.Children {
			var childContent domtree.MutableNode
			if specHasHole(child) {
				holeSeen = true
				childContent = content
			}
			rendered, err := s.renderSpec(b, child, childContent)
			if err != nil {
				return nil, err
			}
			el.AppendChild(rendered)
		}
		if content != nil && !holeSeen {
			return nil, fmt.Errorf("domserializer: element spec %q has content but no hole", spec.Elem.Name)
		}
		return el, nil
	default:
		return b.CreateText(spec.Text), nil
	}
}

// specHasHole reports whether spec is the Hole or contains it at any depth.
func specHasHole(spec Spec) bool {
	if spec.IsHole {
		return true
	}
	if spec.Elem != nil {
		for _, child := range spec.Elem.Children {
			if specHasHole(child) {
				return true
			}
		}
	}
	return false
}

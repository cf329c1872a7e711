// Package domtree abstracts the source tree a DOM parser reads from and
// the target tree a serializer writes to, so internal/domparser and
// internal/domserializer need not depend on any one concrete DOM
// implementation.
package domtree

// NodeKind distinguishes the handful of DOM node kinds the parser and
// serializer care about; comments, processing instructions, and the rest
// of the DOM's node taxonomy are irrelevant here.
type NodeKind int

const (
	KindElement NodeKind = iota
	KindText
	KindDocumentFragment
)

// Node is the shape both a parse source and a serialize target implement.
type Node interface {
	// Kind reports whether this is an element, text node, or fragment root.
	Kind() NodeKind

	// TagName is the lowercased element tag name ("" for non-elements).
	TagName() string

	// NamespaceURI is the element's XML namespace ("" for the default
	// HTML namespace and for non-elements), e.g. "http://www.w3.org/2000/svg".
	NamespaceURI() string

	// TextContent is the node's text ("" for elements/fragments).
	TextContent() string

	// Attr returns the value of attribute name and whether it was present.
	Attr(name string) (string, bool)

	// Style returns the value of CSS property name from a style attribute,
	// normalized ("prop: value;" -> trimmed "value"), and whether present.
	Style(name string) (string, bool)

	// ChildNodes returns this node's direct children in document order.
	ChildNodes() []Node

	// Parent returns this node's parent, or nil at the root.
	Parent() Node

	// Matches reports whether this node matches the given CSS selector.
	Matches(selector string) bool

	// Contains reports whether other is this node or a descendant of it.
	Contains(other Node) bool
}

// Builder constructs a new tree; serializers write into a Builder instead
// of mutating a source Node in place.
type Builder interface {
	// CreateElement creates a detached element node.
	CreateElement(tag string) MutableNode

	// CreateText creates a detached text node.
	CreateText(text string) MutableNode

	// CreateFragment creates a detached fragment root.
	CreateFragment() MutableNode
}

// MutableNode is a Node under construction: append-only, matching the
// serializer's single top-down pass.
type MutableNode interface {
	Node

	// AppendChild appends child as this node's last child.
	AppendChild(child MutableNode)

	// SetAttr sets an attribute on an element node.
	SetAttr(name, value string)
}

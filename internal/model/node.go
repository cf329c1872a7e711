package model

import "fmt"

// Node is an immutable element of a document tree: a NodeType, an attribute
// map, a Fragment of children, and a mark set. Text nodes additionally
// carry a non-empty string and have an empty Content fragment.
//
// Nodes are never mutated after construction; editing operations return new
// Node values that share unmodified structure with the old ones.
type Node struct {
	Type    *NodeType
	Attrs   Attrs
	Content *Fragment
	Marks   MarkSet

	text   string
	isText bool
}

// NewNode constructs a non-text node. Callers should generally go through
// NodeType.Create rather than calling this directly, so that attrs and
// content are validated against the schema.
func NewNode(typ *NodeType, attrs Attrs, content *Fragment, marks MarkSet) *Node {
	if content == nil {
		content = EmptyFragment
	}
	return &Node{Type: typ, Attrs: attrs, Content: content, Marks: marks}
}

// NewTextNode constructs a text node. text must be non-empty.
func NewTextNode(typ *NodeType, attrs Attrs, text string, marks MarkSet) *Node {
	return &Node{Type: typ, Attrs: attrs, Content: EmptyFragment, Marks: marks, text: text, isText: true}
}

// IsText reports whether this is a text node.
func (n *Node) IsText() bool { return n.isText }

// Text returns the node's text content ("" for non-text nodes).
func (n *Node) Text() string { return n.text }

func (n *Node) withText(text string) *Node {
	if text == n.text {
		return n
	}
	return NewTextNode(n.Type, n.Attrs, text, n.Marks)
}

// NodeSize is the size of this node under the integer position scheme: the
// text length for text nodes, 1 for other leaves, content.Size+2 otherwise.
func (n *Node) NodeSize() int {
	if n.IsText() {
		return len([]rune(n.text))
	}
	if n.IsLeaf() {
		return 1
	}
	return 2 + n.Content.Size
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int { return n.Content.ChildCount() }

// Child returns the child at index.
func (n *Node) Child(index int) (*Node, error) { return n.Content.Child(index) }

// MaybeChild returns the child at index, or nil if out of range.
func (n *Node) MaybeChild(index int) *Node { return n.Content.MaybeChild(index) }

// FirstChild returns the node's first child, or nil.
func (n *Node) FirstChild() *Node { return n.Content.FirstChild() }

// LastChild returns the node's last child, or nil.
func (n *Node) LastChild() *Node { return n.Content.LastChild() }

// IsBlock reports whether this is a block (non-inline) node.
func (n *Node) IsBlock() bool { return n.Type.IsBlock() }

// IsInline reports whether this is inline content: a text node or a node
// type marked inline.
func (n *Node) IsInline() bool { return n.Type.IsInline() }

// IsLeaf reports whether this node type allows no content.
func (n *Node) IsLeaf() bool { return n.Type.IsLeaf() }

// IsTextblock reports whether this is a block node whose content is
// entirely inline (a paragraph, heading, ...).
func (n *Node) IsTextblock() bool { return n.Type.IsTextblock() }

// IsAtom reports whether this node should be treated as a single unit
// (spec says "no content"), regardless of whether it technically has any.
func (n *Node) IsAtom() bool { return n.Type.IsAtom() }

// NodesBetween visits descendant nodes between from and to, both relative
// to this node's own content start.
func (n *Node) NodesBetween(from, to int, fn NBCallback) {
	n.Content.NodesBetween(from, to, 0, n, fn)
}

// TextContent concatenates all text found in this node and its descendants.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.text
	}
	return n.TextBetween(0, n.Content.Size, "", "")
}

// TextBetween gets all text between from and to, inserting blockSeparator
// at block boundaries and leafText for non-text leaves.
func (n *Node) TextBetween(from, to int, blockSeparator, leafText string) string {
	if n.IsText() {
		return string([]rune(n.text)[from:to])
	}
	return n.Content.textBetween(from, to, blockSeparator, leafText)
}

// Eq reports whether two nodes represent the same document content.
func (n *Node) Eq(other *Node) bool {
	if n == other {
		return true
	}
	if other == nil {
		return false
	}
	if n.IsText() != other.IsText() {
		return false
	}
	if n.IsText() {
		return n.text == other.text && n.Type == other.Type && SameMarkSet(n.Marks, other.Marks) && n.Attrs.Equal(other.Attrs)
	}
	return n.SameMarkup(other) && n.Content.Eq(other.Content)
}

// SameMarkup reports whether n and other share type, attrs, and marks.
func (n *Node) SameMarkup(other *Node) bool {
	return n.HasMarkup(other.Type, other.Attrs, other.Marks)
}

// HasMarkup reports whether n's markup matches the given type, attrs, and marks.
func (n *Node) HasMarkup(typ *NodeType, attrs Attrs, marks MarkSet) bool {
	if n.Type != typ {
		return false
	}
	if !n.Attrs.Equal(attrs) {
		return false
	}
	return SameMarkSet(n.Marks, marks)
}

// Copy returns a new node with the same markup as n but with the given
// content (EmptyFragment if omitted).
func (n *Node) Copy(content *Fragment) *Node {
	if content == nil {
		content = EmptyFragment
	}
	if n.IsText() {
		return n
	}
	return NewNode(n.Type, n.Attrs, content, n.Marks)
}

// Mark returns a copy of n carrying the given mark set instead of its own.
func (n *Node) Mark(marks MarkSet) *Node {
	if SameMarkSet(n.Marks, marks) {
		return n
	}
	if n.IsText() {
		return NewTextNode(n.Type, n.Attrs, n.text, marks)
	}
	return NewNode(n.Type, n.Attrs, n.Content, marks)
}

// Cut returns a copy of n containing only the content between from and
// to. For text nodes this slices the string.
func (n *Node) Cut(from, to int) (*Node, error) {
	if n.IsText() {
		runes := []rune(n.text)
		if from == 0 && to == len(runes) {
			return n, nil
		}
		if from < 0 || to > len(runes) || from > to {
			return nil, fmt.Errorf("model: text cut [%d,%d) out of range", from, to)
		}
		return n.withText(string(runes[from:to])), nil
	}
	if from == 0 && to == n.Content.Size {
		return n, nil
	}
	cut, err := n.Content.Cut(from, to)
	if err != nil {
		return nil, err
	}
	return n.Copy(cut), nil
}

// String renders a debug form of n, e.g. paragraph(em("hi")).
func (n *Node) String() string {
	if n.IsText() {
		return wrapMarks(n.Marks, fmt.Sprintf("%q", n.text))
	}
	name := n.Type.Name
	if n.Content.Size > 0 {
		inner := ""
		n.Content.ForEach(func(child *Node, offset, index int) {
			if index > 0 {
				inner += ", "
			}
			inner += child.String()
		})
		name = fmt.Sprintf("%s(%s)", name, inner)
	}
	return wrapMarks(n.Marks, name)
}

func wrapMarks(marks MarkSet, s string) string {
	for i := len(marks) - 1; i >= 0; i-- {
		s = fmt.Sprintf("%s(%s)", marks[i].Type.Name, s)
	}
	return s
}

package model

import "fmt"

// ResolvedPos locates an integer document position within a node's tree:
// the chain of ancestor nodes from the root down to (but not including)
// the node the position is inside, their indices, and the offsets of each
// ancestor's start relative to the document root.
type ResolvedPos struct {
	Pos    int
	path   []resolveStep
	Depth  int
	ParentOffset int
}

type resolveStep struct {
	node   *Node
	index  int
	offset int // absolute position at the start of this ancestor's content
}

// Resolve walks doc's tree to build a ResolvedPos for pos: a depth-indexed
// path of (node, index, offset) triples describing where pos sits relative
// to each ancestor.
func Resolve(doc *Node, pos int) (*ResolvedPos, error) {
	if pos < 0 || pos > doc.Content.Size {
		return nil, fmt.Errorf("model: position %d out of range for document of size %d", pos, doc.Content.Size)
	}
	rp := &ResolvedPos{Pos: pos}
	node := doc
	start := 0
	remaining := pos
	for {
		index, offset, err := node.Content.findIndex(remaining)
		if err != nil {
			return nil, err
		}
		rp.path = append(rp.path, resolveStep{node: node, index: index, offset: start})
		rem := remaining - offset
		if rem == 0 {
			break
		}
		child := node.Content.MaybeChild(index)
		if child == nil || child.IsLeaf() || rem == child.NodeSize() {
			break
		}
		node = child
		start += offset + 1
		remaining = rem - 1
	}
	last := rp.path[len(rp.path)-1]
	rp.Depth = len(rp.path) - 1
	rp.ParentOffset = pos - last.offset
	return rp, nil
}

// Depth0Node etc. are accessed via Node(d).

// Node returns the ancestor at depth d (d<0 counts back from the deepest).
func (rp *ResolvedPos) Node(d int) *Node {
	return rp.path[rp.resolveDepth(d)].node
}

// Parent is the immediate parent of the resolved position (depth Depth).
func (rp *ResolvedPos) Parent() *Node { return rp.Node(rp.Depth) }

// Index returns the index of the child at depth d that the position is
// inside of. At the deepest level, when ParentOffset > 0, it is the child
// that contains the position or ends exactly at it; at ParentOffset 0 it
// is 0.
func (rp *ResolvedPos) Index(d int) int {
	return rp.path[rp.resolveDepth(d)].index
}

// IndexAfter returns Index(d), plus one at the deepest level (d == Depth)
// whenever ParentOffset > 0, since Index there names the child ending at
// or containing the position.
func (rp *ResolvedPos) IndexAfter(d int) int {
	d = rp.resolveDepth(d)
	idx := rp.path[d].index
	if d == rp.Depth && rp.ParentOffset > 0 {
		return idx + 1
	}
	return idx
}

// Start returns the absolute position at the start of ancestor d's content.
func (rp *ResolvedPos) Start(d int) int {
	return rp.path[rp.resolveDepth(d)].offset
}

// End returns the absolute position at the end of ancestor d's content.
func (rp *ResolvedPos) End(d int) int {
	return rp.Start(d) + rp.Node(d).Content.Size
}

// Before returns the absolute position directly before ancestor d (its
// opening token).
func (rp *ResolvedPos) Before(d int) (int, error) {
	d = rp.resolveDepth(d)
	if d == 0 {
		return 0, fmt.Errorf("model: no position before the root")
	}
	if d == rp.Depth+1 {
		return rp.Pos, nil
	}
	return rp.Start(d) - 1, nil
}

// After returns the absolute position directly after ancestor d (its
// closing token).
func (rp *ResolvedPos) After(d int) (int, error) {
	d = rp.resolveDepth(d)
	if d == 0 {
		return 0, fmt.Errorf("model: no position after the root")
	}
	if d == rp.Depth+1 {
		return rp.Pos, nil
	}
	return rp.End(d) + 1, nil
}

// TextOffset is an alias kept for readability at call sites: ParentOffset
// is the position's offset within Parent()'s content.
func (rp *ResolvedPos) TextOffset() int { return rp.ParentOffset }

// NodeBefore returns the node immediately before the resolved position
// within its parent, or nil at a parent's start.
func (rp *ResolvedPos) NodeBefore() *Node {
	index := rp.Index(rp.Depth)
	parent := rp.Parent()
	if rp.ParentOffset == 0 {
		if index == 0 {
			return nil
		}
		return parent.MaybeChild(index - 1)
	}
	return parent.MaybeChild(index)
}

// NodeAfter returns the node immediately after the resolved position
// within its parent, or nil at a parent's end.
func (rp *ResolvedPos) NodeAfter() *Node {
	parent, index := rp.Parent(), rp.Index(rp.Depth)
	if rp.ParentOffset > 0 {
		end := 0
		for i := 0; i <= index; i++ {
			if c := parent.MaybeChild(i); c != nil {
				end += c.NodeSize()
			}
		}
		if end > rp.ParentOffset {
			return parent.MaybeChild(index)
		}
	}
	return parent.MaybeChild(rp.IndexAfter(rp.Depth))
}

// Marks returns the set of marks active at this position: the marks
// shared by the node before and after, or the node-before's marks alone
// at a block boundary's edge, narrowed by each mark type's
// inclusive/non-inclusive setting.
func (rp *ResolvedPos) Marks() MarkSet {
	before, after := rp.NodeBefore(), rp.NodeAfter()
	if before == nil && after == nil {
		return rp.Parent().Marks
	}
	if before == nil {
		return after.Marks
	}
	if after == nil {
		return before.Marks
	}
	if !before.IsText() && !after.IsText() {
		return before.Marks
	}
	var out MarkSet
	for _, m := range before.Marks {
		if m.Type.Inclusive || after.Marks.IsInSet(m.Type) {
			out = append(out, m)
		}
	}
	return out
}

func (rp *ResolvedPos) resolveDepth(d int) int {
	if d < 0 {
		return rp.Depth + d + 1
	}
	return d
}

// NodeRange describes a range spanning the children of a single shared
// ancestor, between two resolved positions; used by wrapping and lifting
// operations that need to address a contiguous run of sibling nodes.
type NodeRange struct {
	From, To       *ResolvedPos
	Depth          int
}

// StartIndex is the index of the first covered child at Depth.
func (r *NodeRange) StartIndex() int { return r.From.Index(r.Depth) }

// EndIndex is the index just past the last covered child at Depth.
func (r *NodeRange) EndIndex() int { return r.To.IndexAfter(r.Depth) }

// Parent is the ancestor the range's children live inside.
func (r *NodeRange) Parent() *Node { return r.From.Node(r.Depth) }

// BlockRange finds the deepest NodeRange whose parent fully contains
// [from,to) and (if the parent is not a textblock) is itself a block.
func BlockRange(from, to *ResolvedPos) (*NodeRange, error) {
	if to.Pos < from.Pos {
		return nil, fmt.Errorf("model: range end before start")
	}
	depth := from.sharedDepth(to.Pos)
	for depth > 0 {
		parent := from.Node(depth)
		if !parent.IsTextblock() && (from.Index(depth) != to.Index(depth) || from.Node(depth+1) == nil) {
			break
		}
		depth--
	}
	return &NodeRange{From: from, To: to, Depth: depth}, nil
}

func (rp *ResolvedPos) sharedDepth(pos int) int {
	for d := rp.Depth; d > 0; d-- {
		if rp.Start(d) <= pos && rp.End(d) >= pos {
			return d
		}
	}
	return 0
}

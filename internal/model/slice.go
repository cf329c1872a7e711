package model

import "fmt"

// Slice is a fragment of document content together with information about
// how deep its open ends reach into the surrounding structure — the unit
// that Replace splices into a document.
type Slice struct {
	Content           *Fragment
	OpenStart, OpenEnd int
}

// EmptySlice is the slice with no content and no open ends.
var EmptySlice = &Slice{Content: EmptyFragment}

// NewSlice constructs a Slice, defaulting a nil content to EmptyFragment.
func NewSlice(content *Fragment, openStart, openEnd int) *Slice {
	if content == nil {
		content = EmptyFragment
	}
	return &Slice{Content: content, OpenStart: openStart, OpenEnd: openEnd}
}

// Size is the slice's content size minus its open depths: how much the
// slice actually inserts once its open ends are joined to their
// surroundings.
func (s *Slice) Size() int {
	return s.Content.Size - s.OpenStart - s.OpenEnd
}

// Eq reports structural equality between two slices.
func (s *Slice) Eq(other *Slice) bool {
	return s.Content.Eq(other.Content) && s.OpenStart == other.OpenStart && s.OpenEnd == other.OpenEnd
}

// Slice extracts the Slice spanning [from,to) of n's content, tracking the
// open depth that results from cutting through ancestors on each side.
func (n *Node) Slice(from, to int, includeParents bool) (*Slice, error) {
	if to < from {
		return nil, fmt.Errorf("model: slice end %d before start %d", to, from)
	}
	if from == to {
		return EmptySlice, nil
	}
	fromRP, err := Resolve(n, from)
	if err != nil {
		return nil, err
	}
	toRP, err := Resolve(n, to)
	if err != nil {
		return nil, err
	}
	depth := 0
	if !includeParents {
		depth = fromRP.sharedDepth(to)
	}
	start := fromRP.Start(depth)
	node := fromRP.Node(depth)
	content, err := node.Content.Cut(fromRP.Pos-start, toRP.Pos-start)
	if err != nil {
		return nil, err
	}
	return &Slice{Content: content, OpenStart: fromRP.Depth - depth, OpenEnd: toRP.Depth - depth}, nil
}

// MaxOpen computes the greatest depth to which frag's leading and
// trailing edges could be considered "open" (every first/last descendant
// chain down to a leaf), capped by openIsolating.
func MaxOpen(frag *Fragment, openIsolating bool) (openStart, openEnd int) {
	for node := frag.FirstChild(); node != nil && !node.IsLeaf() && (openIsolating || !node.Type.isolating); node = node.FirstChild() {
		openStart++
	}
	for node := frag.LastChild(); node != nil && !node.IsLeaf() && (openIsolating || !node.Type.isolating); node = node.LastChild() {
		openEnd++
	}
	return
}

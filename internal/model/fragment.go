package model

import "fmt"

// Fragment is an immutable, ordered sequence of child nodes with a
// precomputed total size (the sum of each child's NodeSize).
type Fragment struct {
	content []*Node
	Size    int
}

// EmptyFragment is the canonical fragment with no children.
var EmptyFragment = &Fragment{}

// NewFragment builds a Fragment from a slice of nodes, merging adjacent
// text nodes that carry equal mark sets and rejecting empty text nodes.
func NewFragment(nodes []*Node) (*Fragment, error) {
	if len(nodes) == 0 {
		return EmptyFragment, nil
	}
	merged := make([]*Node, 0, len(nodes))
	size := 0
	for _, n := range nodes {
		if n.IsText() && n.Text() == "" {
			return nil, fmt.Errorf("%w: empty text node", ErrInvalidContent)
		}
		if len(merged) > 0 {
			last := merged[len(merged)-1]
			if last.IsText() && n.IsText() && SameMarkSet(last.Marks, n.Marks) && last.Type == n.Type {
				merged[len(merged)-1] = last.withText(last.Text() + n.Text())
				size += n.NodeSize()
				continue
			}
		}
		merged = append(merged, n)
		size += n.NodeSize()
	}
	return &Fragment{content: merged, Size: size}, nil
}

// FragmentFromNode wraps a single node in a one-element fragment.
func FragmentFromNode(n *Node) *Fragment {
	if n == nil {
		return EmptyFragment
	}
	return &Fragment{content: []*Node{n}, Size: n.NodeSize()}
}

// ChildCount returns the number of direct children.
func (f *Fragment) ChildCount() int {
	if f == nil {
		return 0
	}
	return len(f.content)
}

// Child returns the child at index, or an error if index is out of range.
func (f *Fragment) Child(index int) (*Node, error) {
	if f == nil || index < 0 || index >= len(f.content) {
		return nil, fmt.Errorf("model: fragment index %d out of range", index)
	}
	return f.content[index], nil
}

// MaybeChild returns the child at index, or nil if out of range.
func (f *Fragment) MaybeChild(index int) *Node {
	n, err := f.Child(index)
	if err != nil {
		return nil
	}
	return n
}

// FirstChild returns the first child, or nil if the fragment is empty.
func (f *Fragment) FirstChild() *Node { return f.MaybeChild(0) }

// LastChild returns the last child, or nil if the fragment is empty.
func (f *Fragment) LastChild() *Node { return f.MaybeChild(f.ChildCount() - 1) }

// ForEach calls fn for each child with its offset and index.
func (f *Fragment) ForEach(fn func(child *Node, offset, index int)) {
	if f == nil {
		return
	}
	offset := 0
	for i, child := range f.content {
		fn(child, offset, i)
		offset += child.NodeSize()
	}
}

// findIndex locates offset pos relative to this fragment's start: it
// returns the index of the first child that contains pos or ends exactly
// at it, together with that child's start offset. pos 0 gives (0, 0).
func (f *Fragment) findIndex(pos int) (index, offset int, err error) {
	if f == nil || pos == 0 {
		return 0, 0, nil
	}
	if pos < 0 || pos > f.Size {
		return 0, 0, fmt.Errorf("model: position %d outside fragment of size %d", pos, f.Size)
	}
	curPos := 0
	for i, child := range f.content {
		end := curPos + child.NodeSize()
		if end >= pos {
			return i, curPos, nil
		}
		curPos = end
	}
	return len(f.content), curPos, nil
}

// Cut returns the Fragment containing the content between offsets from and
// to (exclusive), splitting text nodes at the boundaries.
func (f *Fragment) Cut(from, to int) (*Fragment, error) {
	if f == nil {
		f = EmptyFragment
	}
	if from == 0 && to == f.Size {
		return f, nil
	}
	var result []*Node
	pos := 0
	for _, child := range f.content {
		size := child.NodeSize()
		if pos < to && pos+size > from {
			start := from - pos
			end := size - (pos + size - to)
			if start > 0 || end < size {
				var err error
				if child.IsText() {
					lo, hi := start, end
					if lo < 0 {
						lo = 0
					}
					if hi > size {
						hi = size
					}
					runes := []rune(child.Text())
					child = child.withText(string(runes[lo:hi]))
				} else {
					// start/end are offsets into the child's own NodeSize
					// (which counts its opening and closing boundary
					// tokens); Node.Cut and Content.Size both work in
					// offsets into the child's *content*, one past the
					// opening token, so both ends shift in by 1.
					child, err = child.Cut(max0(start-1), min(end-1, child.Content.Size))
					if err != nil {
						return nil, err
					}
				}
			}
			result = append(result, child)
		}
		pos += size
	}
	return NewFragment(result)
}

func max0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Append concatenates two fragments, merging a trailing/leading text-node
// boundary when both sides carry equal marks.
func (f *Fragment) Append(other *Fragment) (*Fragment, error) {
	if f == nil || f.ChildCount() == 0 {
		return other, nil
	}
	if other == nil || other.ChildCount() == 0 {
		return f, nil
	}
	nodes := make([]*Node, 0, f.ChildCount()+other.ChildCount())
	nodes = append(nodes, f.content...)
	nodes = append(nodes, other.content...)
	return NewFragment(nodes)
}

// ReplaceChild returns a copy of f with the child at index replaced.
func (f *Fragment) ReplaceChild(index int, n *Node) (*Fragment, error) {
	old, err := f.Child(index)
	if err != nil {
		return nil, err
	}
	if old == n {
		return f, nil
	}
	nodes := make([]*Node, f.ChildCount())
	copy(nodes, f.content)
	nodes[index] = n
	return NewFragment(nodes)
}

// AddToEnd returns a copy of f with n appended as the last child.
func (f *Fragment) AddToEnd(n *Node) (*Fragment, error) {
	return f.Append(FragmentFromNode(n))
}

// AddToStart returns a copy of f with n prepended as the first child.
func (f *Fragment) AddToStart(n *Node) (*Fragment, error) {
	return FragmentFromNode(n).Append(f)
}

// Eq reports deep structural equality between two fragments.
func (f *Fragment) Eq(other *Fragment) bool {
	if f == other {
		return true
	}
	if f.ChildCount() != other.ChildCount() {
		return false
	}
	for i, child := range f.content {
		if !child.Eq(other.content[i]) {
			return false
		}
	}
	return true
}

// FindDiffStart returns the smallest absolute offset at which f and other
// differ by node type, attrs, marks, or (for text) content, or -1 if equal.
func (f *Fragment) FindDiffStart(other *Fragment) int {
	i, j := 0, 0
	pos := 0
	for {
		if i == f.ChildCount() || j == other.ChildCount() {
			if f.ChildCount() == other.ChildCount() {
				return -1
			}
			return pos
		}
		a, b := f.content[i], other.content[j]
		if a == b {
			pos += a.NodeSize()
			i++
			j++
			continue
		}
		if !a.SameMarkup(b) {
			return pos
		}
		if a.IsText() {
			at, bt := a.Text(), b.Text()
			minLen := len([]rune(at))
			if bl := len([]rune(bt)); bl < minLen {
				minLen = bl
			}
			ar, br := []rune(at), []rune(bt)
			for k := 0; k < minLen; k++ {
				if ar[k] != br[k] {
					return pos + k
				}
			}
			if len(ar) != len(br) {
				return pos + minLen
			}
			pos += a.NodeSize()
			i++
			j++
			continue
		}
		if a.Content.Size != 0 || b.Content.Size != 0 {
			if d := a.Content.FindDiffStart(b.Content); d != -1 {
				return pos + 1 + d
			}
		}
		pos += a.NodeSize()
		i++
		j++
	}
}

// FindDiffEnd is the symmetric operation from the end of both fragments. It
// returns (-1,-1) if equal, otherwise the absolute end offsets (aEnd, bEnd)
// in each fragment at which the trailing-equal run stops.
func (f *Fragment) FindDiffEnd(other *Fragment) (aEnd, bEnd int) {
	i, j := f.ChildCount(), other.ChildCount()
	posA, posB := f.Size, other.Size
	for {
		if i == 0 || j == 0 {
			if i == 0 && j == 0 {
				return -1, -1
			}
			return posA, posB
		}
		a, b := f.content[i-1], other.content[j-1]
		size := a.NodeSize()
		if a == b {
			posA -= size
			posB -= size
			i--
			j--
			continue
		}
		if !a.SameMarkup(b) {
			return posA, posB
		}
		if a.IsText() {
			at, bt := []rune(a.Text()), []rune(b.Text())
			same := 0
			for same < len(at) && same < len(bt) && at[len(at)-1-same] == bt[len(bt)-1-same] {
				same++
			}
			posA -= same
			posB -= same
			if same < len(at) || same < len(bt) {
				return posA, posB
			}
			i--
			j--
			continue
		}
		if a.Content.Size != 0 || b.Content.Size != 0 {
			endA, endB := a.Content.FindDiffEnd(b.Content)
			if endA != -1 {
				return posA - size + 1 + endA, posB - size + 1 + endB
			}
		}
		posA -= size
		posB -= size
		i--
		j--
	}
}

// NBCallback is invoked for each descendant visited by NodesBetween. Return
// false to skip descending into that node's children.
type NBCallback func(n *Node, pos int, parent *Node, index int) bool

// NodesBetween visits descendant nodes recursively between from and to,
// offsets relative to startPos (the fragment's own absolute start).
func (f *Fragment) NodesBetween(from, to int, startPos int, parent *Node, fn NBCallback) {
	if f == nil {
		return
	}
	pos := 0
	for i, child := range f.content {
		end := pos + child.NodeSize()
		if end > from && pos < to {
			childStart := startPos + pos + 1
			descend := fn(child, startPos+pos, parent, i)
			if descend && !child.IsLeaf() {
				child.Content.NodesBetween(max0(from-pos-1), min(to-pos-1, child.Content.Size), childStart, child, fn)
			}
		}
		pos = end
	}
}

// textBetween concatenates text content between from and to, inserting
// blockSeparator at block boundaries and leafText for non-text leaves.
func (f *Fragment) textBetween(from, to int, blockSeparator, leafText string) string {
	out := ""
	first := true
	f.NodesBetween(from, to, 0, nil, func(n *Node, pos int, parent *Node, index int) bool {
		var piece string
		switch {
		case n.IsText():
			lo, hi := 0, len([]rune(n.Text()))
			if pos < from {
				lo = from - pos
			}
			if pos+n.NodeSize() > to {
				hi = to - pos
			}
			piece = string([]rune(n.Text())[lo:hi])
		case n.IsLeaf() && leafText != "":
			piece = leafText
		case !first && blockSeparator != "" && n.Type.IsBlock():
			piece = blockSeparator
		default:
			piece = ""
		}
		if piece != "" {
			first = false
		}
		out += piece
		return true
	})
	return out
}

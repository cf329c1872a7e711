package model

import "fmt"

// ReplaceErrorKind classifies why a Replace call was rejected.
type ReplaceErrorKind int

const (
	// InconsistentOpenDepths: the slice's open ends don't reach far enough
	// to match the depths implied by from/to.
	InconsistentOpenDepths ReplaceErrorKind = iota
	// CannotJoin: content on either side of the splice could not be
	// joined into a single valid node.
	CannotJoin
	// DeeperThanParent: the slice is open deeper than the common ancestor
	// of from and to actually nests.
	DeeperThanParent
	// InvalidContent: the spliced-together result fails schema validation.
	InvalidContent
)

// ReplaceError reports why Replace rejected an edit.
type ReplaceError struct {
	Kind ReplaceErrorKind
	Msg  string
}

func (e *ReplaceError) Error() string { return "model: replace: " + e.Msg }

func replaceErr(kind ReplaceErrorKind, format string, args ...interface{}) error {
	return &ReplaceError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Replace splices slice into n's content between from and to, returning
// the resulting node: descend the shared-depth path, join the slice's open
// ends against the matching document depths, and refill any content
// required to keep every ancestor schema-valid.
func (n *Node) Replace(from, to int, slice *Slice) (*Node, error) {
	if slice == nil {
		slice = EmptySlice
	}
	fromRP, err := Resolve(n, from)
	if err != nil {
		return nil, err
	}
	toRP, err := Resolve(n, to)
	if err != nil {
		return nil, err
	}
	return replaceRange(fromRP, toRP, slice)
}

func replaceRange(from, to *ResolvedPos, slice *Slice) (*Node, error) {
	if slice.OpenStart > from.Depth {
		return nil, replaceErr(InconsistentOpenDepths, "slice's open start %d exceeds from-depth %d", slice.OpenStart, from.Depth)
	}
	if slice.OpenEnd > to.Depth {
		return nil, replaceErr(InconsistentOpenDepths, "slice's open end %d exceeds to-depth %d", slice.OpenEnd, to.Depth)
	}

	rp := &replacer{from: from, to: to, slice: slice}
	return rp.run()
}

type replacer struct {
	from, to *ResolvedPos
	slice    *Slice
}

func (rp *replacer) run() (*Node, error) {
	from, to, slice := rp.from, rp.to, rp.slice

	depth := from.sharedDepth(to.Pos)
	// Step back while the ancestor at depth does not span both positions.
	// The splice depth does not depend on the slice; its open depths only
	// decide whether the seams are joined (see close).
	for depth > 0 && (from.Start(depth) > from.Pos || to.End(depth) < to.Pos) {
		depth--
	}

	root := from.Node(0)

	var place func(node *Node, d int) (*Node, error)
	place = func(node *Node, d int) (*Node, error) {
		if d == depth {
			return rp.close(node, from, to, slice)
		}
		startIdx := from.Index(d)
		child := node.MaybeChild(startIdx)
		if child == nil {
			return nil, replaceErr(DeeperThanParent, "no child at index %d depth %d", startIdx, d)
		}
		newChild, err := place(child, d+1)
		if err != nil {
			return nil, err
		}
		newContent, err := node.Content.ReplaceChild(startIdx, newChild)
		if err != nil {
			return nil, err
		}
		return node.Copy(newContent), nil
	}

	return place(root, 0)
}

// close performs the actual splice at the shared depth: cut out
// [fromOffset,toOffset) of parent's content and insert slice.Content in
// its place, joining boundary nodes and refilling as required.
func (rp *replacer) close(parent *Node, from, to *ResolvedPos, slice *Slice) (*Node, error) {
	depth := from.sharedDepth(to.Pos)
	for depth > 0 && (from.Start(depth) > from.Pos || to.End(depth) < to.Pos) {
		depth--
	}
	fromOffset := from.Pos - from.Start(depth)
	toOffset := to.Pos - to.Start(depth)

	before, err := parent.Content.Cut(0, fromOffset)
	if err != nil {
		return nil, err
	}
	after, err := parent.Content.Cut(toOffset, parent.Content.Size)
	if err != nil {
		return nil, err
	}

	inserted := slice.Content
	fromOpen := from.Depth > depth
	toOpen := to.Depth > depth

	merged, err := joinFragments(before, inserted, fromOpen, slice.OpenStart > 0)
	if err != nil {
		return nil, err
	}
	secondSeamLeftOpen := slice.OpenEnd > 0
	if inserted.ChildCount() == 0 {
		secondSeamLeftOpen = fromOpen
	}
	merged, err = joinFragments(merged, after, secondSeamLeftOpen, toOpen)
	if err != nil {
		return nil, err
	}

	if parent.Type.ContentMatch() != nil {
		end := parent.Type.ContentMatch().MatchFragment(merged, 0, merged.ChildCount())
		if end == nil || !end.ValidEnd {
			filled, err := refill(parent.Type, merged)
			if err != nil {
				return nil, replaceErr(InvalidContent, "%v", err)
			}
			merged = filled
		}
	}

	return parent.Copy(merged), nil
}

// joinFragments concatenates a and b. When both aOpen and bOpen are true,
// the two fragments meet at a seam that was genuinely torn open by the
// replace (a's last child and b's first child are the two remaining halves
// of what was, before the edit, a single node), so matching boundary node
// types are merged into one node instead of left as adjacent siblings:
// doc(blockquote(p("on<a>e"), p("t<b>wo"))) deleting [a,b) must rejoin the
// two paragraphs into blockquote(p("onwo")), not leave two half-paragraphs
// side by side. Text-node merging across the seam already falls out of
// Fragment.Append's own adjacent-text-node coalescing, so this only needs
// to handle non-text nodes.
func joinFragments(a, b *Fragment, aOpen, bOpen bool) (*Fragment, error) {
	if !aOpen || !bOpen || a.ChildCount() == 0 || b.ChildCount() == 0 {
		return a.Append(b)
	}
	last, first := a.LastChild(), b.FirstChild()
	if last.IsText() || first.IsText() || last.Type != first.Type || !last.SameMarkup(first) {
		return a.Append(b)
	}

	joinedContent, err := joinFragments(last.Content, first.Content, true, true)
	if err != nil {
		return nil, err
	}
	joined := last.Copy(joinedContent)

	aRest, err := NewFragment(a.content[:len(a.content)-1])
	if err != nil {
		return nil, err
	}
	bRest, err := NewFragment(b.content[1:])
	if err != nil {
		return nil, err
	}

	merged, err := aRest.AddToEnd(joined)
	if err != nil {
		return nil, err
	}
	return merged.Append(bRest)
}

// refill attempts to make content valid for parentType by inserting filler
// nodes via ContentMatch.FillBefore.
func refill(parentType *NodeType, content *Fragment) (*Fragment, error) {
	match := parentType.ContentMatch()
	end := match.MatchFragment(content, 0, content.ChildCount())
	if end != nil && end.ValidEnd {
		return content, nil
	}
	filler, err := match.FillBefore(content, true, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	return filler.Append(content)
}

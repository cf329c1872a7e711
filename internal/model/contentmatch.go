package model

import (
	"fmt"
	"sort"
	"strings"
)

// ContentMatch is one state of the DFA compiled from a node type's content
// expression. It records how much of the expression has been consumed: an
// ordered transition table to the next state for each acceptable child
// type, and whether stopping here satisfies the expression.
type ContentMatch struct {
	ValidEnd bool
	next     []contentMatchEdge
}

type contentMatchEdge struct {
	Type *NodeType
	Next *ContentMatch
}

// nameResolver maps a content-expression identifier to the node types it
// denotes: a single type for a type name, or the member set for a group
// name.
type nameResolver func(name string) ([]*NodeType, error)

// compileContentMatch parses and compiles expr into a DFA, using resolve to
// turn identifiers into concrete NodeTypes.
func compileContentMatch(expr string, resolve nameResolver) (*ContentMatch, error) {
	ast, err := parseContentExpr(expr)
	if err != nil {
		return nil, err
	}
	resolved, err := resolveContentExpr(ast, resolve)
	if err != nil {
		return nil, err
	}
	states, final, err := buildContentNFA(resolved)
	if err != nil {
		return nil, err
	}
	dfa := determinizeContentNFA(states, final)
	if err := checkNoDeadEnds(dfa); err != nil {
		return nil, err
	}
	return dfa, nil
}

// resolvedNameExpr replaces nameExpr in the AST with the concrete list of
// node types it denotes.
type resolvedNameExpr struct{ types []*NodeType }

func resolveContentExpr(e contentExpr, resolve nameResolver) (contentExpr, error) {
	switch expr := e.(type) {
	case *nameExpr:
		types, err := resolve(expr.name)
		if err != nil {
			return nil, err
		}
		return &resolvedNameExpr{types: types}, nil
	case *choiceExpr:
		out := make([]contentExpr, len(expr.exprs))
		for i, sub := range expr.exprs {
			r, err := resolveContentExpr(sub, resolve)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return &choiceExpr{exprs: out}, nil
	case *seqExpr:
		out := make([]contentExpr, len(expr.exprs))
		for i, sub := range expr.exprs {
			r, err := resolveContentExpr(sub, resolve)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return &seqExpr{exprs: out}, nil
	case *repeatExpr:
		r, err := resolveContentExpr(expr.expr, resolve)
		if err != nil {
			return nil, err
		}
		return &repeatExpr{expr: r, min: expr.min, max: expr.max}, nil
	default:
		return nil, fmt.Errorf("%w: unhandled expression node", ErrContentExprSyntax)
	}
}

// --- NFA construction (Thompson-style, with dangling out-edges patched as
// enclosing constructs are compiled) ---

type nfaEdge struct {
	term *NodeType // nil means epsilon
	to   int
}

type nfaBuilder struct {
	states [][]*nfaEdge
}

func (b *nfaBuilder) newState() int {
	b.states = append(b.states, nil)
	return len(b.states) - 1
}

func (b *nfaBuilder) addEdge(from int, term *NodeType) *nfaEdge {
	e := &nfaEdge{term: term, to: -1}
	b.states[from] = append(b.states[from], e)
	return e
}

func connect(edges []*nfaEdge, to int) {
	for _, e := range edges {
		e.to = to
	}
}

func buildContentNFA(expr contentExpr) (states [][]*nfaEdge, final int, err error) {
	b := &nfaBuilder{states: [][]*nfaEdge{nil}}
	out, err := b.compile(expr, 0)
	if err != nil {
		return nil, 0, err
	}
	final = b.newState()
	connect(out, final)
	return b.states, final, nil
}

func (b *nfaBuilder) compile(e contentExpr, from int) ([]*nfaEdge, error) {
	switch expr := e.(type) {
	case *resolvedNameExpr:
		out := make([]*nfaEdge, len(expr.types))
		for i, t := range expr.types {
			out[i] = b.addEdge(from, t)
		}
		return out, nil
	case *choiceExpr:
		var out []*nfaEdge
		for _, sub := range expr.exprs {
			sub, err := b.compile(sub, from)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	case *seqExpr:
		if len(expr.exprs) == 0 {
			return []*nfaEdge{b.addEdge(from, nil)}, nil
		}
		cur := from
		for i, sub := range expr.exprs {
			next, err := b.compile(sub, cur)
			if err != nil {
				return nil, err
			}
			if i == len(expr.exprs)-1 {
				return next, nil
			}
			to := b.newState()
			connect(next, to)
			cur = to
		}
		return nil, nil
	case *repeatExpr:
		return b.compileRepeat(expr, from)
	default:
		return nil, fmt.Errorf("%w: unhandled compiled expression node", ErrContentExprSyntax)
	}
}

func (b *nfaBuilder) compileRepeat(expr *repeatExpr, from int) ([]*nfaEdge, error) {
	switch {
	case expr.min == 0 && expr.max == 1: // ?
		out, err := b.compile(expr.expr, from)
		if err != nil {
			return nil, err
		}
		return append([]*nfaEdge{b.addEdge(from, nil)}, out...), nil
	case expr.min == 0 && expr.max == -1: // *
		loop := b.newState()
		connect([]*nfaEdge{b.addEdge(from, nil)}, loop)
		inner, err := b.compile(expr.expr, loop)
		if err != nil {
			return nil, err
		}
		connect(inner, loop)
		return []*nfaEdge{b.addEdge(loop, nil)}, nil
	case expr.min == 1 && expr.max == -1: // +
		loop := b.newState()
		first, err := b.compile(expr.expr, from)
		if err != nil {
			return nil, err
		}
		connect(first, loop)
		inner, err := b.compile(expr.expr, loop)
		if err != nil {
			return nil, err
		}
		connect(inner, loop)
		return []*nfaEdge{b.addEdge(loop, nil)}, nil
	default:
		return b.compileRange(expr, from)
	}
}

func (b *nfaBuilder) compileRange(expr *repeatExpr, from int) ([]*nfaEdge, error) {
	cur := from
	for i := 0; i < expr.min; i++ {
		out, err := b.compile(expr.expr, cur)
		if err != nil {
			return nil, err
		}
		next := b.newState()
		connect(out, next)
		cur = next
	}
	if expr.max == expr.min {
		return []*nfaEdge{b.addEdge(cur, nil)}, nil
	}
	if expr.max == -1 {
		return b.compileRepeat(&repeatExpr{expr: expr.expr, min: 0, max: -1}, cur)
	}
	var out []*nfaEdge
	for i := expr.min; i < expr.max; i++ {
		out = append(out, b.addEdge(cur, nil))
		inner, err := b.compile(expr.expr, cur)
		if err != nil {
			return nil, err
		}
		next := b.newState()
		connect(inner, next)
		cur = next
	}
	out = append(out, b.addEdge(cur, nil))
	return out, nil
}

// --- subset construction (NFA -> DFA) ---

func epsilonClosure(states [][]*nfaEdge, set []int) []int {
	seen := map[int]bool{}
	stack := append([]int{}, set...)
	for _, s := range set {
		seen[s] = true
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range states[s] {
			if e.term == nil && !seen[e.to] {
				seen[e.to] = true
				stack = append(stack, e.to)
			}
		}
	}
	out := make([]int, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}

func setKey(set []int) string {
	var sb strings.Builder
	for i, s := range set {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", s)
	}
	return sb.String()
}

func containsState(set []int, s int) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func determinizeContentNFA(states [][]*nfaEdge, final int) *ContentMatch {
	labeled := map[string]*ContentMatch{}

	var explore func(set []int) *ContentMatch
	explore = func(set []int) *ContentMatch {
		key := setKey(set)
		if cm, ok := labeled[key]; ok {
			return cm
		}
		cm := &ContentMatch{ValidEnd: containsState(set, final)}
		labeled[key] = cm

		byType := map[*NodeType][]int{}
		var order []*NodeType
		for _, s := range set {
			for _, e := range states[s] {
				if e.term != nil {
					if _, seen := byType[e.term]; !seen {
						order = append(order, e.term)
					}
					byType[e.term] = append(byType[e.term], e.to)
				}
			}
		}
		for _, t := range order {
			target := epsilonClosure(states, byType[t])
			cm.next = append(cm.next, contentMatchEdge{Type: t, Next: explore(target)})
		}
		return cm
	}
	return explore(epsilonClosure(states, []int{0}))
}

// checkNoDeadEnds rejects a compiled expression whose start state cannot
// reach any accepting state. Other states are not checked one by one, and
// overlapping groups (a group and one of its members, or two groups that
// share members, in one choice) are not detected here or elsewhere; the
// DFA merges their transitions.
func checkNoDeadEnds(start *ContentMatch) error {
	seen := map[*ContentMatch]bool{}
	var visit func(cm *ContentMatch) bool
	visit = func(cm *ContentMatch) bool {
		if seen[cm] {
			return true
		}
		seen[cm] = true
		if cm.ValidEnd {
			return true
		}
		for _, e := range cm.next {
			if visit(e.Next) {
				return true
			}
		}
		return false
	}
	if !visit(start) {
		return fmt.Errorf("%w: expression can never reach a valid end", ErrAmbiguousContent)
	}
	return nil
}

// MatchType advances the match by one child of type t, or returns nil if t
// is not acceptable here.
func (cm *ContentMatch) MatchType(t *NodeType) *ContentMatch {
	for _, e := range cm.next {
		if e.Type == t {
			return e.Next
		}
	}
	return nil
}

// MatchFragment folds MatchType over frag[from:to], returning the
// resulting state or nil on rejection.
func (cm *ContentMatch) MatchFragment(frag *Fragment, from, to int) *ContentMatch {
	cur := cm
	for i := from; i < to; i++ {
		child, err := frag.Child(i)
		if err != nil {
			return nil
		}
		cur = cur.MatchType(child.Type)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// fillSearchNode is a BFS queue entry for FillBefore.
type fillSearchNode struct {
	match *ContentMatch
	types []*NodeType
}

// FillBefore computes the shortest Fragment of required filler nodes that,
// inserted between cm and after (a Fragment of nodes that will follow,
// starting at startIndex), yields a match that — if toEnd — reaches an
// accepting state. Uses BFS with a seen-set keyed by state identity.
func (cm *ContentMatch) FillBefore(after *Fragment, toEnd bool, startIndex int) (*Fragment, error) {
	if after == nil {
		after = EmptyFragment
	}
	seen := map[*ContentMatch]bool{cm: true}
	queue := []fillSearchNode{{match: cm}}
	for i := 0; i < len(queue); i++ {
		cur := queue[i]
		finished := cur.match.MatchFragment(after, startIndex, after.ChildCount())
		if finished != nil && (!toEnd || finished.ValidEnd) {
			nodes := make([]*Node, 0, len(cur.types))
			ok := true
			for _, t := range cur.types {
				n, created := t.CreateAndFill(nil, nil, nil)
				if !created {
					ok = false
					break
				}
				nodes = append(nodes, n)
			}
			if ok {
				frag, err := NewFragment(nodes)
				if err != nil {
					return nil, err
				}
				return frag, nil
			}
		}
		for _, edge := range cur.match.next {
			if !edge.Type.IsText && !edge.Type.hasRequiredAttrs() && !seen[edge.Next] {
				seen[edge.Next] = true
				nextTypes := make([]*NodeType, len(cur.types)+1)
				copy(nextTypes, cur.types)
				nextTypes[len(cur.types)] = edge.Type
				queue = append(queue, fillSearchNode{match: edge.Next, types: nextTypes})
			}
		}
	}
	return nil, ErrNoFill
}

// wrapSearchNode is a BFS queue entry for FindWrapping.
type wrapSearchNode struct {
	match *ContentMatch
	typ   *NodeType
	via   *wrapSearchNode
}

// FindWrapping finds the shortest chain of wrapper node types such that cm
// accepts the first wrapper, each wrapper's own content match accepts the
// next, and the last wrapper's content match accepts target.
func (cm *ContentMatch) FindWrapping(target *NodeType) []*NodeType {
	seen := map[*ContentMatch]bool{}
	active := []*wrapSearchNode{{match: cm}}
	for i := 0; i < len(active); i++ {
		cur := active[i]
		if cur.match.MatchType(target) != nil {
			result := []*NodeType{}
			for n := cur; n.typ != nil; n = n.via {
				result = append([]*NodeType{n.typ}, result...)
			}
			return result
		}
		for _, edge := range cur.match.next {
			t := edge.Type
			if !t.IsLeaf() && !t.hasRequiredAttrs() && !seen[edge.Next] {
				seen[edge.Next] = true
				active = append(active, &wrapSearchNode{match: t.ContentMatch(), typ: t, via: cur})
			}
		}
	}
	return nil
}

// DefaultType is the first transition whose target type is not text and
// has no required attributes (so all its attributes can be defaulted),
// used to synthesize a default textblock when context demands one but none
// was specified.
func (cm *ContentMatch) DefaultType() *NodeType {
	for _, e := range cm.next {
		if !e.Type.IsText && !e.Type.hasRequiredAttrs() {
			return e.Type
		}
	}
	return nil
}

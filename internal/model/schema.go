package model

import (
	"fmt"
	"strings"
)

// NodeSpec describes one node type, as passed to NewSchema. Node specs are
// kept in Schema.Spec.Nodes as a slice rather than a map, because their
// order is significant (it decides which nodes come first within a group,
// and so the order of content-match transitions) and Go maps do not
// preserve insertion order.
type NodeSpec struct {
	// Key is the node type's name. Called Key, not Name, because in the
	// original JS schema format this slot is a map key; keeping the field
	// name distinct from NodeType.Name avoids confusing the two.
	Key string

	// Content is the content expression for this node. Leaving it empty
	// means the node allows no content.
	Content string

	// Marks lists mark names/groups allowed inside this node, space
	// separated, "_" for all marks, or "" for none. Nil means: all marks
	// for inline-content nodes, none otherwise.
	Marks *string

	// Group lists the groups this node belongs to, space separated.
	Group string

	// Inline marks this node type as inline (implied for "text").
	Inline bool

	// Attrs declares the attributes nodes of this type carry. IsBlock is
	// computed from !Inline.
	Attrs map[string]*AttributeSpec

	// Atom nodes are treated as a single unit by editing commands even if
	// they technically have content (rare; unused by the basic schema).
	Atom bool

	// Defining nodes are preserved across structural edits that would
	// otherwise merge their surroundings; used by DOMParser when deciding
	// whether to close ancestor nodes.
	Defining bool

	// Isolating nodes block certain structural operations from reaching
	// past their boundary.
	Isolating bool

	// Whitespace controls how the DOM parser treats whitespace inside
	// text produced by this node: "normal" (default) or "pre".
	Whitespace string
}

// MarkSpec describes one mark type.
type MarkSpec struct {
	Key       string
	Attrs     map[string]*AttributeSpec
	Inclusive *bool
	Excludes  string
	Group     string
}

// SchemaSpec is the input to NewSchema.
type SchemaSpec struct {
	Nodes   []*NodeSpec
	Marks   []*MarkSpec
	TopNode string
}

// NodeType is a type of node (paragraph, heading, text, ...), instantiated
// once per Schema.
type NodeType struct {
	Name        string
	Schema      *Schema
	Spec        *NodeSpec
	Groups      []string
	Attrs       map[string]*AttributeSpec
	DefaultAttrs Attrs
	IsText      bool

	inline    bool
	atom      bool
	defining  bool
	isolating bool
	leaf      bool // no content expression at all

	contentMatch  *ContentMatch
	markSet       []*MarkType // nil means "all marks allowed"
	allMarksOK    bool
}

// IsBlock reports whether this is a non-inline node type.
func (t *NodeType) IsBlock() bool { return !t.inline }

// IsInline reports whether this is an inline node type (including text).
func (t *NodeType) IsInline() bool { return t.inline }

// IsLeaf reports whether nodes of this type can never have content.
func (t *NodeType) IsLeaf() bool { return t.leaf }

// IsAtom reports whether nodes of this type should be treated atomically.
func (t *NodeType) IsAtom() bool { return t.atom || t.leaf }

// IsTextblock reports whether this is a block whose content is inline.
func (t *NodeType) IsTextblock() bool { return !t.inline && t.contentMatch != nil && t.contentMatch.inlineContent() }

// IsDefining reports the node type's "defining" flag, a hint to the DOM
// parser that this node's context should be preserved rather than merged
// away during structural reparsing.
func (t *NodeType) IsDefining() bool { return t.defining }

// IsIsolating reports the node type's "isolating" flag, a hint that
// structural operations (including the DOM parser's context-closing) should
// not reach past this node's boundary.
func (t *NodeType) IsIsolating() bool { return t.isolating }

// IsInGroup reports whether name names a group this type belongs to.
func (t *NodeType) IsInGroup(name string) bool {
	for _, g := range t.Groups {
		if g == name {
			return true
		}
	}
	return false
}

// ContentMatch returns the compiled content-match DFA start state for this
// type's content expression.
func (t *NodeType) ContentMatch() *ContentMatch { return t.contentMatch }

func (t *NodeType) hasRequiredAttrs() bool {
	for _, spec := range t.Attrs {
		if spec.Required() {
			return true
		}
	}
	return false
}

// AllowsMarkType reports whether a mark of type mt may be applied to a
// node of this type.
func (t *NodeType) AllowsMarkType(mt *MarkType) bool {
	if t.allMarksOK {
		return true
	}
	for _, m := range t.markSet {
		if m == mt {
			return true
		}
	}
	return false
}

// AllowedMarks filters marks down to the ones this node type allows,
// returning the original set unchanged if nothing needed removing.
func (t *NodeType) AllowedMarks(marks MarkSet) MarkSet {
	if t.allMarksOK {
		return marks
	}
	var filtered MarkSet
	changed := false
	for _, m := range marks {
		if t.AllowsMarkType(m.Type) {
			filtered = append(filtered, m)
		} else {
			changed = true
		}
	}
	if !changed {
		return marks
	}
	return filtered
}

// ComputeAttrs resolves given against this type's attribute descriptors.
func (t *NodeType) ComputeAttrs(given Attrs) (Attrs, error) {
	return computeAttrs(t.Attrs, given)
}

// Create builds a non-text node of this type, validating attrs but not
// content (callers that must guarantee schema-valid content should go
// through CreateChecked).
func (t *NodeType) Create(attrs Attrs, content *Fragment, marks MarkSet) (*Node, error) {
	if t.IsText {
		return nil, fmt.Errorf("model: use NewTextNode to create text nodes")
	}
	resolved, err := t.ComputeAttrs(attrs)
	if err != nil {
		return nil, err
	}
	if content == nil {
		content = EmptyFragment
	}
	return NewNode(t, resolved, content, marks), nil
}

// CreateChecked is like Create but additionally validates that content
// matches this type's content expression.
func (t *NodeType) CreateChecked(attrs Attrs, content *Fragment, marks MarkSet) (*Node, error) {
	n, err := t.Create(attrs, content, marks)
	if err != nil {
		return nil, err
	}
	if t.contentMatch != nil {
		end := t.contentMatch.MatchFragment(n.Content, 0, n.Content.ChildCount())
		if end == nil || !end.ValidEnd {
			return nil, fmt.Errorf("%w: content does not match %q", ErrInvalidContent, t.Name)
		}
	}
	return n, nil
}

// CreateAndFill builds a node of this type, inserting required filler
// content before and after the given content so the result validates.
// Returns (nil, false) if no valid filler exists.
func (t *NodeType) CreateAndFill(attrs Attrs, content *Fragment, marks MarkSet) (*Node, bool) {
	resolved, err := t.ComputeAttrs(attrs)
	if err != nil {
		return nil, false
	}
	if content == nil {
		content = EmptyFragment
	}
	if t.contentMatch == nil {
		if content.ChildCount() > 0 {
			return nil, false
		}
		return NewNode(t, resolved, EmptyFragment, marks), true
	}
	before, err := t.contentMatch.FillBefore(content, true, 0)
	if err != nil {
		return nil, false
	}
	full, err := before.Append(content)
	if err != nil {
		return nil, false
	}
	return NewNode(t, resolved, full, marks), true
}

// compileMarkTypes builds one MarkType per mark spec, ranked in declaration
// order, and resolves each type's exclusion set.
func (s *Schema) compileMarkTypes(spec *SchemaSpec) error {
	for rank, ms := range spec.Marks {
		if _, dup := s.Marks[ms.Key]; dup {
			return fmt.Errorf("%w: mark %q declared twice", ErrNameConflict, ms.Key)
		}
		if _, clash := s.Nodes[ms.Key]; clash {
			return fmt.Errorf("%w: %q is both a node and a mark", ErrNameConflict, ms.Key)
		}
		inclusive := true
		if ms.Inclusive != nil {
			inclusive = *ms.Inclusive
		}
		mt := &MarkType{Name: ms.Key, Rank: rank, Schema: s, Attrs: ms.Attrs, Group: ms.Group, Inclusive: inclusive}
		s.Marks[ms.Key] = mt
		s.markOrder = append(s.markOrder, mt)
	}
	for _, ms := range spec.Marks {
		mt := s.Marks[ms.Key]
		excludes := ms.Excludes
		if excludes == "" && !markExcludesExplicit(ms) {
			excludes = ms.Key
		}
		set, err := s.resolveMarkExpr(excludes)
		if err != nil {
			return err
		}
		mt.excludes = newMarkBitset(len(s.markOrder))
		for _, other := range set {
			mt.excludes.set(other.Rank)
		}
	}
	return nil
}

// markExcludesExplicit reports whether the spec explicitly set an (even
// empty) Excludes value, as opposed to leaving it at the zero value, which
// would otherwise be indistinguishable from "". Since MarkSpec.Excludes is
// a plain string this can't be told apart at the type level; schemaspec's
// loader is responsible for routing an explicit empty string through a
// sentinel if it ever matters. The basic schema never needs this
// distinction, so this always reports false here.
func markExcludesExplicit(*MarkSpec) bool { return false }

// Schema is a compiled, immutable set of node and mark types plus the
// compiled content-match automata that give them editorial meaning.
type Schema struct {
	Spec    *SchemaSpec
	Nodes   map[string]*NodeType
	Marks   map[string]*MarkType
	TopNode *NodeType

	nodeOrder []*NodeType
	markOrder []*MarkType

	wrapCache map[wrapCacheKey][]*NodeType
}

type wrapCacheKey struct {
	match *ContentMatch
	typ   *NodeType
}

// NodeTypes returns the schema's node types in declaration order.
func (s *Schema) NodeTypes() []*NodeType {
	return s.nodeOrder
}

// MarkTypes returns the schema's mark types in declaration (rank) order.
func (s *Schema) MarkTypes() []*MarkType {
	return s.markOrder
}

// NewSchema compiles a SchemaSpec into a Schema, validating structural
// invariants (a "text" node type with no attrs, a resolvable top node, no
// name collisions between nodes and marks) and compiling every node's
// content expression into a ContentMatch DFA.
func NewSchema(spec *SchemaSpec) (*Schema, error) {
	s := &Schema{
		Spec:      spec,
		Nodes:     map[string]*NodeType{},
		Marks:     map[string]*MarkType{},
		wrapCache: map[wrapCacheKey][]*NodeType{},
	}

	for _, ns := range spec.Nodes {
		if _, dup := s.Nodes[ns.Key]; dup {
			return nil, fmt.Errorf("%w: node %q declared twice", ErrNameConflict, ns.Key)
		}
		groups := splitNames(ns.Group)
		t := &NodeType{
			Name:      ns.Key,
			Schema:    s,
			Spec:      ns,
			Groups:    groups,
			Attrs:     ns.Attrs,
			IsText:    ns.Key == "text",
			inline:    ns.Inline || ns.Key == "text",
			atom:      ns.Atom,
			defining:  ns.Defining,
			isolating: ns.Isolating,
			leaf:      strings.TrimSpace(ns.Content) == "",
		}
		s.Nodes[ns.Key] = t
		s.nodeOrder = append(s.nodeOrder, t)
	}

	if err := s.compileMarkTypes(spec); err != nil {
		return nil, err
	}

	textType, ok := s.Nodes["text"]
	if !ok {
		return nil, ErrMissingTextType
	}
	if len(textType.Attrs) != 0 {
		return nil, ErrTextHasAttrs
	}

	topName := spec.TopNode
	if topName == "" {
		topName = "doc"
	}
	top, ok := s.Nodes[topName]
	if !ok {
		return nil, ErrMissingTopNode
	}
	s.TopNode = top

	for _, ns := range spec.Nodes {
		t := s.Nodes[ns.Key]
		if def, complete := defaultAttrs(t.Attrs); complete {
			t.DefaultAttrs = def
		}
	}

	resolve := func(name string) ([]*NodeType, error) { return s.resolveNodeExpr(name) }
	for _, ns := range spec.Nodes {
		t := s.Nodes[ns.Key]
		expr := ns.Content
		if strings.TrimSpace(expr) == "" {
			continue
		}
		cm, err := compileContentMatch(expr, resolve)
		if err != nil {
			return nil, fmt.Errorf("model: node %q: %w", ns.Key, err)
		}
		t.contentMatch = cm
	}

	for _, ns := range spec.Nodes {
		if err := s.compileNodeMarks(s.Nodes[ns.Key], ns); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Schema) compileNodeMarks(t *NodeType, ns *NodeSpec) error {
	var expr string
	switch {
	case ns.Marks != nil:
		expr = *ns.Marks
	case t.contentMatch != nil && t.contentMatch.inlineContent():
		expr = excludesWildcard
	default:
		expr = ""
	}
	if expr == excludesWildcard {
		t.allMarksOK = true
		return nil
	}
	if strings.TrimSpace(expr) == "" {
		t.markSet = nil
		t.allMarksOK = false
		return nil
	}
	set, err := s.resolveMarkExpr(expr)
	if err != nil {
		return err
	}
	t.markSet = set
	return nil
}

func splitNames(s string) []string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// resolveNodeExpr resolves a content-expression identifier into the node
// types it denotes: a single type, or every type carrying that group name.
func (s *Schema) resolveNodeExpr(name string) ([]*NodeType, error) {
	if t, ok := s.Nodes[name]; ok {
		return []*NodeType{t}, nil
	}
	var out []*NodeType
	for _, t := range s.nodeOrder {
		if t.IsInGroup(name) {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return out, nil
}

// resolveMarkExpr resolves a space-separated marks/groups expression
// (as used by NodeSpec.Marks and MarkSpec.Excludes) into the concrete set
// of MarkTypes it denotes. "_" denotes every mark type in the schema.
func (s *Schema) resolveMarkExpr(expr string) ([]*MarkType, error) {
	names := splitNames(expr)
	if len(names) == 0 {
		return nil, nil
	}
	seen := map[*MarkType]bool{}
	var out []*MarkType
	for _, name := range names {
		if name == excludesWildcard {
			for _, mt := range s.markOrder {
				if !seen[mt] {
					seen[mt] = true
					out = append(out, mt)
				}
			}
			continue
		}
		if mt, ok := s.Marks[name]; ok {
			if !seen[mt] {
				seen[mt] = true
				out = append(out, mt)
			}
			continue
		}
		found := false
		for _, mt := range s.markOrder {
			if mt.Group != "" {
				for _, g := range splitNames(mt.Group) {
					if g == name {
						found = true
						if !seen[mt] {
							seen[mt] = true
							out = append(out, mt)
						}
					}
				}
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: mark or group %q", ErrUnknownType, name)
		}
	}
	return out, nil
}

// Node builds a document Node by type name, validating content against the
// schema. This is the entry point most callers (parsers, the JSON decoder)
// use instead of NodeType.Create.
func (s *Schema) Node(typeName string, attrs Attrs, content *Fragment, marks MarkSet) (*Node, error) {
	t, ok := s.Nodes[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typeName)
	}
	return t.CreateChecked(attrs, content, marks)
}

// Text builds a text node, resolving "text" from the schema.
func (s *Schema) Text(text string, marks MarkSet) (*Node, error) {
	t, ok := s.Nodes["text"]
	if !ok {
		return nil, ErrMissingTextType
	}
	return NewTextNode(t, nil, text, marks), nil
}

// cachedWrapping looks up (or computes and caches) the wrapping chain from
// match to target. The DOM parser calls FindWrapping directly and does not
// go through this cache.
func (s *Schema) cachedWrapping(match *ContentMatch, target *NodeType) ([]*NodeType, error) {
	key := wrapCacheKey{match: match, typ: target}
	if w, ok := s.wrapCache[key]; ok {
		if w == nil {
			return nil, ErrNoWrapping
		}
		return w, nil
	}
	w := match.FindWrapping(target)
	s.wrapCache[key] = w
	if w == nil {
		return nil, ErrNoWrapping
	}
	return w, nil
}

// inlineContent reports whether every transition out of this state (and
// hence, for a well-formed DFA, the whole expression) leads only to inline
// node types — used by NodeType.IsTextblock.
func (cm *ContentMatch) inlineContent() bool {
	for _, e := range cm.next {
		if !e.Type.IsInline() {
			return false
		}
	}
	return true
}

// Package domparser turns a source domtree.Node into a schema-valid
// document, driven by a list of ParseRules matched against each DOM
// element.
package domparser

import (
	"fmt"
	"strings"

	"github.com/eykd/prosedoc/internal/domtree"
	"github.com/eykd/prosedoc/internal/logging"
	"github.com/eykd/prosedoc/internal/model"
)

// Whitespace preservation modes for ParseRule.PreserveWhitespace and the
// whitespace a node context inherits: "" collapses runs of whitespace to a
// single space, drops a leading space that follows whitespace, a hard
// break or the start of the context, and drops whitespace-only text where
// the context does not accept inline content (a trailing space is kept);
// "true"
// preserves spacing but still normalizes newlines to a space; "full"
// preserves everything verbatim, for <pre>/code_block-style content.
const (
	WhitespaceNormal = ""
	WhitespacePre    = "true"
	WhitespaceFull   = "full"
)

// ParseRule describes how one kind of DOM node becomes document content.
type ParseRule struct {
	// Tag is a CSS selector matched against elements (domtree.Node.Matches).
	Tag string
	// Style, if set, matches elements carrying this CSS property, using
	// prefix+"=" semantics against "prop=value" pairs.
	Style string
	// Namespace, if set, additionally restricts Tag/Style matching to
	// elements in this XML namespace (e.g. an SVG-specific rule).
	Namespace string

	// Context restricts this rule to the given path expression against the
	// stack of currently open node type names, innermost first: "paragraph"
	// and "blockquote/" match directly inside a paragraph or blockquote (a
	// single trailing "/" is ignored), "list_item//" skips zero or more
	// ancestors before requiring a list_item, "a/b" requires b innermost
	// with a directly around it, and "a|b" matches either alternative.
	// Empty means: any context.
	Context string

	// Node is the node type name this rule produces ("" with Mark set
	// means this rule instead applies a mark to whatever is parsed from
	// the element's children).
	Node string
	// Mark is the mark type name this rule applies, mutually exclusive
	// with Node.
	Mark string

	// GetAttrs computes attrs for the produced node/mark from the matched
	// DOM element. Returning nil rejects the match: the rule does not
	// apply to this element and the scan goes on to the next rule. Return
	// a non-nil, empty Attrs for "no attributes".
	GetAttrs func(el domtree.Node) model.Attrs

	// GetContent, when set, supplies this rule's node content directly
	// instead of parsing the element's children through the normal
	// open/add/close cycle — for node types whose DOM shape doesn't map
	// onto ParseRule-driven recursion (e.g. reading cell text out of a
	// table layout that the schema represents as a flat attribute).
	GetContent func(dom domtree.Node, schema *model.Schema) *model.Fragment

	// ContentElement is a selector identifying the descendant of the
	// matched element whose children should be parsed as this node's
	// content (e.g. a <tbody> nested in a <table> rule's element).
	ContentElement string

	// Skip, when true, parses the element's children directly into the
	// surrounding context without wrapping them in a new node.
	Skip bool

	// Ignore, when true, drops the element and its children entirely.
	Ignore bool

	// CloseParent, when true, closes the innermost open node context
	// (unless it's solid — defining or isolating) before descending into
	// this element's children, so the children land as siblings of the
	// enclosing node rather than nested inside it.
	CloseParent bool

	// NonConsuming marks a rule that, when it matches, is only used as a
	// fallback: findRule keeps searching for a consuming match first, and
	// only returns a non-consuming rule if nothing else matched. Lets a
	// broad context/style rule coexist with a more specific tag rule
	// without the broad one winning outright.
	NonConsuming bool

	// PreserveWhitespace overrides the ambient whitespace mode for text
	// parsed under this rule: "" (normal, the default), "true", or "full".
	PreserveWhitespace string

	// Priority breaks ties between equally-specific rules; higher wins.
	// Rules are otherwise tried in declaration order.
	Priority int
}

// DOMParser parses DOM trees into documents valid under one schema, using
// an ordered list of ParseRules.
type DOMParser struct {
	Schema *model.Schema
	Rules  []ParseRule
}

// NewDOMParser builds a parser from an explicit rule list, sorted stably
// by descending Priority: ties keep declaration order, so rules are tried
// in order and the first match wins.
func NewDOMParser(schema *model.Schema, rules []ParseRule) *DOMParser {
	sorted := make([]ParseRule, len(rules))
	copy(sorted, rules)
	stableSortByPriorityDesc(sorted)
	return &DOMParser{Schema: schema, Rules: sorted}
}

func stableSortByPriorityDesc(rules []ParseRule) {
	for i := 1; i < len(rules); i++ {
		j := i
		for j > 0 && rules[j-1].Priority < rules[j].Priority {
			rules[j-1], rules[j] = rules[j], rules[j-1]
			j--
		}
	}
}

// blockTags lists the HTML tags treated as block-level for the purposes
// of needsBlock tracking when an element falls through to plain descent
// (no rule, or a Skip rule) without a node of its own.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"details": true, "dialog": true, "dd": true, "div": true, "dl": true,
	"dt": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hgroup": true,
	"hr": true, "li": true, "main": true, "nav": true, "ol": true,
	"p": true, "pre": true, "section": true, "table": true, "ul": true,
}

// Parse parses dom (typically a fragment root or <body>) into a single
// top-level document node.
func (p *DOMParser) Parse(dom domtree.Node) (*model.Node, error) {
	ctx := newParseContext(p)
	ctx.addAll(dom.ChildNodes())
	return ctx.finish()
}

// ParseSlice parses dom into a model.Slice rather than a whole document,
// for content destined to be spliced into an existing document via
// Node.Replace.
func (p *DOMParser) ParseSlice(dom domtree.Node) (*model.Slice, error) {
	ctx := newParseContext(p)
	ctx.isOpen = true
	ctx.addAll(dom.ChildNodes())
	return ctx.finishOpen()
}

// parseOptions carries the ambient parsing behavior inherited down the
// node stack, currently just the whitespace mode.
type parseOptions struct {
	whitespace string
}

// nodeContext tracks one level of the node stack being built.
type nodeContext struct {
	typ   *model.NodeType
	attrs model.Attrs

	// marks is the nominal inline mark set in effect here (inherited from
	// the parent, filtered through this type's AllowedMarks, then possibly
	// extended by addMarked pushes). activeMarks is marks re-filtered
	// through this type's own AllowedMarks, which matters once addMarked
	// has pushed something the type itself wouldn't allow directly.
	marks       model.MarkSet
	activeMarks model.MarkSet

	content []*model.Node
	match   *model.ContentMatch

	// needsBlock is set when inline content has been seen after descending
	// through a skipped block-level element without a node context of its
	// own: the next inline node inserted here forces open a default
	// textblock (via ContentMatch.DefaultType) instead of being rejected.
	needsBlock bool
	// synthetic marks a context opened automatically (either as a
	// needsBlock default textblock or as FindWrapping scaffolding) rather
	// than by an explicit rule match; it's closed before a sibling block
	// node opens in its place.
	synthetic bool
	// solid nodes (defining or isolating) block CloseParent from closing
	// past them.
	solid bool

	options parseOptions
}

// parseContext drives one parse pass: a stack of open nodeContexts.
type parseContext struct {
	parser *DOMParser
	stack  []*nodeContext
	isOpen bool
}

func newParseContext(p *DOMParser) *parseContext {
	top := p.Schema.TopNode
	pc := &parseContext{parser: p}
	root := &nodeContext{
		typ:   top,
		match: top.ContentMatch(),
		solid: true,
	}
	root.activeMarks = top.AllowedMarks(nil)
	root.marks = root.activeMarks
	pc.stack = []*nodeContext{root}
	return pc
}

func (pc *parseContext) top() *nodeContext { return pc.stack[len(pc.stack)-1] }

func (pc *parseContext) activeMarks() model.MarkSet { return pc.top().activeMarks }

func (pc *parseContext) addAll(nodes []domtree.Node) {
	for _, n := range nodes {
		pc.addDOM(n)
	}
}

// addDOM dispatches one DOM node: text, a matched element rule, or
// (falling through Skip/no-match) its children in the current context.
func (pc *parseContext) addDOM(dom domtree.Node) {
	switch dom.Kind() {
	case domtree.KindText:
		pc.addTextNode(dom)
		return
	case domtree.KindDocumentFragment:
		pc.addAll(dom.ChildNodes())
		return
	}

	rule := pc.findRule(dom)
	switch {
	case rule != nil && rule.Ignore:
		return
	case rule != nil && rule.CloseParent:
		pc.addCloseParent(dom, rule)
		return
	case rule != nil && rule.Mark != "":
		pc.addMarked(dom, rule)
		return
	case rule != nil && rule.Node != "":
		pc.addElement(dom, rule)
		return
	}

	// No matching rule, or a Skip rule: descend into children directly in
	// the current context. A skipped block-level element still tracks
	// needsBlock, so inline content encountered past it is wrapped in a
	// default textblock rather than dropped or rejected.
	if dom.Kind() == domtree.KindElement && blockTags[dom.TagName()] {
		pc.top().needsBlock = true
	}
	children := dom.ChildNodes()
	if rule != nil && rule.ContentElement != "" {
		if el := findDescendant(dom, rule.ContentElement); el != nil {
			children = el.ChildNodes()
		}
	}
	restore := pc.pushWhitespaceOverride(rule)
	pc.addAll(children)
	restore()
}

// addCloseParent implements the closeParent rule action: close the
// current node context (unless it's solid) before descending into dom's
// children, so they end up as siblings of the closed node instead of
// nested inside it.
func (pc *parseContext) addCloseParent(dom domtree.Node, rule *ParseRule) {
	if len(pc.stack) > 1 && !pc.top().solid {
		pc.closeNode()
	}
	children := dom.ChildNodes()
	if rule.ContentElement != "" {
		if el := findDescendant(dom, rule.ContentElement); el != nil {
			children = el.ChildNodes()
		}
	}
	restore := pc.pushWhitespaceOverride(rule)
	pc.addAll(children)
	restore()
}

// pushWhitespaceOverride applies rule's PreserveWhitespace to the current
// context, returning a closure that restores the previous value. A no-op
// when rule is nil or leaves the mode unset.
func (pc *parseContext) pushWhitespaceOverride(rule *ParseRule) func() {
	if rule == nil || rule.PreserveWhitespace == "" {
		return func() {}
	}
	nc := pc.top()
	saved := nc.options.whitespace
	nc.options.whitespace = rule.PreserveWhitespace
	return func() { nc.options.whitespace = saved }
}

// findRule returns the first consuming rule that matches dom in the
// current context, or failing that, the first non-consuming (fallback)
// rule that matches.
func (pc *parseContext) findRule(dom domtree.Node) *ParseRule {
	var fallback *ParseRule
	for i := range pc.parser.Rules {
		r := &pc.parser.Rules[i]
		if !pc.ruleMatches(r, dom) {
			continue
		}
		if r.NonConsuming {
			if fallback == nil {
				fallback = r
			}
			continue
		}
		return r
	}
	return fallback
}

func (pc *parseContext) ruleMatches(r *ParseRule, dom domtree.Node) bool {
	if r.Tag == "" && r.Style == "" {
		return false
	}
	if r.Node == "" && r.Mark == "" && !r.Skip && !r.Ignore && !r.CloseParent {
		return false
	}
	if r.Context != "" && !matchesContext(r.Context, pc.contextNames()) {
		return false
	}
	if r.Namespace != "" && dom.NamespaceURI() != r.Namespace {
		return false
	}
	if r.Tag != "" && !dom.Matches(r.Tag) {
		return false
	}
	if r.Style != "" && !matchesStyleRule(dom, r.Style) {
		return false
	}
	if r.GetAttrs != nil && r.GetAttrs(dom) == nil {
		return false
	}
	return true
}

// contextNames returns the currently open node type names, innermost
// first, for matching against a rule's Context path expression.
func (pc *parseContext) contextNames() []string {
	n := len(pc.stack)
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = pc.stack[n-1-i].typ.Name
	}
	return names
}

// matchesContext evaluates a Context path expression (alternatives
// separated by "|") against names, the open node stack innermost first.
func matchesContext(expr string, names []string) bool {
	for _, alt := range strings.Split(expr, "|") {
		if matchContextAlternative(alt, names) {
			return true
		}
	}
	return false
}

// matchContextAlternative matches one "/"-separated alternative. A single
// trailing "/" is dropped first; an empty segment between two slashes
// ("//") then means "skip zero or more ancestors here" rather than
// requiring an exact name.
func matchContextAlternative(alt string, names []string) bool {
	alt = strings.TrimSuffix(alt, "/")
	if alt == "" {
		return true
	}
	segs := strings.Split(alt, "/")
	pattern := make([]string, len(segs))
	for i, s := range segs {
		pattern[len(segs)-1-i] = s
	}
	return matchContextPattern(names, pattern, 0, 0)
}

func matchContextPattern(names, pattern []string, ni, pi int) bool {
	if pi == len(pattern) {
		return true
	}
	seg := pattern[pi]
	if seg == "" {
		for k := ni; k <= len(names); k++ {
			if matchContextPattern(names, pattern, k, pi+1) {
				return true
			}
		}
		return false
	}
	if ni >= len(names) || names[ni] != seg {
		return false
	}
	return matchContextPattern(names, pattern, ni+1, pi+1)
}

// matchesStyleRule implements the prefix+"=" contract for style-based
// rules: rule is a "prop=value" or bare "prop" pattern, matched against
// the element's style attribute after normalization.
func matchesStyleRule(dom domtree.Node, rule string) bool {
	prop, want, hasValue := strings.Cut(rule, "=")
	got, ok := dom.Style(strings.TrimSpace(prop))
	if !ok {
		return false
	}
	if !hasValue {
		return true
	}
	return strings.HasPrefix(got, strings.TrimSpace(want))
}

func findDescendant(dom domtree.Node, selector string) domtree.Node {
	for _, c := range dom.ChildNodes() {
		if c.Kind() == domtree.KindElement && c.Matches(selector) {
			return c
		}
		if found := findDescendant(c, selector); found != nil {
			return found
		}
	}
	return nil
}

// addTextNode appends text content to the current node. In normal mode,
// runs of whitespace collapse to a single space, and a run's leading
// space is dropped when the previous sibling inserted into this context
// ended in whitespace, is absent, or was a hard break — otherwise spacing
// across an inline tag boundary (e.g. "woo <em>hooo</em>") would double
// up. In "true" mode only newlines/carriage-returns normalize to a space;
// in "full" mode the text is kept verbatim. A whitespace-only result is
// dropped in normal mode unless the current context accepts inline
// content directly, so formatting whitespace between block siblings in
// the source doesn't force an empty paragraph into the document.
func (pc *parseContext) addTextNode(dom domtree.Node) {
	text := dom.TextContent()
	mode := pc.top().options.whitespace

	switch mode {
	case WhitespaceFull:
		// kept verbatim
	case WhitespacePre:
		text = normalizeNewlines(text)
	default:
		text = collapseWhitespace(text)
		if strings.HasPrefix(text, " ") && pc.atWhitespaceBoundary() {
			text = text[1:]
		}
	}
	if text == "" {
		return
	}
	if mode == WhitespaceNormal && strings.TrimSpace(text) == "" {
		textType, ok := pc.parser.Schema.Nodes["text"]
		if !ok || pc.top().match == nil || pc.top().match.MatchType(textType) == nil {
			return
		}
	}

	textType, ok := pc.parser.Schema.Nodes["text"]
	if !ok {
		return
	}
	node := model.NewTextNode(textType, nil, text, pc.activeMarks())
	pc.insertNode(node)
}

// atWhitespaceBoundary reports whether the most recently inserted sibling
// in the current context ended in whitespace, doesn't exist, or was a
// hard break — the conditions under which a following text run's leading
// space carries no meaning and should be stripped.
func (pc *parseContext) atWhitespaceBoundary() bool {
	content := pc.top().content
	if len(content) == 0 {
		return true
	}
	last := content[len(content)-1]
	if last.IsText() {
		t := last.Text()
		return t != "" && isWhitespaceByte(t[len(t)-1])
	}
	return last.Type.Name == "hard_break"
}

func isWhitespaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

// collapseWhitespace folds any run of whitespace runes into a single
// space, preserving a single leading/trailing space rather than trimming
// it away — trimming is the caller's job (atWhitespaceBoundary), since
// whether a boundary space is significant depends on what precedes it.
func collapseWhitespace(s string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range s {
		if isWhitespaceRune(r) {
			if !prevSpace {
				sb.WriteByte(' ')
			}
			prevSpace = true
			continue
		}
		sb.WriteRune(r)
		prevSpace = false
	}
	return sb.String()
}

func isWhitespaceRune(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func normalizeNewlines(s string) string {
	return strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(s)
}

// addMarked parses dom's children with a mark of rule.Mark added to the
// active inline mark set — marks are never pushed onto the node stack,
// only inherited by text nodes parsed underneath, distinct from node
// context.
func (pc *parseContext) addMarked(dom domtree.Node, rule *ParseRule) {
	mt, ok := pc.parser.Schema.Marks[rule.Mark]
	if !ok {
		pc.addAll(dom.ChildNodes())
		return
	}
	var attrs model.Attrs
	if rule.GetAttrs != nil {
		attrs = rule.GetAttrs(dom)
	}
	mark, err := mt.Create(attrs)
	if err != nil {
		pc.addAll(dom.ChildNodes())
		return
	}
	top := pc.top()
	savedMarks, savedActive := top.marks, top.activeMarks
	top.marks = top.marks.Add(mark)
	top.activeMarks = top.typ.AllowedMarks(top.marks)

	restore := pc.pushWhitespaceOverride(rule)
	pc.addAll(dom.ChildNodes())
	restore()

	top.marks, top.activeMarks = savedMarks, savedActive
}

// addElement produces rule.Node from dom: a leaf node inserted directly,
// a node with rule.GetContent-supplied content, or a new context opened,
// filled by parsing dom's children (or its ContentElement's), and closed.
func (pc *parseContext) addElement(dom domtree.Node, rule *ParseRule) {
	typ, ok := pc.parser.Schema.Nodes[rule.Node]
	if !ok {
		return
	}
	var attrs model.Attrs
	if rule.GetAttrs != nil {
		attrs = rule.GetAttrs(dom)
	}
	resolved, err := typ.ComputeAttrs(attrs)
	if err != nil {
		return
	}

	if !typ.IsInline() && pc.top().synthetic {
		pc.closeNode()
	}

	if typ.IsLeaf() {
		node := model.NewNode(typ, resolved, nil, pc.activeMarks())
		pc.insertNode(node)
		return
	}

	if rule.GetContent != nil {
		content := rule.GetContent(dom, pc.parser.Schema)
		if content == nil {
			content = model.EmptyFragment
		}
		node := model.NewNode(typ, resolved, content, pc.activeMarks())
		pc.insertNode(node)
		return
	}

	pc.openNode(typ, resolved)
	children := dom.ChildNodes()
	if rule.ContentElement != "" {
		if el := findDescendant(dom, rule.ContentElement); el != nil {
			children = el.ChildNodes()
		}
	}
	restore := pc.pushWhitespaceOverride(rule)
	pc.addAll(children)
	restore()
	pc.closeNode()
}

// openNode pushes a new nodeContext, inheriting the current inline mark
// set (filtered through this type's allowed marks) and whitespace mode
// (overridden when the type itself declares "pre" whitespace).
func (pc *parseContext) openNode(typ *model.NodeType, attrs model.Attrs) {
	parent := pc.top()
	ws := parent.options.whitespace
	if typ.Spec != nil && typ.Spec.Whitespace == "pre" {
		ws = WhitespaceFull
	}
	marks := typ.AllowedMarks(parent.marks)
	pc.stack = append(pc.stack, &nodeContext{
		typ:         typ,
		attrs:       attrs,
		marks:       marks,
		activeMarks: marks,
		match:       typ.ContentMatch(),
		solid:       typ.IsDefining() || typ.IsIsolating(),
		options:     parseOptions{whitespace: ws},
	})
}

// closeNode finishes the innermost node context: fills any trailing
// required content, builds the node, and inserts it into its parent.
func (pc *parseContext) closeNode() {
	nc := pc.stack[len(pc.stack)-1]
	pc.stack = pc.stack[:len(pc.stack)-1]

	content, err := model.NewFragment(nc.content)
	if err != nil {
		return
	}
	if nc.match != nil {
		end := nc.match.MatchFragment(content, 0, content.ChildCount())
		if end == nil || !end.ValidEnd {
			filler, ferr := nc.match.FillBefore(model.EmptyFragment, true, 0)
			if ferr == nil {
				if merged, aerr := content.Append(filler); aerr == nil {
					content = merged
					logging.Default().Debug("inserted filler content to satisfy schema",
						"type", nc.typ.Name, "fillerNodes", filler.ChildCount())
				}
			}
		}
	}

	node := model.NewNode(nc.typ, nc.attrs, content, nc.activeMarks)
	pc.insertNode(node)
}

// insertNode adds node as the next child of the current open context. If
// node is inline and the context is mid-way through a skipped block
// element (needsBlock), a default textblock is synthesized first via
// ContentMatch.DefaultType. Otherwise, if node isn't directly acceptable,
// a wrapper chain is found via FindWrapping; failing that, the node is
// dropped and logged rather than silently discarded.
func (pc *parseContext) insertNode(node *model.Node) {
	top := pc.top()
	if top.match == nil {
		return
	}

	if top.needsBlock && node.Type.IsInline() {
		if def := top.match.DefaultType(); def != nil {
			pc.openNode(def, nil)
			pc.top().synthetic = true
			pc.insertNode(node)
			return
		}
	}

	if next := top.match.MatchType(node.Type); next != nil {
		top.needsBlock = false
		top.content = append(top.content, node)
		top.match = next
		return
	}

	wrapping := top.match.FindWrapping(node.Type)
	if wrapping == nil {
		logging.Default().Debug("dropping node that schema context can't place",
			"type", node.Type.Name, "context", top.typ.Name)
		return
	}
	for _, w := range wrapping {
		pc.openNode(w, nil)
	}
	pc.insertNode(node)
	for range wrapping {
		pc.closeNode()
	}
}

// finish closes every remaining open context down to the document root.
func (pc *parseContext) finish() (*model.Node, error) {
	for len(pc.stack) > 1 {
		pc.closeNode()
	}
	root := pc.stack[0]
	content, err := model.NewFragment(root.content)
	if err != nil {
		return nil, err
	}
	doc, ok := root.typ.CreateAndFill(root.attrs, content, nil)
	if !ok {
		return nil, fmt.Errorf("model: could not fill required content for %q", root.typ.Name)
	}
	return doc, nil
}

// finishOpen is finish's counterpart for ParseSlice: it returns the root
// context's content directly, open at both ends, without requiring it to
// validate as a standalone document.
func (pc *parseContext) finishOpen() (*model.Slice, error) {
	for len(pc.stack) > 1 {
		pc.closeNode()
	}
	content, err := model.NewFragment(pc.stack[0].content)
	if err != nil {
		return nil, err
	}
	openStart, openEnd := model.MaxOpen(content, false)
	return model.NewSlice(content, openStart, openEnd), nil
}

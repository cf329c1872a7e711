// Package htmladapter implements internal/domtree's Node/Builder
// interfaces over golang.org/x/net/html, and offers an optional
// bluemonday-backed sanitize pass for untrusted HTML before it reaches a
// parser.
package htmladapter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/eykd/prosedoc/internal/domtree"
)

// Tree wraps a golang.org/x/net/html.Node to satisfy domtree.Node and,
// when the wrapped node is detached, domtree.MutableNode.
type Tree struct {
	n *html.Node
}

// Wrap adapts an existing html.Node.
func Wrap(n *html.Node) *Tree { return &Tree{n: n} }

// Parse parses r as a full HTML document and returns its <body> element,
// wrapped as a domtree.Node.
func Parse(r io.Reader) (domtree.Node, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("htmladapter: parse: %w", err)
	}
	body := findElementByTagName(root, "body")
	if body == nil {
		return nil, fmt.Errorf("htmladapter: parsed document has no <body>")
	}
	return Wrap(body), nil
}

// ParseFragment parses r as an HTML fragment in the context of contextTag
// (e.g. "div"), returning a domtree.Node wrapping a synthetic fragment
// root holding the parsed nodes as children.
func ParseFragment(r io.Reader, contextTag string) (domtree.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: contextTag, DataAtom: 0}
	nodes, err := html.ParseFragment(r, context)
	if err != nil {
		return nil, fmt.Errorf("htmladapter: parse fragment: %w", err)
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return Wrap(root), nil
}

// Sanitize runs raw HTML through a bluemonday UGC policy before parsing,
// for use on content from untrusted sources (pasted HTML, imported
// documents from outside this process).
func Sanitize(rawHTML string) string {
	return bluemonday.UGCPolicy().Sanitize(rawHTML)
}

func findElementByTagName(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElementByTagName(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func (t *Tree) Kind() domtree.NodeKind {
	switch t.n.Type {
	case html.TextNode:
		return domtree.KindText
	case html.DocumentNode:
		return domtree.KindDocumentFragment
	default:
		return domtree.KindElement
	}
}

func (t *Tree) TagName() string {
	if t.n.Type != html.ElementNode {
		return ""
	}
	return t.n.Data
}

func (t *Tree) NamespaceURI() string {
	return t.n.Namespace
}

func (t *Tree) TextContent() string {
	if t.n.Type == html.TextNode {
		return t.n.Data
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(t.n)
	return sb.String()
}

func (t *Tree) Attr(name string) (string, bool) {
	for _, a := range t.n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// Style looks up a CSS property from the element's style attribute,
// splitting on ";" then ":" the way editor.go's parseTextStyles does.
func (t *Tree) Style(name string) (string, bool) {
	raw, ok := t.Attr("style")
	if !ok {
		return "", false
	}
	for _, decl := range strings.Split(raw, ";") {
		parts := strings.SplitN(decl, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		if strings.EqualFold(key, name) {
			return strings.TrimSpace(parts[1]), true
		}
	}
	return "", false
}

func (t *Tree) ChildNodes() []domtree.Node {
	var out []domtree.Node
	for c := t.n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, Wrap(c))
	}
	return out
}

func (t *Tree) Parent() domtree.Node {
	if t.n.Parent == nil {
		return nil
	}
	return Wrap(t.n.Parent)
}

func (t *Tree) Matches(selector string) bool {
	if t.n.Type != html.ElementNode {
		return false
	}
	sel, err := cascadia.Parse(selector)
	if err != nil {
		return false
	}
	return sel.Match(t.n)
}

func (t *Tree) Contains(other domtree.Node) bool {
	o, ok := other.(*Tree)
	if !ok {
		return false
	}
	for n := o.n; n != nil; n = n.Parent {
		if n == t.n {
			return true
		}
	}
	return false
}

func (t *Tree) AppendChild(child domtree.MutableNode) {
	c, ok := child.(*Tree)
	if !ok {
		return
	}
	t.n.AppendChild(c.n)
}

func (t *Tree) SetAttr(name, value string) {
	for i, a := range t.n.Attr {
		if a.Key == name {
			t.n.Attr[i].Val = value
			return
		}
	}
	t.n.Attr = append(t.n.Attr, html.Attribute{Key: name, Val: value})
}

// Builder creates detached nodes.
type Builder struct{}

func (Builder) CreateElement(tag string) domtree.MutableNode {
	return Wrap(&html.Node{Type: html.ElementNode, Data: tag})
}

func (Builder) CreateText(text string) domtree.MutableNode {
	return Wrap(&html.Node{Type: html.TextNode, Data: text})
}

func (Builder) CreateFragment() domtree.MutableNode {
	return Wrap(&html.Node{Type: html.DocumentNode})
}

// Render serializes n (normally a fragment built via Builder) back out as
// an HTML string.
func Render(n domtree.Node) (string, error) {
	t, ok := n.(*Tree)
	if !ok {
		return "", fmt.Errorf("htmladapter: Render requires a *Tree")
	}
	var sb strings.Builder
	if t.n.Type == html.DocumentNode {
		for c := t.n.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&sb, c); err != nil {
				return "", err
			}
		}
		return sb.String(), nil
	}
	if err := html.Render(&sb, t.n); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// SizeToInt parses a CSS length like "42px" or a bare "42" into an int,
// returning 0 for anything it can't parse.
func SizeToInt(raw string) int {
	n, _ := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(raw), "px"))
	return n
}

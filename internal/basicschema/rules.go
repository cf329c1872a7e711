package basicschema

import (
	"strconv"

	"github.com/eykd/prosedoc/internal/domparser"
	"github.com/eykd/prosedoc/internal/domserializer"
	"github.com/eykd/prosedoc/internal/domtree"
	"github.com/eykd/prosedoc/internal/domtree/htmladapter"
	"github.com/eykd/prosedoc/internal/model"
)

// ParseRules returns the DOM parse rules for Schema, mirroring the tag
// mapping prosemirror-schema-basic ships alongside its node specs.
func ParseRules() []domparser.ParseRule {
	return []domparser.ParseRule{
		{Tag: "p", Node: "paragraph"},
		{Tag: "blockquote", Node: "blockquote"},
		{Tag: "hr", Node: "horizontal_rule"},
		{Tag: "h1", Node: "heading", GetAttrs: headingAttrsFromTag(1)},
		{Tag: "h2", Node: "heading", GetAttrs: headingAttrsFromTag(2)},
		{Tag: "h3", Node: "heading", GetAttrs: headingAttrsFromTag(3)},
		{Tag: "h4", Node: "heading", GetAttrs: headingAttrsFromTag(4)},
		{Tag: "h5", Node: "heading", GetAttrs: headingAttrsFromTag(5)},
		{Tag: "h6", Node: "heading", GetAttrs: headingAttrsFromTag(6)},
		{Tag: "pre", Node: "code_block", ContentElement: "code", PreserveWhitespace: domparser.WhitespaceFull},
		{Tag: "br", Node: "hard_break"},
		{Tag: "img", Node: "image", GetAttrs: imageAttrsFromTag},
		{Tag: "a[href]", Mark: "link", GetAttrs: linkAttrsFromTag},
		{Tag: "em", Mark: "em"},
		{Tag: "i", Mark: "em"},
		{Style: "font-style=italic", Mark: "em"},
		{Tag: "strong", Mark: "strong"},
		{Tag: "b", Mark: "strong"},
		{Style: "font-weight=bold", Mark: "strong"},
		{Tag: "code", Mark: "code"},
	}
}

// ListParseRules extends ParseRules with the list-node tags.
func ListParseRules() []domparser.ParseRule {
	return append(ParseRules(),
		domparser.ParseRule{Tag: "ol", Node: "ordered_list", GetAttrs: orderedListAttrs},
		domparser.ParseRule{Tag: "ul", Node: "bullet_list"},
		domparser.ParseRule{Tag: "li", Node: "list_item"},
	)
}

func headingAttrsFromTag(level int) func(domtree.Node) model.Attrs {
	return func(domtree.Node) model.Attrs { return model.Attrs{"level": level} }
}

func imageAttrsFromTag(el domtree.Node) model.Attrs {
	attrs := model.Attrs{}
	if src, ok := el.Attr("src"); ok {
		attrs["src"] = src
	}
	if alt, ok := el.Attr("alt"); ok {
		attrs["alt"] = alt
	}
	if title, ok := el.Attr("title"); ok {
		attrs["title"] = title
	}
	if width, ok := el.Attr("width"); ok {
		if n := htmladapter.SizeToInt(width); n > 0 {
			attrs["width"] = n
		}
	}
	if height, ok := el.Attr("height"); ok {
		if n := htmladapter.SizeToInt(height); n > 0 {
			attrs["height"] = n
		}
	}
	return attrs
}

func linkAttrsFromTag(el domtree.Node) model.Attrs {
	attrs := model.Attrs{}
	if href, ok := el.Attr("href"); ok {
		attrs["href"] = href
	}
	if title, ok := el.Attr("title"); ok {
		attrs["title"] = title
	}
	return attrs
}

func orderedListAttrs(el domtree.Node) model.Attrs {
	if start, ok := el.Attr("start"); ok {
		if n, err := strconv.Atoi(start); err == nil {
			return model.Attrs{"order": n}
		}
	}
	return model.Attrs{"order": 1}
}

// SerializerSpecs returns the node/mark output specs for DOMSerializer,
// mirroring prosemirror-schema-basic's toDOM functions.
func SerializerSpecs() (map[string]domserializer.NodeSpecFunc, map[string]domserializer.MarkSpecFunc) {
	nodes := map[string]domserializer.NodeSpecFunc{
		"paragraph": func(n *model.Node) (domserializer.Spec, error) {
			return domserializer.Elem("p", nil, domserializer.Hole), nil
		},
		"blockquote": func(n *model.Node) (domserializer.Spec, error) {
			return domserializer.Elem("blockquote", nil, domserializer.Hole), nil
		},
		"horizontal_rule": func(n *model.Node) (domserializer.Spec, error) {
			return domserializer.Elem("hr", nil), nil
		},
		"heading": func(n *model.Node) (domserializer.Spec, error) {
			level, _ := n.Attrs["level"].(int)
			if level < 1 || level > 6 {
				level = 1
			}
			return domserializer.Elem("h"+strconv.Itoa(level), nil, domserializer.Hole), nil
		},
		"code_block": func(n *model.Node) (domserializer.Spec, error) {
			return domserializer.Elem("pre", nil, domserializer.Elem("code", nil, domserializer.Hole)), nil
		},
		"text": func(n *model.Node) (domserializer.Spec, error) {
			return domserializer.TextSpec(n.Text()), nil
		},
		"image": func(n *model.Node) (domserializer.Spec, error) {
			attrs := map[string]string{}
			if src, ok := n.Attrs["src"].(string); ok {
				attrs["src"] = src
			}
			if alt, ok := n.Attrs["alt"].(string); ok && alt != "" {
				attrs["alt"] = alt
			}
			if title, ok := n.Attrs["title"].(string); ok && title != "" {
				attrs["title"] = title
			}
			if width, ok := n.Attrs["width"].(int); ok && width > 0 {
				attrs["width"] = strconv.Itoa(width)
			}
			if height, ok := n.Attrs["height"].(int); ok && height > 0 {
				attrs["height"] = strconv.Itoa(height)
			}
			return domserializer.Elem("img", attrs), nil
		},
		"hard_break": func(n *model.Node) (domserializer.Spec, error) {
			return domserializer.Elem("br", nil), nil
		},
		"ordered_list": func(n *model.Node) (domserializer.Spec, error) {
			attrs := map[string]string{}
			if order, ok := n.Attrs["order"].(int); ok && order != 1 {
				attrs["start"] = strconv.Itoa(order)
			}
			return domserializer.Elem("ol", attrs, domserializer.Hole), nil
		},
		"bullet_list": func(n *model.Node) (domserializer.Spec, error) {
			return domserializer.Elem("ul", nil, domserializer.Hole), nil
		},
		"list_item": func(n *model.Node) (domserializer.Spec, error) {
			return domserializer.Elem("li", nil, domserializer.Hole), nil
		},
		"doc": func(n *model.Node) (domserializer.Spec, error) {
			return domserializer.Hole, nil
		},
	}
	marks := map[string]domserializer.MarkSpecFunc{
		"link": func(m *model.Mark, inline bool) (domserializer.Spec, error) {
			attrs := map[string]string{}
			if href, ok := m.Attrs["href"].(string); ok {
				attrs["href"] = href
			}
			if title, ok := m.Attrs["title"].(string); ok && title != "" {
				attrs["title"] = title
			}
			return domserializer.Elem("a", attrs, domserializer.Hole), nil
		},
		"em": func(m *model.Mark, inline bool) (domserializer.Spec, error) {
			return domserializer.Elem("em", nil, domserializer.Hole), nil
		},
		"strong": func(m *model.Mark, inline bool) (domserializer.Spec, error) {
			return domserializer.Elem("strong", nil, domserializer.Hole), nil
		},
		"code": func(m *model.Mark, inline bool) (domserializer.Spec, error) {
			return domserializer.Elem("code", nil, domserializer.Hole), nil
		},
	}
	return nodes, marks
}

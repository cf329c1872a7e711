// Package model implements the document value model: immutable nodes,
// fragments, marks and slices, the schema and content-match engine that
// gives them editorial meaning, the position-resolution machinery, and the
// replace algorithm that splices a slice into a document.
package model

import "errors"

// Schema construction errors.
var (
	// ErrUnknownType is returned when a content or mark expression refers to
	// a node or mark name that the schema does not define.
	ErrUnknownType = errors.New("model: unknown node or mark type")
	// ErrNameConflict is returned when a node and a mark share a name.
	ErrNameConflict = errors.New("model: node type and mark type share a name")
	// ErrMissingTextType is returned when a schema has no "text" node type.
	ErrMissingTextType = errors.New("model: schema has no \"text\" node type")
	// ErrMissingTopNode is returned when the configured top node type is undefined.
	ErrMissingTopNode = errors.New("model: schema has no top node type")
	// ErrTextHasAttrs is returned when the "text" node spec declares attributes.
	ErrTextHasAttrs = errors.New("model: the \"text\" node type must not declare attributes")
)

// Attribute errors.
var (
	// ErrMissingAttr is returned by node/mark construction when a required
	// attribute was not supplied and has no default.
	ErrMissingAttr = errors.New("model: missing required attribute")
	// ErrUnknownAttr is returned when an attribute map contains a key the
	// type does not declare.
	ErrUnknownAttr = errors.New("model: unknown attribute")
)

// Content validity errors.
var (
	// ErrInvalidContent is returned when a fragment does not match a node
	// type's content expression.
	ErrInvalidContent = errors.New("model: invalid content")
	// ErrNoWrapping is returned when no chain of wrapper node types can make
	// a node fit inside a given content match.
	ErrNoWrapping = errors.New("model: no wrapping found")
	// ErrNoFill is returned when fillBefore cannot complete the requested match.
	ErrNoFill = errors.New("model: could not fill to reach a valid match")
)

// Content expression parse errors.
var (
	ErrZeroCountQuantifier = errors.New("model: zero-count quantifier in content expression")
	ErrContentExprSyntax   = errors.New("model: malformed content expression")
	ErrAmbiguousContent    = errors.New("model: content expression has indistinguishable adjacent alternatives")
)

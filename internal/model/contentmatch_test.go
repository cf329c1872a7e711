package model

import (
	"errors"
	"testing"
)

func TestContentMatchFillBeforeRequiresFollowingContent(t *testing.T) {
	spec := &SchemaSpec{
		Nodes: []*NodeSpec{
			{Key: "doc", Content: "item item"},
			{Key: "item", Content: "text*"},
			{Key: "text", Group: "inline"},
		},
	}
	s, err := NewSchema(spec)
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}

	item := s.Nodes["item"]
	cm := s.Nodes["doc"].ContentMatch()

	after := cm.MatchType(item)
	if after == nil {
		t.Fatalf("MatchType() = nil, want the state after one item")
	}

	fill, err := after.FillBefore(EmptyFragment, true, 0)
	if err != nil {
		t.Fatalf("FillBefore() error = %v", err)
	}
	if fill.ChildCount() != 1 || fill.FirstChild().Type != item {
		t.Errorf("expected FillBefore to add one more item, got %d children", fill.ChildCount())
	}
}

func TestContentMatchFindWrapping(t *testing.T) {
	spec := &SchemaSpec{
		Nodes: []*NodeSpec{
			{Key: "doc", Content: "block+"},
			{Key: "paragraph", Content: "text*", Group: "block"},
			{Key: "blockquote", Content: "block+", Group: "block"},
			{Key: "text", Group: "inline"},
		},
	}
	s, err := NewSchema(spec)
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}

	bq := s.Nodes["blockquote"]
	para := s.Nodes["paragraph"]

	// paragraph is in group "block", so doc's "block+" accepts it directly:
	// the wrapping needed to fit paragraph under doc is empty.
	wrap, err := s.cachedWrapping(s.TopNode.ContentMatch(), para)
	if err != nil {
		t.Fatalf("cachedWrapping() error = %v", err)
	}
	if len(wrap) != 0 {
		t.Errorf("expected no wrapping needed for paragraph directly under doc, got %v", wrap)
	}
	_ = bq
}

func TestContentExprRejectsZeroCountQuantifier(t *testing.T) {
	spec := &SchemaSpec{
		Nodes: []*NodeSpec{
			{Key: "doc", Content: "item{0}"},
			{Key: "item", Content: "text*"},
			{Key: "text", Group: "inline"},
		},
	}
	if _, err := NewSchema(spec); !errors.Is(err, ErrZeroCountQuantifier) {
		t.Fatalf("NewSchema() error = %v, want ErrZeroCountQuantifier", err)
	}
}

func TestContentExprRejectsAdjacentAmbiguity(t *testing.T) {
	spec := &SchemaSpec{
		Nodes: []*NodeSpec{
			{Key: "doc", Content: "item* item*"},
			{Key: "item", Content: "text*"},
			{Key: "text", Group: "inline"},
		},
	}
	if _, err := NewSchema(spec); !errors.Is(err, ErrAmbiguousContent) {
		t.Fatalf("NewSchema() error = %v, want ErrAmbiguousContent", err)
	}
}

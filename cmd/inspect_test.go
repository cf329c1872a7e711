package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestInspectCmdListsNodesAndMarks(t *testing.T) {
	c := NewInspectCmd()
	out := new(bytes.Buffer)
	c.SetOut(out)
	c.SetErr(new(bytes.Buffer))
	c.SetArgs([]string{"--basic"})

	if err := c.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{"doc", "paragraph", "heading", "em", "strong", "link"} {
		if !strings.Contains(got, want) {
			t.Errorf("inspect output missing %q: %s", want, got)
		}
	}
}

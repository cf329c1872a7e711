package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestImportMarkdownCmd(t *testing.T) {
	c := NewImportMarkdownCmd()
	out := new(bytes.Buffer)
	c.SetOut(out)
	c.SetErr(new(bytes.Buffer))
	c.SetIn(strings.NewReader("# Title\n\nSome *text*.\n"))
	c.SetArgs([]string{"--basic", "-"})

	if err := c.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, `"heading"`) {
		t.Errorf("output missing heading: %s", got)
	}
	if !strings.Contains(got, `"em"`) {
		t.Errorf("output missing em mark: %s", got)
	}
}

package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseCmdBasicSchema(t *testing.T) {
	c := NewParseCmd()
	out := new(bytes.Buffer)
	c.SetOut(out)
	c.SetErr(new(bytes.Buffer))
	c.SetIn(strings.NewReader("<p>hello <em>world</em></p>"))
	c.SetArgs([]string{"--basic", "-"})

	if err := c.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, `"type":"doc"`) {
		t.Errorf("output missing doc type: %s", got)
	}
	if !strings.Contains(got, `"paragraph"`) {
		t.Errorf("output missing paragraph: %s", got)
	}
	if !strings.Contains(got, `"em"`) {
		t.Errorf("output missing em mark: %s", got)
	}
}

func TestParseCmdRequiresSchema(t *testing.T) {
	c := NewParseCmd()
	c.SetOut(new(bytes.Buffer))
	c.SetErr(new(bytes.Buffer))
	c.SetIn(strings.NewReader("<p>hi</p>"))
	c.SetArgs([]string{"-"})

	if err := c.Execute(); err == nil {
		t.Fatal("expected error when neither --schema nor --basic is given")
	}
}

package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderCmdRoundTrip(t *testing.T) {
	parseCmd := NewParseCmd()
	parseOut := new(bytes.Buffer)
	parseCmd.SetOut(parseOut)
	parseCmd.SetErr(new(bytes.Buffer))
	parseCmd.SetIn(strings.NewReader("<p>hello <strong>world</strong></p>"))
	parseCmd.SetArgs([]string{"--basic", "-"})
	if err := parseCmd.Execute(); err != nil {
		t.Fatalf("parse Execute() error = %v", err)
	}

	renderCmd := NewRenderCmd()
	renderOut := new(bytes.Buffer)
	renderCmd.SetOut(renderOut)
	renderCmd.SetErr(new(bytes.Buffer))
	renderCmd.SetIn(strings.NewReader(parseOut.String()))
	renderCmd.SetArgs([]string{"--basic", "-"})
	if err := renderCmd.Execute(); err != nil {
		t.Fatalf("render Execute() error = %v", err)
	}

	got := renderOut.String()
	if !strings.Contains(got, "<p>") || !strings.Contains(got, "<strong>") {
		t.Errorf("rendered html missing expected tags: %s", got)
	}
}

func TestRenderCmdRequiresSerializableSchema(t *testing.T) {
	c := NewRenderCmd()
	c.SetOut(new(bytes.Buffer))
	c.SetErr(new(bytes.Buffer))
	c.SetIn(strings.NewReader(`{"type":"doc","content":[]}`))
	c.SetArgs([]string{"-"})

	if err := c.Execute(); err == nil {
		t.Fatal("expected error when neither --schema nor --basic is given")
	}
}

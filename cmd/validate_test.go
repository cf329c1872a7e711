package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestValidateCmdBasicSchema(t *testing.T) {
	c := NewValidateCmd()
	out := new(bytes.Buffer)
	c.SetOut(out)
	c.SetErr(new(bytes.Buffer))
	c.SetArgs([]string{"--basic"})

	if err := c.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "schema ok") {
		t.Errorf("expected schema ok message, got: %s", out.String())
	}
}

func TestValidateCmdRequiresSchema(t *testing.T) {
	c := NewValidateCmd()
	c.SetOut(new(bytes.Buffer))
	c.SetErr(new(bytes.Buffer))
	c.SetArgs([]string{})

	if err := c.Execute(); err == nil {
		t.Fatal("expected error when neither --schema nor --basic is given")
	}
}

func TestValidateCmdRejectsBadDocument(t *testing.T) {
	dir := t.TempDir()
	docPath := dir + "/bad.json"
	if err := os.WriteFile(docPath, []byte(`{"type":"not_a_real_type"}`), 0o644); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}

	c := NewValidateCmd()
	c.SetOut(new(bytes.Buffer))
	c.SetErr(new(bytes.Buffer))
	c.SetArgs([]string{"--basic", "--doc", docPath})

	if err := c.Execute(); err == nil {
		t.Fatal("expected error for a document referencing an unknown node type")
	}
}

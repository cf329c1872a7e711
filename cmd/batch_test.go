package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestBatchCmdWritesSidecars(t *testing.T) {
	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "a.html")
	mdPath := filepath.Join(dir, "b.md")
	if err := os.WriteFile(htmlPath, []byte("<p>hi</p>"), 0o644); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}
	if err := os.WriteFile(mdPath, []byte("# hi\n"), 0o644); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}

	c := NewBatchCmd()
	c.SetOut(new(bytes.Buffer))
	c.SetErr(new(bytes.Buffer))
	c.SetArgs([]string{"--basic", dir})

	if err := c.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, sidecar := range []string{htmlPath + ".json", mdPath + ".json"} {
		if _, err := os.Stat(sidecar); err != nil {
			t.Errorf("expected sidecar %s to exist: %v", sidecar, err)
		}
	}
}

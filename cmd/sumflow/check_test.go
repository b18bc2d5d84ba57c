package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nickandperla.net/sumflow/internal/samples"
)

func TestCheck(t *testing.T) {
	dir := testDir(t)
	nb := filepath.Join(dir, "notebooks")
	if err := os.MkdirAll(filepath.Join(nb, "nested"), 0755); err != nil {
		t.Fatalf("failed to create dirs: %v", err)
	}
	files := map[string]string{
		"welcome.sumflow":       samples.Welcome,
		"nested/broken.sumflow": "a = 1\nb = a +\nc = missing * 2\n",
		"nested/ignored.txt":    "this is not checked",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(nb, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	out, err := runCLI(t, dir, "", "check", "--dir", nb)
	if !errors.Is(err, errCheckFailed) {
		t.Fatalf("expected errCheckFailed, got %v", err)
	}
	for _, want := range []string{
		"FAIL " + filepath.Join(nb, "nested", "broken.sumflow"),
		"line 2: syntax error",
		"line 3: unknown identifier",
		"OK   " + filepath.Join(nb, "welcome.sumflow"),
		"Total:  2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestCheckPasses(t *testing.T) {
	dir := testDir(t)
	path := filepath.Join(dir, "ok.sumflow")
	if err := os.WriteFile(path, []byte("// totals\nx = 2\nx * 3\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if _, err := runCLI(t, dir, "", "check", path); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

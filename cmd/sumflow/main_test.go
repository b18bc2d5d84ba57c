package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI executes the command tree in-process against an isolated
// working directory and database.
func runCLI(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out, &errOut)
	cmd.SetArgs(append([]string{"--db", filepath.Join(dir, "test.db")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func testDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestEvalExpressions(t *testing.T) {
	dir := testDir(t)

	out, err := runCLI(t, dir, "", "eval", "-e", "Salary = 5000", "-e", "Salary * 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "5,000 (Salary)") || !strings.Contains(out, "10,000") {
		t.Errorf("expected results in output, got:\n%s", out)
	}
}

func TestEvalFile(t *testing.T) {
	dir := testDir(t)
	path := filepath.Join(dir, "trip.txt")
	if err := os.WriteFile(path, []byte("Hotel = $200\nFood = €50\nTotal = Hotel + Food in USD\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	out, err := runCLI(t, dir, "", "eval", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "258 USD (Total)") {
		t.Errorf("expected converted total, got:\n%s", out)
	}
}

func TestEvalJSONFromStdin(t *testing.T) {
	dir := testDir(t)

	out, err := runCLI(t, dir, "x = \ny = x + 1\n\n5 of 20%\n", "eval", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(rows) != 4 {
		t.Fatalf("expected one JSON object per line, got %d rows:\n%s", len(rows), out)
	}
	lines := make([]jsonLine, len(rows))
	for i, row := range rows {
		if err := json.Unmarshal([]byte(row), &lines[i]); err != nil {
			t.Fatalf("invalid JSON on row %d: %v\n%s", i+1, err, row)
		}
	}
	if lines[0].ErrorKind != "syntax" || lines[1].ErrorKind != "unknown_identifier" {
		t.Errorf("unexpected error kinds: %q, %q", lines[0].ErrorKind, lines[1].ErrorKind)
	}
	if lines[2].State != "blank" {
		t.Errorf("expected blank line, got %q", lines[2].State)
	}
	if lines[3].Formatted != "1" || lines[3].Expression != "5 * 20%" {
		t.Errorf("unexpected result: %+v", lines[3])
	}
}

func TestEvalRatesFromConfig(t *testing.T) {
	dir := testDir(t)
	cfg := filepath.Join(dir, "sumflow.yaml")
	if err := os.WriteFile(cfg, []byte("rates:\n  eur: 2\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	out, err := runCLI(t, dir, "", "eval", "-e", "€10 as $")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "20 USD") {
		t.Errorf("expected configured rate, got:\n%s", out)
	}
}

func TestSheetCommands(t *testing.T) {
	dir := testDir(t)
	src := filepath.Join(dir, "budget.txt")
	if err := os.WriteFile(src, []byte("Rent = 1200\nRent * 12\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	if _, err := runCLI(t, dir, "", "sheet", "new", "Budget", "--from", src); err != nil {
		t.Fatalf("sheet new: %v", err)
	}

	out, err := runCLI(t, dir, "", "sheet", "list")
	if err != nil {
		t.Fatalf("sheet list: %v", err)
	}
	if !strings.Contains(out, "Welcome") || !strings.Contains(out, "Budget") {
		t.Errorf("expected both sheets listed, got:\n%s", out)
	}

	out, err = runCLI(t, dir, "", "sheet", "show", "budget")
	if err != nil {
		t.Fatalf("sheet show: %v", err)
	}
	if !strings.Contains(out, "14,400") {
		t.Errorf("expected evaluated sheet, got:\n%s", out)
	}

	if _, err := runCLI(t, dir, "Rent = 1000\nRent * 12\n", "sheet", "set", "Budget"); err != nil {
		t.Fatalf("sheet set: %v", err)
	}
	if _, err := runCLI(t, dir, "", "sheet", "rename", "Budget", "Home"); err != nil {
		t.Fatalf("sheet rename: %v", err)
	}
	out, err = runCLI(t, dir, "", "sheet", "show", "Home")
	if err != nil {
		t.Fatalf("sheet show after rename: %v", err)
	}
	if !strings.Contains(out, "12,000") {
		t.Errorf("expected updated content, got:\n%s", out)
	}

	if _, err := runCLI(t, dir, "", "sheet", "rm", "Welcome"); err != nil {
		t.Fatalf("sheet rm: %v", err)
	}
	if _, err := runCLI(t, dir, "", "sheet", "rm", "Home"); err == nil {
		t.Error("expected error deleting the last sheet")
	}
}

func TestSheetExportImport(t *testing.T) {
	dir := testDir(t)
	export := filepath.Join(dir, "export.json")

	if _, err := runCLI(t, dir, "", "sheet", "export", export); err != nil {
		t.Fatalf("sheet export: %v", err)
	}
	data, err := os.ReadFile(export)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if !strings.Contains(string(data), `"name": "Welcome"`) {
		t.Errorf("expected welcome sheet in export, got:\n%s", data)
	}

	other := t.TempDir()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(""), &out, &errOut)
	cmd.SetArgs([]string{"--db", filepath.Join(other, "other.db"), "sheet", "import", export})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("sheet import: %v", err)
	}
	if !strings.Contains(out.String(), "imported 1 sheet") {
		t.Errorf("expected import count, got %q", out.String())
	}
}

func TestUnitsCommand(t *testing.T) {
	dir := testDir(t)

	out, err := runCLI(t, dir, "", "units", "--dimension", "currency")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "EUR") || strings.Contains(out, "km") {
		t.Errorf("expected only currencies, got:\n%s", out)
	}
}

func TestInvalidConfig(t *testing.T) {
	dir := testDir(t)
	if _, err := runCLI(t, dir, "", "--precision", "0", "eval", "-e", "1"); err == nil {
		t.Error("expected error for invalid precision")
	}
}

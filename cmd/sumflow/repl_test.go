package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestBasicREPL(t *testing.T) {
	dir := testDir(t)
	input := strings.Join([]string{
		"Walk = 5 km + 500 m",
		"prev * 2",
		"oops +",
		":show",
		":save Walks",
		":clear",
		":open walks",
		":bogus",
		":quit",
		"never evaluated",
	}, "\n") + "\n"

	out, err := runCLI(t, dir, input, "repl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"= 5.5 km (Walk)",
		"= 11 km",
		"Error: syntax error",
		"1  Walk = 5 km + 500 m  5.5 km (Walk)",
		"saved ",
		"loaded 3 lines",
		"Unknown command :bogus",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "never evaluated") {
		t.Error("expected :quit to stop the REPL")
	}

	listed, err := runCLI(t, dir, "", "sheet", "list")
	if err != nil {
		t.Fatalf("sheet list: %v", err)
	}
	if !strings.Contains(listed, "Walks") {
		t.Errorf("expected saved sheet, got:\n%s", listed)
	}
}

func TestBasicREPLEndsAtEOF(t *testing.T) {
	dir := testDir(t)
	out, err := runCLI(t, dir, "1 + 1", "repl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "= 2") {
		t.Errorf("expected last line without newline to be evaluated, got:\n%s", out)
	}
}

func TestREPLOpenFlag(t *testing.T) {
	dir := testDir(t)
	out, err := runCLI(t, dir, ":show\n", "repl", "--open", "Welcome")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "258 USD (Total Trip Cost)") {
		t.Errorf("expected welcome notebook, got:\n%s", out)
	}
}

func TestLineEditor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		eof   bool
	}{
		{"plain", "1 + 2\r", "1 + 2", false},
		{"alt currency", "5\x1be + 3\x1b4\r", "5€ + 3$", false},
		{"left arrow insert", "ac\x1b[Db\r", "abc", false},
		{"backspace", "abx\x7fc\r", "abc", false},
		{"ctrl-a ctrl-k", "abc\x01\x0bxy\r", "xy", false},
		{"delete key", "abc\x1b[D\x1b[3~\r", "ab", false},
		{"utf8", "5 ×\xc2\xa0\r", "5 ×\u00a0", false},
		{"ctrl-d on empty", "\x04", "", true},
		{"eof mid-line", "12", "12", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			ed := &lineEditor{in: strings.NewReader(tt.input), out: &out}
			got, eof := ed.readLine()
			if got != tt.want || eof != tt.eof {
				t.Errorf("expected (%q, %v), got (%q, %v)", tt.want, tt.eof, got, eof)
			}
		})
	}
}

func TestCRLFWriter(t *testing.T) {
	var buf bytes.Buffer
	w := crlfWriter{w: &buf}
	n, err := w.Write([]byte("a\nb\n"))
	if err != nil || n != 4 {
		t.Fatalf("unexpected write result: %d, %v", n, err)
	}
	if buf.String() != "a\r\nb\r\n" {
		t.Errorf("expected CRLF line endings, got %q", buf.String())
	}
}

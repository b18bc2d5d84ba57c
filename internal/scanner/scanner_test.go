package scanner

import (
	"testing"

	"nickandperla.net/sumflow/internal/token"
)

func scanAll(t *testing.T, input string) []Item {
	t.Helper()
	items, err := NewFromString(input).All()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return items
}

func TestScanTokens(t *testing.T) {
	tests := []struct {
		input string
		want  []token.Token
	}{
		{"12.5 * 3", []token.Token{token.NUMBER, token.STAR, token.NUMBER, token.EOF}},
		{"2×3÷4", []token.Token{token.NUMBER, token.STAR, token.NUMBER, token.SLASH, token.NUMBER, token.EOF}},
		{"a <= b", []token.Token{token.IDENT, token.LE, token.IDENT, token.EOF}},
		{"x != 1", []token.Token{token.IDENT, token.NEQ, token.NUMBER, token.EOF}},
		{"20% of 5", []token.Token{token.NUMBER, token.PERCENT, token.IDENT, token.NUMBER, token.EOF}},
		{"max(1, 2)", []token.Token{token.IDENT, token.LPAREN, token.NUMBER, token.COMMA, token.NUMBER, token.RPAREN, token.EOF}},
		{"", []token.Token{token.EOF}},
	}

	for _, tt := range tests {
		items := scanAll(t, tt.input)
		if len(items) != len(tt.want) {
			t.Errorf("%q: expected %d items, got %v", tt.input, len(tt.want), items)
			continue
		}
		for i, item := range items {
			if item.Token != tt.want[i] {
				t.Errorf("%q: item %d: expected %s, got %s", tt.input, i, tt.want[i], item.Token)
			}
		}
	}
}

func TestScanNumbers(t *testing.T) {
	tests := []struct {
		input string
		value string
		next  string
	}{
		{"1e3", "1e3", ""},
		{"2.5E-2", "2.5E-2", ""},
		{".5", ".5", ""},
		{"5EUR", "5", "EUR"},
		{"3em", "3", "em"},
	}

	for _, tt := range tests {
		items := scanAll(t, tt.input)
		if items[0].Token != token.NUMBER || items[0].Value != tt.value {
			t.Errorf("%q: expected NUMBER(%s), got %s", tt.input, tt.value, items[0])
		}
		if tt.next != "" && (items[1].Token != token.IDENT || items[1].Value != tt.next) {
			t.Errorf("%q: expected IDENT(%s), got %s", tt.input, tt.next, items[1])
		}
	}
}

func TestScanIllegal(t *testing.T) {
	for _, input := range []string{".", "=", "!", "#"} {
		items := scanAll(t, input)
		if items[0].Token != token.ILLEGAL {
			t.Errorf("%q: expected ILLEGAL, got %s", input, items[0])
		}
	}
}

func TestScanUnicodeIdent(t *testing.T) {
	items := scanAll(t, "café_2 + 1")
	if items[0].Token != token.IDENT || items[0].Value != "café_2" {
		t.Errorf("expected IDENT(café_2), got %s", items[0])
	}
	if items[1].Pos != 7 {
		t.Errorf("expected + at rune offset 7, got %d", items[1].Pos)
	}
}

func TestPeek(t *testing.T) {
	s := NewFromString("1 + 2")
	p, err := s.Peek()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, err := s.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != n {
		t.Errorf("expected Peek and Next to return the same item")
	}
	n, _ = s.Next()
	if n.Token != token.PLUS || n.Pos != 2 {
		t.Errorf("expected + at 2, got %s at %d", n, n.Pos)
	}
}

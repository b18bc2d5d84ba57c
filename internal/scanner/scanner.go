// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner provides a Unicode-aware lexer for sumflow expressions.
package scanner

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"nickandperla.net/sumflow/internal/token"
)

// Scanner tokenizes an expression rune-by-rune.
type Scanner struct {
	reader *bufio.Reader
	buf    strings.Builder
	peeked *Item
	pos    int // Rune offset of the next unread rune (0-based)
}

// Item represents a scanned token with its value.
type Item struct {
	Token token.Token
	Value string
	Pos   int // Rune offset where this token started
}

func (i Item) String() string {
	if i.Token == token.NUMBER || i.Token == token.IDENT || i.Token == token.ILLEGAL {
		return fmt.Sprintf("%s(%s)", i.Token, i.Value)
	}
	return i.Token.String()
}

// New creates a new Scanner from an io.Reader.
func New(r io.Reader) *Scanner {
	return &Scanner{reader: bufio.NewReader(r)}
}

// NewFromString creates a new Scanner from a string.
func NewFromString(s string) *Scanner {
	return New(strings.NewReader(s))
}

// Peek returns the next item without consuming it.
func (s *Scanner) Peek() (*Item, error) {
	if s.peeked != nil {
		return s.peeked, nil
	}
	item, err := s.Next()
	if err != nil {
		return nil, err
	}
	s.peeked = item
	return item, nil
}

// Next returns the next token from the input.
func (s *Scanner) Next() (*Item, error) {
	if s.peeked != nil {
		item := s.peeked
		s.peeked = nil
		return item, nil
	}

	if err := s.SkipWhitespace(); err != nil {
		return nil, err
	}

	s.buf.Reset()
	start := s.pos

	r, err := s.read()
	if err == io.EOF {
		return &Item{Token: token.EOF, Pos: start}, nil
	}
	if err != nil {
		return nil, err
	}

	switch {
	case isDigit(r) || r == '.':
		return s.scanNumber(r, start)
	case token.IsIdentStart(r):
		s.buf.WriteRune(r)
		if err := s.accept(token.IsIdentPart); err != nil {
			return nil, err
		}
		return &Item{Token: token.IDENT, Value: s.buf.String(), Pos: start}, nil
	case token.IsOperator(r):
		return s.scanOperator(r, start)
	}

	return &Item{Token: token.ILLEGAL, Value: string(r), Pos: start}, nil
}

// All scans the remaining input into a slice ending with an EOF item.
func (s *Scanner) All() ([]Item, error) {
	var items []Item
	for {
		item, err := s.Next()
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
		if item.Token == token.EOF {
			return items, nil
		}
	}
}

// scanNumber reads an integer or decimal literal with an optional exponent.
// A lone "." that is not followed by a digit is illegal.
func (s *Scanner) scanNumber(first rune, start int) (*Item, error) {
	s.buf.WriteRune(first)
	if first == '.' {
		r, err := s.peekRune()
		if err != nil {
			return nil, err
		}
		if !isDigit(r) {
			return &Item{Token: token.ILLEGAL, Value: ".", Pos: start}, nil
		}
	} else {
		if err := s.accept(isDigit); err != nil {
			return nil, err
		}
		r, err := s.peekRune()
		if err != nil {
			return nil, err
		}
		if r == '.' {
			s.read()
			s.buf.WriteRune(r)
		}
	}
	if err := s.accept(isDigit); err != nil {
		return nil, err
	}

	// Exponent only when a digit follows, so "5EUR" stays a number and a unit.
	r, err := s.peekRune()
	if err != nil {
		return nil, err
	}
	if r == 'e' || r == 'E' {
		mark, err := s.reader.Peek(3)
		if err != nil && err != io.EOF {
			return nil, err
		}
		if exponentFollows(mark) {
			s.read()
			s.buf.WriteRune(r)
			sign, _ := s.peekRune()
			if sign == '+' || sign == '-' {
				s.read()
				s.buf.WriteRune(sign)
			}
			if err := s.accept(isDigit); err != nil {
				return nil, err
			}
		}
	}

	return &Item{Token: token.NUMBER, Value: s.buf.String(), Pos: start}, nil
}

func exponentFollows(b []byte) bool {
	if len(b) < 2 {
		return false
	}
	if b[1] >= '0' && b[1] <= '9' {
		return true
	}
	return len(b) == 3 && (b[1] == '+' || b[1] == '-') && b[2] >= '0' && b[2] <= '9'
}

func (s *Scanner) scanOperator(r rune, start int) (*Item, error) {
	item := func(t token.Token, v string) (*Item, error) {
		return &Item{Token: t, Value: v, Pos: start}, nil
	}

	// Two-rune comparisons
	next, err := s.peekRune()
	if err != nil {
		return nil, err
	}
	if next == '=' {
		switch r {
		case '=':
			s.read()
			return item(token.EQ, "==")
		case '!':
			s.read()
			return item(token.NEQ, "!=")
		case '<':
			s.read()
			return item(token.LE, "<=")
		case '>':
			s.read()
			return item(token.GE, ">=")
		}
	}

	switch r {
	case '+':
		return item(token.PLUS, "+")
	case '-':
		return item(token.MINUS, "-")
	case '*', token.RuneTimes:
		return item(token.STAR, "*")
	case '/', token.RuneDivide:
		return item(token.SLASH, "/")
	case '^':
		return item(token.CARET, "^")
	case '%':
		return item(token.PERCENT, "%")
	case '(':
		return item(token.LPAREN, "(")
	case ')':
		return item(token.RPAREN, ")")
	case ',':
		return item(token.COMMA, ",")
	case '<':
		return item(token.LT, "<")
	case '>':
		return item(token.GT, ">")
	}

	// Lone '=' or '!'
	return item(token.ILLEGAL, string(r))
}

// accept consumes runes while pred holds.
func (s *Scanner) accept(pred func(rune) bool) error {
	for {
		r, err := s.read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !pred(r) {
			s.unread()
			return nil
		}
		s.buf.WriteRune(r)
	}
}

// SkipWhitespace consumes and discards whitespace.
func (s *Scanner) SkipWhitespace() error {
	for {
		r, err := s.read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !unicode.IsSpace(r) {
			s.unread()
			return nil
		}
	}
}

// peekRune returns the next rune without consuming it. Returns 0 on EOF.
func (s *Scanner) peekRune() (rune, error) {
	r, err := s.read()
	if err == io.EOF {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	s.unread()
	return r, nil
}

func (s *Scanner) read() (rune, error) {
	r, _, err := s.reader.ReadRune()
	if err != nil {
		return 0, err
	}
	s.pos++
	return r, nil
}

func (s *Scanner) unread() {
	if s.reader.UnreadRune() == nil {
		s.pos--
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines the token types of the sumflow expression language.
package token

import "unicode"

// Token represents an expression token type.
type Token int

const (
	EOF Token = iota
	ILLEGAL

	NUMBER // 12, 3.5, .5, 1e3
	IDENT  // Salary, km, sqrt, to, in

	// Operators
	PLUS    // +
	MINUS   // -
	STAR    // * or ×
	SLASH   // / or ÷
	CARET   // ^
	PERCENT // % (postfix percent or binary modulo)
	EQ      // ==
	NEQ     // !=
	LT      // <
	GT      // >
	LE      // <=
	GE      // >=

	// Delimiters
	LPAREN // (
	RPAREN // )
	COMMA  // ,
)

// Unicode runes accepted as operator aliases.
const (
	RuneTimes  = '×' // U+00D7
	RuneDivide = '÷' // U+00F7
)

// Conversion keywords. They are scanned as identifiers and interpreted by
// the parser, since "in" is also the inch unit.
const (
	KeywordTo = "to"
	KeywordIn = "in"
)

var names = map[Token]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",
	NUMBER:  "NUMBER",
	IDENT:   "IDENT",
	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	CARET:   "^",
	PERCENT: "%",
	EQ:      "==",
	NEQ:     "!=",
	LT:      "<",
	GT:      ">",
	LE:      "<=",
	GE:      ">=",
	LPAREN:  "(",
	RPAREN:  ")",
	COMMA:   ",",
}

// String returns the token's name or operator spelling.
func (t Token) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// IsComparison returns true for the comparison operators.
func (t Token) IsComparison() bool {
	switch t {
	case EQ, NEQ, LT, GT, LE, GE:
		return true
	}
	return false
}

// IsOperator returns true if the rune starts an operator or delimiter.
func IsOperator(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '^', '%', '(', ')', ',', '=', '!', '<', '>',
		RuneTimes, RuneDivide:
		return true
	}
	return false
}

// IsIdentStart returns true if r can begin an identifier.
func IsIdentStart(r rune) bool {
	return r == '_' || isLetter(r)
}

// IsIdentPart returns true if r can continue an identifier.
func IsIdentPart(r rune) bool {
	return r == '_' || isLetter(r) || isDigit(r)
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 0x7f && unicode.IsLetter(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package expr defines the parsed expression tree.
package expr

import (
	"strconv"
	"strings"

	"nickandperla.net/sumflow/internal/token"
)

// Expr is the interface all expression nodes implement.
type Expr interface {
	// String returns a fully parenthesized rendering of the expression.
	String() string
}

// Number is a numeric literal.
type Number struct {
	Value float64
}

func (n Number) String() string { return strconv.FormatFloat(n.Value, 'g', -1, 64) }

// Ident is a name resolved at evaluation time: a scope binding, a constant
// or a unit.
type Ident struct {
	Name string
}

func (i Ident) String() string { return i.Name }

// Percent is a postfix percentage (x%).
type Percent struct {
	Operand Expr
}

func (p Percent) String() string { return "(" + p.Operand.String() + "%)" }

// Unary is a prefix sign.
type Unary struct {
	Op      token.Token
	Operand Expr
}

func (u Unary) String() string { return "(" + u.Op.String() + u.Operand.String() + ")" }

// Binary is an infix operation. Implicit multiplication ("5 km") is a
// Binary with Op STAR and Implicit set.
type Binary struct {
	Op       token.Token
	Left     Expr
	Right    Expr
	Implicit bool
}

func (b Binary) String() string {
	if b.Implicit {
		return "(" + b.Left.String() + " " + b.Right.String() + ")"
	}
	return "(" + b.Left.String() + " " + b.Op.String() + " " + b.Right.String() + ")"
}

// Convert is a unit conversion (x to unit, x in unit).
type Convert struct {
	Value  Expr
	Target string
}

func (c Convert) String() string { return "(" + c.Value.String() + " to " + c.Target + ")" }

// Call is a function application.
type Call struct {
	Name string
	Args []Expr
}

func (c Call) String() string {
	var sb strings.Builder
	sb.WriteString(c.Name)
	sb.WriteString("(")
	for i, a := range c.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package sheet evaluates a calculation notebook line by line.
//
// Every pass starts from nothing: the variable registry, the scope and the
// "previous value" are rebuilt top to bottom from the lines given, and a
// failing line never stops the lines after it.
package sheet

import (
	"log/slog"
	"strings"

	"golang.org/x/text/language"

	"nickandperla.net/sumflow/internal/diag"
	"nickandperla.net/sumflow/internal/eval"
)

// Engine compiles normalized expressions. *eval.Evaluator implements it.
type Engine interface {
	Compile(expression string) (eval.Compiled, error)
}

// State is the outcome of one line.
type State int

const (
	Blank State = iota
	Assigned
	Expression
	Failed
)

func (s State) String() string {
	switch s {
	case Blank:
		return "blank"
	case Assigned:
		return "assigned"
	case Expression:
		return "expression"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// LineResult is the outcome of evaluating one line.
type LineResult struct {
	Line      int // 1-based
	State     State
	Value     eval.Value // nil for blank and failed lines
	Formatted string
	Err       error
	// Variable is the display name of a successful assignment.
	Variable     string
	IsAssignment bool
	// Expression is the normalized text handed to the engine.
	Expression string
	// Scope is the scope as it stands after this line.
	Scope eval.Scope
}

// OK reports whether the line produced a value.
func (r LineResult) OK() bool {
	return r.Value != nil
}

// Evaluator runs evaluation passes. It keeps no state between passes and
// may be shared.
type Evaluator struct {
	engine    Engine
	logger    *slog.Logger
	locale    language.Tag
	precision int
	formatter *Formatter
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithEngine sets the expression engine.
func WithEngine(e Engine) Option {
	return func(ev *Evaluator) { ev.engine = e }
}

// WithLogger sets the logger. Failed lines are logged at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(ev *Evaluator) { ev.logger = l }
}

// WithLocale sets the locale used to group digits of plain numbers.
func WithLocale(tag language.Tag) Option {
	return func(ev *Evaluator) { ev.locale = tag }
}

// WithPrecision sets the significant digits shown for quantities.
func WithPrecision(n int) Option {
	return func(ev *Evaluator) { ev.precision = n }
}

// New creates an Evaluator. Without WithEngine it uses eval.New().
func New(opts ...Option) *Evaluator {
	ev := &Evaluator{
		locale:    language.AmericanEnglish,
		precision: DefaultPrecision,
	}
	for _, opt := range opts {
		opt(ev)
	}
	if ev.engine == nil {
		ev.engine = eval.New()
	}
	if ev.logger == nil {
		ev.logger = diag.Discard()
	}
	ev.formatter = NewFormatter(ev.locale, ev.precision)
	return ev
}

// EvaluateText splits text into lines and evaluates them.
func (ev *Evaluator) EvaluateText(text string) []LineResult {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return ev.Evaluate(lines)
}

// Evaluate runs one full pass over lines and returns exactly one result
// per line, in order.
func (ev *Evaluator) Evaluate(lines []string) []LineResult {
	p := &pass{
		ev:       ev,
		registry: NewRegistry(ev.logger),
		results:  make([]LineResult, 0, len(lines)),
	}
	for i, line := range lines {
		p.results = append(p.results, p.step(i+1, line))
	}
	return p.results
}

// pass is the accumulator for one evaluation. It is discarded when
// Evaluate returns.
type pass struct {
	ev       *Evaluator
	registry *Registry
	bindings []Binding
	previous eval.Value
	results  []LineResult
}

func (p *pass) step(n int, line string) LineResult {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return LineResult{Line: n, State: Blank}
	}

	scope := BuildScope(p.results, p.bindings, p.previous)

	source := trimmed
	asg, isAssignment := ParseAssignment(trimmed)
	if isAssignment {
		source = asg.Expression
	}
	normalized := Normalize(source, p.registry.Names())

	value, err := p.evaluate(normalized, scope)
	if err != nil {
		p.ev.logger.Debug("line failed",
			"line", n,
			"expression", normalized,
			"kind", eval.KindOf(err).String(),
			"error", err,
		)
		return LineResult{
			Line:       n,
			State:      Failed,
			Err:        err,
			Expression: normalized,
			Scope:      scope,
		}
	}

	res := LineResult{
		Line:       n,
		State:      Expression,
		Value:      value,
		Formatted:  p.ev.formatter.Format(value),
		Expression: normalized,
	}
	if isAssignment {
		p.registry.Register(asg.Display, asg.Canonical)
		p.bindings = append(p.bindings, Binding{
			Display:   asg.Display,
			Canonical: asg.Canonical,
			Value:     value,
		})
		res.State = Assigned
		res.Variable = asg.Display
		res.IsAssignment = true
	}
	p.previous = value
	res.Scope = BuildScope(append(p.results, res), p.bindings, p.previous)
	return res
}

// evaluate compiles and runs one expression. A panic inside the engine is
// reported as a failed line.
func (p *pass) evaluate(expression string, scope eval.Scope) (v eval.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, &eval.Error{Kind: eval.KindUnknown, Msg: "engine panic", Pos: -1}
			p.ev.logger.Error("engine panic", "expression", expression, "panic", r)
		}
	}()
	c, err := p.ev.engine.Compile(expression)
	if err != nil {
		return nil, err
	}
	v, err = c.Evaluate(scope)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, &eval.Error{Kind: eval.KindUnknown, Msg: "no value", Pos: -1}
	}
	return v, nil
}

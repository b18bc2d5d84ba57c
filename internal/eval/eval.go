package eval

import (
	"math"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"nickandperla.net/sumflow/internal/expr"
	"nickandperla.net/sumflow/internal/token"
	"nickandperla.net/sumflow/internal/units"
)

// Compiled is a parsed expression ready to be evaluated against a scope.
type Compiled interface {
	Evaluate(scope Scope) (Value, error)
	// String returns the parsed form, fully parenthesized.
	String() string
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

// Evaluator compiles and evaluates arithmetic expressions with units.
// It holds no per-evaluation state and is safe for concurrent use.
type Evaluator struct {
	units *units.Table
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithUnits sets the unit table used to resolve unit names.
func WithUnits(t *units.Table) Option {
	return func(e *Evaluator) { e.units = t }
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{}
	for _, opt := range opts {
		opt(e)
	}
	if e.units == nil {
		e.units = units.MustNew()
	}
	return e
}

// Units returns the evaluator's unit table.
func (e *Evaluator) Units() *units.Table {
	return e.units
}

// Compile parses src. Malformed input yields a SyntaxError.
func (e *Evaluator) Compile(src string) (Compiled, error) {
	root, err := parse(src)
	if err != nil {
		return nil, err
	}
	return &program{ev: e, root: root}, nil
}

// Eval compiles and evaluates src in one step.
func (e *Evaluator) Eval(src string, scope Scope) (Value, error) {
	c, err := e.Compile(src)
	if err != nil {
		return nil, err
	}
	return c.Evaluate(scope)
}

type program struct {
	ev   *Evaluator
	root expr.Expr
}

func (p *program) String() string { return p.root.String() }

func (p *program) Evaluate(scope Scope) (Value, error) {
	v, err := p.ev.eval(p.root, scope)
	if err != nil {
		return nil, err
	}
	if !finite(v) {
		return nil, domainErr("result is not a finite number")
	}
	return v, nil
}

func (e *Evaluator) eval(n expr.Expr, scope Scope) (Value, error) {
	switch n := n.(type) {
	case expr.Number:
		return Number(n.Value), nil

	case expr.Ident:
		return e.resolve(n.Name, scope)

	case expr.Percent:
		v, err := e.eval(n.Operand, scope)
		if err != nil {
			return nil, err
		}
		return scale(v, 0.01)

	case expr.Unary:
		v, err := e.eval(n.Operand, scope)
		if err != nil {
			return nil, err
		}
		if n.Op == token.PLUS {
			return scale(v, 1)
		}
		return scale(v, -1)

	case expr.Binary:
		l, err := e.eval(n.Left, scope)
		if err != nil {
			return nil, err
		}
		r, err := e.eval(n.Right, scope)
		if err != nil {
			return nil, err
		}
		return binary(n.Op, l, r)

	case expr.Convert:
		v, err := e.eval(n.Value, scope)
		if err != nil {
			return nil, err
		}
		target, ok := e.units.Lookup(n.Target)
		if !ok {
			return nil, unknownErr(n.Target, "unit", closest(n.Target, e.units.Names()))
		}
		q, ok := v.(Quantity)
		if !ok {
			return nil, unitErr("cannot convert %s %s to %s", v.Kind(), v, target.Name)
		}
		return q.To(target)

	case expr.Call:
		fn := getBuiltin(n.Name)
		if fn == nil {
			return nil, unknownErr(n.Name, "function", closest(n.Name, builtinNames()))
		}
		args := make([]Value, 0, len(n.Args))
		for _, a := range n.Args {
			v, err := e.eval(a, scope)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
		return fn(n.Name, args)
	}
	return nil, syntaxErr(-1, "unsupported expression %T", n)
}

// resolve looks a name up in the scope, then the constants, then the units.
func (e *Evaluator) resolve(name string, scope Scope) (Value, error) {
	if v, ok := scope.Get(name); ok {
		return v, nil
	}
	if c, ok := constants[name]; ok {
		return Number(c), nil
	}
	if u, ok := e.units.Lookup(name); ok {
		return Quantity{Magnitude: 1, Unit: u}, nil
	}

	candidates := scope.Names()
	for c := range constants {
		candidates = append(candidates, c)
	}
	candidates = append(candidates, e.units.Names()...)
	return nil, unknownErr(name, "identifier", closest(name, candidates))
}

// closest returns the candidate nearest to name: the best fuzzy match if
// name is a subsequence of any candidate, else the candidate with the
// smallest edit distance within a third of the name's length. Ties go to
// the alphabetically first candidate.
func closest(name string, candidates []string) string {
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)

	ranks := fuzzy.RankFindFold(name, sorted)
	if len(ranks) > 0 {
		sort.Stable(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", len(name)/3+1
	for _, c := range sorted {
		if len(c) < 2 {
			continue
		}
		if d := fuzzy.LevenshteinDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

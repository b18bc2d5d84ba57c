package eval

import (
	"errors"
	"math"
	"testing"

	"nickandperla.net/sumflow/internal/units"
)

func mustEval(t *testing.T, e *Evaluator, src string, scope Scope) Value {
	t.Helper()
	v, err := e.Eval(src, scope)
	if err != nil {
		t.Fatalf("eval %q: unexpected error: %v", src, err)
	}
	return v
}

func assertNumber(t *testing.T, v Value, want float64) {
	t.Helper()
	n, ok := v.(Number)
	if !ok {
		t.Fatalf("expected a number, got %T (%v)", v, v)
	}
	if math.Abs(float64(n)-want) > 1e-9 {
		t.Errorf("expected %v, got %v", want, float64(n))
	}
}

func assertQuantity(t *testing.T, v Value, want float64, unit string) {
	t.Helper()
	q, ok := v.(Quantity)
	if !ok {
		t.Fatalf("expected a quantity, got %T (%v)", v, v)
	}
	if q.Unit.Name != unit {
		t.Errorf("expected unit %s, got %s", unit, q.Unit.Name)
	}
	if math.Abs(q.Magnitude-want) > 1e-9 {
		t.Errorf("expected magnitude %v, got %v", want, q.Magnitude)
	}
}

func TestArithmetic(t *testing.T) {
	e := New()
	tests := []struct {
		src  string
		want float64
	}{
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"10 / 4", 2.5},
		{"2 ^ 3 ^ 2", 512},
		{"-2 ^ 2", -4},
		{"2 ^ -1", 0.5},
		{"10 % 3", 1},
		{"20%", 0.2},
		{"5 * 20%", 1},
		{"2 (3 + 4)", 14},
		{".5 + 1e2", 100.5},
		{"6 × 7 ÷ 2", 21},
		{"sqrt(16) + abs(-2)", 6},
		{"round(3.14159, 2)", 3.14},
		{"max(1, 5, 3) - min(4, 2)", 3},
		{"floor(2.7) + ceil(2.1)", 5},
		{"ln(e)", 1},
		{"log10(1000)", 3},
		{"2 pi / pi", 2},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assertNumber(t, mustEval(t, e, tt.src, nil), tt.want)
		})
	}
}

func TestUnits(t *testing.T) {
	e := New()

	assertQuantity(t, mustEval(t, e, "5 km + 500 m", nil), 5.5, "km")
	assertQuantity(t, mustEval(t, e, "2 * 3 kg", nil), 6, "kg")
	assertQuantity(t, mustEval(t, e, "1 mile to km", nil), 1.609344, "km")
	assertQuantity(t, mustEval(t, e, "90 min in h", nil), 1.5, "h")
	assertQuantity(t, mustEval(t, e, "12 in", nil), 12, "in")
	assertQuantity(t, mustEval(t, e, "12 in to cm", nil), 30.48, "cm")
	assertQuantity(t, mustEval(t, e, "5 in to cm", nil), 12.7, "cm")
	assertQuantity(t, mustEval(t, e, "12 in in ft", nil), 1, "ft")
	assertQuantity(t, mustEval(t, e, "5 inch to cm", nil), 12.7, "cm")
	assertQuantity(t, mustEval(t, e, "-(3 km)", nil), -3, "km")
	assertQuantity(t, mustEval(t, e, "abs(-3 km)", nil), 3, "km")
	assertQuantity(t, mustEval(t, e, "max(1 km, 200 m)", nil), 1, "km")
	assertNumber(t, mustEval(t, e, "1 km / 250 m", nil), 4)

	cmp := mustEval(t, e, "1 km > 999 m", nil)
	if cmp != Bool(true) {
		t.Errorf("expected true, got %v", cmp)
	}
}

func TestCurrencies(t *testing.T) {
	e := New()

	assertQuantity(t, mustEval(t, e, "200 USD + 50 EUR to USD", nil), 258, "USD")
	assertQuantity(t, mustEval(t, e, "100 dollars", nil), 100, "USD")

	custom := New(WithUnits(units.MustNew(units.WithRates(map[string]float64{"EUR": 2}))))
	assertQuantity(t, mustEval(t, custom, "10 EUR to USD", nil), 20, "USD")
}

func TestScopeResolution(t *testing.T) {
	e := New()
	scope := Scope{
		"Salary":       Number(5000),
		"Total_Income": Number(6000),
		"m":            Number(3),
	}

	assertNumber(t, mustEval(t, e, "Total_Income - Salary", scope), 1000)

	// Scope bindings shadow units.
	assertNumber(t, mustEval(t, e, "m * 2", scope), 6)
}

func TestCompileString(t *testing.T) {
	c, err := New().Compile("5 km + 2 * x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.String(); got != "((5 km) + (2 * x))" {
		t.Errorf("expected ((5 km) + (2 * x)), got %s", got)
	}
}

func TestErrors(t *testing.T) {
	e := New()
	tests := []struct {
		src      string
		sentinel error
		kind     ErrorKind
	}{
		{"", ErrSyntax, SyntaxError},
		{"1 +", ErrSyntax, SyntaxError},
		{"(1 + 2", ErrSyntax, SyntaxError},
		{"1 = 2", ErrSyntax, SyntaxError},
		{"5 km to", ErrSyntax, SyntaxError},
		{"sqrt(1, 2)", ErrSyntax, SyntaxError},
		{"@", ErrSyntax, SyntaxError},
		{"x + 1", ErrUnknownIdentifier, UnknownIdentifierError},
		{"frobnicate(2)", ErrUnknownIdentifier, UnknownIdentifierError},
		{"5 km to parsecs", ErrUnknownIdentifier, UnknownIdentifierError},
		{"5 km + 3 kg", ErrUnitIncompatible, UnitIncompatibilityError},
		{"5 + 3 kg", ErrUnitIncompatible, UnitIncompatibilityError},
		{"5 to km", ErrUnitIncompatible, UnitIncompatibilityError},
		{"2 km * 3 km", ErrUnitIncompatible, UnitIncompatibilityError},
		{"5 USD to kg", ErrUnitIncompatible, UnitIncompatibilityError},
		{"1 / 0", ErrDomain, DomainError},
		{"5 % 0", ErrDomain, DomainError},
		{"sqrt(-1)", ErrDomain, DomainError},
		{"(-8) ^ 0.5", ErrDomain, DomainError},
		{"10 ^ 400", ErrDomain, DomainError},
		{"(1 > 0) + 1", ErrDomain, DomainError},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := e.Eval(tt.src, nil)
			if err == nil {
				t.Fatalf("expected error for %q", tt.src)
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("expected errors.Is(%v), got %v", tt.sentinel, err)
			}
			if got := KindOf(err); got != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, got)
			}
		})
	}
}

func TestUnknownIdentifierSuggestion(t *testing.T) {
	scope := Scope{"Salary": Number(5000)}
	_, err := New().Eval("Salry * 2", scope)

	var evalErr *Error
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if evalErr.Name != "Salry" {
		t.Errorf("expected name Salry, got %s", evalErr.Name)
	}
	if evalErr.Suggestion != "Salary" {
		t.Errorf("expected suggestion Salary, got %q", evalErr.Suggestion)
	}
}

func TestKindOfForeignError(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != KindUnknown {
		t.Errorf("expected KindUnknown, got %s", got)
	}
}

func TestFormatSignificant(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{5.5, "5.5"},
		{11, "11"},
		{258, "258"},
		{37.68688, "37.69"},
		{6000, "6000"},
		{123456, "1.235e+5"},
		{0.001234, "0.001234"},
		{0.00001234, "1.234e-5"},
		{-2.71828, "-2.718"},
	}
	for _, tt := range tests {
		if got := FormatSignificant(tt.in, 4); got != tt.want {
			t.Errorf("FormatSignificant(%v): expected %s, got %s", tt.in, tt.want, got)
		}
	}
}


package eval

import (
	"math"

	"nickandperla.net/sumflow/internal/token"
)

// scale multiplies a number or a quantity's magnitude by f.
func scale(v Value, f float64) (Value, error) {
	switch v := v.(type) {
	case Number:
		return Number(float64(v) * f), nil
	case Quantity:
		return Quantity{Magnitude: v.Magnitude * f, Unit: v.Unit}, nil
	}
	return nil, domainErr("%s is not a number", v)
}

func binary(op token.Token, l, r Value) (Value, error) {
	if op.IsComparison() {
		return compare(op, l, r)
	}
	if l.Kind() == KindOther || r.Kind() == KindOther {
		return nil, domainErr("operator %s is not defined for %s and %s", op, l, r)
	}

	switch op {
	case token.PLUS, token.MINUS:
		return addSub(op, l, r)
	case token.STAR:
		return mul(l, r)
	case token.SLASH:
		return div(l, r)
	case token.PERCENT:
		return mod(l, r)
	case token.CARET:
		return pow(l, r)
	}
	return nil, syntaxErr(-1, "unsupported operator %s", op)
}

func addSub(op token.Token, l, r Value) (Value, error) {
	sign := 1.0
	verb := "add"
	if op == token.MINUS {
		sign, verb = -1, "subtract"
	}

	switch l := l.(type) {
	case Number:
		if r, ok := r.(Number); ok {
			return Number(float64(l) + sign*float64(r)), nil
		}
	case Quantity:
		if r, ok := r.(Quantity); ok {
			rm, err := r.Unit.Convert(r.Magnitude, l.Unit)
			if err != nil {
				return nil, unitErr("cannot %s %s and %s", verb, l.Unit, r.Unit)
			}
			return Quantity{Magnitude: l.Magnitude + sign*rm, Unit: l.Unit}, nil
		}
	}
	return nil, unitErr("cannot %s %s and %s", verb, describe(l), describe(r))
}

func mul(l, r Value) (Value, error) {
	switch l := l.(type) {
	case Number:
		switch r := r.(type) {
		case Number:
			return Number(float64(l) * float64(r)), nil
		case Quantity:
			return Quantity{Magnitude: float64(l) * r.Magnitude, Unit: r.Unit}, nil
		}
	case Quantity:
		switch r := r.(type) {
		case Number:
			return Quantity{Magnitude: l.Magnitude * float64(r), Unit: l.Unit}, nil
		case Quantity:
			return nil, unitErr("cannot multiply %s by %s", l.Unit, r.Unit)
		}
	}
	return nil, unitErr("cannot multiply %s by %s", describe(l), describe(r))
}

func div(l, r Value) (Value, error) {
	if isZero(r) {
		return nil, domainErr("division by zero")
	}
	switch l := l.(type) {
	case Number:
		switch r := r.(type) {
		case Number:
			return Number(float64(l) / float64(r)), nil
		case Quantity:
			return nil, unitErr("cannot divide a number by %s", r.Unit)
		}
	case Quantity:
		switch r := r.(type) {
		case Number:
			return Quantity{Magnitude: l.Magnitude / float64(r), Unit: l.Unit}, nil
		case Quantity:
			rm, err := r.Unit.Convert(r.Magnitude, l.Unit)
			if err != nil {
				return nil, unitErr("cannot divide %s by %s", l.Unit, r.Unit)
			}
			return Number(l.Magnitude / rm), nil
		}
	}
	return nil, unitErr("cannot divide %s by %s", describe(l), describe(r))
}

func mod(l, r Value) (Value, error) {
	ln, lok := l.(Number)
	rn, rok := r.(Number)
	if !lok || !rok {
		return nil, unitErr("modulo needs plain numbers, got %s and %s", describe(l), describe(r))
	}
	if rn == 0 {
		return nil, domainErr("modulo by zero")
	}
	return Number(math.Mod(float64(ln), float64(rn))), nil
}

func pow(l, r Value) (Value, error) {
	ln, lok := l.(Number)
	rn, rok := r.(Number)
	if !lok || !rok {
		return nil, unitErr("exponentiation needs plain numbers, got %s and %s", describe(l), describe(r))
	}
	v := math.Pow(float64(ln), float64(rn))
	if math.IsNaN(v) {
		return nil, domainErr("%v ^ %v is not a real number", float64(ln), float64(rn))
	}
	return Number(v), nil
}

func compare(op token.Token, l, r Value) (Value, error) {
	var a, b float64
	switch lv := l.(type) {
	case Number:
		rv, ok := r.(Number)
		if !ok {
			return nil, unitErr("cannot compare %s and %s", describe(l), describe(r))
		}
		a, b = float64(lv), float64(rv)
	case Quantity:
		rv, ok := r.(Quantity)
		if !ok {
			return nil, unitErr("cannot compare %s and %s", describe(l), describe(r))
		}
		rm, err := rv.Unit.Convert(rv.Magnitude, lv.Unit)
		if err != nil {
			return nil, unitErr("cannot compare %s and %s", lv.Unit, rv.Unit)
		}
		a, b = lv.Magnitude, rm
	case Bool:
		rv, ok := r.(Bool)
		if !ok || (op != token.EQ && op != token.NEQ) {
			return nil, domainErr("operator %s is not defined for %s and %s", op, l, r)
		}
		if op == token.EQ {
			return Bool(lv == rv), nil
		}
		return Bool(lv != rv), nil
	default:
		return nil, domainErr("cannot compare %s", l)
	}

	switch op {
	case token.EQ:
		return Bool(a == b), nil
	case token.NEQ:
		return Bool(a != b), nil
	case token.LT:
		return Bool(a < b), nil
	case token.GT:
		return Bool(a > b), nil
	case token.LE:
		return Bool(a <= b), nil
	default:
		return Bool(a >= b), nil
	}
}

func isZero(v Value) bool {
	switch v := v.(type) {
	case Number:
		return v == 0
	case Quantity:
		return v.Magnitude == 0
	}
	return false
}

// describe names a value's kind for error messages.
func describe(v Value) string {
	if q, ok := v.(Quantity); ok {
		return "a quantity in " + q.Unit.Name
	}
	return "a " + v.Kind().String()
}

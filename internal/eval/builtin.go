package eval

import (
	"math"

	"nickandperla.net/sumflow/internal/token"
)

// BuiltinFunc is the signature for builtin functions. name is the name the
// function was called by, for error messages.
type BuiltinFunc func(name string, args []Value) (Value, error)

// getBuiltin returns the builtin function for the given name, or nil if not found.
func getBuiltin(name string) BuiltinFunc {
	switch name {
	case "sqrt":
		return builtinSqrt
	case "abs":
		return magnitudeFunc(math.Abs)
	case "floor":
		return magnitudeFunc(math.Floor)
	case "ceil":
		return magnitudeFunc(math.Ceil)
	case "round":
		return builtinRound
	case "ln", "log":
		return builtinLog(math.Log)
	case "log10":
		return builtinLog(math.Log10)
	case "exp":
		return numberFunc(math.Exp)
	case "min":
		return builtinExtreme(token.LT)
	case "max":
		return builtinExtreme(token.GT)
	}
	return nil
}

func builtinNames() []string {
	return []string{"abs", "ceil", "exp", "floor", "ln", "log", "log10", "max", "min", "round", "sqrt"}
}

func arity(name string, args []Value, min, max int) error {
	if len(args) < min || len(args) > max {
		if min == max {
			return syntaxErr(-1, "%s expects %d argument(s), got %d", name, min, len(args))
		}
		return syntaxErr(-1, "%s expects %d to %d arguments, got %d", name, min, max, len(args))
	}
	return nil
}

func number(name string, v Value) (float64, error) {
	n, ok := v.(Number)
	if !ok {
		return 0, unitErr("%s expects a plain number, got %s", name, describe(v))
	}
	return float64(n), nil
}

// magnitudeFunc applies f to a number or to a quantity's magnitude.
func magnitudeFunc(f func(float64) float64) BuiltinFunc {
	return func(name string, args []Value) (Value, error) {
		if err := arity(name, args, 1, 1); err != nil {
			return nil, err
		}
		switch v := args[0].(type) {
		case Number:
			return Number(f(float64(v))), nil
		case Quantity:
			return Quantity{Magnitude: f(v.Magnitude), Unit: v.Unit}, nil
		}
		return nil, domainErr("%s is not defined for %s", name, args[0])
	}
}

func numberFunc(f func(float64) float64) BuiltinFunc {
	return func(name string, args []Value) (Value, error) {
		if err := arity(name, args, 1, 1); err != nil {
			return nil, err
		}
		x, err := number(name, args[0])
		if err != nil {
			return nil, err
		}
		return Number(f(x)), nil
	}
}

func builtinSqrt(name string, args []Value) (Value, error) {
	if err := arity(name, args, 1, 1); err != nil {
		return nil, err
	}
	x, err := number(name, args[0])
	if err != nil {
		return nil, err
	}
	if x < 0 {
		return nil, domainErr("square root of negative number %v", x)
	}
	return Number(math.Sqrt(x)), nil
}

func builtinLog(f func(float64) float64) BuiltinFunc {
	return func(name string, args []Value) (Value, error) {
		if err := arity(name, args, 1, 1); err != nil {
			return nil, err
		}
		x, err := number(name, args[0])
		if err != nil {
			return nil, err
		}
		if x <= 0 {
			return nil, domainErr("%s of non-positive number %v", name, x)
		}
		return Number(f(x)), nil
	}
}

// builtinRound rounds half away from zero, optionally to a number of
// decimal places: round(3.14159, 2) = 3.14.
func builtinRound(name string, args []Value) (Value, error) {
	if err := arity(name, args, 1, 2); err != nil {
		return nil, err
	}
	digits := 0.0
	if len(args) == 2 {
		d, err := number(name, args[1])
		if err != nil {
			return nil, err
		}
		if d != math.Trunc(d) || d < 0 || d > 15 {
			return nil, domainErr("%s digits must be an integer between 0 and 15, got %v", name, d)
		}
		digits = d
	}
	p := math.Pow(10, digits)
	return magnitudeFunc(func(x float64) float64 {
		return math.Round(x*p) / p
	})(name, args[:1])
}

// builtinExtreme returns the argument that wins under op (LT for min, GT
// for max). Quantities are compared after conversion, so mixed units of one
// dimension are allowed.
func builtinExtreme(op token.Token) BuiltinFunc {
	return func(name string, args []Value) (Value, error) {
		if len(args) == 0 {
			return nil, syntaxErr(-1, "%s expects at least one argument", name)
		}
		best := args[0]
		if best.Kind() == KindOther {
			return nil, domainErr("%s is not defined for %s", name, best)
		}
		for _, v := range args[1:] {
			wins, err := compare(op, v, best)
			if err != nil {
				return nil, err
			}
			if wins.(Bool) {
				best = v
			}
		}
		return best, nil
	}
}

package eval

import (
	"math"
	"strconv"
	"strings"

	"nickandperla.net/sumflow/internal/units"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNumber Kind = iota
	KindQuantity
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindQuantity:
		return "quantity"
	default:
		return "other"
	}
}

// Value is the result of evaluating an expression.
type Value interface {
	Kind() Kind
	String() string
}

// Number is a plain numeric value.
type Number float64

func (Number) Kind() Kind { return KindNumber }

func (n Number) String() string { return strconv.FormatFloat(float64(n), 'g', -1, 64) }

// Quantity is a magnitude tagged with a unit.
type Quantity struct {
	Magnitude float64
	Unit      *units.Unit
}

func (Quantity) Kind() Kind { return KindQuantity }

func (q Quantity) String() string {
	return strconv.FormatFloat(q.Magnitude, 'g', -1, 64) + " " + q.Unit.Name
}

// Format renders the quantity with its magnitude rounded to precision
// significant digits.
func (q Quantity) Format(precision int) string {
	return FormatSignificant(q.Magnitude, precision) + " " + q.Unit.Name
}

// To converts q to the target unit.
func (q Quantity) To(target *units.Unit) (Quantity, error) {
	m, err := q.Unit.Convert(q.Magnitude, target)
	if err != nil {
		return Quantity{}, unitErr("%v", err)
	}
	return Quantity{Magnitude: m, Unit: target}, nil
}

// Bool is the result of a comparison.
type Bool bool

func (Bool) Kind() Kind { return KindOther }

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// FormatSignificant rounds v to precision significant digits. Fixed notation
// is used for decimal exponents in [-3, 5), exponent notation otherwise
// (1.235e+5).
func FormatSignificant(v float64, precision int) string {
	if precision < 1 {
		precision = 1
	}
	if v == 0 {
		return "0"
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'e', precision-1, 64), 64)
	if err != nil {
		rounded = v
	}
	exp := int(math.Floor(math.Log10(math.Abs(rounded))))
	if exp >= -3 && exp < 5 {
		return strconv.FormatFloat(rounded, 'f', -1, 64)
	}
	mant, ex, _ := strings.Cut(strconv.FormatFloat(rounded, 'e', -1, 64), "e")
	digits := strings.TrimLeft(ex[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + ex[:1] + digits
}

func finite(v Value) bool {
	switch v := v.(type) {
	case Number:
		return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
	case Quantity:
		return !math.IsNaN(v.Magnitude) && !math.IsInf(v.Magnitude, 0)
	}
	return true
}

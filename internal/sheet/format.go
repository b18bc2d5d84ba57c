package sheet

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"nickandperla.net/sumflow/internal/eval"
)

const (
	// DefaultPrecision is the number of significant digits shown for
	// quantities.
	DefaultPrecision = 4
	// maxFractionDigits caps the decimals shown for plain numbers.
	maxFractionDigits = 4
)

// Formatter renders values for display next to their line.
type Formatter struct {
	printer   *message.Printer
	precision int
}

// NewFormatter creates a Formatter grouping digits per tag.
func NewFormatter(tag language.Tag, precision int) *Formatter {
	if precision < 1 {
		precision = DefaultPrecision
	}
	return &Formatter{
		printer:   message.NewPrinter(tag),
		precision: precision,
	}
}

// Format renders v: quantities to the formatter's significant digits with
// their unit, numbers with locale grouping and at most four decimals, other
// values by their string form. A nil value renders empty.
func (f *Formatter) Format(v eval.Value) (s string) {
	if v == nil {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprint(v)
		}
	}()

	switch v.Kind() {
	case eval.KindQuantity:
		return v.(eval.Quantity).Format(f.precision)
	case eval.KindNumber:
		n := float64(v.(eval.Number))
		return f.printer.Sprintf("%v", number.Decimal(n, number.MaxFractionDigits(maxFractionDigits)))
	}
	return v.String()
}

// Package units holds the unit and currency definitions understood by the
// expression evaluator.
package units

import (
	"fmt"
	"sort"
	"strings"
)

// Dimension identifies what a unit measures. Quantities convert only
// within one dimension.
type Dimension string

const (
	Length   Dimension = "length"
	Mass     Dimension = "mass"
	Time     Dimension = "time"
	Volume   Dimension = "volume"
	Data     Dimension = "data"
	Currency Dimension = "currency"
)

// BaseCurrency is the currency every rate is expressed in.
const BaseCurrency = "USD"

// Unit is a named unit with its scale relative to the base unit of its
// dimension.
type Unit struct {
	Name      string
	Dimension Dimension
	Factor    float64
}

func (u *Unit) String() string { return u.Name }

// Convert returns magnitude (in u) expressed in target.
func (u *Unit) Convert(magnitude float64, target *Unit) (float64, error) {
	if u.Dimension != target.Dimension {
		return 0, fmt.Errorf("cannot convert %s (%s) to %s (%s)", u.Name, u.Dimension, target.Name, target.Dimension)
	}
	if u == target {
		return magnitude, nil
	}
	return magnitude * u.Factor / target.Factor, nil
}

// Table resolves unit names and aliases.
type Table struct {
	units  map[string]*Unit
	byName map[string]*Unit // canonical names only
}

// Option configures a Table.
type Option func(*tableConfig)

type tableConfig struct {
	rates map[string]float64
}

// WithRates overrides or adds currency rates, expressed as the value of one
// unit of the currency in BaseCurrency.
func WithRates(rates map[string]float64) Option {
	return func(c *tableConfig) {
		for code, rate := range rates {
			c.rates[strings.ToUpper(code)] = rate
		}
	}
}

type definition struct {
	name    string
	dim     Dimension
	factor  float64
	aliases []string
}

var physical = []definition{
	{"m", Length, 1, []string{"meter", "meters", "metre", "metres"}},
	{"km", Length, 1000, []string{"kilometer", "kilometers", "kilometre", "kilometres"}},
	{"cm", Length, 0.01, []string{"centimeter", "centimeters"}},
	{"mm", Length, 0.001, []string{"millimeter", "millimeters"}},
	{"mi", Length, 1609.344, []string{"mile", "miles"}},
	{"ft", Length, 0.3048, []string{"foot", "feet"}},
	{"in", Length, 0.0254, []string{"inch", "inches"}},
	{"yd", Length, 0.9144, []string{"yard", "yards"}},
	{"nmi", Length, 1852, nil},

	{"g", Mass, 1, []string{"gram", "grams"}},
	{"kg", Mass, 1000, []string{"kilogram", "kilograms"}},
	{"mg", Mass, 0.001, []string{"milligram", "milligrams"}},
	{"t", Mass, 1e6, []string{"tonne", "tonnes"}},
	{"lb", Mass, 453.59237, []string{"lbs"}},
	{"oz", Mass, 28.349523125, []string{"ounce", "ounces"}},

	{"s", Time, 1, []string{"sec", "second", "seconds"}},
	{"ms", Time, 0.001, []string{"millisecond", "milliseconds"}},
	{"min", Time, 60, []string{"minute", "minutes"}},
	{"h", Time, 3600, []string{"hr", "hour", "hours"}},
	{"day", Time, 86400, []string{"days"}},
	{"week", Time, 604800, []string{"weeks"}},
	{"year", Time, 31557600, []string{"years"}},

	{"L", Volume, 1, []string{"l", "liter", "liters", "litre", "litres"}},
	{"ml", Volume, 0.001, []string{"mL", "milliliter", "milliliters"}},
	{"gal", Volume, 3.785411784, []string{"gallon", "gallons"}},

	{"B", Data, 1, []string{"byte", "bytes"}},
	{"kB", Data, 1e3, nil},
	{"MB", Data, 1e6, nil},
	{"GB", Data, 1e9, nil},
	{"TB", Data, 1e12, nil},
	{"KiB", Data, 1 << 10, nil},
	{"MiB", Data, 1 << 20, nil},
	{"GiB", Data, 1 << 30, nil},
}

// DefaultRates are the static currency rates used when none are configured.
var DefaultRates = map[string]float64{
	"USD": 1,
	"EUR": 1.16,
	"GBP": 1.33,
	"JPY": 0.0064,
	"KRW": 0.00068,
	"CNY": 0.141,
	"BTC": 91539,
	"RUB": 0.011,
	"INR": 0.012,
}

var currencyAliases = map[string][]string{
	"USD": {"dollar", "dollars"},
	"EUR": {"euro", "euros"},
	"GBP": {"pound", "pounds"},
	"JPY": {"yen"},
	"KRW": {"won"},
	"CNY": {"yuan"},
	"BTC": {"bitcoin"},
	"RUB": {"ruble", "rubles"},
	"INR": {"rupee", "rupees"},
}

// New builds a Table with the physical units and the currencies in
// DefaultRates, adjusted by opts.
func New(opts ...Option) (*Table, error) {
	cfg := &tableConfig{rates: make(map[string]float64, len(DefaultRates))}
	for code, rate := range DefaultRates {
		cfg.rates[code] = rate
	}
	for _, opt := range opts {
		opt(cfg)
	}

	t := &Table{
		units:  make(map[string]*Unit),
		byName: make(map[string]*Unit),
	}
	for _, d := range physical {
		t.add(d)
	}

	codes := make([]string, 0, len(cfg.rates))
	for code := range cfg.rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		rate := cfg.rates[code]
		if rate <= 0 {
			return nil, fmt.Errorf("currency %s: rate must be positive, got %v", code, rate)
		}
		if !isCurrencyCode(code) {
			return nil, fmt.Errorf("currency %q: expected a three-letter code", code)
		}
		if code == BaseCurrency && rate != 1 {
			return nil, fmt.Errorf("currency %s is the base currency, its rate must be 1", code)
		}
		t.add(definition{code, Currency, rate, currencyAliases[code]})
	}
	return t, nil
}

// MustNew is like New but panics on error. Intended for defaults and tests.
func MustNew(opts ...Option) *Table {
	t, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) add(d definition) {
	u := &Unit{Name: d.name, Dimension: d.dim, Factor: d.factor}
	t.units[d.name] = u
	t.byName[d.name] = u
	for _, a := range d.aliases {
		t.units[a] = u
	}
}

// Lookup resolves a unit name or alias. Names are case-sensitive.
func (t *Table) Lookup(name string) (*Unit, bool) {
	u, ok := t.units[name]
	return u, ok
}

// Names returns every resolvable name and alias, sorted.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.units))
	for n := range t.units {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// dimensionOrder is the listing order of Units.
var dimensionOrder = map[Dimension]int{
	Length: 0, Mass: 1, Time: 2, Volume: 3, Data: 4, Currency: 5,
}

// Units returns the canonical units ordered by dimension, then by size
// within a dimension.
func (t *Table) Units() []*Unit {
	out := make([]*Unit, 0, len(t.byName))
	for _, u := range t.byName {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Dimension != b.Dimension {
			return dimensionOrder[a.Dimension] < dimensionOrder[b.Dimension]
		}
		if a.Factor != b.Factor {
			return a.Factor < b.Factor
		}
		return a.Name < b.Name
	})
	return out
}

// Aliases returns the other names that resolve to u, sorted.
func (t *Table) Aliases(u *Unit) []string {
	var out []string
	for name, v := range t.units {
		if v == u && name != u.Name {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

package units

import (
	"math"
	"testing"
)

func TestConvert(t *testing.T) {
	table := MustNew()
	tests := []struct {
		from, to string
		in, want float64
	}{
		{"km", "m", 1.5, 1500},
		{"mi", "km", 1, 1.609344},
		{"h", "min", 2, 120},
		{"GiB", "MiB", 1, 1024},
		{"lb", "kg", 1, 0.45359237},
		{"EUR", "USD", 50, 58},
		{"USD", "USD", 7, 7},
	}
	for _, tt := range tests {
		from, ok := table.Lookup(tt.from)
		if !ok {
			t.Fatalf("unknown unit %s", tt.from)
		}
		to, ok := table.Lookup(tt.to)
		if !ok {
			t.Fatalf("unknown unit %s", tt.to)
		}
		got, err := from.Convert(tt.in, to)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%v %s to %s: expected %v, got %v", tt.in, tt.from, tt.to, tt.want, got)
		}
	}
}

func TestConvertAcrossDimensions(t *testing.T) {
	table := MustNew()
	km, _ := table.Lookup("km")
	kg, _ := table.Lookup("kg")
	if _, err := km.Convert(1, kg); err == nil {
		t.Error("expected error converting km to kg")
	}
}

func TestAliases(t *testing.T) {
	table := MustNew()
	for alias, want := range map[string]string{
		"miles":   "mi",
		"dollars": "USD",
		"euro":    "EUR",
		"rupees":  "INR",
	} {
		u, ok := table.Lookup(alias)
		if !ok || u.Name != want {
			t.Errorf("%s: expected %s, got %v", alias, want, u)
		}
	}

	mi, _ := table.Lookup("mi")
	aliases := table.Aliases(mi)
	if len(aliases) != 2 || aliases[0] != "mile" || aliases[1] != "miles" {
		t.Errorf("expected [mile miles], got %v", aliases)
	}
}

func TestWithRates(t *testing.T) {
	table, err := New(WithRates(map[string]float64{"eur": 2, "CHF": 1.1}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	eur, _ := table.Lookup("EUR")
	if eur.Factor != 2 {
		t.Errorf("expected EUR rate 2, got %v", eur.Factor)
	}
	if _, ok := table.Lookup("CHF"); !ok {
		t.Error("expected added currency CHF")
	}
}

func TestWithRatesInvalid(t *testing.T) {
	for _, rates := range []map[string]float64{
		{"EUR": 0},
		{"EUR": -1},
		{"EURO": 1},
		{"USD": 2},
	} {
		if _, err := New(WithRates(rates)); err == nil {
			t.Errorf("expected error for %v", rates)
		}
	}
}

func TestUnitsOrder(t *testing.T) {
	list := MustNew().Units()
	if list[0].Dimension != Length || list[len(list)-1].Dimension != Currency {
		t.Fatalf("expected length first and currency last, got %s ... %s", list[0].Dimension, list[len(list)-1].Dimension)
	}
	for i := 1; i < len(list); i++ {
		a, b := list[i-1], list[i]
		if a.Dimension == b.Dimension && a.Factor > b.Factor {
			t.Errorf("%s listed before smaller %s", a.Name, b.Name)
		}
	}
}

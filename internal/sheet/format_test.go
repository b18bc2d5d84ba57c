package sheet

import (
	"testing"

	"golang.org/x/text/language"

	"nickandperla.net/sumflow/internal/eval"
	"nickandperla.net/sumflow/internal/units"
)

func TestFormat(t *testing.T) {
	table := units.MustNew()
	km, _ := table.Lookup("km")
	usd, _ := table.Lookup("USD")

	f := NewFormatter(language.AmericanEnglish, DefaultPrecision)
	tests := []struct {
		name string
		v    eval.Value
		want string
	}{
		{"nil", nil, ""},
		{"integer", eval.Number(6000), "6,000"},
		{"fraction cap", eval.Number(1234567.891234), "1,234,567.8912"},
		{"no trailing zeros", eval.Number(0.5), "0.5"},
		{"negative", eval.Number(-42), "-42"},
		{"quantity", eval.Quantity{Magnitude: 37.68688, Unit: km}, "37.69 km"},
		{"currency", eval.Quantity{Magnitude: 258, Unit: usd}, "258 USD"},
		{"other", eval.Bool(true), "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Format(tt.v); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFormatLocale(t *testing.T) {
	f := NewFormatter(language.German, DefaultPrecision)
	if got := f.Format(eval.Number(1234.5)); got != "1.234,5" {
		t.Errorf("expected 1.234,5, got %q", got)
	}
}

// Package sumflow provides the public API for evaluating and managing
// calculation notebooks.
package sumflow

import (
	"log/slog"

	"golang.org/x/text/language"

	"nickandperla.net/sumflow/internal/eval"
	"nickandperla.net/sumflow/internal/sheet"
	"nickandperla.net/sumflow/internal/store"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithSQLiteStore configures SQLite persistence at the given path.
func WithSQLiteStore(path string) Option {
	return func(r *Runtime) {
		r.sqlitePath = path
		r.store = nil
	}
}

// WithMemoryStore configures an in-memory store (for testing).
func WithMemoryStore() Option {
	return func(r *Runtime) {
		r.store = store.NewMemory()
		r.sqlitePath = ""
	}
}

// WithStore configures a custom store. The runtime closes it on Close.
func WithStore(s Store) Option {
	return func(r *Runtime) {
		r.store = s
		r.sqlitePath = ""
	}
}

// WithRates overrides currency rates, as USD per unit of the currency.
func WithRates(rates map[string]float64) Option {
	return func(r *Runtime) {
		r.rates = rates
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = l
	}
}

// WithLocale sets the locale used to group digits in results.
func WithLocale(tag language.Tag) Option {
	return func(r *Runtime) {
		r.locale = tag
	}
}

// WithPrecision sets the significant digits shown for quantities.
func WithPrecision(n int) Option {
	return func(r *Runtime) {
		r.precision = n
	}
}

// Store is the notebook persistence interface.
type Store = store.Store

// Sheet is a stored notebook.
type Sheet = store.Sheet

// LineResult is the outcome of one evaluated line.
type LineResult = sheet.LineResult

// Value is an evaluated value.
type Value = eval.Value

// Line states.
const (
	Blank      = sheet.Blank
	Assigned   = sheet.Assigned
	Expression = sheet.Expression
	Failed     = sheet.Failed
)

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package sumflow

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"nickandperla.net/sumflow/internal/diag"
	"nickandperla.net/sumflow/internal/eval"
	"nickandperla.net/sumflow/internal/samples"
	"nickandperla.net/sumflow/internal/sheet"
	"nickandperla.net/sumflow/internal/store"
	"nickandperla.net/sumflow/internal/units"
)

// DefaultSheetName names sheets created without a name.
const DefaultSheetName = "New Sheet"

var (
	// ErrNotFound is returned when a sheet reference matches nothing.
	ErrNotFound = store.ErrNotFound
	// ErrLastSheet is returned when deleting the only remaining sheet.
	ErrLastSheet = errors.New("cannot delete the last sheet")
	// ErrAmbiguous is returned when a sheet reference matches several sheets.
	ErrAmbiguous = errors.New("sheet reference is ambiguous")
)

// Runtime evaluates notebooks and manages their storage.
type Runtime struct {
	store      store.Store
	sqlitePath string
	rates      map[string]float64
	logger     *slog.Logger
	locale     language.Tag
	precision  int
	now        func() time.Time

	engine    *eval.Evaluator
	evaluator *sheet.Evaluator
}

// New creates a runtime. Without a store option sheets live in memory. An
// empty store is seeded with the welcome notebook.
func New(opts ...Option) (*Runtime, error) {
	r := &Runtime{
		locale:    language.AmericanEnglish,
		precision: sheet.DefaultPrecision,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = diag.Discard()
	}

	table, err := units.New(units.WithRates(r.rates))
	if err != nil {
		return nil, fmt.Errorf("unit table: %w", err)
	}
	r.engine = eval.New(eval.WithUnits(table))
	r.evaluator = sheet.New(
		sheet.WithEngine(r.engine),
		sheet.WithLogger(r.logger),
		sheet.WithLocale(r.locale),
		sheet.WithPrecision(r.precision),
	)

	switch {
	case r.sqlitePath != "":
		s, err := store.NewSQLite(r.sqlitePath, r.logger)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		r.store = s
	case r.store == nil:
		r.store = store.NewMemory()
	}

	if err := r.seed(); err != nil {
		r.store.Close()
		return nil, err
	}
	return r, nil
}

func (r *Runtime) seed() error {
	sheets, err := r.store.List()
	if err != nil {
		return fmt.Errorf("list sheets: %w", err)
	}
	if len(sheets) > 0 {
		return nil
	}
	_, err = r.AddWelcomeSheet()
	return err
}

// Evaluate runs one full pass over lines.
func (r *Runtime) Evaluate(lines []string) []LineResult {
	return r.evaluator.Evaluate(lines)
}

// EvaluateText runs one full pass over the lines of text.
func (r *Runtime) EvaluateText(text string) []LineResult {
	return r.evaluator.EvaluateText(text)
}

// UnitInfo describes one unit or currency. Factor is relative to the base
// unit of the dimension; for currencies it is the rate in USD.
type UnitInfo struct {
	Name      string
	Dimension string
	Factor    float64
	Aliases   []string
}

// Units lists the units and currencies the evaluator accepts.
func (r *Runtime) Units() []UnitInfo {
	table := r.engine.Units()
	var out []UnitInfo
	for _, u := range table.Units() {
		out = append(out, UnitInfo{
			Name:      u.Name,
			Dimension: string(u.Dimension),
			Factor:    u.Factor,
			Aliases:   table.Aliases(u),
		})
	}
	return out
}

// Sheets lists all sheets in creation order.
func (r *Runtime) Sheets() ([]Sheet, error) {
	return r.store.List()
}

// Sheet returns the sheet with the given id.
func (r *Runtime) Sheet(id string) (Sheet, error) {
	return r.store.Get(id)
}

// Resolve finds a sheet by exact id, unique id prefix or case-insensitive
// name, in that order.
func (r *Runtime) Resolve(ref string) (Sheet, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Sheet{}, ErrNotFound
	}
	if s, err := r.store.Get(ref); err == nil {
		return s, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return Sheet{}, err
	}

	sheets, err := r.store.List()
	if err != nil {
		return Sheet{}, err
	}
	for _, match := range []func(Sheet) bool{
		func(s Sheet) bool { return strings.HasPrefix(s.ID, ref) },
		func(s Sheet) bool { return strings.EqualFold(s.Name, ref) },
	} {
		var found []Sheet
		for _, s := range sheets {
			if match(s) {
				found = append(found, s)
			}
		}
		switch len(found) {
		case 0:
			continue
		case 1:
			return found[0], nil
		default:
			return Sheet{}, fmt.Errorf("%w: %q matches %d sheets", ErrAmbiguous, ref, len(found))
		}
	}
	return Sheet{}, fmt.Errorf("%w: %q", ErrNotFound, ref)
}

// CreateSheet stores a new sheet with a fresh id.
func (r *Runtime) CreateSheet(name, content string) (Sheet, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultSheetName
	}
	s := Sheet{
		ID:           uuid.NewString(),
		Name:         name,
		Content:      content,
		LastModified: r.now(),
	}
	if err := r.store.Put(s); err != nil {
		return Sheet{}, err
	}
	return s, nil
}

// AddWelcomeSheet stores a new copy of the welcome notebook.
func (r *Runtime) AddWelcomeSheet() (Sheet, error) {
	return r.CreateSheet(samples.WelcomeName, samples.Welcome)
}

// UpdateContent replaces a sheet's content.
func (r *Runtime) UpdateContent(id, content string) (Sheet, error) {
	return r.update(id, func(s *Sheet) { s.Content = content })
}

// Rename changes a sheet's name.
func (r *Runtime) Rename(id, name string) (Sheet, error) {
	if strings.TrimSpace(name) == "" {
		return Sheet{}, errors.New("sheet name must not be empty")
	}
	return r.update(id, func(s *Sheet) { s.Name = name })
}

func (r *Runtime) update(id string, fn func(*Sheet)) (Sheet, error) {
	s, err := r.store.Get(id)
	if err != nil {
		return Sheet{}, err
	}
	fn(&s)
	s.LastModified = r.now()
	if err := r.store.Put(s); err != nil {
		return Sheet{}, err
	}
	return s, nil
}

// DeleteSheet removes a sheet. The last remaining sheet cannot be deleted.
func (r *Runtime) DeleteSheet(id string) error {
	sheets, err := r.store.List()
	if err != nil {
		return err
	}
	found := false
	for _, s := range sheets {
		if s.ID == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if len(sheets) <= 1 {
		return ErrLastSheet
	}
	return r.store.Delete(id)
}

// EvaluateSheet evaluates the stored sheet with the given id.
func (r *Runtime) EvaluateSheet(id string) (Sheet, []LineResult, error) {
	s, err := r.store.Get(id)
	if err != nil {
		return Sheet{}, nil, err
	}
	return s, r.EvaluateText(s.Content), nil
}

// Export writes every sheet as JSON.
func (r *Runtime) Export(w io.Writer) error {
	sheets, err := r.store.List()
	if err != nil {
		return err
	}
	return store.WriteJSON(w, sheets)
}

// Import reads sheets written by Export and stores them, replacing sheets
// with the same id. It returns the number of sheets stored.
func (r *Runtime) Import(rd io.Reader) (int, error) {
	sheets, err := store.ReadJSON(rd)
	if err != nil {
		return 0, err
	}
	for i, s := range sheets {
		if err := r.store.Put(s); err != nil {
			return i, fmt.Errorf("store sheet %s: %w", s.ID, err)
		}
	}
	r.logger.Info("imported sheets", "count", len(sheets))
	return len(sheets), nil
}

// Close releases resources.
func (r *Runtime) Close() error {
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}

package sheet

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"nickandperla.net/sumflow/internal/diag"
)

// assignmentPattern: leading identifier characters (interior spaces
// allowed), then ':' or '=', then the expression.
var assignmentPattern = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_\s]*)\s*[:=]\s*(.*)$`)

// Assignment is a line of the form "Display Name = expression".
type Assignment struct {
	Display    string
	Canonical  string
	Expression string
}

// ParseAssignment reports whether line assigns a name and splits it into
// the display name, its canonical form and the right-hand side.
func ParseAssignment(line string) (Assignment, bool) {
	m := assignmentPattern.FindStringSubmatch(line)
	if m == nil {
		return Assignment{}, false
	}
	display := strings.TrimSpace(m[1])
	return Assignment{
		Display:    display,
		Canonical:  Canonical(display),
		Expression: m[2],
	}, true
}

// Canonical derives the evaluator identifier for a display name by
// collapsing every whitespace run to a single underscore.
func Canonical(display string) string {
	return strings.Join(strings.Fields(display), "_")
}

// Name pairs a display name with its canonical identifier.
type Name struct {
	Display   string
	Canonical string
}

// Registry tracks the variable names assigned so far in one pass.
type Registry struct {
	canonical map[string]string // display -> canonical
	display   map[string]string // canonical -> latest display
	logger    *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = diag.Discard()
	}
	return &Registry{
		canonical: make(map[string]string),
		display:   make(map[string]string),
		logger:    logger,
	}
}

// Register records display -> canonical. When another display name already
// maps to the same canonical name, the later assignment wins and a warning
// is logged; both display names keep resolving to the shared identifier.
func (r *Registry) Register(display, canonical string) {
	if prev, ok := r.display[canonical]; ok && prev != display {
		r.logger.Warn("variable names collide",
			"canonical", canonical,
			"previous", prev,
			"display", display,
		)
	}
	r.canonical[display] = canonical
	r.display[canonical] = display
}

// Names returns a snapshot of the registered names, longest display name
// first; equal lengths are ordered by display name.
func (r *Registry) Names() []Name {
	names := make([]Name, 0, len(r.canonical))
	for d, c := range r.canonical {
		names = append(names, Name{Display: d, Canonical: c})
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i].Display) != len(names[j].Display) {
			return len(names[i].Display) > len(names[j].Display)
		}
		return names[i].Display < names[j].Display
	})
	return names
}

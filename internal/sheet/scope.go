package sheet

import (
	"strconv"

	"nickandperla.net/sumflow/internal/eval"
)

// Aliases bound to the most recent successful result.
const (
	AliasPrev     = "prev"
	AliasPrevious = "previous"
)

// LineAlias returns the scope name of the 1-based line n ("line3").
func LineAlias(n int) string {
	return "line" + strconv.Itoa(n)
}

// Binding is a value assigned to a named variable.
type Binding struct {
	Display   string
	Canonical string
	Value     eval.Value
}

// BuildScope assembles the bindings visible to the line after prior. Layers
// are written in order, so later layers win on a name clash:
//
//  1. prev and previous, when a previous value exists
//  2. line<i> for every earlier line that produced a value
//  3. named bindings, in document order
func BuildScope(prior []LineResult, bindings []Binding, previous eval.Value) eval.Scope {
	scope := make(eval.Scope, len(prior)+len(bindings)+2)
	if previous != nil {
		scope.Set(AliasPrev, previous)
		scope.Set(AliasPrevious, previous)
	}
	for i, r := range prior {
		if r.Value != nil {
			scope.Set(LineAlias(i+1), r.Value)
		}
	}
	for _, b := range bindings {
		scope.Set(b.Canonical, b.Value)
	}
	return scope
}

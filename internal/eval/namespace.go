// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package eval implements the unit-aware arithmetic evaluator used for
// notebook lines.
package eval

import "sort"

// Scope maps identifier names to values for one evaluation. It is not safe
// for concurrent mutation; callers build one per evaluation.
type Scope map[string]Value

// Get retrieves a value by name.
func (s Scope) Get(name string) (Value, bool) {
	v, ok := s[name]
	return v, ok
}

// Set binds name to v.
func (s Scope) Set(name string, v Value) {
	s[name] = v
}

// Names returns the bound names, sorted.
func (s Scope) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}


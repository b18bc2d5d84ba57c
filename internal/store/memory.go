package store

import (
	"slices"
	"sync"
)

// Memory is an in-memory store for testing.
type Memory struct {
	mu     sync.RWMutex
	sheets map[string]Sheet
	order  []string
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{sheets: make(map[string]Sheet)}
}

// List returns all sheets in insertion order.
func (m *Memory) List() ([]Sheet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Sheet, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.sheets[id])
	}
	return out, nil
}

// Get retrieves a sheet by id.
func (m *Memory) Get(id string) (Sheet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sheets[id]
	if !ok {
		return Sheet{}, ErrNotFound
	}
	return s, nil
}

// Put stores a sheet.
func (m *Memory) Put(s Sheet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sheets[s.ID]; !ok {
		m.order = append(m.order, s.ID)
	}
	m.sheets[s.ID] = s
	return nil
}

// Delete removes a sheet by id.
func (m *Memory) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sheets[id]; !ok {
		return ErrNotFound
	}
	delete(m.sheets, id)
	m.order = slices.DeleteFunc(m.order, func(o string) bool { return o == id })
	return nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}

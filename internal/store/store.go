// Package store persists notebooks.
package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no sheet has the requested id.
var ErrNotFound = errors.New("sheet not found")

// Sheet is one notebook.
type Sheet struct {
	ID           string
	Name         string
	Content      string
	LastModified time.Time
}

// Store is the interface for notebook persistence. List returns sheets in
// the order they were first stored.
type Store interface {
	List() ([]Sheet, error)
	// Get returns ErrNotFound if id is unknown.
	Get(id string) (Sheet, error)
	// Put stores a sheet by id, overwriting if it exists.
	Put(s Sheet) error
	// Delete returns ErrNotFound if id is unknown.
	Delete(id string) error
	Close() error
}

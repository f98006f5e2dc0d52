package repositories

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	// It is how a lost check-then-insert race surfaces to the service layer.
	ErrDuplicate = errors.New("duplicate record")
)

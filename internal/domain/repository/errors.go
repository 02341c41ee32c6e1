package repository

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned on unique constraint violations.
	ErrConflict = errors.New("conflict")
	// ErrInsufficientStock is returned when a conditional stock decrement affects no rows.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrStatusChanged is returned when a conditional status update finds the
	// row in a different status than the caller read.
	ErrStatusChanged = errors.New("status changed")
)

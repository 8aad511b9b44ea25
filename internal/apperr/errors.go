// Package apperr defines the sentinel errors shared across the toolkit.
package apperr

import "errors"

var (
	// ErrNotFound is returned when a record id has no persisted document.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateID is returned when a caller-supplied sample id is already taken.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrUnitMismatch is returned when a usage unit differs from the sample's stored unit.
	ErrUnitMismatch = errors.New("unit mismatch")
	// ErrMalformedStore is returned when a store file exists but cannot be parsed.
	ErrMalformedStore = errors.New("malformed store")
	// ErrConflict is returned when an operation would repeat an irreversible transition.
	ErrConflict = errors.New("conflict")
)

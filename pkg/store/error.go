package store

import "errors"

var (
	// ErrUnavailable is returned when the store backend cannot be reached.
	ErrUnavailable = errors.New("document store unavailable")

	// ErrSchemaConflict is returned when an index exists with an incompatible mapping.
	ErrSchemaConflict = errors.New("index schema conflict")

	// ErrNotFound is returned when the index a read operation needs does not exist.
	ErrNotFound = errors.New("index not found")

	// ErrDimensionMismatch is returned when an embedding's length differs
	// from the index schema's vector dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Package vectorerr defines the error taxonomy shared by the hnsw collection
// core and the collaborators built around it (pkg/store, cmd/server,
// cmd/cli). Errors are values: pkg/hnsw returns the sentinels below
// unwrapped, so callers may compare with == or errors.Is; collaborators
// such as cmd/cli add context via fmt.Errorf("...: %w", ...), after which
// errors.Is still matches the sentinel.
package vectorerr

import "errors"

var (
	// ErrDimensionMismatch is returned when a vector's length differs from
	// the dimension established by a collection's first insert.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrCapacityExceeded is returned when an insert would grow the
	// collection past the 32-bit VectorID space.
	ErrCapacityExceeded = errors.New("collection capacity exceeded")

	// ErrNotFound is returned when a VectorID does not refer to a live
	// record.
	ErrNotFound = errors.New("vector id not found")

	// ErrEmptyCollection is returned by operations that require at least
	// one live record.
	ErrEmptyCollection = errors.New("collection is empty")

	// ErrSearchUnavailable is returned when search cannot find any live
	// vector to seed the beam search from.
	ErrSearchUnavailable = errors.New("search unavailable: no valid seed")

	// ErrInvalidInput is returned for malformed arguments that aren't
	// covered by a more specific sentinel above.
	ErrInvalidInput = errors.New("invalid input")
)

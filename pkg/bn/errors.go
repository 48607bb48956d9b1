// Package bn implements the data model shared by every other package in this
// module: Boolean networks, partial assignments ("subspaces"), Boolean
// update-function expressions, percolation, and the DNF/unique-key helpers
// that the rest of the succession-diagram engine is built on.
//
// This corresponds to the "Space-Algebra" component of the engine: pure,
// total operations on subspaces, plus the network representation that the
// Petri-net encoder and trap solver consume.
package bn

import "errors"

// Sentinel errors surfaced synchronously at construction or lookup time, per
// the input-error class of the engine's error model.
var (
	// ErrUnknownVariable is returned when an operation references a variable
	// name absent from the network.
	ErrUnknownVariable = errors.New("bn: unknown variable")

	// ErrInvalidName is returned when a variable name cannot be used as-is
	// and sanitization was not requested.
	ErrInvalidName = errors.New("bn: invalid variable name")

	// ErrParameterized is returned when a network contains an explicit or
	// non-input implicit parameter, which this engine does not support.
	ErrParameterized = errors.New("bn: network contains parameters")

	// ErrDuplicateVariable is returned when two variables collide after name
	// sanitization and no further disambiguation is possible.
	ErrDuplicateVariable = errors.New("bn: duplicate variable name")
)

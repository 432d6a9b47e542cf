package fanout

import "errors"

const Namespace = "fanout"

var (
	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")
	ErrTaskPanicked  = errors.New(Namespace + ": task execution panicked")

	// ErrNoResult is returned by a task function to report that the item produced no output.
	// It is not a failure: with trimming enabled the output is dropped, otherwise the zero
	// value of the result type is collected in its place.
	ErrNoResult = errors.New(Namespace + ": no result")
)

package fanout

import (
	"errors"
	"fmt"
)

// TaskError ties a task failure to the item being processed when it occurred.
// The engine wraps failures into it unless WithoutErrorTagging is used.
type TaskError[T any] struct {
	Item T
	Err  error
}

func newTaskError[T any](err error, item T) error {
	if err == nil {
		return nil
	}
	return &TaskError[T]{Item: item, Err: err}
}

func (e *TaskError[T]) Error() string { return e.Err.Error() }
func (e *TaskError[T]) Unwrap() error { return e.Err }

// Format prints the failed item in front of the error for %+v.
func (e *TaskError[T]) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "task(item=%v): %+v", e.Item, e.Err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// ExtractItem returns the item a failure was tagged with.
// T must match the item type of the Run, Map or ForEach call which produced err.
func ExtractItem[T any](err error) (T, bool) {
	var te *TaskError[T]
	if errors.As(err, &te) {
		return te.Item, true
	}
	var zero T
	return zero, false
}

package fanout

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type worker[T, R any] struct {
	ctx    context.Context
	fn     func(context.Context, Queue[T], T) (R, error)
	queue  *workQueue[T]
	signal *errorSignal
	sink   *sink[R]
	instr  *instruments

	trim bool
	tag  bool
}

// run drains the queue until it is drained or the run is stopping.
// The returned error is the failure this worker raised, if any. A panic escaping
// process, from a metrics provider for instance, is raised like a task failure.
func (w *worker[T, R]) run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
			w.signal.raise(err)
		}
	}()

	for {
		if w.signal.isSet() {
			return nil
		}
		item, ok := w.queue.take()
		if !ok {
			return nil
		}
		if err := w.process(item); err != nil {
			return err
		}
	}
}

func (w *worker[T, R]) process(item T) error {
	defer w.queue.done()

	start := time.Now()
	result, err := w.call(item)
	w.instr.duration.Record(time.Since(start).Seconds())

	switch {
	case err == nil:
		w.sink.add(result)

	case errors.Is(err, ErrNoResult):
		w.instr.absent.Add(1)
		if !w.trim {
			var zero R
			w.sink.add(zero)
		}

	default:
		w.instr.failed.Add(1)
		if w.tag {
			err = newTaskError(err, item)
		}
		w.signal.raise(err)
		return err
	}

	w.instr.completed.Add(1)
	return nil
}

// call invokes the task function, turning a panic into an ErrTaskPanicked failure.
func (w *worker[T, R]) call(item T) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
		}
	}()
	return w.fn(w.ctx, w.queue, item)
}

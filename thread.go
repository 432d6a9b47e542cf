package fanout

import "fmt"

// thread runs a function on its own goroutine and keeps whatever escapes it:
// the returned error, or a recovered panic wrapped into ErrTaskPanicked.
// The value is only read after join, which makes the write race-free.
type thread struct {
	done chan struct{}
	err  error
}

func spawn(fn func() error) *thread {
	t := &thread{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				t.err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
			}
		}()
		t.err = fn()
	}()
	return t
}

// join blocks until the thread exits and returns its captured failure.
func (t *thread) join() error {
	<-t.done
	return t.err
}

package fanout

import "sync"

// Queue is the handle a task function receives to schedule follow-up items.
// Enqueue never blocks. Items enqueued after the run started failing are discarded.
type Queue[T any] interface {
	Enqueue(items ...T)
}

// workQueue is an unbounded FIFO that tells "temporarily empty" apart from "drained".
// It is drained when nothing is queued and nothing is in flight; an in-flight item
// may still enqueue more work, so an empty backlog alone never ends the run.
type workQueue[T any] struct {
	mu sync.Mutex
	// work wakes workers parked in take; drained wakes callers parked in wait.
	// Separate conditions keep a wakeup meant for a worker from landing on wait.
	work    *sync.Cond
	drained *sync.Cond

	items    []T
	inflight int
	aborted  bool

	instr *instruments
}

func newWorkQueue[T any](instr *instruments) *workQueue[T] {
	q := &workQueue[T]{instr: instr}
	q.work = sync.NewCond(&q.mu)
	q.drained = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends items to the backlog and wakes waiting workers.
func (q *workQueue[T]) Enqueue(items ...T) {
	if len(items) == 0 {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.aborted {
		return
	}
	q.items = append(q.items, items...)
	q.instr.enqueued.Add(int64(len(items)))
	for range items {
		q.work.Signal()
	}
}

// take blocks until an item can be handed out or no more work will ever come.
// A returned item is accounted as in flight until done is called.
func (q *workQueue[T]) take() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		switch {
		case q.aborted:
			var zero T
			return zero, false

		case len(q.items) > 0:
			item := q.items[0]
			var zero T
			q.items[0] = zero // release reference held by the backing array
			q.items = q.items[1:]
			q.inflight++
			q.instr.inflight.Add(1)
			return item, true

		case q.inflight == 0:
			var zero T
			return zero, false
		}

		q.work.Wait()
	}
}

// done marks one taken item as finished.
func (q *workQueue[T]) done() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.inflight--
	q.instr.inflight.Add(-1)
	if q.inflight == 0 {
		// idle workers either pick up the backlog or exit
		q.work.Broadcast()
		q.drained.Broadcast()
	}
}

// wait blocks until the queue is drained, or aborted with nothing in flight.
func (q *workQueue[T]) wait() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.inflight > 0 || (len(q.items) > 0 && !q.aborted) {
		q.drained.Wait()
	}
}

// abort discards the backlog and makes take return false from now on.
func (q *workQueue[T]) abort() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.aborted = true
	q.items = nil
	q.work.Broadcast()
	q.drained.Broadcast()
}

// stats returns the number of queued and in-flight items.
func (q *workQueue[T]) stats() (queued, inflight int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items), q.inflight
}

package fanout

import "sync"

// sink collects task outputs in completion order.
type sink[R any] struct {
	mu    sync.Mutex
	items []R
}

func (s *sink[R]) add(r R) {
	s.mu.Lock()
	s.items = append(s.items, r)
	s.mu.Unlock()
}

// collect returns a copy of everything added so far.
func (s *sink[R]) collect() []R {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]R, len(s.items))
	copy(out, s.items)
	return out
}

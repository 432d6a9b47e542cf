package fanout

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

// errorSignal records the first failure of a run and fires stop exactly once.
// Later failures are kept aside: dropped by default, joined in when all is set.
type errorSignal struct {
	fired atomic.Bool
	stop  func()
	all   bool

	mu      sync.Mutex
	first   error
	dropped []error

	instr  *instruments
	logger *slog.Logger
}

func newErrorSignal(stop func(), all bool, instr *instruments, logger *slog.Logger) *errorSignal {
	return &errorSignal{stop: stop, all: all, instr: instr, logger: logger}
}

// raise records err. It reports whether err became the run's first failure.
func (s *errorSignal) raise(err error) bool {
	s.mu.Lock()
	if s.first != nil {
		s.dropped = append(s.dropped, err)
		s.mu.Unlock()
		s.instr.dropped.Add(1)
		s.logger.Debug("failure observed after the run was already stopping", "error", err)
		return false
	}
	s.first = err
	s.fired.Store(true)
	s.mu.Unlock()

	s.logger.Warn("task failed, stopping run", "error", err)
	// Stop outside the lock: it cancels the task context and aborts the queue.
	s.stop()
	return true
}

func (s *errorSignal) isSet() bool { return s.fired.Load() }

// err returns the failure the run ends with, or nil.
func (s *errorSignal) err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.first == nil || !s.all || len(s.dropped) == 0 {
		return s.first
	}
	return errors.Join(append([]error{s.first}, s.dropped...)...)
}

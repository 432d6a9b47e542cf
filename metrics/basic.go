package metrics

import (
	"sync"
	"sync/atomic"
)

// BasicProvider is an in-memory Provider. Instruments are created on first use
// and reused for the same name; their values can be read back by name, which makes
// the provider convenient for asserting engine behavior in tests.
type BasicProvider struct {
	counters   registry[*BasicCounter]
	updowns    registry[*BasicUpDownCounter]
	histograms registry[*BasicHistogram]

	mu   sync.Mutex
	meta map[string]InstrumentConfig
}

// NewBasicProvider constructs a new BasicProvider.
func NewBasicProvider() *BasicProvider {
	return &BasicProvider{meta: make(map[string]InstrumentConfig)}
}

// Counter returns the counter registered under name, creating it on first use.
func (p *BasicProvider) Counter(name string, opts ...InstrumentOption) Counter {
	return p.counters.get(name, func() *BasicCounter {
		p.describe(name, opts)
		return &BasicCounter{}
	})
}

// UpDownCounter returns the up/down counter registered under name, creating it on first use.
func (p *BasicProvider) UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter {
	return p.updowns.get(name, func() *BasicUpDownCounter {
		p.describe(name, opts)
		return &BasicUpDownCounter{}
	})
}

// Histogram returns the histogram registered under name, creating it on first use.
func (p *BasicProvider) Histogram(name string, opts ...InstrumentOption) Histogram {
	return p.histograms.get(name, func() *BasicHistogram {
		p.describe(name, opts)
		return &BasicHistogram{}
	})
}

// CounterValue returns the current value of the named counter, or 0 when it was never created.
func (p *BasicProvider) CounterValue(name string) int64 {
	if c, ok := p.counters.lookup(name); ok {
		return c.Snapshot()
	}
	return 0
}

// UpDownValue returns the current value of the named up/down counter, or 0 when it was never created.
func (p *BasicProvider) UpDownValue(name string) int64 {
	if u, ok := p.updowns.lookup(name); ok {
		return u.Snapshot()
	}
	return 0
}

// HistogramSnapshot returns a snapshot of the named histogram.
func (p *BasicProvider) HistogramSnapshot(name string) (HistSnapshot, bool) {
	if h, ok := p.histograms.lookup(name); ok {
		return h.Snapshot(), true
	}
	return HistSnapshot{}, false
}

// Describe returns the metadata the named instrument was created with.
func (p *BasicProvider) Describe(name string) (InstrumentConfig, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cfg, ok := p.meta[name]
	return cfg, ok
}

func (p *BasicProvider) describe(name string, opts []InstrumentOption) {
	cfg := Apply(opts...)
	p.mu.Lock()
	p.meta[name] = cfg
	p.mu.Unlock()
}

// registry is a create-once map of named instruments.
type registry[I any] struct {
	mu    sync.RWMutex
	items map[string]I
}

func (r *registry[I]) lookup(name string) (I, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.items[name]
	return i, ok
}

func (r *registry[I]) get(name string, create func() I) I {
	if i, ok := r.lookup(name); ok {
		return i
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// re-check after acquiring write lock
	if i, ok := r.items[name]; ok {
		return i
	}
	if r.items == nil {
		r.items = make(map[string]I)
	}
	i := create()
	r.items[name] = i
	return i
}

// BasicCounter is a thread-safe monotonic counter.
type BasicCounter struct {
	val atomic.Int64
}

// Add increments the counter by n.
func (c *BasicCounter) Add(n int64) { c.val.Add(n) }

// Snapshot returns the current value.
func (c *BasicCounter) Snapshot() int64 { return c.val.Load() }

// BasicUpDownCounter is a thread-safe up/down counter.
type BasicUpDownCounter struct {
	val atomic.Int64
}

// Add adds n (positive or negative) to the current value.
func (u *BasicUpDownCounter) Add(n int64) { u.val.Add(n) }

// Snapshot returns the current value.
func (u *BasicUpDownCounter) Snapshot() int64 { return u.val.Load() }

// BasicHistogram tracks count, sum, min and max of recorded values. It keeps no buckets.
type BasicHistogram struct {
	mu   sync.Mutex
	snap HistSnapshot
}

// Record adds a measurement to the histogram.
func (h *BasicHistogram) Record(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.snap.Count == 0 || v < h.snap.Min {
		h.snap.Min = v
	}
	if h.snap.Count == 0 || v > h.snap.Max {
		h.snap.Max = v
	}
	h.snap.Count++
	h.snap.Sum += v
}

// HistSnapshot is an immutable snapshot of a BasicHistogram.
type HistSnapshot struct {
	Count int64
	Sum   float64
	Min   float64
	Max   float64
	Mean  float64
}

// Snapshot returns a copy of the histogram state at the time of call.
func (h *BasicHistogram) Snapshot() HistSnapshot {
	h.mu.Lock()
	s := h.snap
	h.mu.Unlock()
	if s.Count > 0 {
		s.Mean = s.Sum / float64(s.Count)
	}
	return s
}

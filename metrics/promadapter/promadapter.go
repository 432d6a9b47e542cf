// Package promadapter exposes fanout engine instruments through a Prometheus registry.
package promadapter

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ygrebnov/fanout/metrics"
)

// Provider implements metrics.Provider on top of a prometheus.Registerer.
// Counters map to prometheus counters, up/down counters to gauges and histograms
// to histograms with prometheus.DefBuckets.
type Provider struct {
	reg prometheus.Registerer

	mu         sync.Mutex
	collectors map[string]prometheus.Collector
}

// New constructs a Provider registering into reg. A nil reg selects prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Provider {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &Provider{reg: reg, collectors: make(map[string]prometheus.Collector)}
}

// Counter returns a counter instrument; negative increments are ignored.
func (p *Provider) Counter(name string, opts ...metrics.InstrumentOption) metrics.Counter {
	c := p.collector(name, func(cfg metrics.InstrumentConfig) prometheus.Collector {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Name:        name,
			Help:        help(name, cfg),
			ConstLabels: cfg.Attributes,
		})
	}, opts...)
	return counter{c.(prometheus.Counter)}
}

// UpDownCounter returns a gauge-backed instrument.
func (p *Provider) UpDownCounter(name string, opts ...metrics.InstrumentOption) metrics.UpDownCounter {
	c := p.collector(name, func(cfg metrics.InstrumentConfig) prometheus.Collector {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        name,
			Help:        help(name, cfg),
			ConstLabels: cfg.Attributes,
		})
	}, opts...)
	return gauge{c.(prometheus.Gauge)}
}

// Histogram returns a histogram instrument.
func (p *Provider) Histogram(name string, opts ...metrics.InstrumentOption) metrics.Histogram {
	c := p.collector(name, func(cfg metrics.InstrumentConfig) prometheus.Collector {
		return prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        name,
			Help:        help(name, cfg),
			ConstLabels: cfg.Attributes,
			Buckets:     prometheus.DefBuckets,
		})
	}, opts...)
	return histogram{c.(prometheus.Histogram)}
}

// collector returns the collector cached under name, creating and registering it on first use.
// A collector already present in the registry (e.g. from another Provider sharing it) is reused;
// any other registration failure panics, as prometheus.MustRegister does.
func (p *Provider) collector(
	name string, create func(metrics.InstrumentConfig) prometheus.Collector, opts ...metrics.InstrumentOption,
) prometheus.Collector {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.collectors[name]; ok {
		return c
	}

	c := create(metrics.Apply(opts...))
	if err := p.reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			panic(err)
		}
		c = are.ExistingCollector
	}
	p.collectors[name] = c
	return c
}

func help(name string, cfg metrics.InstrumentConfig) string {
	if cfg.Description != "" {
		return cfg.Description
	}
	return name
}

type counter struct{ c prometheus.Counter }

func (c counter) Add(n int64) {
	if n > 0 {
		c.c.Add(float64(n))
	}
}

type gauge struct{ g prometheus.Gauge }

func (g gauge) Add(n int64) { g.g.Add(float64(n)) }

type histogram struct{ h prometheus.Histogram }

func (h histogram) Record(v float64) { h.h.Observe(v) }

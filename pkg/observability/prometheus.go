package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements every hook interface with Prometheus collectors.
type Prometheus struct {
	registry prometheus.Gatherer

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	cacheEvicts *prometheus.CounterVec
	cacheSize   *prometheus.GaugeVec

	undoPushes   *prometheus.CounterVec
	undoResults  *prometheus.CounterVec
	undoDepth    prometheus.Gauge
	undoDuration prometheus.Histogram

	searches       *prometheus.CounterVec
	searchResults  prometheus.Histogram
	searchDuration prometheus.Histogram
}

var (
	_ CacheHooks  = (*Prometheus)(nil)
	_ UndoHooks   = (*Prometheus)(nil)
	_ SearchHooks = (*Prometheus)(nil)
)

// NewPrometheus registers the agrikit collectors on reg. A nil reg gets a
// fresh private registry, so repeated construction (in tests) never
// collides on prometheus.DefaultRegisterer.
func NewPrometheus(reg *prometheus.Registry) *Prometheus {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	const ns = "agrikit"
	p := &Prometheus{
		registry: reg,
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "cache", Name: "hits_total",
			Help: "Cache lookups that found their key.",
		}, []string{"cache"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "cache", Name: "misses_total",
			Help: "Cache lookups that did not find their key.",
		}, []string{"cache"}),
		cacheEvicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "cache", Name: "evictions_total",
			Help: "Entries evicted to make room.",
		}, []string{"cache"}),
		cacheSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: "cache", Name: "entries",
			Help: "Entries held after the last write.",
		}, []string{"cache"}),
		undoPushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "undo", Name: "pushes_total",
			Help: "Action records pushed by kind.",
		}, []string{"kind", "entity_type"}),
		undoResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "undo", Name: "attempts_total",
			Help: "Undo attempts by kind and outcome.",
		}, []string{"kind", "outcome"}),
		undoDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: "undo", Name: "depth",
			Help: "Records in the undo log after the last push.",
		}),
		undoDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Subsystem: "undo", Name: "duration_seconds",
			Help:    "Time spent applying one undo.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "search", Name: "queries_total",
			Help: "Search queries by the strategy that answered them.",
		}, []string{"mode"}),
		searchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Subsystem: "search", Name: "results",
			Help:    "Items returned per query.",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500},
		}),
		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Subsystem: "search", Name: "duration_seconds",
			Help:    "Time spent per query.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
	}
	reg.MustRegister(
		p.cacheHits, p.cacheMisses, p.cacheEvicts, p.cacheSize,
		p.undoPushes, p.undoResults, p.undoDepth, p.undoDuration,
		p.searches, p.searchResults, p.searchDuration,
	)
	return p
}

// Gatherer returns the registry the collectors live on, for an HTTP handler
// or a one-off dump.
func (p *Prometheus) Gatherer() prometheus.Gatherer { return p.registry }

func (p *Prometheus) OnCacheHit(_ context.Context, name string) {
	p.cacheHits.WithLabelValues(name).Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, name string) {
	p.cacheMisses.WithLabelValues(name).Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, name string, size int) {
	p.cacheSize.WithLabelValues(name).Set(float64(size))
}

func (p *Prometheus) OnCacheEvict(_ context.Context, name string) {
	p.cacheEvicts.WithLabelValues(name).Inc()
}

func (p *Prometheus) OnPush(_ context.Context, kind, entityType string, depth int) {
	p.undoPushes.WithLabelValues(kind, entityType).Inc()
	p.undoDepth.Set(float64(depth))
}

func (p *Prometheus) OnUndo(_ context.Context, kind, _ string, d time.Duration, err error) {
	outcome := "applied"
	if err != nil {
		outcome = "failed"
	}
	p.undoResults.WithLabelValues(kind, outcome).Inc()
	p.undoDuration.Observe(d.Seconds())
}

func (p *Prometheus) OnSearch(_ context.Context, mode string, results int, d time.Duration) {
	p.searches.WithLabelValues(mode).Inc()
	p.searchResults.Observe(float64(results))
	p.searchDuration.Observe(d.Seconds())
}

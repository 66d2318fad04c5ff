package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hawtio"

// Metrics holds the collectors updated by a workspace.
type Metrics struct {
	Records       *prometheus.CounterVec
	DiagramBuilds *prometheus.CounterVec
	BuildDuration prometheus.Histogram
	DiagramNodes  prometheus.Gauge
	Cache         *prometheus.CounterVec
	Reloads       *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_total",
				Help:      "Records decoded from or encoded to route XML",
			},
			[]string{"op"},
		),
		DiagramBuilds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "diagram_builds_total",
				Help:      "Diagram builds by route selection",
			},
			[]string{"route"},
		),
		BuildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "diagram_build_duration_seconds",
				Help:      "Duration of diagram builds",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
		),
		DiagramNodes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "diagram_nodes",
				Help:      "Number of nodes in the last built diagram",
			},
		),
		Cache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "diagram_cache_total",
				Help:      "Diagram cache lookups by result",
			},
			[]string{"result"},
		),
		Reloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "source_reloads_total",
				Help:      "Route source reloads by outcome",
			},
			[]string{"outcome"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Records, m.DiagramBuilds, m.BuildDuration, m.DiagramNodes, m.Cache, m.Reloads)
	}
	return m
}

// ObserveDecode counts a decoded record.
func (m *Metrics) ObserveDecode() {
	if m == nil {
		return
	}
	m.Records.WithLabelValues("decode").Inc()
}

// ObserveEncode counts an encoded record.
func (m *Metrics) ObserveEncode() {
	if m == nil {
		return
	}
	m.Records.WithLabelValues("encode").Inc()
}

// ObserveBuild records one diagram build. An empty route means all routes.
func (m *Metrics) ObserveBuild(route string, nodes int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "*"
	}
	m.DiagramBuilds.WithLabelValues(route).Inc()
	m.BuildDuration.Observe(elapsed.Seconds())
	m.DiagramNodes.Set(float64(nodes))
}

// ObserveCache records a cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.Cache.WithLabelValues(result).Inc()
}

// ObserveReload records a source reload.
func (m *Metrics) ObserveReload(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Reloads.WithLabelValues(outcome).Inc()
}

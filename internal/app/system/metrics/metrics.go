// Package metrics registers PostDesk's Prometheus collectors.
//
// A nil *Metrics is valid and records nothing, so components can take one
// optionally.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "postdesk"

// Metrics holds the application collectors.
type Metrics struct {
	GateDecisions *prometheus.CounterVec
	FeedFetches   *prometheus.CounterVec
	FeedDuration  prometheus.Histogram
	CacheRequests *prometheus.CounterVec
	PostWrites    *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		GateDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "create_gate_decisions_total",
				Help:      "Create-post gate outcomes by reason.",
			},
			[]string{"reason"},
		),
		FeedFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "feed_fetches_total",
				Help:      "Post list fetches by result.",
			},
			[]string{"result"},
		),
		FeedDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "feed_fetch_duration_seconds",
				Help:      "Duration of post list fetches.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
		),
		CacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_requests_total",
				Help:      "Post list cache lookups by result.",
			},
			[]string{"result"},
		),
		PostWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "post_writes_total",
				Help:      "Post writes by operation.",
			},
			[]string{"op"},
		),
		gatherer: reg,
	}

	reg.MustRegister(m.GateDecisions, m.FeedFetches, m.FeedDuration, m.CacheRequests, m.PostWrites)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveGate counts one create-gate decision.
func (m *Metrics) ObserveGate(reason string) {
	if m == nil {
		return
	}
	m.GateDecisions.WithLabelValues(reason).Inc()
}

// ObserveFetch records one post list fetch.
func (m *Metrics) ObserveFetch(err error, took time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.FeedFetches.WithLabelValues(result).Inc()
	m.FeedDuration.Observe(took.Seconds())
}

// ObserveCache records a cache lookup result: "hit", "miss" or "error".
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(result).Inc()
}

// ObserveWrite counts a post write: "create", "update" or "delete".
func (m *Metrics) ObserveWrite(op string) {
	if m == nil {
		return
	}
	m.PostWrites.WithLabelValues(op).Inc()
}

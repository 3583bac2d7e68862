// Package metrics instruments the optimization engine with prometheus
// counters and histograms. A nil *Registry is a valid no-op, so the
// engine never branches on whether metrics are wired.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all engine metrics.
type Registry struct {
	registry *prometheus.Registry

	// Shortest-path engine
	SearchesTotal  *prometheus.CounterVec // outcome: found|not_found|cancelled
	SearchDuration prometheus.Histogram
	EdgesRelaxed   prometheus.Counter
	EdgesRejected  prometheus.Counter

	// Greedy sequencer
	ToursTotal   *prometheus.CounterVec // outcome: built|insufficient_nodes|stranded
	TourStops    prometheus.Histogram

	// Network flow aggregator
	AggregationsTotal    *prometheus.CounterVec // outcome: ok|insufficient_nodes|cancelled
	AggregationDuration  prometheus.Histogram
	PairsEvaluated       prometheus.Counter
	PairsConnected       prometheus.Counter
}

// NewRegistry creates a Registry backed by a fresh prometheus registry.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.SearchesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "coldchain_searches_total",
			Help: "Total shortest-path searches executed",
		},
		[]string{"outcome"},
	)
	r.SearchDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "coldchain_search_duration_seconds",
			Help:    "Shortest-path search duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0, 10.0},
		},
	)
	r.EdgesRelaxed = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "coldchain_edges_relaxed_total",
			Help: "Edges scored during relaxation",
		},
	)
	r.EdgesRejected = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "coldchain_edges_rejected_total",
			Help: "Edges rejected by constraint maxima",
		},
	)

	r.ToursTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "coldchain_tours_total",
			Help: "Greedy route sequencing attempts",
		},
		[]string{"outcome"},
	)
	r.TourStops = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "coldchain_tour_stops",
			Help:    "Stops per sequenced tour",
			Buckets: []float64{2, 5, 10, 25, 50, 100},
		},
	)

	r.AggregationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "coldchain_aggregations_total",
			Help: "Network flow aggregation runs",
		},
		[]string{"outcome"},
	)
	r.AggregationDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "coldchain_aggregation_duration_seconds",
			Help:    "Network flow aggregation duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 1.0, 10.0, 60.0},
		},
	)
	r.PairsEvaluated = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "coldchain_pairs_evaluated_total",
			Help: "Producer/retail pairs evaluated by the aggregator",
		},
	)
	r.PairsConnected = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "coldchain_pairs_connected_total",
			Help: "Producer/retail pairs with a constraint-satisfying path",
		},
	)

	return r
}

// Gatherer exposes the underlying registry so the host application can
// serve it however it likes; the engine owns no HTTP surface.
func (r *Registry) Gatherer() prometheus.Gatherer {
	if r == nil {
		return nil
	}
	return r.registry
}

// RecordSearch records one shortest-path search.
func (r *Registry) RecordSearch(outcome string, duration time.Duration) {
	if r == nil {
		return
	}
	r.SearchesTotal.WithLabelValues(outcome).Inc()
	r.SearchDuration.Observe(duration.Seconds())
}

// RecordRelaxation records scored and rejected edges from one search.
func (r *Registry) RecordRelaxation(relaxed, rejected int) {
	if r == nil {
		return
	}
	r.EdgesRelaxed.Add(float64(relaxed))
	r.EdgesRejected.Add(float64(rejected))
}

// RecordTour records one greedy sequencing attempt.
func (r *Registry) RecordTour(outcome string, stops int) {
	if r == nil {
		return
	}
	r.ToursTotal.WithLabelValues(outcome).Inc()
	if stops > 0 {
		r.TourStops.Observe(float64(stops))
	}
}

// RecordAggregation records one network flow aggregation run.
func (r *Registry) RecordAggregation(outcome string, duration time.Duration, evaluated, connected int) {
	if r == nil {
		return
	}
	r.AggregationsTotal.WithLabelValues(outcome).Inc()
	r.AggregationDuration.Observe(duration.Seconds())
	r.PairsEvaluated.Add(float64(evaluated))
	r.PairsConnected.Add(float64(connected))
}

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestNilRegistryIsNoOp tests that an absent registry never panics
func TestNilRegistryIsNoOp(t *testing.T) {
	var r *Registry
	r.RecordSearch("found", time.Millisecond)
	r.RecordRelaxation(10, 2)
	r.RecordTour("built", 5)
	r.RecordAggregation("ok", time.Second, 4, 3)
	if r.Gatherer() != nil {
		t.Error("nil registry returned a gatherer")
	}
}

// TestRecordSearch tests counter and histogram recording
func TestRecordSearch(t *testing.T) {
	r := NewRegistry()

	r.RecordSearch("found", 10*time.Millisecond)
	r.RecordSearch("found", 20*time.Millisecond)
	r.RecordSearch("not_found", time.Millisecond)

	if got := testutil.ToFloat64(r.SearchesTotal.WithLabelValues("found")); got != 2 {
		t.Errorf("found searches = %f, want 2", got)
	}
	if got := testutil.ToFloat64(r.SearchesTotal.WithLabelValues("not_found")); got != 1 {
		t.Errorf("not_found searches = %f, want 1", got)
	}
}

// TestRecordRelaxation tests edge counters
func TestRecordRelaxation(t *testing.T) {
	r := NewRegistry()

	r.RecordRelaxation(25, 4)
	r.RecordRelaxation(5, 0)

	if got := testutil.ToFloat64(r.EdgesRelaxed); got != 30 {
		t.Errorf("edges relaxed = %f, want 30", got)
	}
	if got := testutil.ToFloat64(r.EdgesRejected); got != 4 {
		t.Errorf("edges rejected = %f, want 4", got)
	}
}

// TestRecordAggregation tests pair counters
func TestRecordAggregation(t *testing.T) {
	r := NewRegistry()

	r.RecordAggregation("ok", 100*time.Millisecond, 6, 5)

	if got := testutil.ToFloat64(r.AggregationsTotal.WithLabelValues("ok")); got != 1 {
		t.Errorf("aggregations = %f, want 1", got)
	}
	if got := testutil.ToFloat64(r.PairsEvaluated); got != 6 {
		t.Errorf("pairs evaluated = %f, want 6", got)
	}
	if got := testutil.ToFloat64(r.PairsConnected); got != 5 {
		t.Errorf("pairs connected = %f, want 5", got)
	}
}

// TestGatherer exposes the registry for the host application
func TestGatherer(t *testing.T) {
	r := NewRegistry()
	r.RecordTour("built", 3)

	families, err := r.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Error("no metric families gathered")
	}
}

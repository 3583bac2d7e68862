package cost

import (
	"errors"
	"math"
	"testing"

	"github.com/freshnet/coldchain/pkg/decay"
	"github.com/freshnet/coldchain/pkg/geo"
	"github.com/freshnet/coldchain/pkg/network"
)

func testModel() *Model {
	return &Model{
		Vehicle: VehicleProfile{
			ID:            "reefer-lcv",
			CostPerKm:     15,
			AvgSpeedKmh:   40,
			Refrigerated:  false,
			CapacityUnits: 1200,
		},
		Product: decay.ProductProfile{
			ID:                      "leafy-greens",
			SafeTempMinC:            0,
			SafeTempMaxC:            8,
			OptimalTempC:            4,
			RefrigeratedRatePerHour: 0.5,
			AmbientRatePerHour:      4.0,
		},
		Constraints: Constraints{
			AmbientTempC: 25,
		},
		LegSpeedsKmh: map[LegClass]float64{
			LegCollection:   40,
			LegTransfer:     45,
			LegDistribution: 50,
		},
		OperationalCostPerHour:    250,
		SpoilagePenaltyWeight:     10,
		TemperaturePriorityFactor: 2.5,
	}
}

func producerNode(id string, lat, lon float64) network.Node {
	return network.Node{ID: id, Tier: network.TierProducer,
		Position: geo.Coordinate{Lat: lat, Lon: lon}, Visible: true}
}

func aggregatorNode(id string, lat, lon float64) network.Node {
	return network.Node{ID: id, Tier: network.TierAggregator,
		Position: geo.Coordinate{Lat: lat, Lon: lon}, Visible: true}
}

// TestScore_Components verifies the cost formula term by term
func TestScore_Components(t *testing.T) {
	m := testModel()
	from := producerNode("p1", 0, 0)
	to := aggregatorNode("a1", 0, 0.1)

	got, err := m.Score(from, to)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	wantDist := geo.Distance(from.Position, to.Position)
	wantTime := wantDist / 40 // collection leg speed
	wantRisk := decay.SpoilageRisk(m.Product, wantTime, 25)
	wantCost := wantDist*15 + wantTime*250 + wantRisk*10

	if math.Abs(got.DistanceKm-wantDist) > 1e-9 {
		t.Errorf("DistanceKm = %f, want %f", got.DistanceKm, wantDist)
	}
	if math.Abs(got.TimeHours-wantTime) > 1e-9 {
		t.Errorf("TimeHours = %f, want %f", got.TimeHours, wantTime)
	}
	if math.Abs(got.SpoilageRisk-wantRisk) > 1e-9 {
		t.Errorf("SpoilageRisk = %f, want %f", got.SpoilageRisk, wantRisk)
	}
	if math.Abs(got.Cost-wantCost) > 1e-9 {
		t.Errorf("Cost = %f, want %f", got.Cost, wantCost)
	}
}

// TestScore_LegSpeedSelection tests that the source tier picks the leg speed
func TestScore_LegSpeedSelection(t *testing.T) {
	m := testModel()

	from := aggregatorNode("a1", 0, 0)
	to := aggregatorNode("a2", 0, 0.1)

	got, err := m.Score(from, to)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	wantTime := got.DistanceKm / 45 // transfer leg speed
	if math.Abs(got.TimeHours-wantTime) > 1e-9 {
		t.Errorf("TimeHours = %f, want transfer-speed time %f", got.TimeHours, wantTime)
	}

	// Uniform scoring ignores leg classes
	uniform, err := m.ScoreUniform(from, to)
	if err != nil {
		t.Fatalf("ScoreUniform failed: %v", err)
	}
	wantUniform := uniform.DistanceKm / 40
	if math.Abs(uniform.TimeHours-wantUniform) > 1e-9 {
		t.Errorf("uniform TimeHours = %f, want vehicle-speed time %f", uniform.TimeHours, wantUniform)
	}
}

// TestScore_LegSpeedFallback tests fallback to the vehicle speed when no
// override is configured
func TestScore_LegSpeedFallback(t *testing.T) {
	m := testModel()
	m.LegSpeedsKmh = nil

	from := producerNode("p1", 0, 0)
	to := aggregatorNode("a1", 0, 0.1)

	got, err := m.Score(from, to)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	wantTime := got.DistanceKm / 40
	if math.Abs(got.TimeHours-wantTime) > 1e-9 {
		t.Errorf("TimeHours = %f, want vehicle fallback %f", got.TimeHours, wantTime)
	}
}

// TestScore_Rejection tests each constraint maximum in isolation
func TestScore_Rejection(t *testing.T) {
	from := producerNode("p1", 0, 0)
	to := aggregatorNode("a1", 0, 0.1) // ~11.1 km

	tests := []struct {
		name   string
		adjust func(*Model)
	}{
		{"max distance", func(m *Model) { m.Constraints.MaxDistanceKm = 5 }},
		{"max delivery time", func(m *Model) { m.Constraints.MaxDeliveryTimeHours = 0.1 }},
		{"max spoilage", func(m *Model) { m.Constraints.MaxSpoilagePercent = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel()
			tt.adjust(m)

			_, err := m.Score(from, to)
			if !errors.Is(err, ErrEdgeRejected) {
				t.Fatalf("Score error = %v, want ErrEdgeRejected", err)
			}
		})
	}
}

// TestScore_RejectionIsNeverZeroCost tests that rejection carries no metrics
func TestScore_RejectionIsNeverZeroCost(t *testing.T) {
	m := testModel()
	m.Constraints.MaxDistanceKm = 5

	got, err := m.Score(producerNode("p1", 0, 0), aggregatorNode("a1", 0, 0.1))
	if err == nil {
		t.Fatal("expected rejection")
	}
	if got != (EdgeMetrics{}) {
		t.Errorf("rejected edge returned metrics %+v, want zero value with error", got)
	}
}

// TestScore_TemperaturePriority tests spoilage penalty amplification
func TestScore_TemperaturePriority(t *testing.T) {
	from := producerNode("p1", 0, 0)
	to := aggregatorNode("a1", 0, 0.1)

	base := testModel()
	normal, err := base.Score(from, to)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	prio := testModel()
	prio.Constraints.TemperaturePriority = true
	amplified, err := prio.Score(from, to)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	wantExtra := normal.SpoilageRisk * 10 * 1.5 // penalty goes 10 -> 25
	if math.Abs((amplified.Cost-normal.Cost)-wantExtra) > 1e-9 {
		t.Errorf("temperature priority added %f cost, want %f", amplified.Cost-normal.Cost, wantExtra)
	}
}

// TestScore_RefrigeratedVehicle tests that refrigeration holds the
// product at its optimal temperature
func TestScore_RefrigeratedVehicle(t *testing.T) {
	m := testModel()
	m.Vehicle.Refrigerated = true

	got, err := m.Score(producerNode("p1", 0, 0), aggregatorNode("a1", 0, 0.1))
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	wantRisk := decay.SpoilageRisk(m.Product, got.TimeHours, m.Product.OptimalTempC)
	if math.Abs(got.SpoilageRisk-wantRisk) > 1e-9 {
		t.Errorf("SpoilageRisk = %f, want refrigerated %f", got.SpoilageRisk, wantRisk)
	}
}

// TestScore_NonNegative tests that no metric ever goes negative
func TestScore_NonNegative(t *testing.T) {
	m := testModel()
	points := []network.Node{
		producerNode("p1", 0, 0),
		aggregatorNode("a1", -45, 120),
		aggregatorNode("a2", 89, -179),
		aggregatorNode("a3", 0, 0),
	}
	for _, from := range points[:1] {
		for _, to := range points[1:] {
			got, err := m.Score(from, to)
			if err != nil {
				continue
			}
			if got.DistanceKm < 0 || got.TimeHours < 0 || got.Cost < 0 || got.SpoilageRisk < 0 {
				t.Errorf("negative metric for %s->%s: %+v", from.ID, to.ID, got)
			}
		}
	}
}

// TestClassForTier covers the tier to leg class mapping
func TestClassForTier(t *testing.T) {
	tests := []struct {
		tier network.Tier
		want LegClass
	}{
		{network.TierProducer, LegCollection},
		{network.TierAggregator, LegTransfer},
		{network.TierProcessor, LegTransfer},
		{network.TierDistributor, LegDistribution},
		{network.TierRetail, LegDistribution},
	}
	for _, tt := range tests {
		if got := ClassForTier(tt.tier); got != tt.want {
			t.Errorf("ClassForTier(%s) = %s, want %s", tt.tier, got, tt.want)
		}
	}
}

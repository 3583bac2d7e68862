// Package cost scores candidate route segments. An edge is derived, not
// stored: given two nodes and a vehicle/product/constraints context it
// yields {distance, time, cost, spoilage risk}, or an explicit rejection
// when a configured maximum is exceeded. Rejection is never a zero-cost
// edge.
package cost

import (
	"errors"
	"fmt"

	"github.com/freshnet/coldchain/pkg/decay"
	"github.com/freshnet/coldchain/pkg/geo"
	"github.com/freshnet/coldchain/pkg/network"
)

// ErrEdgeRejected marks an edge excluded by a constraint maximum
// (distance, time, or spoilage). Callers treat it as "no edge", not as
// a failure.
var ErrEdgeRejected = errors.New("edge rejected by constraints")

// VehicleProfile describes the vehicle context for a computation.
// Immutable during a computation.
type VehicleProfile struct {
	ID            string  `json:"id" validate:"required"`
	CostPerKm     float64 `json:"costPerKm" validate:"gte=0"`
	AvgSpeedKmh   float64 `json:"avgSpeedKmh" validate:"gt=0"`
	Refrigerated  bool    `json:"refrigerated"`
	CapacityUnits float64 `json:"capacityUnits" validate:"gte=0"`
}

// Constraints bound which edges may be scored at all. Zero maxima mean
// "unbounded". Ambient temperature is explicit here, never an implicit
// global.
type Constraints struct {
	MaxDistanceKm        float64 `json:"maxDistanceKm" validate:"gte=0"`
	MaxDeliveryTimeHours float64 `json:"maxDeliveryTimeHours" validate:"gte=0"`
	MaxSpoilagePercent   float64 `json:"maxSpoilagePercent" validate:"gte=0,lte=100"`
	TemperaturePriority  bool    `json:"temperaturePriority"`
	AmbientTempC         float64 `json:"ambientTempC" validate:"gte=-60,lte=60"`
}

// EdgeMetrics is a scored route segment.
type EdgeMetrics struct {
	DistanceKm   float64 `json:"distanceKm"`
	TimeHours    float64 `json:"timeHours"`
	Cost         float64 `json:"cost"`
	SpoilageRisk float64 `json:"spoilageRisk"`
}

// LegClass selects the per-leg speed override: local collection from
// producers, inter-facility transfer, highway distribution.
type LegClass int

const (
	LegCollection LegClass = iota
	LegTransfer
	LegDistribution
)

// String returns the leg class name
func (c LegClass) String() string {
	switch c {
	case LegCollection:
		return "collection"
	case LegTransfer:
		return "transfer"
	case LegDistribution:
		return "distribution"
	default:
		return fmt.Sprintf("leg(%d)", int(c))
	}
}

// ClassForTier maps the segment's source tier to a leg class.
func ClassForTier(t network.Tier) LegClass {
	switch t {
	case network.TierProducer:
		return LegCollection
	case network.TierDistributor, network.TierRetail:
		return LegDistribution
	default:
		return LegTransfer
	}
}

// Model scores edges for one computation snapshot. Deterministic and
// side-effect free: identical inputs always produce identical metrics.
type Model struct {
	Vehicle     VehicleProfile
	Product     decay.ProductProfile
	Constraints Constraints

	// LegSpeedsKmh overrides Vehicle.AvgSpeedKmh per leg class; a zero
	// or absent entry falls back to the vehicle speed.
	LegSpeedsKmh map[LegClass]float64

	OperationalCostPerHour float64
	SpoilagePenaltyWeight  float64

	// TemperaturePriorityFactor amplifies the spoilage penalty when
	// Constraints.TemperaturePriority is set. Values below 1 are
	// treated as 1.
	TemperaturePriorityFactor float64
}

// Score computes the metrics for the segment from -> to using the leg
// class of the source tier. Returns ErrEdgeRejected when a constraint
// maximum is exceeded.
func (m *Model) Score(from, to network.Node) (EdgeMetrics, error) {
	return m.score(from, to, m.speedFor(ClassForTier(from.Tier)))
}

// ScoreUniform computes the metrics for from -> to using only the
// vehicle's average speed, ignoring leg classes. The greedy sequencer
// uses this: one global vehicle context for an arbitrary point set.
func (m *Model) ScoreUniform(from, to network.Node) (EdgeMetrics, error) {
	return m.score(from, to, m.Vehicle.AvgSpeedKmh)
}

func (m *Model) score(from, to network.Node, speedKmh float64) (EdgeMetrics, error) {
	distanceKm := geo.Distance(from.Position, to.Position)
	timeHours := 0.0
	if speedKmh > 0 {
		timeHours = distanceKm / speedKmh
	}

	risk := decay.SpoilageRisk(m.Product, timeHours, m.carriedTempC())

	if m.Constraints.MaxDistanceKm > 0 && distanceKm > m.Constraints.MaxDistanceKm {
		return EdgeMetrics{}, fmt.Errorf("%w: distance %.1fkm exceeds max %.1fkm",
			ErrEdgeRejected, distanceKm, m.Constraints.MaxDistanceKm)
	}
	if m.Constraints.MaxDeliveryTimeHours > 0 && timeHours > m.Constraints.MaxDeliveryTimeHours {
		return EdgeMetrics{}, fmt.Errorf("%w: time %.2fh exceeds max %.2fh",
			ErrEdgeRejected, timeHours, m.Constraints.MaxDeliveryTimeHours)
	}
	if m.Constraints.MaxSpoilagePercent > 0 && risk > m.Constraints.MaxSpoilagePercent {
		return EdgeMetrics{}, fmt.Errorf("%w: spoilage risk %.1f%% exceeds max %.1f%%",
			ErrEdgeRejected, risk, m.Constraints.MaxSpoilagePercent)
	}

	penalty := m.SpoilagePenaltyWeight
	if m.Constraints.TemperaturePriority {
		factor := m.TemperaturePriorityFactor
		if factor < 1 {
			factor = 1
		}
		penalty *= factor
	}

	return EdgeMetrics{
		DistanceKm:   distanceKm,
		TimeHours:    timeHours,
		Cost:         distanceKm*m.Vehicle.CostPerKm + timeHours*m.OperationalCostPerHour + risk*penalty,
		SpoilageRisk: risk,
	}, nil
}

// carriedTempC is the temperature the product actually experiences on a
// leg: refrigerated vehicles hold the product's optimal temperature,
// everything else exposes it to the ambient air.
func (m *Model) carriedTempC() float64 {
	if m.Vehicle.Refrigerated {
		return m.Product.OptimalTempC
	}
	return m.Constraints.AmbientTempC
}

// speedFor resolves the effective speed for a leg class.
func (m *Model) speedFor(class LegClass) float64 {
	if s, ok := m.LegSpeedsKmh[class]; ok && s > 0 {
		return s
	}
	return m.Vehicle.AvgSpeedKmh
}

// Package routing is the network route optimization engine: Dijkstra
// shortest paths over the tiered supply-chain graph, a greedy
// nearest-next tour sequencer, and the network-wide flow aggregator.
// The engine is stateless between calls: inputs are snapshots, outputs
// are freshly allocated, and concurrent engines over different
// snapshots are safe without locking.
package routing

import (
	"errors"
	"fmt"

	"github.com/freshnet/coldchain/pkg/config"
	"github.com/freshnet/coldchain/pkg/cost"
	"github.com/freshnet/coldchain/pkg/decay"
	"github.com/freshnet/coldchain/pkg/logging"
	"github.com/freshnet/coldchain/pkg/metrics"
	"github.com/freshnet/coldchain/pkg/network"
	"github.com/freshnet/coldchain/pkg/validation"
)

// Sentinel failures. Both are ordinary result values, never panics:
// the aggregator keeps processing other pairs after one pair fails.
var (
	// ErrNoPathFound marks a source/destination pair with no
	// constraint-satisfying route.
	ErrNoPathFound = errors.New("no constraint-satisfying path found")

	// ErrInsufficientNodes marks a sequencing or aggregation request
	// with fewer than the required visible nodes.
	ErrInsufficientNodes = errors.New("insufficient visible nodes")
)

// PathResult is an ordered node sequence with its aggregate metrics.
type PathResult struct {
	NodeIDs []string `json:"nodeIds"`

	TotalDistanceKm float64 `json:"totalDistanceKm"`
	TotalTimeHours  float64 `json:"totalTimeHours"`
	TotalCost       float64 `json:"totalCost"`

	// MaxSpoilageRisk is the worst single-leg risk on the path.
	MaxSpoilageRisk float64 `json:"maxSpoilageRisk"`

	// HopRisks holds the cumulative spoilage risk after each hop,
	// clamped to 100. Length is len(NodeIDs)-1.
	HopRisks []float64 `json:"hopRisks,omitempty"`

	// Optimal is true when TotalCost equals the minimum cost among all
	// results for the same (source, destination) pair under the same
	// constraints. Exact equality; no epsilon.
	Optimal bool `json:"optimal"`
}

// Source returns the first node id, or "" for an empty path.
func (p PathResult) Source() string {
	if len(p.NodeIDs) == 0 {
		return ""
	}
	return p.NodeIDs[0]
}

// Destination returns the last node id, or "" for an empty path.
func (p PathResult) Destination() string {
	if len(p.NodeIDs) == 0 {
		return ""
	}
	return p.NodeIDs[len(p.NodeIDs)-1]
}

// Leg is one scored segment of a sequenced tour.
type Leg struct {
	FromID  string           `json:"fromId"`
	ToID    string           `json:"toId"`
	Metrics cost.EdgeMetrics `json:"metrics"`
}

// TourResult is the greedy sequencer's output: a single open tour
// visiting every requested visible node exactly once.
type TourResult struct {
	NodeIDs []string `json:"nodeIds"`
	Legs    []Leg    `json:"legs"`

	TotalDistanceKm float64 `json:"totalDistanceKm"`
	TotalTimeHours  float64 `json:"totalTimeHours"`
	TotalCost       float64 `json:"totalCost"`
	MaxSpoilageRisk float64 `json:"maxSpoilageRisk"`
}

// FlowResult is the aggregated producer-to-retail network view.
type FlowResult struct {
	RunID string `json:"runId"`

	// Paths holds one optimal path per connected producer/retail pair,
	// ordered by source id then destination id.
	Paths []PathResult `json:"paths"`

	TotalCost        float64 `json:"totalCost"`
	TotalTimeHours   float64 `json:"totalTimeHours"`
	MeanSpoilageRisk float64 `json:"meanSpoilageRisk"`

	// EfficiencyScore blends quality, cost, time and capacity
	// utilization per the configured weights, hard-clamped to [0, 100].
	EfficiencyScore float64 `json:"efficiencyScore"`

	PairsEvaluated int `json:"pairsEvaluated"`
	PairsConnected int `json:"pairsConnected"`
}

// Engine runs route optimization over one immutable input snapshot.
type Engine struct {
	graph *network.Graph
	model *cost.Model
	cfg   config.Engine

	log logging.Logger
	met *metrics.Registry
}

// Option configures optional engine collaborators.
type Option func(*Engine)

// WithLogger attaches a structured logger. Absent, logs are discarded.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMetrics attaches a metrics registry. Absent, recording is a no-op.
func WithMetrics(m *metrics.Registry) Option {
	return func(e *Engine) { e.met = m }
}

// New validates the snapshot and builds an engine over it. All
// InvalidInput rejection happens here, before any computation.
func New(
	nodes []network.Node,
	product decay.ProductProfile,
	vehicle cost.VehicleProfile,
	constraints cost.Constraints,
	cfg config.Engine,
	opts ...Option,
) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	if err := validation.ValidateNodes(nodes); err != nil {
		return nil, err
	}
	if err := validation.ValidateProduct(product); err != nil {
		return nil, err
	}
	if err := validation.ValidateVehicle(vehicle); err != nil {
		return nil, err
	}
	if err := validation.ValidateConstraints(constraints); err != nil {
		return nil, err
	}

	graph, err := network.NewGraph(nodes)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		graph: graph,
		cfg:   cfg,
		model: &cost.Model{
			Vehicle:     vehicle,
			Product:     product,
			Constraints: constraints,
			LegSpeedsKmh: map[cost.LegClass]float64{
				cost.LegCollection:   cfg.LegSpeeds.CollectionKmh,
				cost.LegTransfer:     cfg.LegSpeeds.TransferKmh,
				cost.LegDistribution: cfg.LegSpeeds.DistributionKmh,
			},
			OperationalCostPerHour:    cfg.OperationalCostPerHour,
			SpoilagePenaltyWeight:     cfg.SpoilagePenaltyWeight,
			TemperaturePriorityFactor: cfg.TemperaturePriorityFactor,
		},
		log: logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Graph exposes the engine's graph snapshot for callers that need node
// lookups alongside results.
func (e *Engine) Graph() *network.Graph {
	return e.graph
}

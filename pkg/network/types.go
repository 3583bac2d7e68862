// Package network holds the tiered supply-chain graph: facility nodes
// ordered by tier (producer through retail), with adjacency computed on
// demand rather than stored. The graph is an immutable snapshot; callers
// replace whole node records externally and rebuild.
package network

import (
	"errors"
	"fmt"

	"github.com/freshnet/coldchain/pkg/geo"
)

// Tier is a node's position in the supply-chain ordering. The ordering
// is total and fixed; edges may never point to a strictly earlier tier.
type Tier int

const (
	TierProducer Tier = iota
	TierAggregator
	TierProcessor
	TierDistributor
	TierRetail
)

// String returns the canonical lower-case tier name
func (t Tier) String() string {
	switch t {
	case TierProducer:
		return "producer"
	case TierAggregator:
		return "aggregator"
	case TierProcessor:
		return "processor"
	case TierDistributor:
		return "distributor"
	case TierRetail:
		return "retail"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Valid reports whether t is one of the five canonical tiers.
func (t Tier) Valid() bool {
	return t >= TierProducer && t <= TierRetail
}

// ParseTier converts a tier name to a Tier
func ParseTier(s string) (Tier, error) {
	switch s {
	case "producer":
		return TierProducer, nil
	case "aggregator":
		return TierAggregator, nil
	case "processor":
		return TierProcessor, nil
	case "distributor":
		return TierDistributor, nil
	case "retail":
		return TierRetail, nil
	default:
		return 0, fmt.Errorf("%w: unknown tier %q", ErrInvalidInput, s)
	}
}

// Node is a supply-chain facility. Nodes are created externally and
// treated as immutable inputs for the duration of a computation.
// Hidden nodes (Visible == false) stay in storage but are skipped by
// every engine query.
type Node struct {
	ID       string         `json:"id" validate:"required"`
	Name     string         `json:"name"`
	Tier     Tier           `json:"tier"`
	Position geo.Coordinate `json:"position"`

	CapacityUnits float64 `json:"capacityUnits" validate:"gte=0"`

	// ProductionRate applies to producer nodes, DemandRate to retail
	// nodes; both are zero elsewhere.
	ProductionRate float64 `json:"productionRate,omitempty" validate:"gte=0"`
	DemandRate     float64 `json:"demandRate,omitempty" validate:"gte=0"`

	Visible bool `json:"visible"`
}

// ErrInvalidInput marks input rejected before any computation:
// malformed coordinates, negative capacities, unknown tiers, duplicate
// node ids.
var ErrInvalidInput = errors.New("invalid input")

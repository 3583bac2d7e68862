package routing

import (
	"context"
	"errors"
	"fmt"

	"github.com/freshnet/coldchain/pkg/cost"
	"github.com/freshnet/coldchain/pkg/logging"
	"github.com/freshnet/coldchain/pkg/network"
)

// SequenceRoute orders the given nodes into a single open visiting tour
// with the nearest-next heuristic: from the first listed visible node,
// repeatedly move to the unvisited node with the cheapest scalar cost.
// One global vehicle/product context applies; leg-class speed overrides
// do not (this is fleet point-to-point sequencing, not tiered flow).
//
// Hidden and unknown ids are skipped. Fewer than two visible nodes is
// ErrInsufficientNodes. If every remaining candidate edge is rejected
// by the constraints the tour is stranded and fails with ErrNoPathFound.
// O(n²) in the number of visible nodes; approximate, not optimal.
func (e *Engine) SequenceRoute(ctx context.Context, nodeIDs []string) (TourResult, error) {
	visible := make([]network.Node, 0, len(nodeIDs))
	seen := make(map[string]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if n, ok := e.graph.VisibleNode(id); ok {
			visible = append(visible, n)
		}
	}

	if len(visible) < 2 {
		e.met.RecordTour("insufficient_nodes", 0)
		return TourResult{}, fmt.Errorf("%w: need at least 2, got %d", ErrInsufficientNodes, len(visible))
	}

	current := visible[0]
	unvisited := make(map[string]network.Node, len(visible)-1)
	for _, n := range visible[1:] {
		unvisited[n.ID] = n
	}

	tour := TourResult{NodeIDs: []string{current.ID}}

	for len(unvisited) > 0 {
		if err := ctx.Err(); err != nil {
			return TourResult{}, err
		}

		var (
			next        network.Node
			nextMetrics cost.EdgeMetrics
			found       bool
		)
		for _, candidate := range unvisited {
			m, err := e.model.ScoreUniform(current, candidate)
			if err != nil {
				if errors.Is(err, cost.ErrEdgeRejected) {
					continue
				}
				return TourResult{}, err
			}
			// Tie-break on smaller node id for deterministic tours.
			if !found || m.Cost < nextMetrics.Cost ||
				(m.Cost == nextMetrics.Cost && candidate.ID < next.ID) {
				next, nextMetrics, found = candidate, m, true
			}
		}

		if !found {
			e.met.RecordTour("stranded", len(tour.NodeIDs))
			return TourResult{}, fmt.Errorf("%w: tour stranded at %q with %d stops remaining",
				ErrNoPathFound, current.ID, len(unvisited))
		}

		m := nextMetrics
		tour.NodeIDs = append(tour.NodeIDs, next.ID)
		tour.Legs = append(tour.Legs, Leg{FromID: current.ID, ToID: next.ID, Metrics: m})
		tour.TotalDistanceKm += m.DistanceKm
		tour.TotalTimeHours += m.TimeHours
		tour.TotalCost += m.Cost
		if m.SpoilageRisk > tour.MaxSpoilageRisk {
			tour.MaxSpoilageRisk = m.SpoilageRisk
		}

		delete(unvisited, next.ID)
		current = next
	}

	e.met.RecordTour("built", len(tour.NodeIDs))
	e.log.Debug("tour sequenced",
		logging.Int("stops", len(tour.NodeIDs)),
		logging.Float64("total_cost", tour.TotalCost),
	)
	return tour, nil
}

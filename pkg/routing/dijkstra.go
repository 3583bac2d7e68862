package routing

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/freshnet/coldchain/pkg/cost"
	"github.com/freshnet/coldchain/pkg/logging"
	"github.com/freshnet/coldchain/pkg/network"
)

// pqItem is a priority queue entry. Ordering is cumulative cost, then
// hop count, then node id, which keeps the search deterministic.
type pqItem struct {
	nodeID string
	cost   float64
	hops   int
}

type pathQueue []pqItem

func (q pathQueue) Len() int { return len(q) }

func (q pathQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	if q[i].hops != q[j].hops {
		return q[i].hops < q[j].hops
	}
	return q[i].nodeID < q[j].nodeID
}

func (q pathQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *pathQueue) Push(x any) { *q = append(*q, x.(pqItem)) }

func (q *pathQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// searchState holds one single-source Dijkstra run.
type searchState struct {
	dist    map[string]float64
	hops    map[string]int
	parent  map[string]string
	settled map[string]bool

	relaxed  int
	rejected int
}

// dijkstraFrom runs Dijkstra from sourceID over the visible graph.
// Rejected edges are skipped entirely, equivalent to infinite weight.
// When target is non-empty the search stops once the target settles.
// Cancellation is checked at every node settlement.
func (e *Engine) dijkstraFrom(ctx context.Context, sourceID, target string) (*searchState, error) {
	st := &searchState{
		dist:    map[string]float64{sourceID: 0},
		hops:    map[string]int{sourceID: 0},
		parent:  map[string]string{sourceID: sourceID},
		settled: make(map[string]bool),
	}

	pq := &pathQueue{{nodeID: sourceID, cost: 0, hops: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		item := heap.Pop(pq).(pqItem)
		if st.settled[item.nodeID] {
			continue
		}
		st.settled[item.nodeID] = true

		if err := ctx.Err(); err != nil {
			return st, err
		}
		if target != "" && item.nodeID == target {
			return st, nil
		}

		current, ok := e.graph.VisibleNode(item.nodeID)
		if !ok {
			continue
		}

		for _, nb := range e.graph.Neighbors(current.ID) {
			if st.settled[nb.ID] {
				continue
			}

			m, err := e.model.Score(current, nb)
			if err != nil {
				if errors.Is(err, cost.ErrEdgeRejected) {
					st.rejected++
					continue
				}
				return st, err
			}
			st.relaxed++

			newCost := st.dist[current.ID] + m.Cost
			newHops := st.hops[current.ID] + 1

			oldCost, seen := st.dist[nb.ID]
			better := !seen || newCost < oldCost
			if !better && newCost == oldCost {
				// Equal cost: fewer hops wins, then the
				// lexicographically smaller node-id sequence.
				if newHops < st.hops[nb.ID] {
					better = true
				} else if newHops == st.hops[nb.ID] {
					better = pathLess(
						append(st.reconstruct(current.ID), nb.ID),
						st.reconstruct(nb.ID),
					)
				}
			}
			if better {
				st.dist[nb.ID] = newCost
				st.hops[nb.ID] = newHops
				st.parent[nb.ID] = current.ID
				heap.Push(pq, pqItem{nodeID: nb.ID, cost: newCost, hops: newHops})
			}
		}
	}

	return st, nil
}

// reconstruct returns the node-id sequence from the source to id.
func (st *searchState) reconstruct(id string) []string {
	path := []string{id}
	for id != st.parent[id] {
		id = st.parent[id]
		path = append(path, id)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// pathLess compares two node-id sequences lexicographically.
func pathLess(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// buildPath re-scores the final node sequence into a PathResult.
// Every edge on the sequence was accepted during the search, so scoring
// cannot fail here for the same snapshot.
func (e *Engine) buildPath(ids []string) (PathResult, error) {
	result := PathResult{NodeIDs: ids}

	cumulative := 0.0
	for i := 0; i+1 < len(ids); i++ {
		from, _ := e.graph.Node(ids[i])
		to, _ := e.graph.Node(ids[i+1])

		m, err := e.model.Score(from, to)
		if err != nil {
			return PathResult{}, fmt.Errorf("rebuild path %s->%s: %w", ids[i], ids[i+1], err)
		}

		result.TotalDistanceKm += m.DistanceKm
		result.TotalTimeHours += m.TimeHours
		result.TotalCost += m.Cost
		if m.SpoilageRisk > result.MaxSpoilageRisk {
			result.MaxSpoilageRisk = m.SpoilageRisk
		}

		cumulative += m.SpoilageRisk
		if cumulative > 100 {
			cumulative = 100
		}
		result.HopRisks = append(result.HopRisks, cumulative)
	}

	return result, nil
}

// ShortestPath finds the minimum-cost constraint-satisfying path from
// source to dest. Returns ErrNoPathFound when the pair is unreachable
// and network.ErrInvalidInput for unknown node ids. Hidden endpoints
// are unreachable by definition.
func (e *Engine) ShortestPath(ctx context.Context, source, dest string) (PathResult, error) {
	started := time.Now()

	if _, ok := e.graph.Node(source); !ok {
		return PathResult{}, fmt.Errorf("%w: unknown source node %q", network.ErrInvalidInput, source)
	}
	if _, ok := e.graph.Node(dest); !ok {
		return PathResult{}, fmt.Errorf("%w: unknown destination node %q", network.ErrInvalidInput, dest)
	}

	if _, ok := e.graph.VisibleNode(source); !ok {
		e.met.RecordSearch("not_found", time.Since(started))
		return PathResult{}, fmt.Errorf("%w: source %q is hidden", ErrNoPathFound, source)
	}
	if _, ok := e.graph.VisibleNode(dest); !ok {
		e.met.RecordSearch("not_found", time.Since(started))
		return PathResult{}, fmt.Errorf("%w: destination %q is hidden", ErrNoPathFound, dest)
	}

	if source == dest {
		e.met.RecordSearch("found", time.Since(started))
		return PathResult{NodeIDs: []string{source}, Optimal: true}, nil
	}

	st, err := e.dijkstraFrom(ctx, source, dest)
	e.met.RecordRelaxation(st.relaxed, st.rejected)
	if err != nil {
		e.met.RecordSearch("cancelled", time.Since(started))
		return PathResult{}, err
	}

	if _, reached := st.dist[dest]; !reached {
		e.met.RecordSearch("not_found", time.Since(started))
		return PathResult{}, fmt.Errorf("%w: %s -> %s", ErrNoPathFound, source, dest)
	}

	result, err := e.buildPath(st.reconstruct(dest))
	if err != nil {
		return PathResult{}, err
	}
	result.Optimal = true

	e.met.RecordSearch("found", time.Since(started))
	e.log.Debug("shortest path found",
		logging.Pair(source, dest),
		logging.Float64("cost", result.TotalCost),
		logging.Int("hops", len(result.NodeIDs)-1),
	)
	return result, nil
}

// AllShortestPaths computes, for every (from-tier, to-tier) node pair,
// the Dijkstra-optimal path plus the direct single-hop alternative when
// it is valid and distinct. Exactly the minimum-cost path(s) of each
// pair carry Optimal == true; a distinct direct route is reported as a
// suboptimal alternative. Unreachable pairs are omitted, never an
// error; an empty or singleton visible graph yields an empty list.
func (e *Engine) AllShortestPaths(ctx context.Context, from, to network.Tier) ([]PathResult, error) {
	sources := e.graph.NodesInTier(from)
	dests := e.graph.NodesInTier(to)
	if len(sources) == 0 || len(dests) == 0 {
		return nil, nil
	}

	var results []PathResult

	for _, src := range sources {
		started := time.Now()
		st, err := e.dijkstraFrom(ctx, src.ID, "")
		e.met.RecordRelaxation(st.relaxed, st.rejected)
		if err != nil {
			e.met.RecordSearch("cancelled", time.Since(started))
			return nil, err
		}
		e.met.RecordSearch("found", time.Since(started))

		for _, dst := range dests {
			if dst.ID == src.ID {
				continue
			}
			if _, reached := st.dist[dst.ID]; !reached {
				continue
			}

			best, err := e.buildPath(st.reconstruct(dst.ID))
			if err != nil {
				return nil, err
			}
			candidates := []PathResult{best}

			// Direct route alternative, for optimal-vs-suboptimal
			// reporting. Skipped when it is the optimal path itself.
			if len(best.NodeIDs) > 2 {
				if direct, ok := e.directPath(src, dst); ok {
					candidates = append(candidates, direct)
				}
			}

			minCost := candidates[0].TotalCost
			for _, c := range candidates[1:] {
				if c.TotalCost < minCost {
					minCost = c.TotalCost
				}
			}
			for i := range candidates {
				candidates[i].Optimal = candidates[i].TotalCost == minCost
			}
			results = append(results, candidates...)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Source() != b.Source() {
			return a.Source() < b.Source()
		}
		if a.Destination() != b.Destination() {
			return a.Destination() < b.Destination()
		}
		return a.TotalCost < b.TotalCost
	})
	return results, nil
}

// directPath scores the single-hop route between two nodes, if the
// constraints admit it.
func (e *Engine) directPath(src, dst network.Node) (PathResult, bool) {
	m, err := e.model.Score(src, dst)
	if err != nil {
		return PathResult{}, false
	}
	return PathResult{
		NodeIDs:         []string{src.ID, dst.ID},
		TotalDistanceKm: m.DistanceKm,
		TotalTimeHours:  m.TimeHours,
		TotalCost:       m.Cost,
		MaxSpoilageRisk: m.SpoilageRisk,
		HopRisks:        []float64{m.SpoilageRisk},
	}, true
}

package network

import (
	"fmt"
	"sort"
)

// Graph is a tiered network snapshot built from a node list.
// Construction is O(n); adjacency is conceptually complete between
// same-or-later tiers and computed on demand, never stored.
type Graph struct {
	nodes map[string]Node

	// visible node ids in ascending order, for deterministic iteration
	visibleIDs []string
}

// NewGraph builds a graph from a node list. Node ids must be unique and
// non-empty and tiers must be canonical; anything else is ErrInvalidInput.
// Field-level validation (coordinate ranges, negative rates) is the
// validation package's job.
func NewGraph(nodes []Node) (*Graph, error) {
	g := &Graph{nodes: make(map[string]Node, len(nodes))}

	for _, n := range nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("%w: node with empty id", ErrInvalidInput)
		}
		if !n.Tier.Valid() {
			return nil, fmt.Errorf("%w: node %q has unknown tier %d", ErrInvalidInput, n.ID, int(n.Tier))
		}
		if _, dup := g.nodes[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %q", ErrInvalidInput, n.ID)
		}
		g.nodes[n.ID] = n
		if n.Visible {
			g.visibleIDs = append(g.visibleIDs, n.ID)
		}
	}

	sort.Strings(g.visibleIDs)
	return g, nil
}

// Node returns the node with the given id, hidden nodes included.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// VisibleNode returns the node with the given id only if it is visible.
func (g *Graph) VisibleNode(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok || !n.Visible {
		return Node{}, false
	}
	return n, true
}

// Neighbors returns the visible nodes a node may route to: every other
// visible node in the same or a later tier, in ascending id order.
// Returns nil for unknown or hidden ids.
func (g *Graph) Neighbors(id string) []Node {
	from, ok := g.VisibleNode(id)
	if !ok {
		return nil
	}

	var out []Node
	for _, nid := range g.visibleIDs {
		if nid == id {
			continue
		}
		n := g.nodes[nid]
		if n.Tier >= from.Tier {
			out = append(out, n)
		}
	}
	return out
}

// NodesInTier returns the visible nodes of one tier in ascending id order.
func (g *Graph) NodesInTier(t Tier) []Node {
	var out []Node
	for _, nid := range g.visibleIDs {
		if n := g.nodes[nid]; n.Tier == t {
			out = append(out, n)
		}
	}
	return out
}

// VisibleCount returns the number of visible nodes.
func (g *Graph) VisibleCount() int {
	return len(g.visibleIDs)
}

// VisibleIDs returns the visible node ids in ascending order.
// The returned slice is shared; callers must not mutate it.
func (g *Graph) VisibleIDs() []string {
	return g.visibleIDs
}

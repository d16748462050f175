// Package pathfinding computes shortest routes over an undirected map with
// non-negative integer weights. It holds no state; callers pass the graph
// snapshot to search.
package pathfinding

import (
	"context"
	"fmt"
	"math"

	"github.com/tidwall/btree"

	"github.com/vanshika/routemap/backend/internal/domain"
)

// Result carries the distance to the target and the predecessor links the
// search recorded, which are enough to rebuild the route.
type Result struct {
	From     string
	To       string
	Distance int
	Previous map[string]string
}

type neighbor struct {
	id     string
	weight int
}

// queueItem orders pending nodes by tentative distance, then identifier, so
// that ties resolve to the lexicographically smallest node.
type queueItem struct {
	dist int
	id   string
}

func lessQueueItem(a, b queueItem) bool {
	if a.dist != b.dist {
		return a.dist < b.dist
	}
	return a.id < b.id
}

// ComputeShortestPath runs Dijkstra's algorithm from fromID and stops as soon
// as toID is selected. The from identifier is checked before the to
// identifier.
func ComputeShortestPath(ctx context.Context, g domain.Graph, fromID, toID string) (Result, error) {
	if !g.HasNode(fromID) {
		return Result{}, &domain.NodeNotFoundError{ID: fromID, Role: "from"}
	}
	if !g.HasNode(toID) {
		return Result{}, &domain.NodeNotFoundError{ID: toID, Role: "to"}
	}

	adjacency := buildAdjacency(g)

	pending := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		pending[n.ID] = struct{}{}
	}

	// Nodes without an entry in distances are at infinite distance.
	distances := map[string]int{fromID: 0}
	previous := make(map[string]string)

	queue := btree.NewBTreeGOptions(lessQueueItem, btree.Options{NoLocks: true})
	queue.Set(queueItem{dist: 0, id: fromID})

	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		item, ok := queue.PopMin()
		if !ok {
			break
		}
		current := item.id
		if current == toID {
			break
		}
		delete(pending, current)

		for _, nb := range adjacency[current] {
			if _, ok := pending[nb.id]; !ok {
				continue
			}
			// A distance past math.MaxInt cannot be represented, so the
			// neighbour is left unreached through this edge.
			if nb.weight > math.MaxInt-item.dist {
				continue
			}
			alt := item.dist + nb.weight
			old, reached := distances[nb.id]
			if reached && alt >= old {
				continue
			}
			if reached {
				queue.Delete(queueItem{dist: old, id: nb.id})
			}
			distances[nb.id] = alt
			previous[nb.id] = current
			queue.Set(queueItem{dist: alt, id: nb.id})
		}
	}

	dist, reached := distances[toID]
	if !reached {
		return Result{}, &domain.NoPathError{From: fromID, To: toID}
	}

	return Result{
		From:     fromID,
		To:       toID,
		Distance: dist,
		Previous: previous,
	}, nil
}

// Path walks the predecessor links back from the target and returns the
// route in from → to order.
func (r Result) Path() ([]string, error) {
	var reversed []string
	current := r.To
	for steps := 0; ; steps++ {
		if steps > len(r.Previous) {
			return nil, fmt.Errorf("predecessor chain from %s does not terminate", r.To)
		}
		reversed = append(reversed, current)
		prev, ok := r.Previous[current]
		if !ok {
			break
		}
		current = prev
	}
	if current != r.From {
		return nil, fmt.Errorf("predecessor chain ended at %s, expected %s", current, r.From)
	}

	path := make([]string, len(reversed))
	for i, id := range reversed {
		path[len(reversed)-1-i] = id
	}
	return path, nil
}

// ShortestDistance returns the total weight of the shortest route.
func ShortestDistance(ctx context.Context, g domain.Graph, fromID, toID string) (int, error) {
	res, err := ComputeShortestPath(ctx, g, fromID, toID)
	if err != nil {
		return 0, err
	}
	return res.Distance, nil
}

// ShortestRoute returns the shortest route between two nodes.
func ShortestRoute(ctx context.Context, g domain.Graph, fromID, toID string) (domain.Route, error) {
	res, err := ComputeShortestPath(ctx, g, fromID, toID)
	if err != nil {
		return domain.Route{}, err
	}
	nodes, err := res.Path()
	if err != nil {
		return domain.Route{}, fmt.Errorf("reconstruct route %s -> %s: %w", fromID, toID, err)
	}
	return domain.Route{
		From:     fromID,
		To:       toID,
		Nodes:    nodes,
		Distance: res.Distance,
	}, nil
}

// buildAdjacency makes every edge traversable in both directions. Parallel
// edges are all kept.
func buildAdjacency(g domain.Graph) map[string][]neighbor {
	adjacency := make(map[string][]neighbor, len(g.Nodes))
	for _, e := range g.Edges {
		adjacency[e.FromID] = append(adjacency[e.FromID], neighbor{id: e.ToID, weight: e.Weight})
		adjacency[e.ToID] = append(adjacency[e.ToID], neighbor{id: e.FromID, weight: e.Weight})
	}
	return adjacency
}

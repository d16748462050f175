package service

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/multierr"

	"github.com/vanshika/routemap/backend/internal/domain"
)

// MaxEdgeWeight is the largest weight a single edge may carry.
const MaxEdgeWeight = math.MaxInt32

// ValidateGraph checks a submitted map before it reaches the store and
// reports every problem found in a single error wrapping domain.ErrInvalidGraph.
// Edge endpoints are not checked against the node list here; queries resolve
// identifiers against the stored map.
func ValidateGraph(g *domain.Graph) error {
	if g == nil {
		return fmt.Errorf("%w: map data is required", domain.ErrInvalidGraph)
	}

	var errs error
	if len(g.Nodes) == 0 {
		errs = multierr.Append(errs, errors.New("map must contain at least one node"))
	}
	if g.Edges == nil {
		errs = multierr.Append(errs, errors.New("map must contain edges"))
	}

	seen := make(map[string]struct{}, len(g.Nodes))
	for i, n := range g.Nodes {
		if strings.TrimSpace(n.ID) == "" {
			errs = multierr.Append(errs, fmt.Errorf("node %d has an empty id", i))
			continue
		}
		if _, dup := seen[n.ID]; dup {
			errs = multierr.Append(errs, fmt.Errorf("node id '%s' is declared more than once", n.ID))
			continue
		}
		seen[n.ID] = struct{}{}
	}

	for i, e := range g.Edges {
		if e.Weight < 0 {
			errs = multierr.Append(errs, fmt.Errorf("edge %d (%s-%s) has negative weight %d", i, e.FromID, e.ToID, e.Weight))
		}
		if e.Weight > MaxEdgeWeight {
			errs = multierr.Append(errs, fmt.Errorf("edge %d (%s-%s) weight %d exceeds %d", i, e.FromID, e.ToID, e.Weight, MaxEdgeWeight))
		}
	}

	if errs != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidGraph, errs)
	}
	return nil
}

// danglingEdges returns the indexes of edges naming a node the map does not
// declare. Queries never traverse them.
func danglingEdges(g domain.Graph) []int {
	declared := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		declared[n.ID] = struct{}{}
	}
	var out []int
	for i, e := range g.Edges {
		_, fromOK := declared[e.FromID]
		_, toOK := declared[e.ToID]
		if !fromOK || !toOK {
			out = append(out, i)
		}
	}
	return out
}

// validQueryID reports whether a query parameter names something at all.
func validQueryID(id string) bool {
	return strings.TrimSpace(id) != ""
}

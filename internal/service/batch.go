package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vanshika/routemap/backend/internal/domain"
)

// RouteQuery names the two ends of a route.
type RouteQuery struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// RouteOutcome is the answer to one query of a batch. Exactly one of Route
// and Err is meaningful.
type RouteOutcome struct {
	Query RouteQuery
	Route domain.Route
	Err   error
}

// ShortestRoutes answers every query against the same map snapshot using a
// bounded pool of workers. Per-query failures are reported in the outcome;
// the returned error is only set when no map is stored or ctx ends.
func (s *MapService) ShortestRoutes(ctx context.Context, queries []RouteQuery) ([]RouteOutcome, error) {
	snap, ok := s.store.Snapshot()
	if !ok {
		return nil, domain.ErrMapNotSet
	}

	outcomes := make([]RouteOutcome, len(queries))
	if len(queries) == 0 {
		return outcomes, nil
	}

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(s.batchWorkers)

	for i, q := range queries {
		i, q := i, q
		grp.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i].Query = q
			if !validQueryID(q.From) || !validQueryID(q.To) {
				outcomes[i].Err = ErrMissingQueryNode
				return nil
			}
			route, err := s.route(gctx, snap.Graph, q.From, q.To)
			if err != nil {
				outcomes[i].Err = err
				return nil
			}
			outcomes[i].Route = route
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

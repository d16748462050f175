package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/vanshika/routemap/backend/internal/domain"
	"github.com/vanshika/routemap/backend/internal/pathfinding"
	"github.com/vanshika/routemap/backend/internal/store"
)

// Mirror receives every accepted map. The in-memory store stays the source
// of truth, so mirror failures never reject a map.
type Mirror interface {
	ReplaceMap(ctx context.Context, g domain.Graph, version uint64) error
}

// ErrMissingQueryNode is returned when a route query omits from or to.
var ErrMissingQueryNode = errors.New("from and to are required")

// MapSummary describes a freshly stored map.
type MapSummary struct {
	Version   uint64
	NodeCount int
	EdgeCount int
	StoredAt  time.Time
}

// MapService validates maps, keeps the active one in the store and answers
// route queries against it.
type MapService struct {
	store        *store.Store
	mirror       Mirror
	logger       *slog.Logger
	queryTimeout time.Duration
	batchWorkers int
}

const defaultBatchWorkers = 4

// NewMapService constructs a MapService. mirror and logger may be nil.
func NewMapService(st *store.Store, mirror Mirror, logger *slog.Logger) *MapService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &MapService{
		store:        st,
		mirror:       mirror,
		logger:       logger,
		batchWorkers: defaultBatchWorkers,
	}
}

// WithQueryTimeout bounds the wall-clock time of a single route computation.
// Zero disables the bound.
func (s *MapService) WithQueryTimeout(d time.Duration) *MapService {
	if d >= 0 {
		s.queryTimeout = d
	}
	return s
}

// WithBatchWorkers sets how many batch queries run concurrently.
func (s *MapService) WithBatchWorkers(n int) *MapService {
	if n > 0 {
		s.batchWorkers = n
	}
	return s
}

// SetMap validates g and replaces the stored map with it.
func (s *MapService) SetMap(ctx context.Context, g *domain.Graph) (MapSummary, error) {
	if err := ValidateGraph(g); err != nil {
		return MapSummary{}, err
	}

	if dangling := danglingEdges(*g); len(dangling) > 0 {
		s.logger.Warn("map has edges to undeclared nodes; queries ignore them",
			"count", len(dangling), "edgeIndexes", firstN(dangling, 10))
	}

	s.store.SetMap(*g)
	snap, ok := s.store.Snapshot()
	if !ok {
		return MapSummary{}, errors.New("map vanished after store")
	}

	if s.mirror != nil {
		if err := s.mirror.ReplaceMap(ctx, snap.Graph, snap.Version); err != nil {
			s.logger.Warn("map mirror update failed", "error", err, "version", snap.Version)
		}
	}

	return MapSummary{
		Version:   snap.Version,
		NodeCount: len(snap.Graph.Nodes),
		EdgeCount: len(snap.Graph.Edges),
		StoredAt:  snap.StoredAt,
	}, nil
}

// GetMap returns the stored map or domain.ErrMapNotSet.
func (s *MapService) GetMap(_ context.Context) (domain.Graph, error) {
	g, ok := s.store.GetMap()
	if !ok {
		return domain.Graph{}, domain.ErrMapNotSet
	}
	return g, nil
}

// HasMap reports whether a map has been stored.
func (s *MapService) HasMap() bool {
	return s.store.HasMap()
}

// Version reports the version of the stored map, if any.
func (s *MapService) Version() (uint64, bool) {
	snap, ok := s.store.Snapshot()
	if !ok {
		return 0, false
	}
	return snap.Version, true
}

// ShortestRoute returns the cheapest route between two nodes of the stored map.
func (s *MapService) ShortestRoute(ctx context.Context, from, to string) (domain.Route, error) {
	snap, err := s.snapshot(from, to)
	if err != nil {
		return domain.Route{}, err
	}
	return s.route(ctx, snap.Graph, from, to)
}

// ShortestDistance returns the total weight of the cheapest route between two nodes.
func (s *MapService) ShortestDistance(ctx context.Context, from, to string) (int, error) {
	snap, err := s.snapshot(from, to)
	if err != nil {
		return 0, err
	}

	ctx, cancel := s.withQueryTimeout(ctx)
	defer cancel()

	dist, err := pathfinding.ShortestDistance(ctx, snap.Graph, from, to)
	if err != nil {
		return 0, s.wrapContextErr(err, from, to)
	}
	return dist, nil
}

func (s *MapService) route(ctx context.Context, g domain.Graph, from, to string) (domain.Route, error) {
	ctx, cancel := s.withQueryTimeout(ctx)
	defer cancel()

	route, err := pathfinding.ShortestRoute(ctx, g, from, to)
	if err != nil {
		return domain.Route{}, s.wrapContextErr(err, from, to)
	}
	return route, nil
}

func (s *MapService) snapshot(from, to string) (*store.Snapshot, error) {
	if !validQueryID(from) || !validQueryID(to) {
		return nil, ErrMissingQueryNode
	}
	snap, ok := s.store.Snapshot()
	if !ok {
		return nil, domain.ErrMapNotSet
	}
	return snap, nil
}

func (s *MapService) withQueryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

func (s *MapService) wrapContextErr(err error, from, to string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("route query %s -> %s aborted: %w", from, to, err)
	}
	return err
}

func firstN(idx []int, n int) []int {
	if len(idx) > n {
		return idx[:n]
	}
	return idx
}

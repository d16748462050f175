package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/routemap/backend/internal/domain"
	"github.com/vanshika/routemap/backend/internal/store"
)

type stubMirror struct {
	mu       sync.Mutex
	graphs   []domain.Graph
	versions []uint64
	err      error
}

func (m *stubMirror) ReplaceMap(_ context.Context, g domain.Graph, version uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.graphs = append(m.graphs, g)
	m.versions = append(m.versions, version)
	return m.err
}

func triangleMap() *domain.Graph {
	return &domain.Graph{
		Nodes: []domain.Node{{ID: "A"}, {ID: "B"}, {ID: "C"}},
		Edges: []domain.Edge{
			{FromID: "A", ToID: "B", Weight: 1},
			{FromID: "B", ToID: "C", Weight: 2},
			{FromID: "A", ToID: "C", Weight: 5},
		},
	}
}

func TestMapService_QueriesBeforeSetMap(t *testing.T) {
	svc := NewMapService(store.New(), nil, nil)
	ctx := context.Background()

	assert.False(t, svc.HasMap())

	_, err := svc.GetMap(ctx)
	assert.ErrorIs(t, err, domain.ErrMapNotSet)

	_, err = svc.ShortestDistance(ctx, "A", "B")
	assert.ErrorIs(t, err, domain.ErrMapNotSet)

	_, err = svc.ShortestRoute(ctx, "A", "B")
	assert.ErrorIs(t, err, domain.ErrMapNotSet)

	_, err = svc.ShortestRoutes(ctx, []RouteQuery{{From: "A", To: "B"}})
	assert.ErrorIs(t, err, domain.ErrMapNotSet)
}

func TestMapService_SetMapAndQuery(t *testing.T) {
	mirror := &stubMirror{}
	svc := NewMapService(store.New(), mirror, nil)
	ctx := context.Background()

	summary, err := svc.SetMap(ctx, triangleMap())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.NodeCount)
	assert.Equal(t, 3, summary.EdgeCount)
	assert.Equal(t, uint64(1), summary.Version)
	require.Len(t, mirror.graphs, 1)
	assert.Equal(t, []uint64{1}, mirror.versions)

	version, ok := svc.Version()
	assert.True(t, ok)
	assert.Equal(t, uint64(1), version)

	dist, err := svc.ShortestDistance(ctx, "A", "C")
	require.NoError(t, err)
	assert.Equal(t, 3, dist)

	route, err := svc.ShortestRoute(ctx, "A", "C")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, route.Nodes)

	got, err := svc.GetMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, *triangleMap(), got)
}

func TestMapService_MirrorFailureDoesNotRejectMap(t *testing.T) {
	mirror := &stubMirror{err: errors.New("bolt: connection refused")}
	svc := NewMapService(store.New(), mirror, nil)

	_, err := svc.SetMap(context.Background(), triangleMap())
	require.NoError(t, err)
	assert.True(t, svc.HasMap())
}

func TestMapService_WarnsAboutEdgesToUndeclaredNodes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	svc := NewMapService(store.New(), nil, logger)

	_, err := svc.SetMap(context.Background(), &domain.Graph{
		Nodes: []domain.Node{{ID: "A"}, {ID: "B"}},
		Edges: []domain.Edge{
			{FromID: "A", ToID: "B", Weight: 1},
			{FromID: "A", ToID: "ghost", Weight: 1},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "undeclared nodes")
	assert.Contains(t, buf.String(), "count=1")

	buf.Reset()
	_, err = svc.SetMap(context.Background(), triangleMap())
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "undeclared nodes")
}

func TestMapService_VersionBeforeSetMap(t *testing.T) {
	svc := NewMapService(store.New(), nil, nil)
	_, ok := svc.Version()
	assert.False(t, ok)
}

func TestMapService_ReplacementDiscardsPreviousMap(t *testing.T) {
	svc := NewMapService(store.New(), nil, nil)
	ctx := context.Background()

	_, err := svc.SetMap(ctx, triangleMap())
	require.NoError(t, err)
	_, err = svc.SetMap(ctx, &domain.Graph{
		Nodes: []domain.Node{{ID: "X"}, {ID: "Y"}},
		Edges: []domain.Edge{{FromID: "X", ToID: "Y", Weight: 9}},
	})
	require.NoError(t, err)

	_, err = svc.ShortestDistance(ctx, "A", "C")
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)

	dist, err := svc.ShortestDistance(ctx, "Y", "X")
	require.NoError(t, err)
	assert.Equal(t, 9, dist)
}

func TestMapService_InvalidMapsAreRejected(t *testing.T) {
	cases := map[string]struct {
		graph *domain.Graph
		msg   []string
	}{
		"nil map": {
			graph: nil,
			msg:   []string{"map data is required"},
		},
		"no nodes": {
			graph: &domain.Graph{Edges: []domain.Edge{}},
			msg:   []string{"at least one node"},
		},
		"missing edges": {
			graph: &domain.Graph{Nodes: []domain.Node{{ID: "A"}}},
			msg:   []string{"must contain edges"},
		},
		"every problem reported": {
			graph: &domain.Graph{
				Nodes: []domain.Node{{ID: "A"}, {ID: "A"}, {ID: " "}},
				Edges: []domain.Edge{{FromID: "A", ToID: "B", Weight: -1}},
			},
			msg: []string{"more than once", "empty id", "negative weight"},
		},
		"weight above bound": {
			graph: &domain.Graph{
				Nodes: []domain.Node{{ID: "A"}, {ID: "B"}},
				Edges: []domain.Edge{{FromID: "A", ToID: "B", Weight: MaxEdgeWeight + 1}},
			},
			msg: []string{"exceeds"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc := NewMapService(store.New(), nil, nil)
			_, err := svc.SetMap(context.Background(), tc.graph)
			require.ErrorIs(t, err, domain.ErrInvalidGraph)
			for _, m := range tc.msg {
				assert.Contains(t, err.Error(), m)
			}
			assert.False(t, svc.HasMap(), "invalid map must not be stored")
		})
	}
}

func TestMapService_EmptyEdgeListIsValid(t *testing.T) {
	svc := NewMapService(store.New(), nil, nil)
	ctx := context.Background()

	_, err := svc.SetMap(ctx, &domain.Graph{
		Nodes: []domain.Node{{ID: "A"}, {ID: "B"}},
		Edges: []domain.Edge{},
	})
	require.NoError(t, err)

	_, err = svc.ShortestRoute(ctx, "A", "B")
	assert.ErrorIs(t, err, domain.ErrNoPathExists)
}

func TestMapService_MissingQueryParameters(t *testing.T) {
	svc := NewMapService(store.New(), nil, nil)
	_, err := svc.ShortestRoute(context.Background(), "", "B")
	assert.ErrorIs(t, err, ErrMissingQueryNode)

	_, err = svc.ShortestDistance(context.Background(), "A", "  ")
	assert.ErrorIs(t, err, ErrMissingQueryNode)
}

func TestMapService_FromErrorTakesPrecedence(t *testing.T) {
	svc := NewMapService(store.New(), nil, nil)
	_, err := svc.SetMap(context.Background(), triangleMap())
	require.NoError(t, err)

	_, err = svc.ShortestRoute(context.Background(), "nope", "also-nope")
	var missing *domain.NodeNotFoundError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "nope", missing.ID)
}

func TestMapService_QueryTimeoutAppliesToCanceledContext(t *testing.T) {
	svc := NewMapService(store.New(), nil, nil).WithQueryTimeout(time.Second)
	_, err := svc.SetMap(context.Background(), triangleMap())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = svc.ShortestDistance(ctx, "A", "C")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrNoPathExists)
}

func TestMapService_ShortestRoutesBatch(t *testing.T) {
	svc := NewMapService(store.New(), nil, nil).WithBatchWorkers(2)
	ctx := context.Background()
	_, err := svc.SetMap(ctx, &domain.Graph{
		Nodes: []domain.Node{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}},
		Edges: []domain.Edge{
			{FromID: "A", ToID: "B", Weight: 1},
			{FromID: "B", ToID: "C", Weight: 2},
		},
	})
	require.NoError(t, err)

	queries := []RouteQuery{
		{From: "A", To: "C"},
		{From: "A", To: "D"},
		{From: "Q", To: "A"},
		{From: "", To: "A"},
		{From: "C", To: "C"},
	}
	outcomes, err := svc.ShortestRoutes(ctx, queries)
	require.NoError(t, err)
	require.Len(t, outcomes, len(queries))

	for i, q := range queries {
		assert.Equal(t, q, outcomes[i].Query)
	}

	require.NoError(t, outcomes[0].Err)
	assert.Equal(t, []string{"A", "B", "C"}, outcomes[0].Route.Nodes)
	assert.Equal(t, 3, outcomes[0].Route.Distance)

	assert.ErrorIs(t, outcomes[1].Err, domain.ErrNoPathExists)
	assert.ErrorIs(t, outcomes[2].Err, domain.ErrNodeNotFound)
	assert.ErrorIs(t, outcomes[3].Err, ErrMissingQueryNode)

	require.NoError(t, outcomes[4].Err)
	assert.Equal(t, []string{"C"}, outcomes[4].Route.Nodes)
}

func TestMapService_ShortestRoutesEmptyBatch(t *testing.T) {
	svc := NewMapService(store.New(), nil, nil)
	_, err := svc.SetMap(context.Background(), triangleMap())
	require.NoError(t, err)

	outcomes, err := svc.ShortestRoutes(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, outcomes)
}

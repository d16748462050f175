package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/routemap/backend/internal/domain"
)

func sampleGraph(ids ...string) domain.Graph {
	g := domain.Graph{Edges: []domain.Edge{}}
	for _, id := range ids {
		g.Nodes = append(g.Nodes, domain.Node{ID: id})
	}
	return g
}

func TestStore_EmptyByDefault(t *testing.T) {
	s := New()

	assert.False(t, s.HasMap())
	_, ok := s.GetMap()
	assert.False(t, ok)
	_, ok = s.Snapshot()
	assert.False(t, ok)
}

func TestStore_GetMapIsIdempotent(t *testing.T) {
	s := New()
	s.SetMap(domain.Graph{
		Nodes: []domain.Node{{ID: "A"}, {ID: "B"}},
		Edges: []domain.Edge{{FromID: "A", ToID: "B", Weight: 4}},
	})

	first, ok := s.GetMap()
	require.True(t, ok)
	second, ok := s.GetMap()
	require.True(t, ok)

	assert.Equal(t, first, second)
	assert.True(t, s.HasMap())
}

func TestStore_SetMapReplacesWithoutMerge(t *testing.T) {
	s := New()
	s.SetMap(sampleGraph("A", "B", "C"))
	s.SetMap(sampleGraph("X", "Y"))

	got, ok := s.GetMap()
	require.True(t, ok)
	assert.Equal(t, []string{"X", "Y"}, got.NodeIDs())
	assert.False(t, got.HasNode("A"))
}

func TestStore_IsolatedFromCallerMutation(t *testing.T) {
	s := New()
	g := sampleGraph("A", "B")
	s.SetMap(g)

	g.Nodes[0].ID = "mutated"

	got, _ := s.GetMap()
	assert.Equal(t, "A", got.Nodes[0].ID)

	got.Nodes[1].ID = "mutated"
	again, _ := s.GetMap()
	assert.Equal(t, "B", again.Nodes[1].ID)
}

func TestStore_SnapshotVersioning(t *testing.T) {
	now := time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC)
	s := New()
	s.WithClock(func() time.Time { return now })

	s.SetMap(sampleGraph("A"))
	first, ok := s.Snapshot()
	require.True(t, ok)
	assert.Equal(t, uint64(1), first.Version)
	assert.Equal(t, now, first.StoredAt)

	s.SetMap(sampleGraph("B"))
	second, _ := s.Snapshot()
	assert.Equal(t, uint64(2), second.Version)
	assert.Equal(t, []string{"A"}, first.Graph.NodeIDs(), "earlier snapshot must stay intact")
}

func TestStore_ConcurrentReadersSeeWholeGraphs(t *testing.T) {
	s := New()
	small := sampleGraph("A")
	large := sampleGraph("A", "B", "C", "D", "E")
	s.SetMap(small)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			if i%2 == 0 {
				s.SetMap(large)
			} else {
				s.SetMap(small)
			}
		}
		close(stop)
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				g, ok := s.GetMap()
				if !ok {
					t.Error("map disappeared")
					return
				}
				if n := len(g.Nodes); n != 1 && n != 5 {
					t.Errorf("observed partial graph with %d nodes", n)
					return
				}
			}
		}()
	}
	wg.Wait()
}

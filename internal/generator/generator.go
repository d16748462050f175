package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/vanshika/routemap/backend/internal/domain"
)

// Generator produces random weighted maps. Every non-isolated node is
// reachable from every other one.
type Generator struct {
	cfg           Config
	rand          *rand.Rand
	nameFragments nameFragments
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	if cfg.NumNodes <= 0 {
		cfg.NumNodes = DefaultConfig().NumNodes
	}
	if cfg.ExtraEdges < 0 {
		cfg.ExtraEdges = 0
	}
	if cfg.MaxWeight <= 0 {
		cfg.MaxWeight = DefaultConfig().MaxWeight
	}
	if cfg.Isolated < 0 {
		cfg.Isolated = 0
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:           cfg,
		rand:          rand.New(rand.NewSource(cfg.Seed)),
		nameFragments: defaultNameFragments(),
	}
}

// Generate synthesises a map. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (domain.Graph, error) {
	total := g.cfg.NumNodes + g.cfg.Isolated
	graph := domain.Graph{
		Nodes: make([]domain.Node, 0, total),
		Edges: make([]domain.Edge, 0, g.cfg.NumNodes-1+g.cfg.ExtraEdges),
	}

	for i := 0; i < total; i++ {
		graph.Nodes = append(graph.Nodes, domain.Node{
			ID:   NodeID(i),
			Name: g.randomPlaceName(),
		})
	}

	// Random spanning tree: attach each node to one already placed.
	for i := 1; i < g.cfg.NumNodes; i++ {
		if err := ctx.Err(); err != nil {
			return domain.Graph{}, err
		}
		parent := g.rand.Intn(i)
		graph.Edges = append(graph.Edges, g.edge(parent, i))
	}

	for i := 0; i < g.cfg.ExtraEdges && g.cfg.NumNodes > 1; i++ {
		if err := ctx.Err(); err != nil {
			return domain.Graph{}, err
		}
		if len(graph.Edges) > 0 && g.rand.Float64() < g.cfg.ParallelEdgeChance {
			existing := graph.Edges[g.rand.Intn(len(graph.Edges))]
			graph.Edges = append(graph.Edges, domain.Edge{
				FromID: existing.ToID,
				ToID:   existing.FromID,
				Weight: g.randomWeight(),
			})
			continue
		}
		a := g.rand.Intn(g.cfg.NumNodes)
		b := g.rand.Intn(g.cfg.NumNodes)
		if a == b {
			b = (b + 1) % g.cfg.NumNodes
		}
		graph.Edges = append(graph.Edges, g.edge(a, b))
	}

	return graph, nil
}

// NodeID names the i-th generated node: A..Z, then AA, AB, ... so that
// small maps read like hand-written examples.
func NodeID(i int) string {
	id := ""
	for i >= 0 {
		id = string(rune('A'+i%26)) + id
		i = i/26 - 1
	}
	return id
}

func (g *Generator) edge(a, b int) domain.Edge {
	return domain.Edge{
		FromID: NodeID(a),
		ToID:   NodeID(b),
		Weight: g.randomWeight(),
	}
}

func (g *Generator) randomWeight() int {
	return 1 + g.rand.Intn(g.cfg.MaxWeight)
}

func (g *Generator) randomPlaceName() string {
	return fmt.Sprintf("%s %s", g.nameFragments.prefixes[g.rand.Intn(len(g.nameFragments.prefixes))],
		g.nameFragments.suffixes[g.rand.Intn(len(g.nameFragments.suffixes))])
}

type nameFragments struct {
	prefixes []string
	suffixes []string
}

func defaultNameFragments() nameFragments {
	return nameFragments{
		prefixes: []string{"North", "South", "East", "West", "Old", "New", "Upper", "Lower", "Market", "Harbor", "Cedar", "Oak", "Pine", "Mission"},
		suffixes: []string{"Station", "Square", "Depot", "Junction", "Crossing", "Bridge", "Gate", "Park", "Terminal", "Plaza"},
	}
}

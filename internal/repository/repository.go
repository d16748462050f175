package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vanshika/routemap/backend/internal/domain"
	"github.com/vanshika/routemap/backend/internal/graph"
)

// MapRepository mirrors the active map into a graph database so it can be
// browsed with the database's own tooling. Route queries never read from it.
type MapRepository struct {
	client graph.Client
	nowFn  func() time.Time
}

// New instantiates a MapRepository backed by the supplied graph client.
func New(client graph.Client) *MapRepository {
	return &MapRepository{client: client, nowFn: time.Now}
}

// WithClock overrides the time provider (used primarily in tests).
func (r *MapRepository) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		r.nowFn = nowFn
	}
}

// ReplaceMap drops the previously mirrored map and writes g in its place
// within a single transaction. Each undirected edge becomes one ROAD
// relationship stored in declaration order. version is the store version of
// g and is kept on the MapMeta node.
func (r *MapRepository) ReplaceMap(ctx context.Context, g domain.Graph, version uint64) error {
	meta := map[string]any{
		"version":   int64(version),
		"nodeCount": int64(len(g.Nodes)),
		"edgeCount": int64(len(g.Edges)),
		"updatedAt": formatTime(r.nowFn()),
	}

	_, err := r.client.ExecuteWrite(ctx,
		graph.Statement{Cypher: clearMapCypher},
		graph.Statement{Cypher: createLocationsCypher, Params: map[string]any{"nodes": nodeParams(g.Nodes)}},
		graph.Statement{Cypher: createRoadsCypher, Params: map[string]any{"edges": edgeParams(g.Edges)}},
		graph.Statement{Cypher: upsertMapMetaCypher, Params: meta},
	)
	if err != nil {
		return fmt.Errorf("mirror map (%d nodes, %d edges): %w", len(g.Nodes), len(g.Edges), err)
	}
	return nil
}

// MirroredVersion reads back the store version last written by ReplaceMap.
// found is false when the database holds no mirrored map.
func (r *MapRepository) MirroredVersion(ctx context.Context) (version uint64, found bool, err error) {
	res, err := r.client.ExecuteRead(ctx, readMapMetaCypher, nil)
	if err != nil {
		return 0, false, fmt.Errorf("read map meta: %w", err)
	}
	if len(res.Records) == 0 {
		return 0, false, nil
	}

	switch v := res.Records[0]["version"].(type) {
	case int64:
		return uint64(v), true, nil
	case int:
		return uint64(v), true, nil
	case nil:
		// Written before versions were recorded.
		return 0, false, nil
	default:
		return 0, false, fmt.Errorf("read map meta: unexpected version type %T", v)
	}
}

func nodeParams(nodes []domain.Node) []map[string]any {
	out := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, map[string]any{
			"id":   n.ID,
			"name": n.Name,
		})
	}
	return out
}

func edgeParams(edges []domain.Edge) []map[string]any {
	out := make([]map[string]any, 0, len(edges))
	for i, e := range edges {
		out = append(out, map[string]any{
			"seq":    int64(i),
			"fromId": e.FromID,
			"toId":   e.ToID,
			"weight": int64(e.Weight),
		})
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

const clearMapCypher = `
MATCH (l:Location)
DETACH DELETE l
`

const createLocationsCypher = `
UNWIND $nodes AS node
CREATE (:Location {locationId: node.id, name: node.name})
`

// Edges naming undeclared locations are skipped by the MATCH.
const createRoadsCypher = `
UNWIND $edges AS edge
MATCH (a:Location {locationId: edge.fromId}), (b:Location {locationId: edge.toId})
CREATE (a)-[:ROAD {seq: edge.seq, weight: edge.weight}]->(b)
`

const upsertMapMetaCypher = `
MERGE (m:MapMeta {key: "active"})
SET m.version = $version,
    m.nodeCount = $nodeCount,
    m.edgeCount = $edgeCount,
    m.updatedAt = $updatedAt
`

const readMapMetaCypher = `
MATCH (m:MapMeta {key: "active"})
RETURN m.version AS version
`

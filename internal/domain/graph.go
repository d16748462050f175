package domain

// Node is a uniquely identified point on the map. Name is a display label and
// plays no part in path finding.
type Node struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Edge is an undirected, weighted connection between two nodes.
type Edge struct {
	FromID string `json:"fromId" yaml:"fromId"`
	ToID   string `json:"toId" yaml:"toId"`
	Weight int    `json:"weight" yaml:"weight"`
}

// Graph is the map submitted by clients. Edges may be empty but must be
// present; a nil Edges slice marks a malformed payload.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// HasNode reports whether id is one of the graph's node identifiers.
func (g Graph) HasNode(id string) bool {
	for _, n := range g.Nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

// NodeIDs returns the node identifiers in insertion order.
func (g Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

// Clone returns a deep copy. A nil Edges slice stays nil so that validation
// still sees a missing collection.
func (g Graph) Clone() Graph {
	out := Graph{}
	if g.Nodes != nil {
		out.Nodes = append(make([]Node, 0, len(g.Nodes)), g.Nodes...)
	}
	if g.Edges != nil {
		out.Edges = append(make([]Edge, 0, len(g.Edges)), g.Edges...)
	}
	return out
}

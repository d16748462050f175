package generator

// Config drives the synthetic map generator.
type Config struct {
	NumNodes int
	// ExtraEdges are added on top of the spanning tree that keeps the map connected.
	ExtraEdges int
	// ParallelEdgeChance is the probability that an extra edge duplicates an existing pair.
	ParallelEdgeChance float64
	MaxWeight          int
	// Isolated nodes are appended with no edges, to exercise unreachable routes.
	Isolated int
	Seed     int64
}

// DefaultConfig returns settings that produce a small but non-trivial city map.
func DefaultConfig() Config {
	return Config{
		NumNodes:           26,
		ExtraEdges:         40,
		ParallelEdgeChance: 0.05,
		MaxWeight:          20,
		Isolated:           0,
		Seed:               42,
	}
}

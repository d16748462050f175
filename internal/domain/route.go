package domain

import "strings"

// Route is the shortest route between two nodes.
type Route struct {
	From     string
	To       string
	Nodes    []string
	Distance int
}

// String renders the route as the node identifiers joined without a
// separator, the format older clients of the API expect.
func (r Route) String() string {
	return strings.Join(r.Nodes, "")
}

// Hops is the number of edges traversed.
func (r Route) Hops() int {
	if len(r.Nodes) == 0 {
		return 0
	}
	return len(r.Nodes) - 1
}

package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMapNotSet is returned when an operation needs a stored map and none has been set.
	ErrMapNotSet = errors.New("map has not been set")
	// ErrInvalidGraph marks a submitted map that fails structural checks.
	ErrInvalidGraph = errors.New("invalid map")
	// ErrNodeNotFound marks a query naming a node the stored map does not contain.
	ErrNodeNotFound = errors.New("node not found")
	// ErrNoPathExists marks a query whose nodes exist but are not connected.
	ErrNoPathExists = errors.New("no path exists")
)

// NodeNotFoundError names the missing identifier and which side of the query it was on.
type NodeNotFoundError struct {
	ID   string
	Role string // "from" or "to"
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("node '%s' does not exist in the graph", e.ID)
}

func (e *NodeNotFoundError) Unwrap() error { return ErrNodeNotFound }

// NoPathError reports that To is unreachable from From.
type NoPathError struct {
	From string
	To   string
}

func (e *NoPathError) Error() string {
	return fmt.Sprintf("no path exists between %s and %s", e.From, e.To)
}

func (e *NoPathError) Unwrap() error { return ErrNoPathExists }

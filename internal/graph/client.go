package graph

import (
	"context"
	"errors"
)

// Client is the contract the map repository needs from an external graph
// database. The in-memory store never depends on it.
type Client interface {
	// ExecuteWrite runs all statements inside one write transaction; either
	// every statement commits or none does.
	ExecuteWrite(ctx context.Context, statements ...Statement) (Result, error)
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Statement is a single parameterised cypher query.
type Statement struct {
	Cypher string
	Params map[string]any
}

// Result is a simplified representation of a query response. For multi
// statement writes it holds the records of the last statement.
type Result struct {
	Records []Record
}

// Record groups key-value pairs returned from the graph engine.
type Record map[string]any

// Options configures a graph client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")

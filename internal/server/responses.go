package server

import "github.com/vanshika/routemap/backend/internal/service"

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type setMapResponse struct {
	Message   string `json:"message"`
	NodeCount int    `json:"nodeCount"`
	EdgeCount int    `json:"edgeCount"`
	Version   uint64 `json:"version"`
}

// routeResponse carries the route both as a list and in the legacy
// concatenated form.
type routeResponse struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Route    []string `json:"route"`
	Path     string   `json:"path"`
	Distance int      `json:"distance"`
}

type distanceResponse struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Distance int    `json:"distance"`
}

type batchRequest struct {
	Queries []service.RouteQuery `json:"queries"`
}

type batchResult struct {
	From     string         `json:"from"`
	To       string         `json:"to"`
	Route    []string       `json:"route,omitempty"`
	Path     string         `json:"path,omitempty"`
	Distance *int           `json:"distance,omitempty"`
	Error    *errorResponse `json:"error,omitempty"`
}

type batchResponse struct {
	Results []batchResult `json:"results"`
}

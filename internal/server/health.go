package server

import (
	"context"

	"github.com/vanshika/routemap/backend/internal/graph"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// MapStatus reports whether a map is loaded and which version it is.
type MapStatus interface {
	HasMap() bool
	Version() (uint64, bool)
}

// MirrorStatus reads back the map version held by the graph mirror.
type MirrorStatus interface {
	MirroredVersion(ctx context.Context) (uint64, bool, error)
}

// mirrorReport compares the mirrored version with the stored one. With no
// map stored, the mirror is in sync only if it holds nothing either.
func mirrorReport(ctx context.Context, maps MapStatus, mirror MirrorStatus) (map[string]any, error) {
	mirrored, found, err := mirror.MirroredVersion(ctx)
	if err != nil {
		return nil, err
	}

	var current uint64
	var loaded bool
	if maps != nil {
		current, loaded = maps.Version()
	}

	report := map[string]any{
		"inSync": found == loaded && mirrored == current,
	}
	if found {
		report["version"] = mirrored
	}
	return report, nil
}

// GraphHealthService checks the Neo4j mirror. A nil client means the mirror
// is disabled and always reports healthy.
type GraphHealthService struct {
	Client graph.Client
}

// Probe implements the HealthService interface.
func (s GraphHealthService) Probe(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.VerifyConnectivity(ctx)
}

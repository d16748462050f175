// Package store holds the single active map shared by all requests.
package store

import (
	"sync/atomic"
	"time"

	"github.com/vanshika/routemap/backend/internal/domain"
)

// Snapshot is an immutable published map. Callers must not mutate Graph.
type Snapshot struct {
	Graph    domain.Graph
	Version  uint64
	StoredAt time.Time
}

// Store keeps at most one map. Each SetMap publishes a fresh snapshot through
// an atomic pointer swap, so readers see either the previous map or the new
// one in full.
type Store struct {
	current atomic.Pointer[Snapshot]
	version atomic.Uint64
	nowFn   func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{nowFn: time.Now}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *Store) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// SetMap replaces the stored map. The store keeps its own copy.
func (s *Store) SetMap(g domain.Graph) {
	snap := &Snapshot{
		Graph:    g.Clone(),
		Version:  s.version.Add(1),
		StoredAt: s.nowFn().UTC(),
	}
	s.current.Store(snap)
}

// GetMap returns a copy of the stored map and false when none is stored.
func (s *Store) GetMap() (domain.Graph, bool) {
	snap := s.current.Load()
	if snap == nil {
		return domain.Graph{}, false
	}
	return snap.Graph.Clone(), true
}

// HasMap reports whether a map is stored.
func (s *Store) HasMap() bool {
	return s.current.Load() != nil
}

// Snapshot returns the published snapshot without copying it.
func (s *Store) Snapshot() (*Snapshot, bool) {
	snap := s.current.Load()
	return snap, snap != nil
}

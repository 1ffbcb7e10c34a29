// Package source defines where family snapshots come from.
//
// A [Source] produces one consistent [family.Snapshot] per call to Load. The
// layout engine never writes back, so every implementation is read-only.
//
// Implementations live in subpackages:
//
//   - [github.com/matzehuels/kintree/pkg/source/file]: a JSON tree file
//   - [github.com/matzehuels/kintree/pkg/source/remote]: a JSON tree over HTTP
//   - [github.com/matzehuels/kintree/pkg/source/mongodb]: the three MongoDB
//     collections of the family service
package source

import (
	"context"

	"github.com/matzehuels/kintree/pkg/family"
)

// Source loads family snapshots.
type Source interface {
	// Load reads a complete snapshot. Fetch failures are reported with
	// code SOURCE_UNAVAILABLE.
	Load(ctx context.Context) (*family.Snapshot, error)
	// String describes the source for logs, e.g. "file:family.json".
	String() string
}

// Cacheable is implemented by sources whose snapshots are expensive to load
// and may be served from a short-lived cache.
type Cacheable interface {
	CacheKey() string
}

// RootProvider is implemented by sources that carry default layout roots.
type RootProvider interface {
	DefaultRoots() []string
}

// Static serves a fixed snapshot. It is used by tests and by callers that
// already hold the data in memory.
type Static struct {
	Name     string
	Snapshot *family.Snapshot
	Roots    []string
}

// Load returns the snapshot.
func (s *Static) Load(ctx context.Context) (*family.Snapshot, error) {
	if s.Snapshot == nil {
		return &family.Snapshot{}, nil
	}
	return s.Snapshot, nil
}

func (s *Static) String() string {
	if s.Name == "" {
		return "static"
	}
	return s.Name
}

// DefaultRoots returns the configured roots.
func (s *Static) DefaultRoots() []string { return s.Roots }

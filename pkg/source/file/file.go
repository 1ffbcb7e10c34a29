// Package file loads family snapshots from JSON tree files.
package file

import (
	"context"
	"sync"

	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/graph"
)

// Source reads a [graph.Tree] file on every Load so edits are picked up.
type Source struct {
	path string

	mu    sync.Mutex
	roots []string
}

// New returns a source for the tree file at path.
func New(path string) (*Source, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidPath, "tree file path is empty")
	}
	return &Source{path: path}, nil
}

// Load reads and converts the tree file.
func (s *Source) Load(ctx context.Context) (*family.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tree, err := graph.ReadTreeFile(s.path)
	if err != nil {
		return nil, err
	}
	snap, err := tree.Snapshot()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.roots = append([]string(nil), tree.Roots...)
	s.mu.Unlock()
	return snap, nil
}

// DefaultRoots returns the roots recorded in the file at the last Load.
func (s *Source) DefaultRoots() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.roots...)
}

func (s *Source) String() string { return "file:" + s.path }

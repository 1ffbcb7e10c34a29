package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
)

// =============================================================================
// Tree Serialization API
// =============================================================================

// MarshalTree converts a Tree to indented JSON bytes.
func MarshalTree(t Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTreeTo(t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTreeFile writes a Tree to a JSON file.
// The file is created with 0644 permissions.
func WriteTreeFile(t Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTreeTo(t, f)
}

// WriteTree writes a Tree as JSON to an io.Writer.
func WriteTree(t Tree, w io.Writer) error {
	return writeTreeTo(t, w)
}

// ReadTreeFile reads a JSON file and returns the decoded Tree.
func ReadTreeFile(path string) (Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Tree{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "tree file %s not found", path)
		}
		return Tree{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readTreeFrom(f)
}

// ReadTree decodes a JSON tree from an io.Reader.
func ReadTree(r io.Reader) (Tree, error) {
	return readTreeFrom(r)
}

// UnmarshalTree deserializes JSON bytes to a Tree.
func UnmarshalTree(data []byte) (Tree, error) {
	return readTreeFrom(bytes.NewReader(data))
}

// =============================================================================
// Tree ↔ Snapshot Conversion
// =============================================================================

// Snapshot converts the tree to a family snapshot. Ids are assigned to unions
// and links that lack one. Duplicate person or union ids and persons without
// an id are rejected with INVALID_INPUT.
func (t Tree) Snapshot() (*family.Snapshot, error) {
	if err := checkIDs(t.Persons, "person", false); err != nil {
		return nil, err
	}
	if err := checkIDs(t.Unions, "union", true); err != nil {
		return nil, err
	}

	s := &family.Snapshot{
		Roots:   append([]string(nil), t.Roots...),
		Persons: append([]family.Person(nil), t.Persons...),
		Unions:  append([]family.Union(nil), t.Unions...),
		Links:   append([]family.ParentChildLink(nil), t.Links...),
	}
	family.EnsureIDs(s)
	return s, nil
}

// FromSnapshot converts a snapshot to its serialization format. Embedded
// persons and unions are listed explicitly (see [family.Snapshot.Flatten]),
// so the result keeps every record. Without roots the snapshot's own roots
// are used.
func FromSnapshot(s *family.Snapshot, roots ...string) Tree {
	if s == nil {
		return Tree{Roots: roots}
	}
	if len(roots) == 0 {
		roots = s.Roots
	}
	s = s.Flatten()
	return Tree{
		Roots:   roots,
		Persons: s.Persons,
		Unions:  s.Unions,
		Links:   s.Links,
	}
}

func checkIDs[T family.Entity](items []T, kind string, allowEmpty bool) error {
	seen := make(map[string]bool, len(items))
	for i, it := range items {
		id := it.EntityID()
		if id == "" {
			if allowEmpty {
				continue
			}
			return errors.New(errors.ErrCodeInvalidInput, "%s at index %d has no id", kind, i)
		}
		if seen[id] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate %s id %q", kind, id)
		}
		seen[id] = true
	}
	return nil
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that every edge connects two known nodes.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate reports a layout whose edges reference unknown nodes or whose
// node ids repeat.
func (l *Layout) Validate() error {
	ids := make(map[string]bool, len(l.Nodes))
	for _, n := range l.Nodes {
		if n.ID == "" {
			return fmt.Errorf("layout contains a node without id")
		}
		if ids[n.ID] {
			return fmt.Errorf("duplicate node id %q", n.ID)
		}
		ids[n.ID] = true
	}
	for _, e := range l.Edges {
		if !ids[e.Source] || !ids[e.Target] {
			return fmt.Errorf("edge %s references unknown node", e.ID)
		}
	}
	return nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeTreeTo(t Tree, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readTreeFrom(r io.Reader) (Tree, error) {
	var t Tree
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return Tree{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode tree")
	}
	return t, nil
}

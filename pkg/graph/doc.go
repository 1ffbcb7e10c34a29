// Package graph provides serialization types for family trees and layouts.
//
// This package defines the canonical wire format for kintree's data, used for
// JSON files, API responses, caching, and the document store.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Tree], [Layout]: Serialization types (this package)
//   - pkg/family.Snapshot: Internal family data
//   - pkg/layout.Positions: Internal coordinates
//
// Use [Tree.Snapshot] and [FromSnapshot] to convert between them. Layouts are
// produced by pkg/render/flow.
//
// # Core Types
//
//   - [Tree]: Flat persons/unions/links snapshot, the input of a layout pass
//   - [Layout]: Positioned nodes and edges for a node-graph renderer
//   - [Node], [Edge]: Renderer-facing elements
//
// # Constants
//
// This package is the single source of truth for wire constants:
//
//	graph.NodeTypePerson        // "person"
//	graph.NodeTypeRelationship  // "relationship"
//	graph.NodeTypeDecoration    // "decoration"
//	graph.StyleSimple           // "simple"
//	graph.StyleDetailed         // "detailed"
//
// # Tree Serialization
//
// Trees use a flat JSON format. Reference fields accept either an id string
// or an embedded object:
//
//	{
//	  "roots":   ["a"],
//	  "persons": [{"id": "a", "name": "Arthur"}, {"id": "c", "name": "Cora"}],
//	  "unions":  [{"id": "u1", "husband": "a", "wife": {"id": "x", "name": "Xena"}}],
//	  "links":   [{"parent": "u1", "child": "c"}]
//	}
//
// Common operations:
//
//	t, _ := graph.ReadTreeFile("family.json")   // File → Tree
//	snap, _ := t.Snapshot()                     // Tree → family.Snapshot
//	graph.WriteTreeFile(t, "copy.json")         // Tree → File
//
// # Layout Serialization
//
// Layout JSON is deterministic: nodes and edges are emitted in a fixed order
// and encoded with a fixed indentation, so identical inputs produce
// byte-identical output.
//
//	data, _ := graph.MarshalLayout(l)
//	l, _ = graph.UnmarshalLayout(data)
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph

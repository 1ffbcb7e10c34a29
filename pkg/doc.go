// Package pkg provides the libraries behind kintree, a family tree layout
// engine.
//
// # Overview
//
// kintree turns a snapshot of persons, unions and parent-child links into a
// generation-layered drawing. The pkg directory is organized as:
//
//  1. [family] - Domain model, relationship index, union and child ordering
//  2. [layout] - Generation builder and position calculator
//  3. [render] - Node/edge list, SVG drawing, Graphviz diagrams, PNG/PDF
//  4. [source] - Snapshot loading from files, URLs and MongoDB
//  5. [pipeline] - Orchestration (load → layout → render) with caching
//  6. [graph] - Serialization types for trees and layouts
//
// Supporting packages: [cache] (file and redis backends), [config] (TOML),
// [errors] (coded errors), [observability] (hooks) and [buildinfo].
//
// # Architecture
//
//	Snapshot (file / URL / MongoDB)
//	         ↓
//	    [family] package (index, ordering)
//	         ↓
//	    [layout] package (generations + positions)
//	         ↓
//	    [render] package (flow nodes/edges, sinks)
//	         ↓
//	    SVG/PNG/PDF/DOT/JSON output
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/kintree/pkg/family"
//	    "github.com/matzehuels/kintree/pkg/layout"
//	    "github.com/matzehuels/kintree/pkg/render/flow"
//	    "github.com/matzehuels/kintree/pkg/render/sink"
//	)
//
//	idx := family.NewIndex(snapshot)
//	gens := layout.BuildGenerations(idx, "root-id", layout.WithMaxDepth(4))
//	cfg := layout.DefaultConfig()
//	pos := layout.CalculatePositions(gens, idx, cfg)
//	l := flow.Render(gens, pos, idx, cfg)
//	svg := sink.RenderSVG(l)
//
// Most callers use [pipeline.Runner], which adds caching and source loading:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, src, pipeline.Options{
//	    Roots:   []string{"root-id"},
//	    Formats: []string{"svg", "json"},
//	})
package pkg

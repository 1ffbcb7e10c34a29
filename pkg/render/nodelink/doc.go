// Package nodelink renders family graphs as Graphviz node-link diagrams.
//
// # Overview
//
// Unlike pkg/render/flow, which computes its own block layout, this package
// hands the family graph to Graphviz and lets it position everything. Persons
// appear as rounded boxes, unions as small points, and arrows run from each
// spouse into the union and from the union to each child. Persons of the same
// generation share a rank.
//
// # Usage
//
//	dot := nodelink.ToDOT(idx, gens, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: node labels include life dates and the generation number.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink

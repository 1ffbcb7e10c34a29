// Package render provides visualization rendering for family tree layouts.
//
// # Overview
//
// This package contains the rendering pipeline that transforms layouts into
// visual outputs. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - The node/edge list for node-graph renderers (in [flow] subpackage)
//   - Standalone SVG drawing of that list (in [sink] subpackage)
//   - Graphviz diagrams of the raw family graph (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both take a context so that
// a cancelled request stops the conversion.
//
//	svg := sink.RenderSVG(l)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the family graph with Graphviz, letting
// Graphviz choose positions. It is useful to inspect raw data that does not
// lay out as a tree.
//
//	dot := nodelink.ToDOT(idx, gens, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [flow]: github.com/matzehuels/kintree/pkg/render/flow
// [sink]: github.com/matzehuels/kintree/pkg/render/sink
// [nodelink]: github.com/matzehuels/kintree/pkg/render/nodelink
package render

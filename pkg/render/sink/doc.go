// Package sink draws a flow layout as a standalone SVG, PNG or PDF.
//
// The output mirrors what a node-graph renderer shows: rounded person cards
// coloured by gender, small relationship markers, orthogonal edges from the
// bottom of a source to the top of a target, and optional generation boxes
// behind every row.
//
//	svg := sink.RenderSVG(l, sink.WithStyle(sink.Detailed{}))
//	png, err := sink.RenderPNG(ctx, l, sink.WithScale(2))
//	pdf, err := sink.RenderPDF(ctx, l)
//
// PNG and PDF go through [render.ToPNG] and [render.ToPDF] and therefore
// need rsvg-convert on PATH.
//
// [render.ToPNG]: github.com/matzehuels/kintree/pkg/render.ToPNG
// [render.ToPDF]: github.com/matzehuels/kintree/pkg/render.ToPDF
package sink

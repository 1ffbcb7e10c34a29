package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/graph"
	"github.com/matzehuels/kintree/pkg/render/nodelink"
	"github.com/matzehuels/kintree/pkg/render/sink"
)

// Render generates output artifacts for every format in opts.Formats.
//
// Flow drawings (the default) are drawn from l. Nodelink drawings and the
// dot format are produced by Graphviz from snap, which is then required.
func Render(ctx context.Context, l graph.Layout, snap *family.Snapshot, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, l, snap, format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, l graph.Layout, snap *family.Snapshot, format string, opts Options) ([]byte, error) {
	if format == FormatJSON {
		return graph.MarshalLayout(l)
	}
	if format == FormatDOT || opts.VizType == graph.VizTypeNodelink {
		return renderNodelink(ctx, snap, format, opts)
	}
	return renderFlow(ctx, l, format, opts)
}

// renderFlow draws the computed layout.
func renderFlow(ctx context.Context, l graph.Layout, format string, opts Options) ([]byte, error) {
	svgOpts, err := buildSVGOptions(opts)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch format {
	case FormatSVG:
		data = sink.RenderSVG(l, svgOpts...)
	case FormatPNG:
		data, err = sink.RenderPNG(ctx, l, sink.WithScale(opts.Scale), sink.WithPNGSVGOptions(svgOpts...))
	case FormatPDF:
		data, err = sink.RenderPDF(ctx, l, svgOpts...)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported flow format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}

// renderNodelink lets Graphviz place the layered family graph.
func renderNodelink(ctx context.Context, snap *family.Snapshot, format string, opts Options) ([]byte, error) {
	if snap == nil {
		return nil, errors.New(errors.ErrCodeInternal, "%s output needs the family snapshot", format)
	}
	idx, gens, err := buildGenerations(snap, opts)
	if err != nil {
		return nil, err
	}
	dot := nodelink.ToDOT(idx, gens, nodelink.Options{Detailed: opts.Style == graph.StyleDetailed})

	var data []byte
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		data, err = nodelink.RenderPNG(ctx, dot, opts.Scale)
	case FormatPDF:
		data, err = nodelink.RenderPDF(ctx, dot)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported nodelink format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}

// buildSVGOptions maps pipeline options onto SVG renderer options.
func buildSVGOptions(opts Options) ([]sink.SVGOption, error) {
	style, err := sink.StyleFor(opts.Style)
	if err != nil {
		return nil, err
	}
	svgOpts := []sink.SVGOption{sink.WithStyle(style)}
	if !opts.ShowDecorations {
		svgOpts = append(svgOpts, sink.WithoutBands())
	}
	if opts.Interactive {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}
	return svgOpts, nil
}

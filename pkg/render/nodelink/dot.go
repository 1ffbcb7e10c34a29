package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/layout"
	"github.com/matzehuels/kintree/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds life dates and the generation number to person labels.
	// When false, only the name is shown.
	Detailed bool
}

// ToDOT converts the layered persons of gens to Graphviz DOT format.
// Partners outside gens are drawn dashed. Unions are drawn once, and only
// when at least one side is layered.
func ToDOT(idx *family.Index, gens layout.Generations, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=20, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for g, layer := range gens.Layers {
		buf.WriteString("  { rank=same;")
		for _, p := range layer {
			fmt.Fprintf(&buf, " %q;", p.ID)
		}
		buf.WriteString(" }\n")
		for _, p := range layer {
			fmt.Fprintf(&buf, "  %q [%s];\n", p.ID, strings.Join(fmtAttrs(p, g, opts.Detailed, false), ", "))
		}
	}

	buf.WriteString("\n")
	drawn := make(map[string]bool)
	external := make(map[string]bool)
	for g, layer := range gens.Layers {
		for _, p := range layer {
			for _, u := range idx.UnionsOf(p.ID) {
				if drawn[u.ID] {
					continue
				}
				drawn[u.ID] = true
				writeUnion(&buf, idx, gens, u, g, opts.Detailed, external)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeUnion(buf *bytes.Buffer, idx *family.Index, gens layout.Generations, u *family.Union, gen int, detailed bool, external map[string]bool) {
	uid := "union:" + u.ID
	fmt.Fprintf(buf, "  %q [shape=point, width=0.12];\n", uid)

	for _, side := range u.Sides() {
		if side == "" {
			continue
		}
		if _, layered := gens.Index[side]; !layered {
			p, ok := idx.ResolvePerson(family.RefTo[family.Person](side))
			if !ok {
				continue
			}
			if !external[side] {
				external[side] = true
				fmt.Fprintf(buf, "  %q [%s];\n", side, strings.Join(fmtAttrs(p, gen, detailed, true), ", "))
			}
		}
		fmt.Fprintf(buf, "  %q -> %q [arrowhead=none];\n", side, uid)
	}

	for _, c := range idx.ChildrenOf(u.ID) {
		if _, layered := gens.Index[c.Person.ID]; !layered {
			continue
		}
		style := ""
		if c.Link.IsAdopted {
			style = " [style=dashed]"
		}
		fmt.Fprintf(buf, "  %q -> %q%s;\n", uid, c.Person.ID, style)
	}
}

func fmtLabel(p *family.Person, gen int, detailed bool) string {
	name := p.Name
	if name == "" {
		name = p.ID
	}
	if !detailed {
		return name
	}

	parts := []string{name}
	if b := family.FormatDate(p.Birth); b != "" {
		parts = append(parts, "born: "+b)
	}
	if d := family.FormatDate(p.Death); d != "" {
		parts = append(parts, "died: "+d)
	}
	parts = append(parts, fmt.Sprintf("generation: %d", gen))
	return strings.Join(parts, "\n")
}

func fmtAttrs(p *family.Person, gen int, detailed, external bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(p, gen, detailed))}
	switch p.Gender {
	case family.Male:
		attrs = append(attrs, "fillcolor=\"#dbeafe\"")
	case family.Female:
		attrs = append(attrs, "fillcolor=\"#fce7f3\"")
	}
	if external {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one sized
// in user units so the SVG scales like the other renderers' output.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}

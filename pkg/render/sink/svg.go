package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/graph"
	"github.com/matzehuels/kintree/pkg/render/flow"
)

const margin = 24.0

const cardInteractionCSS = `
    .card { transition: opacity 0.2s ease; }
    .card.dim, .edge.dim { opacity: 0.25; }
    .edge { transition: opacity 0.2s ease; }`

const cardInteractionJS = `
    function focusPerson(id) {
      const keep = new Set([id]);
      document.querySelectorAll('.edge').forEach(e => {
        if (e.dataset.source === id) keep.add(e.dataset.target);
        if (e.dataset.target === id) keep.add(e.dataset.source);
      });
      document.querySelectorAll('.card').forEach(c => c.classList.toggle('dim', !keep.has(c.id.replace('card-', ''))));
      document.querySelectorAll('.edge').forEach(e => e.classList.toggle('dim', e.dataset.source !== id && e.dataset.target !== id));
    }
    function clearFocus() {
      document.querySelectorAll('.dim').forEach(el => el.classList.remove('dim'));
    }
    document.querySelectorAll('.card').forEach(el => {
      el.addEventListener('mouseenter', () => focusPerson(el.id.replace('card-', '')));
      el.addEventListener('mouseleave', clearFocus);
    });`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style       Style
	decorations bool
	interactive bool
}

// WithStyle sets the drawing style (default [Simple]).
func WithStyle(s Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithoutBands omits generation boxes even if the layout has them.
func WithoutBands() SVGOption { return func(r *svgRenderer) { r.decorations = false } }

// WithInteraction embeds hover highlighting of a person's direct relations.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

// StyleFor returns the drawing style for a style name.
func StyleFor(name string) (Style, error) {
	switch name {
	case "", graph.StyleSimple:
		return Simple{}, nil
	case graph.StyleDetailed:
		return Detailed{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (want %s or %s)",
		name, graph.StyleSimple, graph.StyleDetailed)
}

// RenderSVG draws l. Bands are drawn first, then edges, then relationship
// markers and cards on top.
func RenderSVG(l graph.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{style: Simple{}, decorations: true}
	for _, opt := range opts {
		opt(&r)
	}

	x, y, w, h := flow.Bounds(l)
	x, y, w, h = x-margin, y-margin, w+2*margin, h+2*margin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.2f %.2f %.2f %.2f" width="%.0f" height="%.0f">`+"\n",
		x, y, w, h, w, h)
	r.style.RenderDefs(&buf)

	if r.decorations {
		for _, b := range buildBands(l) {
			r.style.RenderBand(&buf, b)
		}
	}
	for _, e := range buildLines(l) {
		r.style.RenderEdge(&buf, e)
	}
	for _, n := range l.Nodes {
		switch {
		case n.IsRelationship():
			r.style.RenderMarker(&buf, Marker{
				ID:       n.ID,
				CX:       n.CenterX(),
				CY:       n.Position.Y + n.Height/2,
				R:        n.Width / 2,
				Divorced: n.Data.Divorced,
			})
		case n.IsPerson():
			r.style.RenderCard(&buf, cardFor(n))
		}
	}

	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", cardInteractionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", cardInteractionJS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func buildBands(l graph.Layout) []Band {
	labels := make(map[int]string)
	for _, n := range l.Nodes {
		if n.IsDecoration() && n.Data.Kind == graph.DecorationLabel {
			labels[n.Data.Generation] = n.Data.Label
		}
	}
	var bands []Band
	for _, n := range l.Nodes {
		if !n.IsDecoration() || n.Data.Kind != graph.DecorationBox {
			continue
		}
		bands = append(bands, Band{
			ID:    n.ID,
			Label: labels[n.Data.Generation],
			X:     n.Position.X, Y: n.Position.Y,
			W: n.Width, H: n.Height,
		})
	}
	return bands
}

func buildLines(l graph.Layout) []Line {
	nodes := make(map[string]*graph.Node, len(l.Nodes))
	for i := range l.Nodes {
		nodes[l.Nodes[i].ID] = &l.Nodes[i]
	}
	lines := make([]Line, 0, len(l.Edges))
	for _, e := range l.Edges {
		src, ok1 := nodes[e.Source]
		dst, ok2 := nodes[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		lines = append(lines, Line{
			ID:     e.ID,
			Source: e.Source,
			Target: e.Target,
			X1:     src.CenterX(), Y1: src.Position.Y + src.Height,
			X2: dst.CenterX(), Y2: dst.Position.Y,
			Stroke: e.Style.Stroke,
			Width:  e.Style.StrokeWidth,
			Dash:   e.Style.StrokeDasharray,
		})
	}
	return lines
}

func cardFor(n graph.Node) Card {
	d := n.Data
	detail := d.Address
	if detail == "" {
		detail = d.Description
	}
	return Card{
		ID:       n.ID,
		PersonID: d.PersonID,
		Name:     d.Label,
		Gender:   d.Gender,
		Dates:    lifeSpan(d.Birth, d.Death),
		Detail:   detail,
		URL:      d.AvatarURL,
		X:        n.Position.X, Y: n.Position.Y,
		W: n.Width, H: n.Height,
		Deceased: d.Deceased,
		External: d.External,
	}
}

// lifeSpan formats "1920 – 1990", "* 1920" or "† 1990" from ISO dates.
func lifeSpan(birth, death string) string {
	year := func(s string) string {
		y, _, _ := strings.Cut(s, "-")
		return y
	}
	switch {
	case birth != "" && death != "":
		return year(birth) + " – " + year(death)
	case birth != "":
		return "* " + year(birth)
	case death != "":
		return "† " + year(death)
	}
	return ""
}

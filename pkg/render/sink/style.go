package sink

import (
	"bytes"
	"fmt"
)

// Style defines the visual appearance of a rendered tree.
type Style interface {
	// RenderDefs writes SVG <defs> content (filters, markers).
	RenderDefs(buf *bytes.Buffer)
	// RenderBand writes a generation background box and its label.
	RenderBand(buf *bytes.Buffer, b Band)
	// RenderCard writes a person card.
	RenderCard(buf *bytes.Buffer, c Card)
	// RenderMarker writes a relationship marker.
	RenderMarker(buf *bytes.Buffer, m Marker)
	// RenderEdge writes a connecting line.
	RenderEdge(buf *bytes.Buffer, e Line)
}

// Band is a generation row background.
type Band struct {
	ID         string
	Label      string
	X, Y, W, H float64
}

// Card is a person card.
type Card struct {
	ID         string
	PersonID   string
	Name       string
	Gender     string
	Dates      string
	Detail     string
	URL        string
	X, Y, W, H float64
	Deceased   bool
	External   bool
}

// Marker is a relationship node.
type Marker struct {
	ID       string
	CX, CY   float64
	R        float64
	Divorced bool
}

// Line is an orthogonal edge.
type Line struct {
	ID             string
	Source, Target string
	X1, Y1, X2, Y2 float64
	Stroke         string
	Width          float64
	Dash           string
}

// Palette entries by gender.
type palette struct{ fill, stroke string }

var (
	paletteMale    = palette{"#dbeafe", "#3b82f6"}
	paletteFemale  = palette{"#fce7f3", "#db2777"}
	paletteUnknown = palette{"#f1f5f9", "#64748b"}
)

func paletteFor(gender string) palette {
	switch gender {
	case "MALE":
		return paletteMale
	case "FEMALE":
		return paletteFemale
	}
	return paletteUnknown
}

// Simple draws cards with a name and life dates.
type Simple struct{}

func (Simple) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <filter id="card-shadow" x="-10%" y="-10%" width="120%" height="140%">
      <feDropShadow dx="0" dy="2" stdDeviation="2" flood-opacity="0.15"/>
    </filter>
  </defs>
`)
}

func (Simple) RenderBand(buf *bytes.Buffer, b Band) {
	fmt.Fprintf(buf, `  <rect id="%s" class="band" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="16" fill="#f8fafc" stroke="#e2e8f0"/>`+"\n",
		EscapeXML(b.ID), b.X, b.Y, b.W, b.H)
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="14" fill="#94a3b8">%s</text>`+"\n",
		b.X+16, b.Y+24, EscapeXML(b.Label))
}

func (Simple) RenderCard(buf *bytes.Buffer, c Card) {
	renderCard(buf, c, false)
}

func (Simple) RenderMarker(buf *bytes.Buffer, m Marker) {
	renderMarker(buf, m)
}

func (Simple) RenderEdge(buf *bytes.Buffer, e Line) {
	renderLine(buf, e)
}

// Detailed adds a detail line (address or description) and links cards to
// their avatar.
type Detailed struct{}

func (Detailed) RenderDefs(buf *bytes.Buffer) {
	Simple{}.RenderDefs(buf)
}

func (Detailed) RenderBand(buf *bytes.Buffer, b Band) {
	Simple{}.RenderBand(buf, b)
}

func (Detailed) RenderMarker(buf *bytes.Buffer, m Marker) {
	renderMarker(buf, m)
}

func (Detailed) RenderEdge(buf *bytes.Buffer, e Line) {
	renderLine(buf, e)
}

func (Detailed) RenderCard(buf *bytes.Buffer, c Card) {
	WrapURL(buf, c.URL, func() { renderCard(buf, c, true) })
}

func renderCard(buf *bytes.Buffer, c Card, detailed bool) {
	p := paletteFor(c.Gender)
	dash := ""
	if c.External {
		dash = ` stroke-dasharray="6 4"`
	}
	opacity := 1.0
	if c.Deceased {
		opacity = 0.75
	}
	fmt.Fprintf(buf, `  <g id="card-%s" class="card" data-person="%s" opacity="%.2f">`+"\n",
		EscapeXML(c.ID), EscapeXML(c.PersonID), opacity)
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="12" fill="%s" stroke="%s" stroke-width="2"%s filter="url(#card-shadow)"/>`+"\n",
		c.X, c.Y, c.W, c.H, p.fill, p.stroke, dash)

	cx := c.X + c.W/2
	nameSize := FontSize(c.Name, c.W, c.H/3)
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="middle" font-family="sans-serif" font-size="%.1f" font-weight="600" fill="#0f172a">%s</text>`+"\n",
		cx, c.Y+c.H*0.4, nameSize, EscapeXML(Truncate(c.Name, c.W, nameSize)))
	if c.Dates != "" {
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="middle" font-family="sans-serif" font-size="12" fill="#475569">%s</text>`+"\n",
			cx, c.Y+c.H*0.65, EscapeXML(c.Dates))
	}
	if detailed && c.Detail != "" {
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="middle" font-family="sans-serif" font-size="10" fill="#64748b">%s</text>`+"\n",
			cx, c.Y+c.H*0.87, EscapeXML(Truncate(c.Detail, c.W, 10)))
	}
	if c.Deceased {
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="end" font-family="serif" font-size="14" fill="#475569">&#8224;</text>`+"\n",
			c.X+c.W-8, c.Y+18)
	}
	buf.WriteString("  </g>\n")
}

func renderMarker(buf *bytes.Buffer, m Marker) {
	fill := "#f59e0b"
	if m.Divorced {
		fill = "#cbd5e1"
	}
	fmt.Fprintf(buf, `  <circle id="%s" class="relationship" cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="#ffffff" stroke-width="2"/>`+"\n",
		EscapeXML(m.ID), m.CX, m.CY, m.R, fill)
}

// renderLine draws the smoothstep route: down to the midpoint, across, down
// into the target.
func renderLine(buf *bytes.Buffer, e Line) {
	midY := (e.Y1 + e.Y2) / 2
	dash := ""
	if e.Dash != "" {
		dash = fmt.Sprintf(` stroke-dasharray="%s"`, EscapeXML(e.Dash))
	}
	fmt.Fprintf(buf, `  <path id="%s" class="edge" data-source="%s" data-target="%s" d="M %.2f %.2f V %.2f H %.2f V %.2f" fill="none" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
		EscapeXML(e.ID), EscapeXML(e.Source), EscapeXML(e.Target),
		e.X1, e.Y1, midY, e.X2, e.Y2, EscapeXML(e.Stroke), e.Width, dash)
}

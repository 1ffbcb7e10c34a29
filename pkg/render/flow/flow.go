package flow

import (
	"fmt"
	"math"

	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/graph"
	"github.com/matzehuels/kintree/pkg/layout"
)

// Edge strokes.
const (
	DefaultStroke      = "#64748b"
	DefaultStrokeWidth = 2.0
	AdoptedDasharray   = "6 4"
	DivorcedDasharray  = "2 4"
)

const (
	relationshipPrefix = "relationship-"
	labelWidth         = 160.0
	labelHeight        = 28.0
)

// RelationshipNodeID returns the node id of a union's relationship node.
func RelationshipNodeID(unionID string) string { return relationshipPrefix + unionID }

// Option configures rendering.
type Option func(*renderer)

// WithStyle selects the payload detail. [graph.StyleDetailed] adds address,
// description and avatar to person nodes.
func WithStyle(s string) Option { return func(r *renderer) { r.style = s } }

// WithoutDecorations omits the generation boxes and labels.
func WithoutDecorations() Option { return func(r *renderer) { r.decorations = false } }

// WithStroke overrides the edge stroke color and width.
func WithStroke(color string, width float64) Option {
	return func(r *renderer) { r.stroke, r.strokeWidth = color, width }
}

type renderer struct {
	gens layout.Generations
	pos  layout.Positions
	idx  *family.Index
	cfg  layout.Config

	style       string
	decorations bool
	stroke      string
	strokeWidth float64

	nodes []graph.Node
	edges []graph.Edge
}

// Render materializes positions into typed nodes and edges. Persons missing
// from pos and dangling references are skipped.
func Render(gens layout.Generations, pos layout.Positions, idx *family.Index, cfg layout.Config, opts ...Option) graph.Layout {
	r := &renderer{
		gens:        gens,
		pos:         pos,
		idx:         idx,
		cfg:         cfg,
		style:       graph.StyleSimple,
		decorations: true,
		stroke:      DefaultStroke,
		strokeWidth: DefaultStrokeWidth,
	}
	for _, opt := range opts {
		opt(r)
	}

	out := graph.Layout{
		Roots:       rootIDs(gens),
		Style:       r.style,
		Generations: gens.IDs(),
		Nodes:       []graph.Node{},
		Edges:       []graph.Edge{},
	}
	if idx == nil || gens.Empty() {
		return out
	}

	for g, persons := range gens.Layers {
		for _, p := range persons {
			r.renderPerson(p, g)
		}
	}

	if r.decorations {
		out.Nodes = append(r.generationDecorations(), r.nodes...)
	} else {
		out.Nodes = r.nodes
	}
	out.Edges = r.edges
	out.Width, out.Height = extent(out.Nodes)
	return out
}

func rootIDs(gens layout.Generations) []string {
	roots := gens.Roots()
	ids := make([]string, len(roots))
	for i, p := range roots {
		ids[i] = p.ID
	}
	return ids
}

func (r *renderer) rowY(gen int) float64 { return float64(gen) * r.cfg.GenerationHeight }

func (r *renderer) renderPerson(p *family.Person, gen int) {
	x, ok := r.pos.Person[p.ID]
	if !ok {
		return
	}
	r.nodes = append(r.nodes, r.personNode(p.ID, p, gen, x, r.rowY(gen), false))

	for _, u := range r.idx.UnionsOf(p.ID) {
		if r.pos.UnionOwner[u.ID] != p.ID {
			continue
		}
		r.renderUnion(u, p, gen)
	}
}

func (r *renderer) renderUnion(u *family.Union, owner *family.Person, gen int) {
	ux := r.pos.Union[u.ID]
	relID := RelationshipNodeID(u.ID)
	size := r.cfg.RelationshipSize
	divorced := u.DivorceDate != nil && !u.DivorceDate.IsZero()

	r.nodes = append(r.nodes, graph.Node{
		ID:       relID,
		Type:     graph.NodeTypeRelationship,
		Position: graph.Position{X: ux - size/2, Y: r.rowY(gen) + r.cfg.RelationshipOffsetY},
		Width:    size,
		Height:   size,
		Data: graph.NodeData{
			Generation:   gen,
			UnionID:      u.ID,
			MarriageDate: family.FormatDate(u.MarriageDate),
			DivorceDate:  family.FormatDate(u.DivorceDate),
			Divorced:     divorced,
		},
	})

	bond := r.edgeStyle("")
	if divorced {
		bond = r.edgeStyle(DivorcedDasharray)
	}
	r.addEdge(owner.ID, relID, graph.EdgeKindPartner, bond, false)

	// The node children hang from: the external spouse card when there is
	// one, otherwise the relationship node.
	childSource := relID
	if partner, ok := r.idx.PartnerOf(u, owner.ID); ok {
		spouseID := layout.SpouseNodeID(u.ID, partner.ID)
		if sx, external := r.pos.ExternalSpouse[spouseID]; external {
			y := r.rowY(gen) + r.cfg.SpouseOffsetY
			r.nodes = append(r.nodes, r.personNode(spouseID, partner, gen, sx, y, true))
			r.addEdge(relID, spouseID, graph.EdgeKindSpouse, bond, false)
			childSource = spouseID
		} else if _, placed := r.pos.Person[partner.ID]; placed {
			r.addEdge(relID, partner.ID, graph.EdgeKindSpouse, bond, false)
		}
	}

	for _, c := range r.idx.ChildrenOf(u.ID) {
		if r.pos.ParentUnion[c.Person.ID] != u.ID {
			continue
		}
		style := r.edgeStyle("")
		if c.Link.IsAdopted {
			style = r.edgeStyle(AdoptedDasharray)
		}
		r.addEdge(childSource, c.Person.ID, graph.EdgeKindChild, style, c.Link.IsAdopted)
	}
}

func (r *renderer) personNode(id string, p *family.Person, gen int, centerX, y float64, external bool) graph.Node {
	data := graph.NodeData{
		Label:      p.Name,
		Generation: gen,
		PersonID:   p.ID,
		Gender:     string(p.Gender),
		Birth:      family.FormatDate(p.Birth),
		Death:      family.FormatDate(p.Death),
		Deceased:   p.Deceased(),
		External:   external,
	}
	if r.style == graph.StyleDetailed {
		data.Address = p.Address
		data.Description = p.Description
		data.AvatarURL = p.AvatarURL
	}
	return graph.Node{
		ID:       id,
		Type:     graph.NodeTypePerson,
		Position: graph.Position{X: centerX - r.cfg.PersonWidth/2, Y: y},
		Width:    r.cfg.PersonWidth,
		Height:   r.cfg.PersonHeight,
		Data:     data,
	}
}

func (r *renderer) edgeStyle(dash string) graph.EdgeStyle {
	return graph.EdgeStyle{Stroke: r.stroke, StrokeWidth: r.strokeWidth, StrokeDasharray: dash}
}

func (r *renderer) addEdge(source, target, kind string, style graph.EdgeStyle, adopted bool) {
	r.edges = append(r.edges, graph.Edge{
		ID:           graph.EdgeID(source, target),
		Source:       source,
		Target:       target,
		SourceHandle: graph.HandleBottom,
		TargetHandle: graph.HandleTop,
		Type:         graph.EdgeTypeSmoothstep,
		Style:        style,
		Data:         graph.EdgeData{Kind: kind, Adopted: adopted},
	})
}

// generationDecorations returns a box and a label per generation row. Boxes
// span the leftmost and rightmost person cards of the whole layout.
func (r *renderer) generationDecorations() []graph.Node {
	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, n := range r.nodes {
		if !n.IsPerson() {
			continue
		}
		minX = min(minX, n.Position.X)
		maxX = max(maxX, n.Position.X+n.Width)
	}
	if math.IsInf(minX, 1) {
		return nil
	}

	pad := r.cfg.GenerationPadding
	rowHeight := max(r.cfg.PersonHeight,
		r.cfg.RelationshipOffsetY+r.cfg.RelationshipSize,
		r.cfg.SpouseOffsetY+r.cfg.PersonHeight)

	out := make([]graph.Node, 0, 2*len(r.gens.Layers))
	for g := range r.gens.Layers {
		box := graph.Position{X: minX - pad, Y: r.rowY(g) - pad}
		out = append(out,
			graph.Node{
				ID:         fmt.Sprintf("%s-%d", graph.DecorationBox, g),
				Type:       graph.NodeTypeDecoration,
				Position:   box,
				Width:      maxX - minX + 2*pad,
				Height:     rowHeight + 2*pad,
				Draggable:  graph.Bool(false),
				Selectable: graph.Bool(false),
				ZIndex:     -1,
				Data:       graph.NodeData{Kind: graph.DecorationBox, Generation: g},
			},
			graph.Node{
				ID:         fmt.Sprintf("%s-%d", graph.DecorationLabel, g),
				Type:       graph.NodeTypeDecoration,
				Position:   box,
				Width:      labelWidth,
				Height:     labelHeight,
				Draggable:  graph.Bool(false),
				Selectable: graph.Bool(false),
				ZIndex:     -1,
				Data: graph.NodeData{
					Kind:       graph.DecorationLabel,
					Label:      fmt.Sprintf("Generation %d", g+1),
					Generation: g,
				},
			},
		)
	}
	return out
}

// extent returns the width and height of the bounding box of nodes.
func extent(nodes []graph.Node) (width, height float64) {
	if len(nodes) == 0 {
		return 0, 0
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		minX = min(minX, n.Position.X)
		minY = min(minY, n.Position.Y)
		maxX = max(maxX, n.Position.X+n.Width)
		maxY = max(maxY, n.Position.Y+n.Height)
	}
	return maxX - minX, maxY - minY
}

// Bounds returns the top-left corner and size of the bounding box of l's
// nodes.
func Bounds(l graph.Layout) (x, y, width, height float64) {
	if len(l.Nodes) == 0 {
		return 0, 0, 0, 0
	}
	x, y = math.Inf(1), math.Inf(1)
	for _, n := range l.Nodes {
		x = min(x, n.Position.X)
		y = min(y, n.Position.Y)
	}
	width, height = extent(l.Nodes)
	return x, y, width, height
}

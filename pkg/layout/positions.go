package layout

import (
	"github.com/matzehuels/kintree/pkg/family"
)

// Positions holds the X centers computed by [CalculatePositions].
type Positions struct {
	// Person maps a layered person id to its X center.
	Person map[string]float64

	// Union maps a placed union id to the X center of its relationship node.
	Union map[string]float64

	// ExternalSpouse maps a spouse node id (see [SpouseNodeID]) to its X
	// center. Only partners absent from the generations get an entry.
	ExternalSpouse map[string]float64

	// UnionOwner maps a placed union id to the person it was laid out under.
	UnionOwner map[string]string

	// ParentUnion maps a placed child id to the union it was laid out under.
	ParentUnion map[string]string

	// Width is the total horizontal extent of the layout.
	Width float64
}

// SpouseNodeID returns the node id of the synthetic node drawn for a partner
// who is not part of the layered tree.
func SpouseNodeID(unionID, partnerID string) string {
	return "spouse-" + unionID + "-" + partnerID
}

// CalculatePositions lays out every generation-0 root and its descendants.
// It is pure: the same inputs always produce the same positions.
func CalculatePositions(gens Generations, idx *family.Index, cfg Config) Positions {
	c := &calculator{
		gens:    gens,
		idx:     idx,
		cfg:     cfg,
		visited: make(map[string]bool),
		claimed: make(map[string]bool),
		pos: Positions{
			Person:         make(map[string]float64),
			Union:          make(map[string]float64),
			ExternalSpouse: make(map[string]float64),
			UnionOwner:     make(map[string]string),
			ParentUnion:    make(map[string]string),
		},
	}
	if idx == nil || gens.Empty() {
		return c.pos
	}

	var cursor float64
	placeRoot := func(p *family.Person) {
		if cursor > 0 {
			cursor += cfg.RootGap
		}
		c.visited[p.ID] = true
		b := c.measure(p)
		c.place(b, cursor)
		cursor += b.width
	}

	for _, root := range gens.Roots() {
		if !c.visited[root.ID] {
			placeRoot(root)
		}
	}

	// Layered persons not reached from a root are placed after the forest
	// so that every layered person has a position.
	for _, layer := range gens.Layers[1:] {
		for _, p := range layer {
			if !c.visited[p.ID] {
				placeRoot(p)
			}
		}
	}

	c.pos.Width = cursor
	return c.pos
}

type calculator struct {
	gens    Generations
	idx     *family.Index
	cfg     Config
	visited map[string]bool
	claimed map[string]bool
	pos     Positions
}

// personBlock is the measured subtree of one person. Offsets are relative to
// the block's left edge.
type personBlock struct {
	person *family.Person
	width  float64
	center float64
	unions []*unionBlock
}

type unionBlock struct {
	union    *family.Union
	offset   float64
	width    float64
	anchor   float64
	children []childSlot
}

type childSlot struct {
	block  *personBlock
	offset float64
}

// measure computes the block of p. The caller marks p visited.
func (c *calculator) measure(p *family.Person) *personBlock {
	pw := c.cfg.PersonWidth
	b := &personBlock{person: p, width: pw, center: pw / 2}

	gen := c.gens.Index[p.ID]
	var x float64
	for _, u := range c.idx.UnionsOf(p.ID) {
		if c.claimed[u.ID] || c.deferToPartner(u, p.ID, gen) {
			continue
		}
		c.claimed[u.ID] = true
		ub := c.measureUnion(u, gen)
		if len(b.unions) > 0 {
			x += c.cfg.HorizontalGap
		}
		ub.offset = x
		x += ub.width
		b.unions = append(b.unions, ub)
	}
	if len(b.unions) == 0 {
		return b
	}

	first := b.unions[0]
	last := b.unions[len(b.unions)-1]
	mid := (first.offset + first.anchor + last.offset + last.anchor) / 2
	padL, padR := padding(mid, x, pw)
	for _, ub := range b.unions {
		ub.offset += padL
	}
	b.width = padL + x + padR
	b.center = padL + mid
	return b
}

// deferToPartner reports whether u should be left for ownerID's partner,
// which happens when the partner sits in an earlier generation. Children of a
// union are always one generation below its earliest layered spouse.
func (c *calculator) deferToPartner(u *family.Union, ownerID string, gen int) bool {
	pid := u.Partner(ownerID).ID()
	if pid == "" || pid == ownerID {
		return false
	}
	pg, ok := c.gens.Index[pid]
	return ok && pg < gen
}

// measureUnion computes the block of u laid out under a person of generation
// gen.
func (c *calculator) measureUnion(u *family.Union, gen int) *unionBlock {
	pw := c.cfg.PersonWidth
	ub := &unionBlock{union: u}

	var x float64
	for _, child := range c.idx.ChildrenOf(u.ID) {
		id := child.Person.ID
		if c.visited[id] {
			continue
		}
		g, ok := c.gens.Index[id]
		if !ok || g != gen+1 {
			continue
		}
		c.visited[id] = true
		c.pos.ParentUnion[id] = u.ID

		cb := c.measure(child.Person)
		if len(ub.children) > 0 {
			x += c.cfg.HorizontalGap
		}
		ub.children = append(ub.children, childSlot{block: cb, offset: x})
		x += cb.width
	}

	if len(ub.children) == 0 {
		ub.width = pw
		ub.anchor = pw / 2
		return ub
	}

	first := ub.children[0]
	last := ub.children[len(ub.children)-1]
	mid := (first.offset + first.block.center + last.offset + last.block.center) / 2
	padL, padR := padding(mid, x, pw)
	for i := range ub.children {
		ub.children[i].offset += padL
	}
	ub.width = padL + x + padR
	ub.anchor = padL + mid
	return ub
}

// padding returns the space needed on each side of a span of the given width
// so that a node of nodeWidth centered at mid fits inside it.
func padding(mid, width, nodeWidth float64) (left, right float64) {
	left = max(0, nodeWidth/2-mid)
	right = max(0, mid+nodeWidth/2-width)
	return left, right
}

// place records the positions of b and its descendants with b's left edge at
// startX.
func (c *calculator) place(b *personBlock, startX float64) {
	p := b.person
	c.pos.Person[p.ID] = startX + b.center

	for _, ub := range b.unions {
		u := ub.union
		ux := startX + ub.offset + ub.anchor
		c.pos.Union[u.ID] = ux
		c.pos.UnionOwner[u.ID] = p.ID

		if partner, ok := c.idx.PartnerOf(u, p.ID); ok {
			if _, layered := c.gens.Index[partner.ID]; !layered {
				c.pos.ExternalSpouse[SpouseNodeID(u.ID, partner.ID)] = ux
			}
		}

		for _, child := range ub.children {
			c.place(child.block, startX+ub.offset+child.offset)
		}
	}
}

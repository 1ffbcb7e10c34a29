package layout

import (
	"github.com/matzehuels/kintree/pkg/family"
)

// Generations is the output of the generation builder.
type Generations struct {
	// Layers holds the persons of each generation in discovery order.
	Layers [][]*family.Person

	// Index maps person id to generation number.
	Index map[string]int
}

// Empty reports whether no person was layered.
func (g Generations) Empty() bool { return len(g.Layers) == 0 }

// Count returns the number of layered persons.
func (g Generations) Count() int { return len(g.Index) }

// Roots returns the persons of generation 0.
func (g Generations) Roots() []*family.Person {
	if len(g.Layers) == 0 {
		return nil
	}
	return g.Layers[0]
}

// IDs returns the person ids of every layer.
func (g Generations) IDs() [][]string {
	out := make([][]string, len(g.Layers))
	for i, layer := range g.Layers {
		ids := make([]string, len(layer))
		for j, p := range layer {
			ids[j] = p.ID
		}
		out[i] = ids
	}
	return out
}

// Generation returns the generation number of id.
func (g Generations) Generation(id string) (int, bool) {
	n, ok := g.Index[id]
	return n, ok
}

// Option configures the generation builder.
type Option func(*builder)

// WithMaxDepth limits the number of generations produced. Values below 1
// produce generation 0 only. Without this option depth is unlimited.
func WithMaxDepth(n int) Option {
	return func(b *builder) { b.maxDepth = max(n, 1) }
}

type builder struct {
	idx      *family.Index
	maxDepth int
}

// BuildGenerations layers the tree breadth-first from rootID. An unknown root
// yields an empty result.
func BuildGenerations(idx *family.Index, rootID string, opts ...Option) Generations {
	return BuildForest(idx, []string{rootID}, opts...)
}

// BuildForest layers several roots at once, all in generation 0. Unknown and
// repeated roots are dropped; if none remain the result is empty.
func BuildForest(idx *family.Index, rootIDs []string, opts ...Option) Generations {
	b := &builder{idx: idx}
	for _, opt := range opts {
		opt(b)
	}
	return b.build(rootIDs)
}

func (b *builder) build(rootIDs []string) Generations {
	out := Generations{Index: make(map[string]int)}
	if b.idx == nil {
		return out
	}

	var layer []*family.Person
	seen := make(map[string]bool, len(rootIDs))
	for _, id := range rootIDs {
		p, ok := b.idx.Person(id)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		layer = append(layer, p)
	}

	visited := make(map[string]bool)
	for gen := 0; len(layer) > 0; gen++ {
		var current []*family.Person
		for _, p := range layer {
			if visited[p.ID] {
				continue
			}
			visited[p.ID] = true
			out.Index[p.ID] = gen
			current = append(current, p)
		}
		if len(current) == 0 {
			break
		}
		out.Layers = append(out.Layers, current)

		if b.maxDepth > 0 && len(out.Layers) >= b.maxDepth {
			break
		}
		layer = b.nextLayer(current, visited)
	}
	return out
}

// nextLayer collects the unvisited children of layer: persons in order, each
// person's unions in union order, each union's children in birth order.
func (b *builder) nextLayer(layer []*family.Person, visited map[string]bool) []*family.Person {
	var next []*family.Person
	queued := make(map[string]bool)
	for _, p := range layer {
		for _, u := range b.idx.UnionsOf(p.ID) {
			for _, c := range b.idx.ChildrenOf(u.ID) {
				id := c.Person.ID
				if visited[id] || queued[id] {
					continue
				}
				queued[id] = true
				next = append(next, c.Person)
			}
		}
	}
	return next
}

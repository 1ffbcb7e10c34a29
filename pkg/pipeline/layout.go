package pipeline

import (
	"strings"

	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/graph"
	"github.com/matzehuels/kintree/pkg/layout"
	"github.com/matzehuels/kintree/pkg/render/flow"
)

// =============================================================================
// Layout Generation
// =============================================================================

// ComputeLayout lays out snap from opts.Roots and returns the node/edge list.
// It is pure: identical input yields byte-identical JSON. Unknown roots are
// dropped; if none remain the error has code PERSON_NOT_FOUND.
func ComputeLayout(snap *family.Snapshot, opts Options) (graph.Layout, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return graph.Layout{}, err
	}
	idx, gens, err := buildGenerations(snap, opts)
	if err != nil {
		return graph.Layout{}, err
	}

	opts.Logger.Debug("layered tree", "generations", len(gens.Layers), "persons", gens.Count())

	pos := layout.CalculatePositions(gens, idx, opts.Layout)

	flowOpts := []flow.Option{flow.WithStyle(opts.Style)}
	if !opts.ShowDecorations {
		flowOpts = append(flowOpts, flow.WithoutDecorations())
	}
	return flow.Render(gens, pos, idx, opts.Layout, flowOpts...), nil
}

// buildGenerations indexes the flattened snap and layers it from opts.Roots.
func buildGenerations(snap *family.Snapshot, opts Options) (*family.Index, layout.Generations, error) {
	if len(opts.Roots) == 0 {
		return nil, layout.Generations{}, errors.New(errors.ErrCodeInvalidRoot, "no root person given")
	}
	if snap == nil {
		snap = &family.Snapshot{}
	}
	idx := family.NewIndex(snap.Flatten())

	var genOpts []layout.Option
	if opts.Generations > 0 {
		genOpts = append(genOpts, layout.WithMaxDepth(opts.Generations))
	}
	gens := layout.BuildForest(idx, opts.Roots, genOpts...)
	if gens.Empty() {
		return nil, layout.Generations{}, errors.New(errors.ErrCodePersonNotFound,
			"person not found: %s", strings.Join(opts.Roots, ", "))
	}
	return idx, gens, nil
}

// =============================================================================
// Generation Expansion
// =============================================================================

// Member is one person of a generation expansion.
type Member struct {
	family.Person
	Generation int `json:"generation"`
}

// Expand returns the persons of the first n generations below rootID,
// flattened in layer order. n of 0 means unlimited.
func Expand(snap *family.Snapshot, rootID string, n int) ([]Member, error) {
	if err := errors.ValidatePersonID(rootID); err != nil {
		return nil, err
	}
	if err := errors.ValidateGenerations(n); err != nil {
		return nil, err
	}
	_, gens, err := buildGenerations(snap, Options{Roots: []string{rootID}, Generations: n})
	if err != nil {
		return nil, err
	}

	members := make([]Member, 0, gens.Count())
	for g, layer := range gens.Layers {
		for _, p := range layer {
			members = append(members, Member{Person: *p, Generation: g})
		}
	}
	return members, nil
}

package layout

import (
	"math"
	"reflect"
	"slices"
	"testing"

	"github.com/matzehuels/kintree/pkg/family"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestCalculatePositionsScenario(t *testing.T) {
	idx := scenarioTree()
	gens := BuildGenerations(idx, "A")
	pos := CalculatePositions(gens, idx, DefaultConfig())

	want := map[string]float64{"A": 365, "C1": 90, "C2": 310}
	for id, x := range want {
		if !approx(pos.Person[id], x) {
			t.Errorf("Person[%s] = %g, want %g", id, pos.Person[id], x)
		}
	}

	if !approx(pos.Union["U1"], (pos.Person["C1"]+pos.Person["C2"])/2) {
		t.Errorf("Union[U1] = %g, want midpoint of C1 and C2", pos.Union["U1"])
	}
	if !approx(pos.Union["U2"], 530) {
		t.Errorf("Union[U2] = %g, want 530", pos.Union["U2"])
	}

	// Both anchors lie under A's span and A is centered between them.
	if !approx(pos.Person["A"], (pos.Union["U1"]+pos.Union["U2"])/2) {
		t.Errorf("Person[A] = %g, want midpoint of anchors", pos.Person["A"])
	}

	for _, tt := range []struct{ union, partner string }{{"U1", "X"}, {"U2", "Y"}} {
		id := SpouseNodeID(tt.union, tt.partner)
		x, ok := pos.ExternalSpouse[id]
		if !ok {
			t.Errorf("missing external spouse %s", id)
			continue
		}
		if !approx(x, pos.Union[tt.union]) {
			t.Errorf("ExternalSpouse[%s] = %g, want %g", id, x, pos.Union[tt.union])
		}
	}

	if pos.UnionOwner["U1"] != "A" || pos.ParentUnion["C1"] != "U1" {
		t.Errorf("ownership = %v / %v", pos.UnionOwner, pos.ParentUnion)
	}
	if !approx(pos.Width, 620) {
		t.Errorf("Width = %g, want 620", pos.Width)
	}
}

func TestCalculatePositionsLeaf(t *testing.T) {
	b := &treeBuilder{}
	b.person("solo", 1900)
	idx := b.index()
	cfg := DefaultConfig()

	pos := CalculatePositions(BuildGenerations(idx, "solo"), idx, cfg)
	if !approx(pos.Person["solo"], cfg.PersonWidth/2) {
		t.Errorf("Person[solo] = %g, want %g", pos.Person["solo"], cfg.PersonWidth/2)
	}
}

func TestCalculatePositionsPadsNarrowChild(t *testing.T) {
	// With one child per generation every person sits directly above its
	// child.
	idx := chain(3)
	cfg := DefaultConfig()
	pos := CalculatePositions(BuildGenerations(idx, "p0"), idx, cfg)

	for _, id := range []string{"p0", "p1", "p2"} {
		if !approx(pos.Person[id], cfg.PersonWidth/2) {
			t.Errorf("Person[%s] = %g, want %g", id, pos.Person[id], cfg.PersonWidth/2)
		}
	}
}

func TestCalculatePositionsNoOverlap(t *testing.T) {
	idx := wideTree()
	cfg := DefaultConfig()
	gens := BuildGenerations(idx, "root")
	pos := CalculatePositions(gens, idx, cfg)

	for g, layer := range gens.Layers {
		xs := make([]float64, 0, len(layer))
		for _, p := range layer {
			x, ok := pos.Person[p.ID]
			if !ok {
				t.Fatalf("%s has no position", p.ID)
			}
			xs = append(xs, x)
		}
		slices.Sort(xs)
		for i := 1; i < len(xs); i++ {
			if xs[i]-xs[i-1] < cfg.PersonWidth-1e-9 {
				t.Errorf("generation %d: nodes at %g and %g overlap", g, xs[i-1], xs[i])
			}
		}
	}

	// External spouses share a row; they must not overlap either.
	var spouses []float64
	for _, x := range pos.ExternalSpouse {
		spouses = append(spouses, x)
	}
	slices.Sort(spouses)
	for i := 1; i < len(spouses); i++ {
		if spouses[i]-spouses[i-1] < cfg.PersonWidth-1e-9 && !approx(spouses[i], spouses[i-1]) {
			t.Errorf("spouse nodes at %g and %g overlap", spouses[i-1], spouses[i])
		}
	}
}

func TestCalculatePositionsCentering(t *testing.T) {
	idx := wideTree()
	gens := BuildGenerations(idx, "root")
	pos := CalculatePositions(gens, idx, DefaultConfig())

	// Every union with placed children is centered over its outermost
	// children.
	for uid := range pos.Union {
		var xs []float64
		for _, c := range idx.ChildrenOf(uid) {
			if pos.ParentUnion[c.Person.ID] == uid {
				xs = append(xs, pos.Person[c.Person.ID])
			}
		}
		if len(xs) == 0 {
			continue
		}
		want := (xs[0] + xs[len(xs)-1]) / 2
		if !approx(pos.Union[uid], want) {
			t.Errorf("Union[%s] = %g, want %g", uid, pos.Union[uid], want)
		}
	}

	// Every person with unions is centered over its outermost anchors.
	for id, x := range pos.Person {
		var anchors []float64
		for _, u := range idx.UnionsOf(id) {
			if pos.UnionOwner[u.ID] == id {
				anchors = append(anchors, pos.Union[u.ID])
			}
		}
		if len(anchors) == 0 {
			continue
		}
		want := (anchors[0] + anchors[len(anchors)-1]) / 2
		if !approx(x, want) {
			t.Errorf("Person[%s] = %g, want %g", id, x, want)
		}
	}
}

func TestCalculatePositionsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	idx := wideTree()
	first := CalculatePositions(BuildGenerations(idx, "root"), idx, cfg)
	for i := 0; i < 5; i++ {
		idx := wideTree()
		got := CalculatePositions(BuildGenerations(idx, "root"), idx, cfg)
		if !reflect.DeepEqual(first, got) {
			t.Fatal("positions differ between runs")
		}
	}
}

func TestCalculatePositionsCycle(t *testing.T) {
	// Siblings s1 and s2 marry each other. Their children are laid out once,
	// under whichever of them claims the union first.
	b := &treeBuilder{}
	b.person("r", 1900).person("s1", 1925).person("s2", 1927).person("k1", 1950).person("k2", 1952)
	b.union("ur", "r", "", 0, "s1", "s2")
	b.union("us", "s1", "s2", 0, "k1", "k2", "r")

	idx := b.index()
	gens := BuildGenerations(idx, "r")
	pos := CalculatePositions(gens, idx, DefaultConfig())

	if len(pos.Person) != gens.Count() {
		t.Errorf("placed %d persons, want %d", len(pos.Person), gens.Count())
	}
	if pos.UnionOwner["us"] != "s1" {
		t.Errorf("UnionOwner[us] = %q, want s1", pos.UnionOwner["us"])
	}
	if len(pos.ExternalSpouse) != 0 {
		t.Errorf("ExternalSpouse = %v, want none", pos.ExternalSpouse)
	}
}

func TestCalculatePositionsCrossGenerationUnion(t *testing.T) {
	// n marries b, the sister of n's own parent a. The union belongs to b,
	// the earlier generation, and their child k sits one row below b.
	b := &treeBuilder{}
	b.person("r", 1900).person("a", 1920).person("b", 1922).person("n", 1945).person("k", 1970)
	b.union("ur", "r", "", 0, "a", "b")
	b.union("ua", "a", "", 0, "n")
	b.union("ux", "n", "b", 0, "k")

	idx := b.index()
	gens := BuildGenerations(idx, "r")
	pos := CalculatePositions(gens, idx, DefaultConfig())

	for id := range gens.Index {
		if _, ok := pos.Person[id]; !ok {
			t.Errorf("%s was not placed", id)
		}
	}
	if pos.UnionOwner["ux"] != "b" {
		t.Errorf("UnionOwner[ux] = %q, want b", pos.UnionOwner["ux"])
	}
	if pos.ParentUnion["k"] != "ux" {
		t.Errorf("ParentUnion[k] = %q, want ux", pos.ParentUnion["k"])
	}
	if d := math.Abs(pos.Person["k"] - pos.Person["n"]); d < DefaultPersonWidth {
		t.Errorf("k and n overlap: distance %g", d)
	}
}

func TestCalculatePositionsForest(t *testing.T) {
	b := &treeBuilder{}
	b.person("a", 1900).person("b", 1900)
	idx := b.index()
	cfg := DefaultConfig()

	pos := CalculatePositions(BuildForest(idx, []string{"a", "b"}), idx, cfg)
	gap := pos.Person["b"] - pos.Person["a"]
	if !approx(gap, cfg.PersonWidth+cfg.RootGap) {
		t.Errorf("root distance = %g, want %g", gap, cfg.PersonWidth+cfg.RootGap)
	}
}

func TestCalculatePositionsDeepChain(t *testing.T) {
	idx := chain(2000)
	gens := BuildGenerations(idx, "p0")
	pos := CalculatePositions(gens, idx, DefaultConfig())
	if len(pos.Person) != 2000 {
		t.Errorf("placed %d persons, want 2000", len(pos.Person))
	}
}

func TestCalculatePositionsEmpty(t *testing.T) {
	pos := CalculatePositions(Generations{}, family.NewIndex(nil), DefaultConfig())
	if len(pos.Person) != 0 || pos.Width != 0 {
		t.Errorf("expected empty positions, got %v", pos.Person)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.PersonWidth = 0 }},
		{"negative gap", func(c *Config) { c.HorizontalGap = -1 }},
		{"spouse row overflows", func(c *Config) { c.GenerationHeight = 100 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}

	if got := (Config{PersonWidth: 99}).WithDefaults(); got.PersonWidth != 99 || got.RootGap != DefaultRootGap {
		t.Errorf("WithDefaults() = %+v", got)
	}
}

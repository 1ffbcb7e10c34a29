package layout

import (
	"fmt"

	"github.com/matzehuels/kintree/pkg/family"
)

// treeBuilder assembles snapshots for tests.
type treeBuilder struct {
	s family.Snapshot
}

func (b *treeBuilder) person(id string, birthYear int) *treeBuilder {
	p := family.Person{ID: id, Name: id}
	if birthYear > 0 {
		d := family.NewDate(birthYear, 1, 1)
		p.Birth = &d
	}
	b.s.Persons = append(b.s.Persons, p)
	return b
}

func (b *treeBuilder) union(id, husband, wife string, husbandOrder int, children ...string) *treeBuilder {
	order := husbandOrder
	b.s.Unions = append(b.s.Unions, family.Union{
		ID:           id,
		Husband:      family.RefTo[family.Person](husband),
		Wife:         family.RefTo[family.Person](wife),
		HusbandOrder: &order,
	})
	for _, c := range children {
		b.s.Links = append(b.s.Links, family.ParentChildLink{
			Parent: family.RefTo[family.Union](id),
			Child:  family.RefTo[family.Person](c),
		})
	}
	return b
}

func (b *treeBuilder) index() *family.Index { return family.NewIndex(&b.s) }

// scenarioTree is A married to X (children C1, C2) and to Y (no children).
func scenarioTree() *family.Index {
	b := &treeBuilder{}
	b.person("A", 1890).person("X", 1892).person("Y", 1895).
		person("C2", 1922).person("C1", 1920).
		union("U1", "A", "X", 1, "C2", "C1").
		union("U2", "A", "Y", 1)
	return b.index()
}

// wideTree is a four generation tree with several marriages per person,
// married-in spouses and uneven subtree sizes.
func wideTree() *family.Index {
	b := &treeBuilder{}
	b.person("root", 1850).person("rootwife", 1852).person("rootwife2", 1860)
	b.union("r1", "root", "rootwife", 1, "a", "b", "c")
	b.union("r2", "root", "rootwife2", 2, "d")
	year := 1880
	for _, id := range []string{"a", "b", "c", "d"} {
		b.person(id, year)
		year++
	}
	b.person("aw", 1881).union("ua", "a", "aw", 1, "a1", "a2", "a3", "a4")
	b.person("bw", 1882).union("ub", "b", "bw", 1)
	b.person("dw", 1883).union("ud", "d", "dw", 1, "d1")
	for i, id := range []string{"a1", "a2", "a3", "a4", "d1"} {
		b.person(id, 1910+i)
	}
	b.person("a1w", 1911).union("ua1", "a1", "a1w", 1, "a1x", "a1y")
	b.person("d1w", 1915).union("ud1", "d1", "d1w", 1, "d1x")
	b.person("d1w2", 1916).union("ud2", "d1", "d1w2", 2, "d1y", "d1z")
	for i, id := range []string{"a1x", "a1y", "d1x", "d1y", "d1z"} {
		b.person(id, 1940+i)
	}
	return b.index()
}

// chain returns a single line of descent of the given length: p0 -> p1 -> ...
func chain(n int) *family.Index {
	b := &treeBuilder{}
	for i := 0; i < n; i++ {
		b.person(fmt.Sprintf("p%d", i), 1800+i*25)
	}
	for i := 0; i+1 < n; i++ {
		b.union(fmt.Sprintf("u%d", i), fmt.Sprintf("p%d", i), "", 0, fmt.Sprintf("p%d", i+1))
	}
	return b.index()
}

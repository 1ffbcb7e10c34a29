package family

import (
	"testing"
)

func date(s string) *Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func intp(v int) *int { return &v }

func TestNewIndex(t *testing.T) {
	s := &Snapshot{
		Persons: []Person{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "a", Name: "duplicate"}, {Name: "no id"}},
		Unions: []Union{
			{ID: "u1", Husband: RefTo[Person]("a"), Wife: RefTo[Person]("b")},
			{ID: "u2", Husband: RefTo[Person]("a"), Wife: RefTo[Person]("a")},
			{ID: "u3", Husband: RefTo[Person]("ghost")},
		},
		Links: []ParentChildLink{
			{ID: "l1", Parent: RefTo[Union]("u1"), Child: RefTo[Person]("c")},
			{ID: "l2", Parent: RefTo[Union]("missing"), Child: RefTo[Person]("c")},
			{ID: "l3", Child: RefTo[Person]("c")},
		},
	}

	idx := NewIndex(s)

	if len(idx.Persons) != 3 {
		t.Errorf("Persons = %d, want 3", len(idx.Persons))
	}
	if idx.Persons["a"].Name != "" {
		t.Error("first occurrence of a duplicate id should win")
	}
	if got := len(idx.Unions["a"]); got != 2 {
		t.Errorf("Unions[a] = %d, want 2 (self-union listed once)", got)
	}
	if got := len(idx.Unions["b"]); got != 1 {
		t.Errorf("Unions[b] = %d, want 1", got)
	}
	if got := len(idx.Unions["ghost"]); got != 1 {
		t.Errorf("Unions[ghost] = %d, want 1", got)
	}
	if got := len(idx.Children["u1"]); got != 1 {
		t.Errorf("Children[u1] = %d, want 1", got)
	}
	if got := len(idx.Children["missing"]); got != 1 {
		t.Errorf("Children[missing] = %d, want 1", got)
	}
	if _, ok := idx.Children[""]; ok {
		t.Error("links without a parent should not be indexed")
	}
}

func TestNewIndexNil(t *testing.T) {
	idx := NewIndex(nil)
	if idx.Persons == nil || idx.Unions == nil || idx.Children == nil || idx.UnionByID == nil {
		t.Error("NewIndex(nil) should return initialised maps")
	}
}

func TestChildrenOf(t *testing.T) {
	s := &Snapshot{
		Persons: []Person{
			{ID: "c1", Birth: date("1922")},
			{ID: "c2", Birth: date("1920")},
		},
		Unions: []Union{{ID: "u1", Husband: RefTo[Person]("a"), Wife: RefTo[Person]("b")}},
		Links: []ParentChildLink{
			{Parent: RefTo[Union]("u1"), Child: RefTo[Person]("c1")},
			{Parent: RefTo[Union]("u1"), Child: RefTo[Person]("dangling")},
			{Parent: RefTo[Union]("u1"), Child: RefTo[Person]("c2"), IsAdopted: true},
			{Parent: RefTo[Union]("u1"), Child: RefTo[Person]("c2")},
		},
	}

	children := NewIndex(s).ChildrenOf("u1")
	if len(children) != 2 {
		t.Fatalf("ChildrenOf = %d, want 2", len(children))
	}
	if children[0].Person.ID != "c2" || children[1].Person.ID != "c1" {
		t.Errorf("order = [%s %s], want [c2 c1]", children[0].Person.ID, children[1].Person.ID)
	}
	if !children[0].Link.IsAdopted {
		t.Error("first link for a child should be kept")
	}
}

func TestPartnerOf(t *testing.T) {
	s := &Snapshot{
		Persons: []Person{{ID: "a"}, {ID: "b"}},
		Unions: []Union{
			{ID: "u1", Husband: RefTo[Person]("a"), Wife: RefTo[Person]("b")},
			{ID: "u2", Husband: RefTo[Person]("a")},
			{ID: "u3", Husband: RefTo[Person]("a"), Wife: Resolved(Person{ID: "x", Name: "External"})},
		},
	}
	idx := NewIndex(s)

	if p, ok := idx.PartnerOf(idx.UnionByID["u1"], "a"); !ok || p.ID != "b" {
		t.Errorf("PartnerOf(u1, a) = %v, %v, want b", p, ok)
	}
	if _, ok := idx.PartnerOf(idx.UnionByID["u2"], "a"); ok {
		t.Error("PartnerOf(u2, a) should report no partner")
	}
	if p, ok := idx.PartnerOf(idx.UnionByID["u3"], "a"); !ok || p.Name != "External" {
		t.Errorf("PartnerOf(u3, a) = %v, %v, want embedded partner", p, ok)
	}
}

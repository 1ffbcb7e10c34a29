package family

import (
	"reflect"
	"testing"
)

func TestSnapshotFlatten(t *testing.T) {
	s := &Snapshot{
		Roots:   []string{"a"},
		Persons: []Person{{ID: "a", Name: "Ada"}},
		Unions: []Union{
			{ID: "u1", Husband: RefTo[Person]("a"), Wife: Resolved(Person{ID: "s", Name: "Sue"})},
		},
		Links: []ParentChildLink{
			{ID: "l1", Parent: RefTo[Union]("u1"), Child: Resolved(Person{ID: "k", Name: "Kit"})},
			{ID: "l2", Parent: RefTo[Union]("u1"), Child: Resolved(Person{ID: "a", Name: "stale copy"})},
			{ID: "l3", Parent: Resolved(Union{
				ID:      "u2",
				Husband: Resolved(Person{ID: "k", Name: "Kit again"}),
				Wife:    Resolved(Person{ID: "m", Name: "Mo"}),
			}), Child: Resolved(Person{Name: "no id"})},
		},
	}

	flat := s.Flatten()

	var ids []string
	for _, p := range flat.Persons {
		ids = append(ids, p.ID)
	}
	if want := []string{"a", "s", "k", "m"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("persons = %v, want %v", ids, want)
	}
	if flat.Persons[0].Name != "Ada" || flat.Persons[2].Name != "Kit" {
		t.Error("listed and first-seen records should win over later copies")
	}
	if len(flat.Unions) != 2 || flat.Unions[1].ID != "u2" {
		t.Errorf("unions = %+v", flat.Unions)
	}
	if !reflect.DeepEqual(flat.Roots, []string{"a"}) {
		t.Errorf("roots = %v", flat.Roots)
	}
	if len(s.Persons) != 1 || len(s.Unions) != 1 {
		t.Error("Flatten must not modify the receiver")
	}
	if again := flat.Flatten(); again != flat {
		t.Error("a flat snapshot should be returned as is")
	}
}

func TestSnapshotFlattenNil(t *testing.T) {
	var s *Snapshot
	if s.Flatten() != nil {
		t.Error("nil snapshot should flatten to nil")
	}
}

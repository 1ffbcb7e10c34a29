package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/kintree/pkg/errors"
)

const sampleTree = `{
  "roots": ["a"],
  "persons": [
    {"id": "a", "name": "Arthur", "gender": "MALE", "birth": "1890"},
    {"id": "c", "name": "Cora", "birth": "1920-05-01"}
  ],
  "unions": [
    {"id": "u1", "husband": "a", "wife": {"id": "x", "name": "Xena"}, "husbandOrder": 1}
  ],
  "links": [
    {"parent": "u1", "child": "c", "isAdopted": true}
  ]
}`

func TestReadTree(t *testing.T) {
	tree, err := ReadTree(strings.NewReader(sampleTree))
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}

	if len(tree.Persons) != 2 || len(tree.Unions) != 1 || len(tree.Links) != 1 {
		t.Fatalf("counts = %d/%d/%d, want 2/1/1", len(tree.Persons), len(tree.Unions), len(tree.Links))
	}
	if tree.Roots[0] != "a" {
		t.Errorf("Roots = %v, want [a]", tree.Roots)
	}
	if got := tree.Unions[0].Wife.ID(); got != "x" {
		t.Errorf("wife id = %q, want x", got)
	}
	if !tree.Links[0].IsAdopted {
		t.Error("IsAdopted = false, want true")
	}
}

func TestReadTreeInvalid(t *testing.T) {
	_, err := ReadTree(strings.NewReader(`{"persons": [`))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestReadTreeFileMissing(t *testing.T) {
	_, err := ReadTreeFile(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestTreeSnapshot(t *testing.T) {
	tree, err := UnmarshalTree([]byte(sampleTree))
	if err != nil {
		t.Fatalf("UnmarshalTree: %v", err)
	}

	snap, err := tree.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Links[0].ID == "" {
		t.Error("link id should be assigned")
	}
	if tree.Links[0].ID != "" {
		t.Error("Snapshot modified the tree")
	}
}

func TestTreeSnapshotRejectsDuplicates(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"duplicate person", `{"persons":[{"id":"a"},{"id":"a"}]}`},
		{"person without id", `{"persons":[{"name":"anon"}]}`},
		{"duplicate union", `{"persons":[{"id":"a"}],"unions":[{"id":"u","husband":"a"},{"id":"u","wife":"a"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := UnmarshalTree([]byte(tt.input))
			if err != nil {
				t.Fatalf("UnmarshalTree: %v", err)
			}
			if _, err := tree.Snapshot(); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Snapshot() err = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestTreeFileRoundTrip(t *testing.T) {
	tree, err := UnmarshalTree([]byte(sampleTree))
	if err != nil {
		t.Fatalf("UnmarshalTree: %v", err)
	}

	path := filepath.Join(t.TempDir(), "tree.json")
	if err := WriteTreeFile(tree, path); err != nil {
		t.Fatalf("WriteTreeFile: %v", err)
	}
	back, err := ReadTreeFile(path)
	if err != nil {
		t.Fatalf("ReadTreeFile: %v", err)
	}

	// Embedded references are written as ids.
	if back.Unions[0].Wife.ID() != "x" {
		t.Errorf("wife id = %q, want x", back.Unions[0].Wife.ID())
	}
	if _, ok := back.Unions[0].Wife.Embedded(); ok {
		t.Error("round-tripped reference should be an id")
	}
	if back.Persons[1].Birth.String() != "1920-05-01" {
		t.Errorf("birth = %s, want 1920-05-01", back.Persons[1].Birth)
	}
}

func testLayout() Layout {
	return Layout{
		Roots:       []string{"a"},
		Generations: [][]string{{"a"}},
		Nodes: []Node{
			{ID: "a", Type: NodeTypePerson, Width: 180, Height: 80},
			{ID: "relationship-u1", Type: NodeTypeRelationship, Width: 24, Height: 24},
		},
		Edges: []Edge{{
			ID:           EdgeID("a", "relationship-u1"),
			Source:       "a",
			Target:       "relationship-u1",
			SourceHandle: HandleBottom,
			TargetHandle: HandleTop,
			Type:         EdgeTypeSmoothstep,
			Data:         EdgeData{Kind: EdgeKindPartner},
		}},
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	l := testLayout()
	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatalf("MarshalLayout: %v", err)
	}

	back, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	again, _ := MarshalLayout(back)
	if !bytes.Equal(data, again) {
		t.Error("layout JSON is not stable across a round trip")
	}

	if !strings.Contains(string(data), `"sourceHandle": "bottom"`) {
		t.Errorf("expected sourceHandle in output:\n%s", data)
	}
}

func TestLayoutValidate(t *testing.T) {
	l := testLayout()
	l.Edges[0].Target = "ghost"
	if err := l.Validate(); err == nil {
		t.Error("expected error for edge to unknown node")
	}

	l = testLayout()
	l.Nodes = append(l.Nodes, l.Nodes[0])
	if err := l.Validate(); err == nil {
		t.Error("expected error for duplicate node id")
	}
}

func TestLayoutFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(testLayout(), path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Stat: %v", err)
	}
	l, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if n, ok := l.Node("a"); !ok || n.CenterX() != 90 {
		t.Errorf("Node(a) = %v, %v", n, ok)
	}
	if l.PersonCount() != 1 {
		t.Errorf("PersonCount() = %d, want 1", l.PersonCount())
	}
}

func TestFromSnapshotKeepsEmbeddedRecords(t *testing.T) {
	tree, err := ReadTree(strings.NewReader(sampleTree))
	if err != nil {
		t.Fatal(err)
	}
	snap, err := tree.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Roots) != 1 || snap.Roots[0] != "a" {
		t.Errorf("snapshot roots = %v, want [a]", snap.Roots)
	}

	data, err := MarshalTree(FromSnapshot(snap))
	if err != nil {
		t.Fatal(err)
	}
	back, err := UnmarshalTree(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Persons) != 3 {
		t.Fatalf("persons = %d, want 3 (embedded wife listed)", len(back.Persons))
	}
	if back.Persons[2].ID != "x" || back.Persons[2].Name != "Xena" {
		t.Errorf("embedded wife = %+v", back.Persons[2])
	}
	if len(back.Roots) != 1 || back.Roots[0] != "a" {
		t.Errorf("roots = %v, want [a]", back.Roots)
	}
}

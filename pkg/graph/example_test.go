package graph_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/kintree/pkg/graph"
)

func ExampleReadTree() {
	tree, _ := graph.ReadTree(strings.NewReader(`{
		"persons": [{"id": "a", "name": "Arthur"}, {"id": "c", "name": "Cora"}],
		"unions":  [{"id": "u1", "husband": "a", "wife": {"id": "x", "name": "Xena"}}],
		"links":   [{"parent": "u1", "child": "c"}]
	}`))

	snap, err := tree.Snapshot()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	persons, unions, links := snap.Counts()
	fmt.Println("Persons:", persons)
	fmt.Println("Unions:", unions)
	fmt.Println("Links:", links)
	fmt.Println("Wife:", snap.Unions[0].Wife.ID())
	// Output:
	// Persons: 2
	// Unions: 1
	// Links: 1
	// Wife: x
}

func ExampleEdgeID() {
	fmt.Println(graph.EdgeID("a", "relationship-u1"))
	// Output: edge-a-relationship-u1
}

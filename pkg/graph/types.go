package graph

import (
	"github.com/matzehuels/kintree/pkg/family"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Visual styles for rendering.
const (
	StyleSimple   = "simple"
	StyleDetailed = "detailed"
)

// Visualization types. A flow drawing follows the computed layout exactly;
// a nodelink drawing lets Graphviz place the same family graph.
const (
	VizTypeFlow     = "flow"
	VizTypeNodelink = "nodelink"
)

// Node types understood by the node-graph renderer.
const (
	NodeTypePerson       = "person"
	NodeTypeRelationship = "relationship"
	NodeTypeDecoration   = "decoration"
)

// Decoration kinds.
const (
	DecorationBox   = "generation-box"
	DecorationLabel = "generation-label"
)

// Edge kinds, stored in Edge.Data.Kind.
const (
	EdgeKindPartner = "partner" // person → relationship
	EdgeKindSpouse  = "spouse"  // relationship → spouse
	EdgeKindChild   = "child"   // spouse side → child
)

// Edge anchors and routing.
const (
	HandleBottom       = "bottom"
	HandleTop          = "top"
	EdgeTypeSmoothstep = "smoothstep"
)

// =============================================================================
// Tree - Family Snapshot Serialization
// =============================================================================

// Tree is the canonical serialization format for family data.
//
// Roots optionally names the persons a layout starts from when the caller
// does not choose one.
type Tree struct {
	Roots   []string                 `json:"roots,omitempty"`
	Persons []family.Person          `json:"persons"`
	Unions  []family.Union           `json:"unions"`
	Links   []family.ParentChildLink `json:"links"`
}

// =============================================================================
// Layout - Node-Graph Serialization
// =============================================================================

// Layout is the output of a layout pass: a list of positioned nodes and edges
// with string ids, pixel coordinates and handle anchors.
type Layout struct {
	Roots       []string   `json:"roots" bson:"roots"`
	Style       string     `json:"style,omitempty" bson:"style,omitempty"`
	Width       float64    `json:"width" bson:"width"`
	Height      float64    `json:"height" bson:"height"`
	Generations [][]string `json:"generations" bson:"generations"`
	Nodes       []Node     `json:"nodes" bson:"nodes"`
	Edges       []Edge     `json:"edges" bson:"edges"`
}

// Position is the top-left corner of a node.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Node is a positioned element.
type Node struct {
	ID         string   `json:"id" bson:"id"`
	Type       string   `json:"type" bson:"type"`
	Position   Position `json:"position" bson:"position"`
	Width      float64  `json:"width" bson:"width"`
	Height     float64  `json:"height" bson:"height"`
	Draggable  *bool    `json:"draggable,omitempty" bson:"draggable,omitempty"`
	Selectable *bool    `json:"selectable,omitempty" bson:"selectable,omitempty"`
	ZIndex     int      `json:"zIndex,omitempty" bson:"zIndex,omitempty"`
	Data       NodeData `json:"data" bson:"data"`
}

// IsPerson reports whether the node is a person card, external or not.
func (n *Node) IsPerson() bool { return n.Type == NodeTypePerson }

// IsRelationship reports whether the node marks a union.
func (n *Node) IsRelationship() bool { return n.Type == NodeTypeRelationship }

// IsDecoration reports whether the node is a generation box or label.
func (n *Node) IsDecoration() bool { return n.Type == NodeTypeDecoration }

// CenterX returns the horizontal center of the node.
func (n *Node) CenterX() float64 { return n.Position.X + n.Width/2 }

// NodeData carries the payload a renderer draws inside a node.
type NodeData struct {
	Label      string `json:"label,omitempty" bson:"label,omitempty"`
	Generation int    `json:"generation" bson:"generation"`

	// Person nodes
	PersonID    string `json:"personId,omitempty" bson:"personId,omitempty"`
	Gender      string `json:"gender,omitempty" bson:"gender,omitempty"`
	Birth       string `json:"birth,omitempty" bson:"birth,omitempty"`
	Death       string `json:"death,omitempty" bson:"death,omitempty"`
	Deceased    bool   `json:"deceased,omitempty" bson:"deceased,omitempty"`
	Address     string `json:"address,omitempty" bson:"address,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty" bson:"avatarUrl,omitempty"`
	External    bool   `json:"external,omitempty" bson:"external,omitempty"`

	// Relationship nodes
	UnionID      string `json:"unionId,omitempty" bson:"unionId,omitempty"`
	MarriageDate string `json:"marriageDate,omitempty" bson:"marriageDate,omitempty"`
	DivorceDate  string `json:"divorceDate,omitempty" bson:"divorceDate,omitempty"`
	Divorced     bool   `json:"divorced,omitempty" bson:"divorced,omitempty"`

	// Decoration nodes
	Kind string `json:"kind,omitempty" bson:"kind,omitempty"`
}

// Edge connects two nodes from the source's bottom handle to the target's top
// handle.
type Edge struct {
	ID           string    `json:"id" bson:"id"`
	Source       string    `json:"source" bson:"source"`
	Target       string    `json:"target" bson:"target"`
	SourceHandle string    `json:"sourceHandle" bson:"sourceHandle"`
	TargetHandle string    `json:"targetHandle" bson:"targetHandle"`
	Type         string    `json:"type" bson:"type"`
	Style        EdgeStyle `json:"style" bson:"style"`
	Data         EdgeData  `json:"data" bson:"data"`
}

// EdgeStyle is the stroke of an edge.
type EdgeStyle struct {
	Stroke          string  `json:"stroke" bson:"stroke"`
	StrokeWidth     float64 `json:"strokeWidth" bson:"strokeWidth"`
	StrokeDasharray string  `json:"strokeDasharray,omitempty" bson:"strokeDasharray,omitempty"`
}

// EdgeData classifies an edge.
type EdgeData struct {
	Kind    string `json:"kind" bson:"kind"`
	Adopted bool   `json:"adopted,omitempty" bson:"adopted,omitempty"`
}

// EdgeID returns the canonical id of the edge from source to target.
func EdgeID(source, target string) string { return "edge-" + source + "-" + target }

// Bool returns a pointer to b, for the optional node flags.
func Bool(b bool) *bool { return &b }

// Node returns the node with the given id.
func (l *Layout) Node(id string) (*Node, bool) {
	for i := range l.Nodes {
		if l.Nodes[i].ID == id {
			return &l.Nodes[i], true
		}
	}
	return nil, false
}

// PersonCount returns the number of person nodes, external spouses included.
func (l *Layout) PersonCount() int {
	n := 0
	for i := range l.Nodes {
		if l.Nodes[i].IsPerson() {
			n++
		}
	}
	return n
}

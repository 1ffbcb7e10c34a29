// Package layout computes deterministic family-tree layouts.
//
// # Overview
//
// A layout pass has two stages, each a pure function of its inputs:
//
//  1. [BuildGenerations] layers the tree breadth-first from a root person.
//     Generation 0 is the root, generation n+1 holds the children of
//     generation n. Spouses are never layered unless they are also someone's
//     child.
//  2. [CalculatePositions] assigns every layered person, every union it owns
//     and every external spouse an X center using a recursive block layout:
//     a bottom-up pass measures subtree widths and a top-down pass places
//     each block at its accumulated offset.
//
// The Y coordinate is not stored: it is always generation * GenerationHeight
// plus a per-node-kind offset from [Config], applied by the renderer.
//
// # Blocks
//
// Each person owns a block made of its union blocks placed left to right.
// Each union block holds that union's children left to right, separated by
// HorizontalGap, and its anchor (the X of the relationship node) is the
// midpoint of the first and last child centers. The person is centered over
// the midpoint of its first and last anchors. Blocks are padded so that a
// PersonWidth node centered on any anchor or person center always fits
// inside the block, which keeps sibling subtrees from overlapping.
//
// # Cycles
//
// Real genealogies contain cycles (cousin marriages, pedigree collapse). Both
// stages keep a visited set so that every person is laid out exactly once, at
// its first discovery. A union is laid out once, under whichever spouse
// reaches it first.
//
// # Forests
//
// [BuildForest] layers several roots at once. Their blocks are placed left to
// right separated by RootGap.
package layout

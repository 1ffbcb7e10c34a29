// Package flow turns computed positions into the node and edge list consumed
// by a node-graph renderer.
//
// # Nodes
//
// [Render] emits, in this order:
//
//   - Two decoration nodes per generation row: a background box spanning
//     every person card and a "Generation N" label. Both are neither
//     draggable nor selectable.
//   - For each layered person, in generation order: its person card, then
//     for each union laid out under it a relationship node and, when the
//     partner is not part of the layered tree, a synthetic external spouse
//     card with data.external set.
//
// Positions are top-left corners. A person in generation g sits at
// y = g * GenerationHeight; relationship and spouse nodes are shifted down
// by RelationshipOffsetY and SpouseOffsetY.
//
// # Edges
//
// Every edge leaves its source's bottom handle, enters its target's top
// handle and is routed as a smoothstep:
//
//	person       → relationship   (partner)
//	relationship → spouse         (external spouse card or the partner's own card)
//	spouse side  → child          (external spouse card if any, else the relationship)
//
// Adopted children are drawn dashed and divorced unions dotted.
//
// # Determinism
//
// Output order depends only on the input order and the ordering rules of
// pkg/family, so two invocations on the same data marshal to identical JSON.
package flow

// Package family provides the genealogy data model consumed by the layout engine.
//
// # Overview
//
// A family tree is stored as three flat record sets: [Person] vertices,
// [Union] records pairing two persons (a marriage or partnership), and
// [ParentChildLink] records attaching a child to the union that parents it.
// There is no single-parent link: a child is only reachable through a union,
// so an unmarried parent cannot anchor a child.
//
// A [Snapshot] holds one consistent copy of all three sets. The layout engine
// treats a snapshot as read-only for the duration of a pass.
//
// # References
//
// Reference fields (a union's husband and wife, a link's parent and child) are
// modelled as [Ref], a tagged union that holds either a bare identifier or a
// resolved value. JSON input may carry either form:
//
//	{"husband": "p1"}
//	{"husband": {"id": "p1", "name": "Arthur"}}
//
// Always read identifiers through [Ref.ID] and values through [Ref.Resolve].
//
// # Indexing
//
// [NewIndex] builds the lookup maps used by every later stage: person by id,
// unions by person id, union by id, and child links by union id. Dangling
// references are never an error; they are simply absent from the maps.
//
// # Ordering
//
// [SortUnions] orders the unions of one person by that person's order key and
// then by marriage date. [SortByBirth] orders siblings by birth date. Records
// without a date keep their input slots in both cases, so the result is always
// deterministic even for incomplete data.
//
// # Concurrency
//
// Snapshots and indices are immutable after construction and safe for
// concurrent reads.
package family

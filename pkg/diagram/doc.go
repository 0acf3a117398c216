// Package diagram implements the interactive neural-network diagram engine.
//
// The engine is built from four pieces, leaf first:
//
//   - [Topology]: an immutable per-archetype template of named nodes (initial
//     local position plus visual role) and directed edges. [LayoutFor] maps an
//     [Archetype] to its shared template and falls back to [FeedForward] for
//     anything it does not recognise.
//   - [Dragger] and [DraggableNode]: the pointer-capture table. A press
//     registers pointer id → (node, grab offset), moves consult it, release
//     deletes it. Nodes report positions upward and never own them.
//   - [Instance]: the live position state for one (method, combination)
//     pair, seeded by deep-copying a Topology. Edges are always computed from
//     live positions.
//   - [Set]: one Instance per combination of the selected method.
//     [Set.Reseed] discards every instance and rebuilds from pristine
//     templates, so dragged positions never carry over between methods.
//
// # Coordinates
//
// All positions are in the diagram's local space, a fixed 360×170 viewport.
// Pointer events carry device coordinates and a [geom.TransformProvider] for
// the surface they were observed on; the engine maps them per event.
//
// # Concurrency
//
// The engine is single-threaded: every method runs synchronously inside an
// event handler and nothing here takes a lock. Callers that receive events
// concurrently (the HTTP server) serialise access per Set. Topologies are
// read-only and shared freely.
package diagram

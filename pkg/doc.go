// Package pkg provides the core libraries for mlviz, an interactive
// neural-network diagram engine for a machine-learning methods dashboard.
//
// # Overview
//
// A method catalogue describes machine-learning methods and, per method, a
// list of activation combinations. Selecting a method seeds one draggable
// network diagram per combination from a fixed topology template, and each
// diagram is paired with a canned result chart. The pkg directory is
// organized into four areas:
//
//  1. Domain: [catalogue], [diagram], [geom], [charts]
//  2. Output: [export] (Graphviz DOT, SVG, PNG and JSON)
//  3. State: [session], [cache]
//  4. Ambient: [config], [errors], [observability], [buildinfo]
//
// # Architecture
//
// The typical data flow through mlviz:
//
//	catalogue (embedded YAML, file or MongoDB)
//	         ↓
//	    [catalogue.Select] (toggle selection)
//	         ↓
//	    [diagram.Set.Reseed] (one Instance per combination)
//	         ↓
//	    pointer events → [diagram.Instance] (live positions)
//	         ↓
//	    SVG / DOT / PNG / JSON
//
// # Quick Start
//
// Seed the diagrams for a method and drag a node:
//
//	cat := catalogue.MustEmbedded()
//	set := diagram.NewSet(nil, charts.Supplier)
//	set.Reseed(catalogue.Resolve(cat, "regression"))
//
//	in := set.Instances()[0]
//	in.PointerDown(diagram.PointerEvent{PointerID: 1, Client: geom.Point{X: 180, Y: 80}}, "H2")
//	in.PointerMove(diagram.PointerEvent{PointerID: 1, Client: geom.Point{X: 200, Y: 70}})
//	in.PointerUp(diagram.PointerEvent{PointerID: 1})
//
//	svg := in.SVG()
//
// # Main Packages
//
// [diagram] - Topology templates, the pointer-capture Dragger, per-diagram
// Instances holding live node positions, and the Set rebuilt on every
// selection.
//
// [geom] - 2D affine matrices and the device-to-local coordinate mapping used
// while dragging on a scaled surface.
//
// [catalogue] - Method records, table columns and colour key, with embedded,
// file and MongoDB sources.
//
// [charts] - The auxiliary result charts shown next to each diagram, with a
// cache-backed panel supplier.
//
// [export] - Graphviz DOT conversion and neato rendering at fixed node
// positions, plus JSON snapshots.
//
// [session] - Per-visitor dashboard state for the HTTP server.
//
// [cache] - Artifact cache with file, Redis and null backends.
//
// # Testing
//
// Run tests:
//
//	go test ./...                        # All tests
//	go test -short ./...                 # Skip Graphviz rendering
//	MLVIZ_TEST_REDIS=localhost:6379 go test ./pkg/cache
package pkg

// Package export converts live diagram instances into portable artifacts.
//
// [ToDOT] writes Graphviz DOT source with every node pinned at its current
// position, so the picture matches what the user dragged. [Render] runs that
// source through the neato engine of [github.com/goccy/go-graphviz] to
// produce SVG or PNG without an external Graphviz install. [JSON] captures the
// same state as a layout snapshot.
package export

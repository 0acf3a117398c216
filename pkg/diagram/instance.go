package diagram

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/mlviz/pkg/catalogue"
	"github.com/matzehuels/mlviz/pkg/geom"
)

// Panel is an opaque auxiliary visual rendered next to a diagram.
type Panel = io.WriterTo

// Key identifies a diagram instance: a method and a combination index.
type Key struct {
	MethodID string `json:"methodId"`
	Index    int    `json:"index"`
}

// String returns "<method>-<index>".
func (k Key) String() string { return fmt.Sprintf("%s-%d", k.MethodID, k.Index) }

// ParseKey parses the string form produced by [Key.String].
func ParseKey(s string) (Key, bool) {
	i := strings.LastIndexByte(s, '-')
	if i <= 0 {
		return Key{}, false
	}
	n, err := strconv.Atoi(s[i+1:])
	if err != nil || n < 0 {
		return Key{}, false
	}
	return Key{MethodID: s[:i], Index: n}, true
}

// Phase is the lifecycle phase of an instance.
type Phase int

// Instance phases.
const (
	PhaseSeeded Phase = iota
	PhaseInteractive
	PhaseTornDown
)

func (p Phase) String() string {
	switch p {
	case PhaseSeeded:
		return "seeded"
	case PhaseInteractive:
		return "interactive"
	case PhaseTornDown:
		return "torn-down"
	}
	return "unknown"
}

// EdgeSegment is an edge resolved against live positions.
type EdgeSegment struct {
	Edge
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Caption is a resolved column label.
type Caption struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Instance owns the live position state of one diagram.
type Instance struct {
	key   Key
	topo  *Topology
	combo catalogue.Combination
	panel Panel

	state map[NodeID]geom.Point
	drag  *Dragger
	nodes map[NodeID]*DraggableNode
	phase Phase
}

// NewInstance seeds an instance from a pristine copy of topo's positions.
func NewInstance(key Key, topo *Topology, combo catalogue.Combination, panel Panel) *Instance {
	if topo == nil {
		topo = LayoutFor(DefaultArchetype)
	}
	in := &Instance{
		key:   key,
		topo:  topo,
		combo: combo,
		panel: panel,
		state: topo.Seed(),
		drag:  NewDragger(),
		nodes: make(map[NodeID]*DraggableNode, topo.NodeCount()),
	}
	for _, n := range topo.nodes {
		in.nodes[n.ID] = newDraggableNode(n, in.drag, in.MoveNode)
	}
	return in
}

// Key returns the instance key.
func (in *Instance) Key() Key { return in.key }

// Topology returns the template the instance was seeded from.
func (in *Instance) Topology() *Topology { return in.topo }

// Combination returns the combination rendered by this instance.
func (in *Instance) Combination() catalogue.Combination { return in.combo }

// Panel returns the auxiliary panel, or nil.
func (in *Instance) Panel() Panel { return in.panel }

// Phase returns the lifecycle phase.
func (in *Instance) Phase() Phase { return in.phase }

// Dragging reports the number of active pointer captures.
func (in *Instance) Dragging() int {
	if in.drag == nil {
		return 0
	}
	return in.drag.Len()
}

// =============================================================================
// Pointer lifecycle
// =============================================================================

// PointerDown starts dragging node id with ev's pointer.
func (in *Instance) PointerDown(ev PointerEvent, id NodeID) bool {
	if in.phase == PhaseTornDown {
		return false
	}
	n, ok := in.nodes[id]
	if !ok {
		return false
	}
	return n.OnDragStart(ev, in.state[id])
}

// PointerMove moves whichever node ev's pointer has captured.
func (in *Instance) PointerMove(ev PointerEvent) bool {
	if in.phase == PhaseTornDown {
		return false
	}
	id, ok := in.drag.Active(ev.PointerID)
	if !ok {
		return false
	}
	return in.nodes[id].OnDragMove(ev)
}

// PointerUp ends ev's pointer capture.
func (in *Instance) PointerUp(ev PointerEvent) bool {
	return in.LostCapture(ev.PointerID)
}

// LostCapture ends pid's capture without a final move.
func (in *Instance) LostCapture(pid PointerID) bool {
	if in.phase == PhaseTornDown {
		return false
	}
	id, ok := in.drag.Active(pid)
	if !ok {
		return false
	}
	return in.nodes[id].OnDragEnd(pid)
}

// MoveNode sets the position of id and nothing else. Unknown ids are
// refused so the state always has exactly the topology's keys.
func (in *Instance) MoveNode(id NodeID, p geom.Point) bool {
	if in.phase == PhaseTornDown {
		return false
	}
	if _, ok := in.state[id]; !ok {
		return false
	}
	in.state[id] = p
	in.phase = PhaseInteractive
	return true
}

// Teardown discards the state. Every later call is a no-op.
func (in *Instance) Teardown() {
	if in.phase == PhaseTornDown {
		return
	}
	in.phase = PhaseTornDown
	in.drag.Reset()
	in.state = nil
	in.panel = nil
}

// =============================================================================
// Accessors
// =============================================================================

// Positions returns a copy of the live positions.
func (in *Instance) Positions() map[NodeID]geom.Point {
	out := make(map[NodeID]geom.Point, len(in.state))
	for id, p := range in.state {
		out[id] = p
	}
	return out
}

// Position returns the live position of id.
func (in *Instance) Position(id NodeID) (geom.Point, bool) {
	p, ok := in.state[id]
	return p, ok
}

// Nodes returns the nodes in template order with live positions.
func (in *Instance) Nodes() []Node {
	if in.phase == PhaseTornDown {
		return nil
	}
	out := make([]Node, len(in.topo.nodes))
	for i, n := range in.topo.nodes {
		n.Position = in.state[n.ID]
		out[i] = n
	}
	return out
}

// Edges returns the edges resolved against live positions.
func (in *Instance) Edges() []EdgeSegment {
	if in.phase == PhaseTornDown {
		return nil
	}
	out := make([]EdgeSegment, len(in.topo.edges))
	for i, e := range in.topo.edges {
		from, to := in.state[e.From], in.state[e.To]
		out[i] = EdgeSegment{Edge: e, X1: from.X, Y1: from.Y, X2: to.X, Y2: to.Y}
	}
	return out
}

// Captions returns the column labels, with hidden and output captions
// suffixed by the combination's activations.
func (in *Instance) Captions() []Caption {
	out := make([]Caption, len(in.topo.captions))
	for i, c := range in.topo.captions {
		text := c.text
		switch {
		case c.kind == captionHidden && in.combo.Hidden != "":
			text += " (" + in.combo.Hidden + ")"
		case c.kind == captionOutput && in.combo.Output != "":
			text += " (" + in.combo.Output + ")"
		}
		out[i] = Caption{Text: text, X: c.at.X, Y: c.at.Y}
	}
	return out
}

// Snapshot is a serialisable view of an instance.
type Snapshot struct {
	Key       string        `json:"key"`
	Archetype Archetype     `json:"archetype"`
	Title     string        `json:"title"`
	Example   string        `json:"biologicalExample,omitempty"`
	Phase     string        `json:"phase"`
	Nodes     []Node        `json:"nodes"`
	Edges     []EdgeSegment `json:"edges"`
	Captions  []Caption     `json:"captions"`
	Viewport  [2]float64    `json:"viewport"`
}

// Snapshot captures the current state.
func (in *Instance) Snapshot() Snapshot {
	return Snapshot{
		Key:       in.key.String(),
		Archetype: in.topo.archetype,
		Title:     in.combo.Title(in.key.Index),
		Example:   in.combo.BiologicalExample,
		Phase:     in.phase.String(),
		Nodes:     in.Nodes(),
		Edges:     in.Edges(),
		Captions:  in.Captions(),
		Viewport:  [2]float64{ViewportWidth, ViewportHeight},
	}
}

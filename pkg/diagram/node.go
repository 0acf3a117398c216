package diagram

import "github.com/matzehuels/mlviz/pkg/geom"

// DraggableNode binds one node to a shared [Dragger]. It reports new
// positions through its callback and never stores them.
type DraggableNode struct {
	ID     NodeID
	Visual NodeVisual

	drag   *Dragger
	report func(NodeID, geom.Point) bool
}

func newDraggableNode(n Node, d *Dragger, report func(NodeID, geom.Point) bool) *DraggableNode {
	return &DraggableNode{ID: n.ID, Visual: n.Visual, drag: d, report: report}
}

// OnDragStart begins a drag of this node from its current position at.
func (n *DraggableNode) OnDragStart(ev PointerEvent, at geom.Point) bool {
	return n.drag.Press(ev, n.ID, at)
}

// OnDragMove reports the dragged position when ev's pointer holds this node.
func (n *DraggableNode) OnDragMove(ev PointerEvent) bool {
	id, p, ok := n.drag.Move(ev)
	if !ok || id != n.ID {
		return false
	}
	return n.report(id, p)
}

// OnDragEnd releases ev's pointer if it holds this node.
func (n *DraggableNode) OnDragEnd(pid PointerID) bool {
	if id, ok := n.drag.Active(pid); !ok || id != n.ID {
		return false
	}
	return n.drag.Release(pid)
}

package diagram

import "github.com/matzehuels/mlviz/pkg/geom"

// PointerID identifies one pointer (mouse, pen or a single touch contact).
type PointerID int64

// PointerEvent is a pointer observation in device coordinates together with
// the surface it was observed on.
type PointerEvent struct {
	PointerID PointerID
	Client    geom.Point
	// Surface supplies the inverse screen transform at event time. A nil
	// surface means device and local coordinates coincide.
	Surface geom.TransformProvider
}

// Local maps the event into the diagram's local coordinate space.
func (ev PointerEvent) Local() geom.Point {
	return geom.ToLocal(ev.Client, ev.Surface)
}

type grab struct {
	node   NodeID
	offset geom.Point
}

// Dragger is the explicit pointer-capture table: press registers an entry,
// move consults it, release deletes it. The zero value is not usable; use
// [NewDragger].
type Dragger struct {
	active map[PointerID]grab
}

// NewDragger creates an empty capture table.
func NewDragger() *Dragger {
	return &Dragger{active: make(map[PointerID]grab)}
}

// Press captures ev.PointerID for node id currently at local position at.
// The grab offset keeps the node from snapping its centre to the pointer.
// A pointer that already holds a capture is re-pointed; a node already held
// by a different pointer is refused.
func (d *Dragger) Press(ev PointerEvent, id NodeID, at geom.Point) bool {
	if holder, ok := d.Holder(id); ok && holder != ev.PointerID {
		return false
	}
	d.active[ev.PointerID] = grab{node: id, offset: ev.Local().Sub(at)}
	return true
}

// Move returns the new local position of the node captured by ev.PointerID.
// It reports false when the pointer has no capture.
func (d *Dragger) Move(ev PointerEvent) (NodeID, geom.Point, bool) {
	g, ok := d.active[ev.PointerID]
	if !ok {
		return "", geom.Point{}, false
	}
	return g.node, ev.Local().Sub(g.offset), true
}

// Release ends the capture held by pid. It serves both pointer-up and
// lost-capture and reports whether a capture existed.
func (d *Dragger) Release(pid PointerID) bool {
	if _, ok := d.active[pid]; !ok {
		return false
	}
	delete(d.active, pid)
	return true
}

// Active returns the node captured by pid.
func (d *Dragger) Active(pid PointerID) (NodeID, bool) {
	g, ok := d.active[pid]
	return g.node, ok
}

// Holder returns the pointer currently capturing node id.
func (d *Dragger) Holder(id NodeID) (PointerID, bool) {
	for pid, g := range d.active {
		if g.node == id {
			return pid, true
		}
	}
	return 0, false
}

// Len returns the number of active captures.
func (d *Dragger) Len() int { return len(d.active) }

// Reset drops every capture.
func (d *Dragger) Reset() { clear(d.active) }

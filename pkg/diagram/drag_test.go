package diagram

import (
	"testing"

	"github.com/matzehuels/mlviz/pkg/geom"
)

func TestDraggerOffset(t *testing.T) {
	d := NewDragger()
	at := geom.Point{X: 180, Y: 80}

	// Grab 5 right and 3 below the centre.
	if !d.Press(PointerEvent{PointerID: 1, Client: geom.Point{X: 185, Y: 83}}, "H2", at) {
		t.Fatal("Press refused")
	}
	id, p, ok := d.Move(PointerEvent{PointerID: 1, Client: geom.Point{X: 205, Y: 73}})
	if !ok || id != "H2" {
		t.Fatalf("Move = %s, %v", id, ok)
	}
	if want := (geom.Point{X: 200, Y: 70}); p != want {
		t.Errorf("Move position = %v, want %v (no snapping to pointer)", p, want)
	}
}

func TestDraggerLifecycle(t *testing.T) {
	tests := []struct {
		name string
		run  func(d *Dragger) bool
		want bool
	}{
		{"move before press", func(d *Dragger) bool {
			_, _, ok := d.Move(PointerEvent{PointerID: 1})
			return ok
		}, false},
		{"move after release", func(d *Dragger) bool {
			d.Press(PointerEvent{PointerID: 1}, "I1", geom.Point{})
			d.Release(1)
			_, _, ok := d.Move(PointerEvent{PointerID: 1})
			return ok
		}, false},
		{"double release", func(d *Dragger) bool {
			d.Press(PointerEvent{PointerID: 1}, "I1", geom.Point{})
			d.Release(1)
			return d.Release(1)
		}, false},
		{"node held by other pointer", func(d *Dragger) bool {
			d.Press(PointerEvent{PointerID: 1}, "I1", geom.Point{})
			return d.Press(PointerEvent{PointerID: 2}, "I1", geom.Point{})
		}, false},
		{"same pointer re-presses", func(d *Dragger) bool {
			d.Press(PointerEvent{PointerID: 1}, "I1", geom.Point{})
			return d.Press(PointerEvent{PointerID: 1}, "I1", geom.Point{})
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.run(NewDragger()); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDraggerReplacesCapture(t *testing.T) {
	d := NewDragger()
	d.Press(PointerEvent{PointerID: 7}, "I1", geom.Point{})
	d.Press(PointerEvent{PointerID: 7}, "O1", geom.Point{})

	if id, ok := d.Active(7); !ok || id != "O1" {
		t.Errorf("Active(7) = %s, %v; want O1", id, ok)
	}
	if _, ok := d.Holder("I1"); ok {
		t.Error("I1 still held after its pointer moved on")
	}
	if d.Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.Len())
	}
}

func TestDraggerUsesSurfaceTransform(t *testing.T) {
	// Rendered at 2x with a (10, 20) offset.
	surface := geom.ScreenTransform(geom.Translate(10, 20).Multiply(geom.Scale(2, 2)))
	d := NewDragger()
	d.Press(PointerEvent{PointerID: 1, Client: geom.Point{X: 370, Y: 180}, Surface: surface}, "H2", geom.Point{X: 180, Y: 80})

	_, p, _ := d.Move(PointerEvent{PointerID: 1, Client: geom.Point{X: 410, Y: 160}, Surface: surface})
	if want := (geom.Point{X: 200, Y: 70}); p != want {
		t.Errorf("Move = %v, want %v", p, want)
	}

	// Without a resolvable transform the device point is used as-is.
	_, p, _ = d.Move(PointerEvent{PointerID: 1, Client: geom.Point{X: 190, Y: 90}, Surface: geom.Unmounted{}})
	if want := (geom.Point{X: 190, Y: 90}); p != want {
		t.Errorf("Move without transform = %v, want %v", p, want)
	}
}

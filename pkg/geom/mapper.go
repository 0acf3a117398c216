package geom

// TransformProvider exposes the current inverse screen transform of a
// rendering surface. Implementations must answer from live layout state; the
// mapper never caches the result between calls.
type TransformProvider interface {
	InverseScreenTransform() (Matrix, bool)
}

// ScreenTransform is a forward screen transform (local → device) captured
// from a rendering surface, typically the SVG element's getScreenCTM().
type ScreenTransform Matrix

// InverseScreenTransform implements TransformProvider.
func (s ScreenTransform) InverseScreenTransform() (Matrix, bool) {
	return Matrix(s).Inverse()
}

// Unmounted is a provider for a surface that has no layout yet.
type Unmounted struct{}

// InverseScreenTransform always reports false.
func (Unmounted) InverseScreenTransform() (Matrix, bool) { return Matrix{}, false }

// ToLocal maps a device point into local coordinates using the provider's
// current inverse transform. Without a usable transform the device point is
// returned as-is.
func ToLocal(device Point, tp TransformProvider) Point {
	if tp == nil {
		return device
	}
	inv, ok := tp.InverseScreenTransform()
	if !ok {
		return device
	}
	return inv.Apply(device)
}

// ToDevice maps a local point to device coordinates through a forward
// transform. It is the counterpart of ToLocal and is mostly used by tests and
// by clients that synthesize pointer events.
func ToDevice(local Point, s ScreenTransform) Point {
	return Matrix(s).Apply(local)
}

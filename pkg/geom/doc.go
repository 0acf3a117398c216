// Package geom maps pointer coordinates between screen space and a diagram's
// local coordinate space.
//
// A diagram is authored in a fixed logical viewport (360×170 units) and the
// host page scales and positions it freely. The browser describes that
// placement as a screen transform matrix (the SVG "CTM"). [ToLocal] applies
// the inverse of the current transform to a device point, so the same
// physical pointer position always maps to the same local point regardless of
// zoom, scroll or responsive width.
//
// # Transform Providers
//
// The transform is never read from ambient state. Callers pass a
// [TransformProvider] that answers a single query, the current inverse
// transform, and the mapper asks it on every call:
//
//	ctm := geom.ScreenTransform(geom.Matrix{A: 2, D: 2, E: 10, F: 20})
//	local := geom.ToLocal(geom.Point{X: 130, Y: 180}, ctm) // {60 80}
//
// When no transform is available (the surface has not been laid out yet, or
// the matrix is singular) the device point is returned unchanged. The next
// event with a usable transform corrects itself.
package geom

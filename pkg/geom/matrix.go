package geom

import "math"

// Point is a pair of coordinates, either in device (client) space or in a
// diagram's local space depending on context.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Matrix is a 2D affine transform laid out like an SVG matrix(a b c d e f):
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transform.
func Identity() Matrix { return Matrix{A: 1, D: 1} }

// Translate returns a pure translation.
func Translate(tx, ty float64) Matrix { return Matrix{A: 1, D: 1, E: tx, F: ty} }

// Scale returns a pure scale about the origin.
func Scale(sx, sy float64) Matrix { return Matrix{A: sx, D: sy} }

// FromSlice builds a matrix from [a b c d e f]. It reports false when v does
// not hold exactly six finite values.
func FromSlice(v []float64) (Matrix, bool) {
	if len(v) != 6 {
		return Matrix{}, false
	}
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Matrix{}, false
		}
	}
	return Matrix{A: v[0], B: v[1], C: v[2], D: v[3], E: v[4], F: v[5]}, true
}

// Apply transforms p.
func (m Matrix) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// Multiply returns m·n, the transform that applies n first and then m.
func (m Matrix) Multiply(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// Determinant returns A*D - B*C.
func (m Matrix) Determinant() float64 { return m.A*m.D - m.B*m.C }

// Inverse returns the inverse transform. It reports false for singular or
// non-finite matrices.
func (m Matrix) Inverse() (Matrix, bool) {
	det := m.Determinant()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Matrix{}, false
	}
	inv := Matrix{
		A: m.D / det,
		B: -m.B / det,
		C: -m.C / det,
		D: m.A / det,
		E: (m.C*m.F - m.D*m.E) / det,
		F: (m.B*m.E - m.A*m.F) / det,
	}
	return inv, true
}

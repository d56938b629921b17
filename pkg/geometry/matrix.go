package geometry

import "fmt"

// Matrix is an affine transform (a b c d e f) mapping (x, y) to
// (a*x + c*y + e, b*x + d*y + f).
type Matrix [6]float64

// Identity leaves points unchanged.
var Identity = Matrix{1, 0, 0, 1, 0, 0}

func (m Matrix) Transform(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// TransformRect maps both corners and normalizes the result.
func (m Matrix) TransformRect(r Rect) Rect {
	a := m.Transform(r.TL())
	b := m.Transform(r.BR())
	return Rect{a.X, a.Y, b.X, b.Y}.Normalize()
}

// Inverse returns the inverse transform. Singular matrices are rejected.
func (m Matrix) Inverse() (Matrix, error) {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 {
		return Matrix{}, fmt.Errorf("matrix %v is not invertible", m)
	}
	a := m[3] / det
	b := -m[1] / det
	c := -m[2] / det
	d := m[0] / det
	return Matrix{a, b, c, d, -(a*m[4] + c*m[5]), -(b*m[4] + d*m[5])}, nil
}

// RotationMatrix maps un-rotated page space into displayed space for a page
// of un-rotated size page shown with rotation rot.
func RotationMatrix(rot Rotation, page Size) Matrix {
	switch rot.Normalize() {
	case 90:
		return Matrix{0, 1, -1, 0, page.H, 0}
	case 180:
		return Matrix{-1, 0, 0, -1, page.W, page.H}
	case 270:
		return Matrix{0, -1, 1, 0, 0, page.W}
	default:
		return Identity
	}
}

// DerotationMatrix maps displayed space back into un-rotated page space.
func DerotationMatrix(rot Rotation, page Size) Matrix {
	// rotation matrices are orthogonal, never singular
	inv, _ := RotationMatrix(rot, page).Inverse()
	return inv
}

// DisplaySize is the page extent as shown with rotation rot.
func DisplaySize(rot Rotation, page Size) Size {
	if rot.Swapped() {
		return Size{W: page.H, H: page.W}
	}
	return page
}

// Package geometry maps OCR pixel coordinates onto PDF page space.
//
// Three coordinate systems are involved:
//
// - cropped pixel space: what the OCR engine reports, origin at the crop corner
// - full-page pixel space: the page raster at the configured DPI, as displayed (rotated)
// - PDF user space: points on the un-rotated page, origin top-left, y down
//
// A Frame carries the state that links them (DPI zoom, crop offset and the page
// rotation) and performs the conversions.
//
// Main Functions:
//
// - NewFrame: Creates the frame for a page of a given un-rotated size and rotation
// - Frame.ToFullPagePixel: Cropped pixel -> full-page pixel
// - Frame.ToPDFRect: Full-page pixel rectangle -> PDF user space rectangle
// - Frame.RotationAwarePlace: Displayed-space box at 72 dpi -> un-rotated page rectangle
package geometry

import (
	"fmt"
	"image"
	"math"
)

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Quad is the four-corner polygon of a recognized block, ordered
// top-left, top-right, bottom-right, bottom-left.
type Quad [4]Point

func (q Quad) TL() Point { return q[0] }
func (q Quad) TR() Point { return q[1] }
func (q Quad) BR() Point { return q[2] }
func (q Quad) BL() Point { return q[3] }

// QuadFromRect builds an axis aligned quad.
func QuadFromRect(x0, y0, x1, y1 float64) Quad {
	return Quad{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

// Bounds returns the axis aligned bounding box of the quad.
func (q Quad) Bounds() Rect {
	r := Rect{q[0].X, q[0].Y, q[0].X, q[0].Y}
	for _, p := range q[1:] {
		r.X0 = math.Min(r.X0, p.X)
		r.Y0 = math.Min(r.Y0, p.Y)
		r.X1 = math.Max(r.X1, p.X)
		r.Y1 = math.Max(r.Y1, p.Y)
	}
	return r
}

// Rect is an axis aligned rectangle, (X0,Y0) top-left and (X1,Y1) bottom-right.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

func (r Rect) Width() float64 { return r.X1 - r.X0 }
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }
func (r Rect) TL() Point { return Point{r.X0, r.Y0} }
func (r Rect) BR() Point { return Point{r.X1, r.Y1} }

// IsEmpty reports whether the rectangle has no area or holds non-finite values.
func (r Rect) IsEmpty() bool {
	for _, v := range [...]float64{r.X0, r.Y0, r.X1, r.Y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// Normalize orders the corners so that X0<=X1 and Y0<=Y1.
func (r Rect) Normalize() Rect {
	if r.X0 > r.X1 {
		r.X0, r.X1 = r.X1, r.X0
	}
	if r.Y0 > r.Y1 {
		r.Y0, r.Y1 = r.Y1, r.Y0
	}
	return r
}

// Scale multiplies every coordinate by f.
func (r Rect) Scale(f float64) Rect {
	return Rect{r.X0 * f, r.Y0 * f, r.X1 * f, r.Y1 * f}
}

// Image converts to an integer rectangle, truncating like a raster crop does.
func (r Rect) Image() image.Rectangle {
	return image.Rect(int(r.X0), int(r.Y0), int(r.X1), int(r.Y1))
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect(%.2f, %.2f, %.2f, %.2f)", r.X0, r.Y0, r.X1, r.Y1)
}

// Size is a page extent in points.
type Size struct {
	W, H float64
}

// Rotation is a page rotation in degrees, clockwise, as stored in /Rotate.
type Rotation int

// ParseRotation accepts any multiple of 90 and returns it normalized to [0,360).
func ParseRotation(deg int) (Rotation, error) {
	if deg%90 != 0 {
		return 0, fmt.Errorf("rotation %d is not a multiple of 90", deg)
	}
	return Rotation(deg).Normalize(), nil
}

// Normalize maps the rotation to one of 0, 90, 180, 270 (so -90 becomes 270).
func (r Rotation) Normalize() Rotation {
	n := int(r) % 360
	if n < 0 {
		n += 360
	}
	return Rotation(n)
}

// Add returns the rotation turned further by delta degrees.
func (r Rotation) Add(delta Rotation) Rotation {
	return (r + delta).Normalize()
}

// Swapped reports whether the displayed page has width and height exchanged.
func (r Rotation) Swapped() bool {
	n := r.Normalize()
	return n == 90 || n == 270
}

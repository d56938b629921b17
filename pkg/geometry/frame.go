package geometry

import (
	"image"

	"github.com/gardar/redliner/pkg/rederr"
)

const (
	MinDPI = 72
	MaxDPI = 600

	// PointsPerInch is the PDF user space resolution.
	PointsPerInch = 72.0
)

// Frame links a page raster to PDF user space: the DPI zoom, the crop
// offset and the page rotation. It is owned by a single page session.
type Frame struct {
	page     Size
	rotation Rotation

	dpi    int
	zoom   float64
	dpiSet bool

	// crop in 72 dpi displayed space; fullPage means the whole raster is used
	crop     Rect
	fullPage bool
	scaled   Rect
}

// NewFrame creates a frame for a page whose un-rotated media box is page,
// currently displayed with rotation rot.
func NewFrame(page Size, rot Rotation) *Frame {
	return &Frame{page: page, rotation: rot.Normalize(), zoom: 1}
}

func (f *Frame) PageSize() Size { return f.page }
func (f *Frame) Rotation() Rotation { return f.rotation }
func (f *Frame) DPI() int { return f.dpi }
func (f *Frame) ZoomFactor() float64 { return f.zoom }
func (f *Frame) DPISet() bool { return f.dpiSet }
func (f *Frame) FullPage() bool { return f.fullPage }
func (f *Frame) SetRotation(r Rotation) { f.rotation = r.Normalize() }

// Rotate turns the frame further by delta degrees.
func (f *Frame) Rotate(delta Rotation) {
	f.rotation = f.rotation.Add(delta)
}

// SetDPI sets the rasterization resolution and recomputes the zoom factor
// and the scaled crop rectangle.
func (f *Frame) SetDPI(dpi int) error {
	if dpi < MinDPI || dpi > MaxDPI {
		return rederr.InvalidValue("DPI value must be between %d and %d, got %d", MinDPI, MaxDPI, dpi)
	}
	f.dpi = dpi
	f.zoom = float64(dpi) / PointsPerInch
	f.dpiSet = true
	f.scaled = f.crop.Scale(f.zoom)
	return nil
}

// SetCrop sets the crop rectangle from two corners in 72 dpi units.
// The DPI has to be set again afterwards.
func (f *Frame) SetCrop(x0, y0, x1, y1 float64) error {
	r := Rect{x0, y0, x1, y1}
	if r.IsEmpty() || x0 < 0 || y0 < 0 {
		return rederr.InvalidValue("invalid crop rectangle %v", r)
	}
	f.crop = r
	f.fullPage = false
	f.dpiSet = false
	return nil
}

// SetCropWH sets the crop rectangle from its origin and extent in 72 dpi units.
func (f *Frame) SetCropWH(x0, y0, w, h float64) error {
	return f.SetCrop(x0, y0, x0+w, y0+h)
}

// UseFullPage disables cropping; the whole raster is handed to OCR.
func (f *Frame) UseFullPage() {
	f.crop = Rect{}
	f.scaled = Rect{}
	f.fullPage = true
}

// Crop returns the crop rectangle in 72 dpi units.
func (f *Frame) Crop() Rect { return f.crop }

// ScaledCrop returns the crop rectangle in pixels at the current DPI.
func (f *Frame) ScaledCrop() (Rect, error) {
	if !f.dpiSet {
		return Rect{}, rederr.Configuration("DPI not set, call SetDPI first")
	}
	return f.scaled, nil
}

// CropPixels returns the pixel rectangle to cut out of a raster with the
// given bounds. The rectangle is clipped to the raster; an empty
// intersection is a configuration error.
func (f *Frame) CropPixels(bounds image.Rectangle) (image.Rectangle, error) {
	if !f.dpiSet {
		return image.Rectangle{}, rederr.Configuration("DPI not set, call SetDPI first")
	}
	if f.fullPage {
		return bounds, nil
	}
	r := f.scaled.Image().Add(bounds.Min).Intersect(bounds)
	if r.Empty() {
		return image.Rectangle{}, rederr.Configuration("crop rectangle %v lies outside the %dx%d raster",
			f.scaled, bounds.Dx(), bounds.Dy())
	}
	return r, nil
}

// CropOverlaps reports whether the crop rectangle shares any pixel with a
// raster of the given bounds. A frame without DPI or in full-page mode
// always overlaps.
func (f *Frame) CropOverlaps(bounds image.Rectangle) bool {
	if !f.dpiSet || f.fullPage {
		return true
	}
	return f.scaled.Image().Add(bounds.Min).Overlaps(bounds)
}

// ToFullPagePixel converts a cropped pixel coordinate into a full-page one.
func (f *Frame) ToFullPagePixel(p Point) (Point, error) {
	if !f.dpiSet {
		return Point{}, rederr.Configuration("DPI not set, call SetDPI first")
	}
	return Point{p.X + f.scaled.X0, p.Y + f.scaled.Y0}, nil
}

// ToPDFRect converts a full-page pixel rectangle into PDF user space.
func (f *Frame) ToPDFRect(x0, y0, x1, y1 float64) (Rect, error) {
	if !f.dpiSet {
		return Rect{}, rederr.Configuration("DPI not set, call SetDPI first")
	}
	return f.RotationAwarePlace(x0/f.zoom, y0/f.zoom, (x1-x0)/f.zoom, (y1-y0)/f.zoom), nil
}

// RotationAwarePlace converts a box given in 72 dpi displayed space
// (top-left anchor plus extent) into a rectangle on the un-rotated page.
func (f *Frame) RotationAwarePlace(x, y, w, h float64) Rect {
	tl := Point{x, y}
	rot := f.rotation
	if rot != 0 {
		tl = DerotationMatrix(rot, f.page).Transform(tl)
	}
	if rot.Swapped() {
		w, h = h, w
	}
	switch rot {
	case 180:
		tl = tl.Sub(Point{w, h})
	case 270:
		tl.X -= w
	case 90:
		tl.Y -= h
	}
	return Rect{tl.X, tl.Y, tl.X + w, tl.Y + h}
}

// Unplace is the inverse of RotationAwarePlace.
func (f *Frame) Unplace(r Rect) (x, y, w, h float64) {
	d := RotationMatrix(f.rotation, f.page).TransformRect(r)
	return d.X0, d.Y0, d.Width(), d.Height()
}

// ToPixelRect is the inverse of ToPDFRect.
func (f *Frame) ToPixelRect(r Rect) (Rect, error) {
	if !f.dpiSet {
		return Rect{}, rederr.Configuration("DPI not set, call SetDPI first")
	}
	x, y, w, h := f.Unplace(r)
	return Rect{x, y, x + w, y + h}.Scale(f.zoom), nil
}

// FromFullPagePixel is the inverse of ToFullPagePixel.
func (f *Frame) FromFullPagePixel(p Point) (Point, error) {
	if !f.dpiSet {
		return Point{}, rederr.Configuration("DPI not set, call SetDPI first")
	}
	return Point{p.X - f.scaled.X0, p.Y - f.scaled.Y0}, nil
}

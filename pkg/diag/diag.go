// Package diag writes the debug rasters of a redline run: the rendered
// page, the cropped OCR input with every recognized block outlined, and the
// page with the crop frame and the matches marked.
package diag

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/gardar/redliner/pkg/geometry"
)

// File names of the debug rasters.
const (
	OriginalImage = "img_original.png"
	CroppedImage  = "img_cropped.png"
	MarkedImage   = "img_original_marked.png"
)

// Recorder saves debug rasters into Dir. The zero value is disabled.
type Recorder struct {
	Dir string
}

func (r Recorder) Enabled() bool { return r.Dir != "" }

// Save writes img as a PNG named name. It is a no-op when disabled.
func (r Recorder) Save(name string, img image.Image) error {
	if !r.Enabled() || img == nil {
		return nil
	}
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create debug directory: %w", err)
	}
	f, err := os.Create(filepath.Join(r.Dir, name))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return f.Close()
}

// Canvas is an RGBA copy of a raster that outlines can be drawn on.
type Canvas struct {
	img *image.RGBA
}

// NewCanvas copies src into a canvas whose origin is (0,0).
func NewCanvas(src image.Image) *Canvas {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return &Canvas{img: dst}
}

func (c *Canvas) Image() *image.RGBA { return c.img }

// Outline draws the border of r, width pixels thick, inside r.
func (c *Canvas) Outline(r geometry.Rect, col color.Color, width int) error {
	if r.IsEmpty() {
		return fmt.Errorf("cannot outline empty rectangle %v", r)
	}
	rect := r.Image()
	if !rect.Overlaps(c.img.Bounds()) {
		return fmt.Errorf("rectangle %v lies outside the %v canvas", r, c.img.Bounds())
	}
	if width < 1 {
		width = 1
	}
	width = min(width, rect.Dx()/2+1, rect.Dy()/2+1)
	u := image.NewUniform(col)
	strips := []image.Rectangle{
		image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+width),
		image.Rect(rect.Min.X, rect.Max.Y-width, rect.Max.X, rect.Max.Y),
		image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+width, rect.Max.Y),
		image.Rect(rect.Max.X-width, rect.Min.Y, rect.Max.X, rect.Max.Y),
	}
	for _, s := range strips {
		draw.Draw(c.img, s.Intersect(c.img.Bounds()), u, image.Point{}, draw.Src)
	}
	return nil
}


// Package stamp finds an empty area on a rendered page and provides the
// image that is placed there.
package stamp

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/gardar/redliner/pkg/rederr"
)

// The blank template is 400x200 pixels at 150 dpi. Rendered pages are not
// pure white, 254 is their prevailing background value.
const (
	TemplateWidth  = 400
	TemplateHeight = 200
	TemplateDPI    = 150
	BlankValue     = 254
)

// TemplateSize returns the template extent for a raster rendered at dpi.
func TemplateSize(dpi int) image.Point {
	return image.Pt(TemplateWidth*dpi/TemplateDPI, TemplateHeight*dpi/TemplateDPI)
}

// Locate returns the pixel rectangle of img that differs least from a blank
// template, scored by the sum of squared differences. Ties resolve to the
// first location in row-major order.
func Locate(img image.Image, dpi int) (image.Rectangle, error) {
	if dpi <= 0 {
		return image.Rectangle{}, rederr.InvalidValue("dpi must be positive, got %d", dpi)
	}
	size := TemplateSize(dpi)
	gray := Grayscale(img)
	b := gray.Bounds()
	if size.X > b.Dx() || size.Y > b.Dy() {
		return image.Rectangle{}, rederr.InvalidValue("%dx%d stamp template does not fit the %dx%d page",
			size.X, size.Y, b.Dx(), b.Dy())
	}
	at := matchTemplate(gray, size, BlankValue)
	return image.Rectangle{Min: at, Max: at.Add(size)}, nil
}

// Grayscale converts img to an 8-bit gray image with origin (0,0).
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), img, b.Min, draw.Src)
	return g
}

// sqdiff scores every placement of a size.X by size.Y template of constant
// value v with integral images of the page and its square:
// sum((p-v)^2) = sum(p^2) - 2v*sum(p) + n*v^2.
func sqdiff(gray *image.Gray, size image.Point, v uint8) image.Point {
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	stride := w + 1
	sum := make([]uint64, stride*(h+1))
	sq := make([]uint64, stride*(h+1))
	for y := 0; y < h; y++ {
		var rs, rq uint64
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for x, p := range row {
			rs += uint64(p)
			rq += uint64(p) * uint64(p)
			i := (y+1)*stride + x + 1
			sum[i] = sum[i-stride] + rs
			sq[i] = sq[i-stride] + rq
		}
	}

	window := func(t []uint64, x, y int) float64 {
		a := t[y*stride+x]
		b := t[y*stride+x+size.X]
		c := t[(y+size.Y)*stride+x]
		d := t[(y+size.Y)*stride+x+size.X]
		return float64(d + a - b - c)
	}

	n := float64(size.X * size.Y)
	fv := float64(v)
	best := math.Inf(1)
	var at image.Point
	for y := 0; y+size.Y <= h; y++ {
		for x := 0; x+size.X <= w; x++ {
			score := window(sq, x, y) - 2*fv*window(sum, x, y) + n*fv*fv
			if score < best {
				best = score
				at = image.Pt(x, y)
			}
		}
	}
	return at
}

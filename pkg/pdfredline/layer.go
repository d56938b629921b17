package pdfredline

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"codeberg.org/go-pdf/fpdf"

	"github.com/gardar/redliner/pkg/annotate"
	"github.com/gardar/redliner/pkg/geometry"
)

// mark is one redline element drawn on page 1.
type mark interface {
	draw(pdf *fpdf.Fpdf, c drawContext) error
}

type drawContext struct {
	font  FontConfig
	debug bool
	index int
}

// drawRedlineLayer draws the marks onto a layer of the current page.
func drawRedlineLayer(pdf *fpdf.Fpdf, layer int, marks []mark, font FontConfig, debug bool) error {
	pdf.BeginLayer(layer)
	defer pdf.EndLayer()

	for i, m := range marks {
		if err := m.draw(pdf, drawContext{font: font, debug: debug, index: i}); err != nil {
			return fmt.Errorf("mark %d: %w", i+1, err)
		}
	}
	return pdf.Error()
}

// uprightBox returns the centre of r and the extent of the box a reader
// sees once the page is displayed with rotation rot.
func uprightBox(r geometry.Rect, rot geometry.Rotation) (cx, cy, w, h float64) {
	cx, cy = (r.X0+r.X1)/2, (r.Y0+r.Y1)/2
	w, h = r.Width(), r.Height()
	if rot.Swapped() {
		w, h = h, w
	}
	return cx, cy, w, h
}

// rotated runs fn with the graphics state turned counter-clockwise by rot
// around (cx, cy), which undoes the clockwise page rotation.
func rotated(pdf *fpdf.Fpdf, rot geometry.Rotation, cx, cy float64, fn func()) {
	pdf.TransformBegin()
	if rot != 0 {
		pdf.TransformRotate(float64(rot), cx, cy)
	}
	fn()
	pdf.TransformEnd()
}

type lineMark struct {
	from, to geometry.Point
}

func (m lineMark) draw(pdf *fpdf.Fpdf, _ drawContext) error {
	pdf.SetDrawColor(255, 0, 0)
	pdf.SetLineWidth(1)
	pdf.Line(m.from.X, m.from.Y, m.to.X, m.to.Y)
	return nil
}

type textMark struct {
	rect  geometry.Rect
	text  string // Latin-1
	style annotate.TextStyle
	rot   geometry.Rotation
}

func (m textMark) draw(pdf *fpdf.Fpdf, c drawContext) error {
	cx, cy, w, h := uprightBox(m.rect, m.rot)
	x, y := cx-w/2, cy-h/2

	rotated(pdf, m.rot, cx, cy, func() {
		if m.style.Fill {
			f := m.style.FillRGB
			pdf.SetFillColor(int(f.R), int(f.G), int(f.B))
			pdf.Rect(x, y, w, h, "F")
		}
		if c.debug {
			pdf.SetDrawColor(0, 0, 255)
			pdf.SetLineWidth(0.2)
			pdf.Rect(x, y, w, h, "D")
		}
		col := m.style.Color
		pdf.SetTextColor(int(col.R), int(col.G), int(col.B))
		pdf.SetFont(c.font.Name, c.font.Style, m.style.FontSize)
		pad := c.font.Padding
		pdf.Text(x+pad, y+pad+m.style.FontSize*c.font.AscentRatio, m.text)
	})
	return nil
}

type stampMark struct {
	rect geometry.Rect
	img  image.Image
	rot  geometry.Rotation
}

func (m stampMark) draw(pdf *fpdf.Fpdf, c drawContext) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, m.img); err != nil {
		return fmt.Errorf("failed to encode stamp: %w", err)
	}
	name := fmt.Sprintf("stamp%d", c.index)
	opts := fpdf.ImageOptions{ReadDpi: false, ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, &buf)

	cx, cy, w, h := uprightBox(m.rect, m.rot)
	b := m.img.Bounds()
	scale := min(w/float64(b.Dx()), h/float64(b.Dy()))
	iw, ih := float64(b.Dx())*scale, float64(b.Dy())*scale

	rotated(pdf, m.rot, cx, cy, func() {
		pdf.ImageOptions(name, cx-iw/2, cy-ih/2, iw, ih, false, opts, 0, "")
	})
	return pdf.Error()
}

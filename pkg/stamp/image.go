package stamp

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Label is the text of the built-in stamp.
const Label = "RLMU"

var stampRed = color.RGBA{R: 220, G: 20, B: 20, A: 255}

// Load decodes a PNG or JPEG stamp image.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stamp image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode stamp image %s: %w", path, err)
	}
	return img, nil
}

// Default renders the built-in stamp: a red frame around the RLMU label on
// a transparent TemplateWidth x TemplateHeight canvas.
func Default() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, TemplateWidth, TemplateHeight))
	red := image.NewUniform(stampRed)

	const border = 8
	b := img.Bounds()
	for _, r := range []image.Rectangle{
		image.Rect(0, 0, b.Dx(), border),
		image.Rect(0, b.Dy()-border, b.Dx(), b.Dy()),
		image.Rect(0, 0, border, b.Dy()),
		image.Rect(b.Dx()-border, 0, b.Dx(), b.Dy()),
	} {
		draw.Draw(img, r, red, image.Point{}, draw.Src)
	}

	// basicfont is 7x13, render small and scale up
	face := basicfont.Face7x13
	d := &font.Drawer{Face: face}
	tw := d.MeasureString(Label).Ceil()
	small := image.NewRGBA(image.Rect(0, 0, tw, face.Height))
	d.Dst = small
	d.Src = red
	d.Dot = fixed.P(0, face.Ascent)
	d.DrawString(Label)

	scale := min((b.Dx()-4*border)/tw, (b.Dy()-4*border)/face.Height)
	dst := image.Rect(0, 0, tw*scale, face.Height*scale)
	dst = dst.Add(image.Pt((b.Dx()-dst.Dx())/2, (b.Dy()-dst.Dy())/2))
	draw.NearestNeighbor.Scale(img, dst, small, small.Bounds(), draw.Over, nil)
	return img
}

// Package annotate computes where redline annotations go on the PDF page:
// a strike line over each matched block and a replacement text box beside
// it (or, for current-format node labels, a white box covering the label).
package annotate

import (
	"fmt"

	"github.com/gardar/redliner/pkg/geometry"
	"github.com/gardar/redliner/pkg/matcher"
	"github.com/gardar/redliner/pkg/rederr"
)

// Layout is the drawing format the annotations are sized for.
type Layout int

const (
	LayoutCurrent Layout = iota
	LayoutLegacy
)

func ParseLayout(s string) (Layout, error) {
	switch s {
	case "", "current":
		return LayoutCurrent, nil
	case "legacy":
		return LayoutLegacy, nil
	}
	return 0, rederr.InvalidValue("unknown format %q", s)
}

func (l Layout) String() string {
	if l == LayoutLegacy {
		return "legacy"
	}
	return "current"
}

// FontSize is the replacement text size used by the layout.
func (l Layout) FontSize() float64 {
	if l == LayoutLegacy {
		return 8
	}
	return 4
}

// Placement of the replacement marker text relative to the original.
type Placement int

const (
	PlaceRight Placement = iota
	PlaceLeft
)

func ParsePlacement(s string) (Placement, error) {
	switch s {
	case "", "right":
		return PlaceRight, nil
	case "left":
		return PlaceLeft, nil
	}
	return 0, rederr.InvalidValue("unknown placement %q", s)
}

// Margin between an original block and its replacement text, in pixels.
const Margin = 5

// RGB colour, 0-255 per channel.
type RGB struct {
	R, G, B uint8
}

var (
	Red   = RGB{255, 0, 0}
	White = RGB{255, 255, 255}
)

// TextStyle of a replacement text box. No border is ever drawn.
type TextStyle struct {
	FontSize float64
	Color    RGB
	Fill     bool
	FillRGB  RGB
}

// Pair is the annotation set of one match record, in PDF user space.
type Pair struct {
	Kind    matcher.Kind
	Line    geometry.Rect // strike line from (X0,Y0) to (X1,Y1)
	Text    geometry.Rect
	Content string
	Style   TextStyle
	// Cover boxes hide the original text; no strike line is drawn for them.
	Cover  bool
	Rotate geometry.Rotation
	// Pixel is the matched block in full-page pixels.
	Pixel geometry.Rect
}

func (p Pair) String() string {
	return fmt.Sprintf("%s %q line=%v text=%v", p.Kind, p.Content, p.Line, p.Text)
}

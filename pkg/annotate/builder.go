package annotate

import (
	"fmt"

	"github.com/gardar/redliner/pkg/geometry"
	"github.com/gardar/redliner/pkg/matcher"
	"github.com/gardar/redliner/pkg/rederr"
)

// Builder turns match records into annotation pairs for one page frame.
type Builder struct {
	frame     *geometry.Frame
	layout    Layout
	placement Placement
	fontSize  float64
}

type BuilderOption func(*Builder)

// WithPlacement chooses where current-format marker text goes.
func WithPlacement(p Placement) BuilderOption {
	return func(b *Builder) { b.placement = p }
}

// WithFontSize overrides the layout font size.
func WithFontSize(size float64) BuilderOption {
	return func(b *Builder) {
		if size > 0 {
			b.fontSize = size
		}
	}
}

func NewBuilder(frame *geometry.Frame, layout Layout, opts ...BuilderOption) *Builder {
	b := &Builder{frame: frame, layout: layout, fontSize: layout.FontSize()}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build computes the annotation pair of a single record.
func (b *Builder) Build(m matcher.Match) (Pair, error) {
	if !m.Kind.IsRecord() {
		return Pair{}, rederr.InvalidValue("%s is not a match record", m.Kind)
	}
	tl, err := b.frame.ToFullPagePixel(m.Quad.TL())
	if err != nil {
		return Pair{}, err
	}
	br, err := b.frame.ToFullPagePixel(m.Quad.BR())
	if err != nil {
		return Pair{}, err
	}

	line, err := b.frame.ToPDFRect(tl.X, tl.Y, br.X, br.Y)
	if err != nil {
		return Pair{}, err
	}
	p := Pair{
		Kind:    m.Kind,
		Line:    line,
		Content: m.Replacement,
		Style:   TextStyle{FontSize: b.fontSize, Color: Red},
		Rotate:  b.frame.Rotation(),
		Pixel:   geometry.Rect{X0: tl.X, Y0: tl.Y, X1: br.X, Y1: br.Y},
	}

	var text geometry.Rect
	switch {
	case m.Kind == matcher.NodeLabelMatch && b.layout == LayoutCurrent:
		text = geometry.Rect{X0: tl.X - Margin, Y0: tl.Y, X1: br.X + Margin, Y1: br.Y}
		p.Cover = true
		p.Style.Fill = true
		p.Style.FillRGB = White
	case m.Kind == matcher.FcsMatch && b.layout == LayoutCurrent && b.placement == PlaceLeft:
		text = geometry.Rect{
			X0: 2*tl.X - br.X - Margin,
			Y0: tl.Y + Margin,
			X1: tl.X - Margin,
			Y1: br.Y + Margin,
		}
	default:
		x0 := br.X + Margin
		y0 := tl.Y
		text = geometry.Rect{
			X0: x0,
			Y0: y0,
			X1: x0 + (br.X - tl.X) + 2*Margin,
			Y1: y0 + (br.Y - tl.Y) + 2*Margin,
		}
	}

	p.Text, err = b.frame.ToPDFRect(text.X0, text.Y0, text.X1, text.Y1)
	if err != nil {
		return Pair{}, err
	}
	return p, nil
}

// BuildAll builds a pair for every record of res, markers first. Records
// that fail are reported and skipped.
func (b *Builder) BuildAll(res matcher.Result) ([]Pair, []error) {
	var pairs []Pair
	var errs []error
	records := append(res.FCS(), res.Nodes()...)
	for _, m := range records {
		p, err := b.Build(m)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s %q: %w", m.Kind, m.Text, err))
			continue
		}
		pairs = append(pairs, p)
	}
	return pairs, errs
}

package gdocai

import (
	"iter"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/redliner/pkg/geometry"
	"github.com/gardar/redliner/pkg/ocr"
)

// layoutElement is implemented by tokens and lines.
type layoutElement interface {
	GetLayout() *documentaipb.Document_Page_Layout
}

// blocksFromPage lazily converts a page's tokens (LevelWord) or lines
// (LevelLine) into blocks in the pixel space of a w×h image.
func blocksFromPage(page *documentaipb.Document_Page, fullText string, level ocr.Level, w, h float64) iter.Seq[ocr.Block] {
	var elems []layoutElement
	if level == ocr.LevelWord {
		for _, t := range page.GetTokens() {
			elems = append(elems, t)
		}
	} else {
		for _, l := range page.GetLines() {
			elems = append(elems, l)
		}
	}

	return func(yield func(ocr.Block) bool) {
		for _, el := range elems {
			layout := el.GetLayout()
			quad, ok := quadFromLayout(layout, w, h)
			if !ok {
				continue
			}
			text := strings.TrimSpace(textFromLayout(layout, fullText))
			if text == "" {
				continue
			}
			b := ocr.Block{Quad: quad, Text: text, Confidence: float64(layout.GetConfidence())}
			if !yield(b) {
				return
			}
		}
	}
}

// quadFromLayout maps a bounding polygon onto the image. Normalized
// vertices are preferred; absolute vertices are used when they are missing.
func quadFromLayout(layout *documentaipb.Document_Page_Layout, w, h float64) (geometry.Quad, bool) {
	poly := layout.GetBoundingPoly()
	if poly == nil {
		return geometry.Quad{}, false
	}
	var q geometry.Quad
	if nv := poly.GetNormalizedVertices(); len(nv) >= 4 {
		for i := range q {
			q[i] = geometry.Point{X: float64(nv[i].GetX()) * w, Y: float64(nv[i].GetY()) * h}
		}
		return q, true
	}
	if v := poly.GetVertices(); len(v) >= 4 {
		for i := range q {
			q[i] = geometry.Point{X: float64(v[i].GetX()), Y: float64(v[i].GetY())}
		}
		return q, true
	}
	return geometry.Quad{}, false
}

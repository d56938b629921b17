package hocr

import "strings"

// Page is one page of recognized text (class 'ocr_page').
type Page struct {
	ID        string
	ImageName string
	Number    int
	BBox      BoundingBox
	Lines     []Line
}

// Line is a line of text (class 'ocr_line' and friends).
type Line struct {
	ID       string
	Class    string
	BBox     BoundingBox
	Baseline string
	Words    []Word
}

// Word is a recognized word (class 'ocrx_word').
type Word struct {
	ID         string
	Text       string
	BBox       BoundingBox
	Confidence float64 // 0-100, from x_wconf
}

// BoundingBox holds an hOCR 'bbox' property: top-left (X1,Y1) and
// bottom-right (X2,Y2) in image pixels.
type BoundingBox struct {
	X1, Y1, X2, Y2 float64
}

func NewBoundingBox(x1, y1, x2, y2 float64) BoundingBox {
	return BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

func (b BoundingBox) Width() float64 { return b.X2 - b.X1 }
func (b BoundingBox) Height() float64 { return b.Y2 - b.Y1 }

// Text joins the words of the line with single spaces.
func (l Line) Text() string {
	parts := make([]string, 0, len(l.Words))
	for _, w := range l.Words {
		if w.Text != "" {
			parts = append(parts, w.Text)
		}
	}
	return strings.Join(parts, " ")
}

// Confidence is the mean word confidence of the line, 0 for an empty line.
func (l Line) Confidence() float64 {
	if len(l.Words) == 0 {
		return 0
	}
	var sum float64
	for _, w := range l.Words {
		sum += w.Confidence
	}
	return sum / float64(len(l.Words))
}

// Text returns the page text, one line per row.
func (p Page) Text() string {
	var b strings.Builder
	for _, l := range p.Lines {
		b.WriteString(l.Text())
		b.WriteByte('\n')
	}
	return b.String()
}

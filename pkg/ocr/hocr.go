package ocr

import (
	"github.com/gardar/redliner/pkg/geometry"
	"github.com/gardar/redliner/pkg/hocr"
)

// Level selects the granularity of the blocks produced from hOCR.
type Level int

const (
	LevelLine Level = iota
	LevelWord
)

// ParseLevel maps "line" / "word" to a Level; anything else is LevelLine.
func ParseLevel(s string) Level {
	if s == "word" {
		return LevelWord
	}
	return LevelLine
}

func (l Level) String() string {
	if l == LevelWord {
		return "word"
	}
	return "line"
}

// FromHOCR converts an hOCR page into blocks. Confidences are scaled to 0-1.
func FromHOCR(page hocr.Page, level Level) []Block {
	var blocks []Block
	for _, line := range page.Lines {
		if level == LevelLine {
			text := line.Text()
			if text == "" {
				continue
			}
			blocks = append(blocks, Block{
				Quad:       quadOf(line.BBox),
				Text:       text,
				Confidence: line.Confidence() / 100,
			})
			continue
		}
		for _, w := range line.Words {
			if w.Text == "" {
				continue
			}
			blocks = append(blocks, Block{
				Quad:       quadOf(w.BBox),
				Text:       w.Text,
				Confidence: w.Confidence / 100,
			})
		}
	}
	return blocks
}

func quadOf(b hocr.BoundingBox) geometry.Quad {
	return geometry.QuadFromRect(b.X1, b.Y1, b.X2, b.Y2)
}

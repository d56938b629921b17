package tesseract

import (
	"context"
	"image"
	"image/color"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gardar/redliner/pkg/ocr"
)

func ensureTesseractAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed in PATH")
	}
}

// renderText draws s with the 7x13 bitmap face and scales it up so
// Tesseract has enough pixels to work with.
func renderText(s string, scale int) image.Image {
	small := image.NewRGBA(image.Rect(0, 0, 10+7*len(s)+10, 30))
	draw.Draw(small, small.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  small,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 20),
	}
	d.DrawString(s)

	b := small.Bounds()
	big := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(big, big.Bounds(), small, b, draw.Src, nil)
	return big
}

func TestEngineRecognize(t *testing.T) {
	ensureTesseractAvailable(t)

	e, err := New(Options{Languages: []string{"eng"}, PageSegMode: 7, Level: ocr.LevelLine})
	if err != nil {
		t.Skipf("tesseract client unavailable: %v", err)
	}
	defer e.Close()

	pass, err := e.Recognize(context.Background(), renderText("NODE 12", 6))
	require.NoError(t, err)

	var texts []string
	for b := range pass.All() {
		texts = append(texts, b.Text)
		assert.Less(t, b.Quad.TL().X, b.Quad.BR().X)
		assert.Less(t, b.Quad.TL().Y, b.Quad.BR().Y)
	}
	require.NotEmpty(t, texts)
	assert.Contains(t, strings.ToUpper(strings.Join(texts, " ")), "12")
}

func TestEngineHonoursCancelledContext(t *testing.T) {
	ensureTesseractAvailable(t)

	e, err := New(Options{})
	if err != nil {
		t.Skipf("tesseract client unavailable: %v", err)
	}
	defer e.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Recognize(ctx, renderText("x", 2))
	assert.ErrorIs(t, err, context.Canceled)
}

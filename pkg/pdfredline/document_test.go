package pdfredline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/redliner/pkg/annotate"
	"github.com/gardar/redliner/pkg/geometry"
	"github.com/gardar/redliner/pkg/rederr"
)

// samplePDF builds a letter sized document with the given page count.
func samplePDF(t *testing.T, pages int) []byte {
	t.Helper()
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.Text(400, 100, fmt.Sprintf("FCS0712 page %d", i+1))
	}
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func testConfig() Config {
	cfg := DefaultConfig()
	logger, _ := test.NewNullLogger()
	cfg.Logger = logger
	return cfg
}

type fakeRasterizer struct {
	got  []byte
	page int
	dpi  int
	err  error
}

func (f *fakeRasterizer) Rasterize(_ context.Context, pdf []byte, page, dpi int) (image.Image, error) {
	f.got, f.page, f.dpi = pdf, page, dpi
	if f.err != nil {
		return nil, f.err
	}
	return image.NewGray(image.Rect(0, 0, 612*dpi/72, 792*dpi/72)), nil
}

func TestOpenReadsPageGeometry(t *testing.T) {
	doc, err := Open(samplePDF(t, 2), testConfig())
	require.NoError(t, err)

	assert.Equal(t, 2, doc.PageCount())
	assert.InDelta(t, 612, doc.Size().W, 0.01)
	assert.InDelta(t, 792, doc.Size().H, 0.01)
	assert.Equal(t, geometry.Rotation(0), doc.Rotation())
}

func TestOpenReadsRotation(t *testing.T) {
	data, err := withRotations(samplePDF(t, 2), map[int]geometry.Rotation{1: 90, 2: 270})
	require.NoError(t, err)

	doc, err := Open(data, testConfig())
	require.NoError(t, err)
	assert.Equal(t, geometry.Rotation(90), doc.Rotation())
	assert.Equal(t, geometry.Rotation(270), doc.Pages()[1].Rotation)
	assert.InDelta(t, 612, doc.Size().W, 0.01)
}

func TestOpenRejectsBadInput(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty":   nil,
		"garbage": []byte("this is not a pdf"),
	} {
		_, err := Open(data, testConfig())
		assert.True(t, errors.Is(err, rederr.ErrDocumentLoad), name)
	}
}

func TestRenderUsesCurrentRotation(t *testing.T) {
	r := &fakeRasterizer{}
	cfg := testConfig()
	cfg.Rasterizer = r

	doc, err := Open(samplePDF(t, 1), cfg)
	require.NoError(t, err)

	img, err := doc.Render(context.Background(), 144)
	require.NoError(t, err)
	assert.Equal(t, 1224, img.Bounds().Dx())
	assert.Equal(t, 1, r.page)
	assert.Equal(t, 144, r.dpi)

	doc.SetRotation(-90)
	_, err = doc.Render(context.Background(), 150)
	require.NoError(t, err)

	rendered, err := Open(r.got, testConfig())
	require.NoError(t, err)
	assert.Equal(t, geometry.Rotation(270), rendered.Rotation())
}

func TestRenderFailureIsLoadError(t *testing.T) {
	cfg := testConfig()
	cfg.Rasterizer = &fakeRasterizer{err: errors.New("boom")}
	doc, err := Open(samplePDF(t, 1), cfg)
	require.NoError(t, err)

	_, err = doc.Render(context.Background(), 150)
	assert.True(t, errors.Is(err, rederr.ErrDocumentLoad))
}

func TestDegenerateMarksAreRejected(t *testing.T) {
	doc, err := Open(samplePDF(t, 1), testConfig())
	require.NoError(t, err)
	style := annotate.TextStyle{FontSize: 8, Color: annotate.Red}

	p := geometry.Point{X: 10, Y: 10}
	assert.True(t, errors.Is(doc.AddLine(p, p), rederr.ErrAnnotationInsert))
	assert.True(t, errors.Is(doc.AddFreeText(geometry.Rect{X0: 1, Y0: 1, X1: 1, Y1: 5}, "x", style, 0), rederr.ErrAnnotationInsert))
	assert.True(t, errors.Is(doc.AddStamp(geometry.Rect{X0: 1, Y0: 1, X1: 9, Y1: 5}, nil, 0), rederr.ErrAnnotationInsert))
	assert.Zero(t, doc.Marks())

	require.NoError(t, doc.AddLine(p, geometry.Point{X: 20, Y: 15}))
	assert.Equal(t, 1, doc.Marks())
}

func TestSaveWritesLayerAndKeepsRotation(t *testing.T) {
	data, err := withRotations(samplePDF(t, 2), map[int]geometry.Rotation{1: 90, 2: 180})
	require.NoError(t, err)

	doc, err := Open(data, testConfig())
	require.NoError(t, err)
	doc.SetRotation(180)

	require.NoError(t, doc.AddLine(geometry.Point{X: 400, Y: 90}, geometry.Point{X: 480, Y: 100}))
	require.NoError(t, doc.AddFreeText(geometry.Rect{X0: 485, Y0: 90, X1: 560, Y1: 105}, "FCS1412",
		annotate.TextStyle{FontSize: 8, Color: annotate.Red}, doc.Rotation()))
	require.NoError(t, doc.AddFreeText(geometry.Rect{X0: 300, Y0: 300, X1: 340, Y1: 310}, "NODE 4",
		annotate.TextStyle{FontSize: 4, Color: annotate.Red, Fill: true, FillRGB: annotate.White}, doc.Rotation()))
	require.NoError(t, doc.AddStamp(geometry.Rect{X0: 50, Y0: 600, X1: 242, Y1: 696},
		image.NewRGBA(image.Rect(0, 0, 40, 20)), doc.Rotation()))

	path := filepath.Join(t.TempDir(), "out_annotated.pdf")
	require.NoError(t, doc.Save(path))

	out, err := SourceFor(path).Fetch(context.Background())
	require.NoError(t, err)

	_, err = Open(out, testConfig())
	assert.True(t, errors.Is(err, rederr.ErrAlreadyAnnotated))

	cfg := testConfig()
	cfg.Force = true
	reopened, err := Open(out, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.PageCount())
	assert.Equal(t, geometry.Rotation(180), reopened.Rotation())
	assert.Equal(t, geometry.Rotation(180), reopened.Pages()[1].Rotation)
	assert.InDelta(t, 612, reopened.Size().W, 0.01)
	assert.InDelta(t, 792, reopened.Size().H, 0.01)
}

func TestCustomLayerName(t *testing.T) {
	cfg := testConfig()
	cfg.LayerName = "RLMU 2024"
	doc, err := Open(samplePDF(t, 1), cfg)
	require.NoError(t, err)
	out, err := doc.Bytes()
	require.NoError(t, err)

	_, err = Open(out, testConfig())
	require.NoError(t, err, "a differently named layer does not block annotation")

	_, err = Open(out, cfg)
	assert.True(t, errors.Is(err, rederr.ErrAlreadyAnnotated))
}

func TestSaveFailure(t *testing.T) {
	doc, err := Open(samplePDF(t, 1), testConfig())
	require.NoError(t, err)
	err = doc.Save(filepath.Join(t.TempDir(), "missing", "dir", "out.pdf"))
	assert.True(t, errors.Is(err, rederr.ErrSave))
}

package gdocai

import (
	"bytes"
	"context"
	"errors"
	"image"
	"strings"
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/redliner/pkg/geometry"
	"github.com/gardar/redliner/pkg/ocr"
)

func normalizedLayout(start, end int64, x0, y0, x1, y1 float32, conf float32) *documentaipb.Document_Page_Layout {
	return &documentaipb.Document_Page_Layout{
		TextAnchor: &documentaipb.Document_TextAnchor{
			TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{{StartIndex: start, EndIndex: end}},
		},
		BoundingPoly: &documentaipb.BoundingPoly{
			NormalizedVertices: []*documentaipb.NormalizedVertex{
				{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
			},
		},
		Confidence: conf,
	}
}

func sampleDocument() *documentaipb.Document {
	return &documentaipb.Document{
		Text: "FCS0702-01-03\nNODE 3\n",
		Pages: []*documentaipb.Document_Page{{
			Lines: []*documentaipb.Document_Page_Line{
				{Layout: normalizedLayout(0, 14, 0.25, 0.125, 0.75, 0.25, 0.5)},
				{Layout: normalizedLayout(14, 21, 0.25, 0.5, 0.5, 0.625, 0.75)},
			},
			Tokens: []*documentaipb.Document_Page_Token{
				{Layout: normalizedLayout(0, 14, 0.25, 0.125, 0.75, 0.25, 0.5)},
				{Layout: normalizedLayout(14, 19, 0.25, 0.5, 0.375, 0.625, 0.75)},
				{Layout: normalizedLayout(19, 21, 0.4375, 0.5, 0.5, 0.625, 0.75)},
				// no geometry, skipped
				{Layout: &documentaipb.Document_Page_Layout{}},
			},
		}},
	}
}

func fakeEngine(level ocr.Level, doc *documentaipb.Document, seen *[]*documentaipb.ProcessRequest) *Engine {
	return &Engine{
		cfg: Config{ProjectID: "p", Location: "eu", ProcessorID: "ocr", Level: level},
		process: func(_ context.Context, req *documentaipb.ProcessRequest) (*documentaipb.ProcessResponse, error) {
			if seen != nil {
				*seen = append(*seen, req)
			}
			return &documentaipb.ProcessResponse{Document: doc}, nil
		},
	}
}

func blocksOf(p *ocr.Pass) []ocr.Block {
	var out []ocr.Block
	for b := range p.All() {
		out = append(out, b)
	}
	return out
}

func TestRecognizeLines(t *testing.T) {
	var reqs []*documentaipb.ProcessRequest
	e := fakeEngine(ocr.LevelLine, sampleDocument(), &reqs)

	pass, err := e.Recognize(context.Background(), image.NewGray(image.Rect(0, 0, 400, 800)))
	require.NoError(t, err)

	blocks := blocksOf(pass)
	require.Len(t, blocks, 2)
	assert.Equal(t, "FCS0702-01-03", blocks[0].Text)
	assert.Equal(t, geometry.QuadFromRect(100, 100, 300, 200), blocks[0].Quad)
	assert.InDelta(t, 0.5, blocks[0].Confidence, 1e-6)
	assert.Equal(t, "NODE 3", blocks[1].Text)

	require.Len(t, reqs, 1)
	assert.Equal(t, "projects/p/locations/eu/processors/ocr", reqs[0].Name)
	assert.True(t, reqs[0].SkipHumanReview)
	raw := reqs[0].GetRawDocument()
	require.NotNil(t, raw)
	assert.Equal(t, "image/png", raw.MimeType)
	assert.True(t, bytes.HasPrefix(raw.Content, []byte("\x89PNG")))
}

func TestRecognizeTokens(t *testing.T) {
	e := fakeEngine(ocr.LevelWord, sampleDocument(), nil)

	pass, err := e.Recognize(context.Background(), image.NewGray(image.Rect(0, 0, 400, 800)))
	require.NoError(t, err)

	blocks := blocksOf(pass)
	require.Len(t, blocks, 3)
	assert.Equal(t, []string{"FCS0702-01-03", "NODE", "3"}, []string{blocks[0].Text, blocks[1].Text, blocks[2].Text})
	assert.Equal(t, geometry.Point{X: 175, Y: 400}, blocks[2].Quad.TL())
}

func TestRecognizeEmptyResponse(t *testing.T) {
	e := fakeEngine(ocr.LevelLine, &documentaipb.Document{}, nil)

	pass, err := e.Recognize(context.Background(), image.NewGray(image.Rect(0, 0, 4, 4)))
	require.NoError(t, err)
	assert.Empty(t, blocksOf(pass))
}

func TestRecognizePropagatesErrors(t *testing.T) {
	e := &Engine{process: func(context.Context, *documentaipb.ProcessRequest) (*documentaipb.ProcessResponse, error) {
		return nil, errors.New("quota exceeded")
	}}

	_, err := e.Recognize(context.Background(), image.NewGray(image.Rect(0, 0, 4, 4)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestAbsoluteVerticesFallback(t *testing.T) {
	layout := &documentaipb.Document_Page_Layout{
		BoundingPoly: &documentaipb.BoundingPoly{
			Vertices: []*documentaipb.Vertex{{X: 1, Y: 2}, {X: 9, Y: 2}, {X: 9, Y: 7}, {X: 1, Y: 7}},
		},
	}
	q, ok := quadFromLayout(layout, 100, 100)
	require.True(t, ok)
	assert.Equal(t, geometry.QuadFromRect(1, 2, 9, 7), q)

	_, ok = quadFromLayout(&documentaipb.Document_Page_Layout{}, 100, 100)
	assert.False(t, ok)
}

func TestTextFromLayoutClampsSegments(t *testing.T) {
	layout := &documentaipb.Document_Page_Layout{
		TextAnchor: &documentaipb.Document_TextAnchor{
			TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{
				{StartIndex: 0, EndIndex: 4},
				{StartIndex: 8, EndIndex: 99},
			},
		},
	}
	assert.Equal(t, "NODEü12", textFromLayout(layout, "NODE -- ü12"))
	assert.Empty(t, textFromLayout(nil, "x"))
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{ProjectID: "p", Location: "us"}
	assert.Error(t, cfg.Validate())
	cfg.ProcessorID = "x"
	assert.NoError(t, cfg.Validate())
}

func TestDumpWritesResponse(t *testing.T) {
	var dump strings.Builder
	e := fakeEngine(ocr.LevelLine, sampleDocument(), nil)
	e.cfg.Dump = &dump

	_, err := e.ProcessImage(context.Background(), []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Contains(t, dump.String(), "FCS0702-01-03")
}

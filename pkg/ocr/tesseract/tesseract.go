// Package tesseract provides an ocr.Engine backed by Tesseract through gosseract.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strconv"

	"github.com/otiai10/gosseract/v2"

	"github.com/gardar/redliner/pkg/hocr"
	"github.com/gardar/redliner/pkg/ocr"
)

// Options configures the Tesseract client.
type Options struct {
	Languages   []string
	PageSegMode int // 0 keeps the Tesseract default
	DPI         int // passed as user_defined_dpi when > 0
	Level       ocr.Level
	Variables   map[string]string
}

// Engine runs every recognition on one long-lived gosseract client.
// Callers serialize access (see ocr.Serialize).
type Engine struct {
	client *gosseract.Client
	opts   Options
}

// New creates the client and applies the static options.
func New(opts Options) (*Engine, error) {
	c := gosseract.NewClient()
	if len(opts.Languages) > 0 {
		if err := c.SetLanguage(opts.Languages...); err != nil {
			c.Close()
			return nil, fmt.Errorf("set languages: %w", err)
		}
	}
	if opts.PageSegMode > 0 {
		if err := c.SetPageSegMode(gosseract.PageSegMode(opts.PageSegMode)); err != nil {
			c.Close()
			return nil, fmt.Errorf("set page segmentation mode: %w", err)
		}
	}
	if opts.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), strconv.Itoa(opts.DPI)); err != nil {
			c.Close()
			return nil, fmt.Errorf("set dpi: %w", err)
		}
	}
	for k, v := range opts.Variables {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			c.Close()
			return nil, fmt.Errorf("set variable %s: %w", k, err)
		}
	}
	return &Engine{client: c, opts: opts}, nil
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize OCRs img and returns its text lines (or words) as blocks.
// Coordinates are relative to the top-left corner of img's bounds.
func (e *Engine) Recognize(ctx context.Context, img image.Image) (*ocr.Pass, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	if err := e.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	out, err := e.client.HOCRText()
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}
	pages, err := hocr.ParseHOCR([]byte(out))
	if err != nil {
		return nil, fmt.Errorf("failed to parse tesseract output: %w", err)
	}

	return ocr.PassOf(ocr.FromHOCR(pages[0], e.opts.Level)...), nil
}

func (e *Engine) Close() error {
	return e.client.Close()
}

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/gardar/redliner/pkg/gdocai"
	"github.com/gardar/redliner/pkg/ocr"
	"github.com/gardar/redliner/pkg/ocr/tesseract"
	"github.com/gardar/redliner/pkg/redline"
)

// newEngine builds the OCR engine named by cfg.Engine.
func newEngine(ctx context.Context, cfg redline.OCRConfig, dpi int, dump io.Writer) (ocr.Engine, error) {
	level := ocr.ParseLevel(cfg.Level)
	switch cfg.Engine {
	case "", "tesseract":
		return tesseract.New(tesseract.Options{
			Languages:   cfg.Languages,
			PageSegMode: cfg.PSM,
			DPI:         dpi,
			Level:       level,
		})
	case "gdocai":
		gc := cfg.GDocAI
		gc.Level = level
		gc.Dump = dump
		return gdocai.NewEngine(ctx, gc)
	case "recorded":
		if cfg.Recorded == "" {
			return nil, fmt.Errorf("the recorded engine needs ocr.recorded to point at a recording")
		}
		return ocr.LoadRecorded(cfg.Recorded)
	}
	return nil, fmt.Errorf("unknown ocr engine %q", cfg.Engine)
}

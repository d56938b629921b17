// Package ocr defines the contract between the redliner and its text
// recognition back ends.
//
// An Engine turns a raster into a Pass: a finite, lazily consumed sequence of
// recognized blocks, each a four-corner polygon in the coordinates of the
// image it was given, the recognized text and a confidence. A Pass can be
// iterated once; iterating it again yields nothing, so every search attempt
// asks the engine for a fresh one.
//
// Engines are expensive to create. The process keeps a single shared engine
// (see Init and Shared) that is handed to every page session and is never
// invoked concurrently.
//
// Main Functions:
//
// - Init / Shared: Create and retrieve the process-wide engine
// - FromHOCR: Convert parsed hOCR into blocks
// - NewRecorded: An engine that replays previously captured passes
package ocr

import (
	"context"
	"image"

	"github.com/gardar/redliner/pkg/geometry"
)

// Block is one recognized text region.
type Block struct {
	Quad       geometry.Quad `json:"quad"`
	Text       string        `json:"text"`
	Confidence float64       `json:"confidence"`
}

// Engine recognizes text in an image. Block coordinates are pixels
// relative to the top-left corner of the image bounds.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, img image.Image) (*Pass, error)
	Close() error
}

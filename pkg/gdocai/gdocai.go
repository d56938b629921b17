// Package gdocai recognizes text with Google Document AI.
//
// The Engine sends each raster as a PNG to an OCR processor and converts the
// tokens (or lines) of the first returned page into ocr.Blocks, denormalizing
// Document AI's bounding polygons against the size of the submitted image.
//
// Key Features:
//
// - One DocumentProcessorClient per engine, created once and reused
// - Token or line granularity
// - Optional raw response dumps (protojson) for troubleshooting
//
// Usage Requirements:
//
// - Google Cloud project with Document AI API enabled
// - Document AI processor configured for OCR
// - Authentication via GOOGLE_APPLICATION_CREDENTIALS environment variable
// (or Config.CredentialsFile)
package gdocai

import (
	"fmt"
	"io"

	"github.com/gardar/redliner/pkg/ocr"
)

// Config identifies the Document AI processor.
type Config struct {
	ProjectID       string `yaml:"project_id"`
	Location        string `yaml:"location"`
	ProcessorID     string `yaml:"processor_id"`
	CredentialsFile string `yaml:"credentials_file"`

	// Level selects tokens (ocr.LevelWord) or lines (ocr.LevelLine).
	Level ocr.Level `yaml:"-"`
	// Dump receives the raw response of every call as JSON when set.
	Dump io.Writer `yaml:"-"`
}

// Validate reports a missing processor coordinate.
func (c *Config) Validate() error {
	switch {
	case c.ProjectID == "":
		return fmt.Errorf("document ai project_id is required")
	case c.Location == "":
		return fmt.Errorf("document ai location is required")
	case c.ProcessorID == "":
		return fmt.Errorf("document ai processor_id is required")
	}
	return nil
}

// ProcessorName is the resource name of the configured processor.
func (c *Config) ProcessorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}

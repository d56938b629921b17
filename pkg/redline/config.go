package redline

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gardar/redliner/pkg/annotate"
	"github.com/gardar/redliner/pkg/gdocai"
	"github.com/gardar/redliner/pkg/geometry"
	"github.com/gardar/redliner/pkg/rederr"
	"github.com/gardar/redliner/pkg/search"
)

// Config holds the options of a redline run.
type Config struct {
	Format            string     `yaml:"format"` // "current" or "legacy"
	DPI               int        `yaml:"dpi"`
	Crop              *Crop      `yaml:"crop"` // nil = format default
	FullPage          bool       `yaml:"full_page"`
	RotationRetries   *int       `yaml:"rotation_retries"` // nil = format default
	RequireMarker     bool       `yaml:"require_marker"`
	ReplacementPrefix string     `yaml:"replacement_prefix"`
	FCSPlacement      string     `yaml:"fcs_placement"` // "right" or "left"
	DebugDir          string     `yaml:"debug_dir"`
	Stamp             string     `yaml:"stamp"` // stamp image path, "" = built-in
	LayerName         string     `yaml:"layer_name"`
	Force             bool       `yaml:"force"`
	Debug             bool       `yaml:"debug"`
	Font              FontConfig `yaml:"font"`
	OCR               OCRConfig  `yaml:"ocr"`

	Logger io.Writer `yaml:"-"` // nil = stdout
}

// Crop is the OCR region in 72 dpi units, either as corners or as an
// origin plus Width and Height.
type Crop struct {
	X0     float64 `yaml:"x0"`
	Y0     float64 `yaml:"y0"`
	X1     float64 `yaml:"x1"`
	Y1     float64 `yaml:"y1"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// FontConfig selects the replacement text face. Size 0 keeps the format
// default.
type FontConfig struct {
	Name  string  `yaml:"name"`
	Style string  `yaml:"style"`
	Size  float64 `yaml:"size"`
}

// OCRConfig selects and configures the recognition engine.
type OCRConfig struct {
	Engine    string        `yaml:"engine"` // "tesseract", "gdocai" or "recorded"
	Languages []string      `yaml:"languages"`
	Level     string        `yaml:"level"` // "line" or "word"
	PSM       int           `yaml:"psm"`
	Recorded  string        `yaml:"recorded"` // JSON file replayed by the recorded engine
	GDocAI    gdocai.Config `yaml:"gdocai"`
}

// Crop rectangles of the two drawing formats.
var (
	CurrentCrop = Crop{X0: 730, Y0: 12, X1: 1176, Y1: 710}
	LegacyCrop  = Crop{X0: 989, Y0: 62, X1: 1152, Y1: 624}
)

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Format:            "current",
		DPI:               150,
		RequireMarker:     true,
		ReplacementPrefix: "FCS14",
		FCSPlacement:      "right",
		LayerName:         "Redline",
		Font:              FontConfig{Name: "Helvetica"},
		OCR: OCRConfig{
			Engine:    "tesseract",
			Languages: []string{"eng"},
			Level:     "line",
			PSM:       11,
		},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Layout is the annotation layout of the configured format.
func (c Config) Layout() (annotate.Layout, error) {
	return annotate.ParseLayout(c.Format)
}

// CropRect returns the configured crop or the format default.
func (c Config) CropRect() Crop {
	if c.Crop != nil {
		return *c.Crop
	}
	if c.Format == "legacy" {
		return LegacyCrop
	}
	return CurrentCrop
}

// Retries is the rotation budget. Legacy drawings are often scanned
// sideways and get all three rotations by default; current drawings get
// a single pass.
func (c Config) Retries() int {
	if c.RotationRetries != nil {
		return *c.RotationRetries
	}
	if c.Format == "legacy" {
		return search.MaxRotations
	}
	return 0
}

// Validate checks the options that do not need a document.
func (c Config) Validate() error {
	if _, err := c.Layout(); err != nil {
		return err
	}
	if _, err := annotate.ParsePlacement(c.FCSPlacement); err != nil {
		return err
	}
	if c.DPI < geometry.MinDPI || c.DPI > geometry.MaxDPI {
		return rederr.Configuration("dpi must be within [%d, %d], got %d", geometry.MinDPI, geometry.MaxDPI, c.DPI)
	}
	if r := c.Retries(); r < 0 || r > search.MaxRotations {
		return rederr.Configuration("rotation_retries must be within [0, %d], got %d", search.MaxRotations, r)
	}
	if c.ReplacementPrefix == "" {
		return rederr.Configuration("replacement_prefix cannot be empty")
	}
	if c.Font.Size < 0 {
		return rederr.Configuration("font size cannot be negative")
	}
	return nil
}

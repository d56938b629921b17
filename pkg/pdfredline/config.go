package pdfredline

import (
	"github.com/sirupsen/logrus"
)

// Config holds the options for opening and writing redlined documents.
type Config struct {
	Debug      bool               // Dump the PDF structure and outline marks
	Force      bool               // Annotate even if the redline layer already exists
	LayerName  string             // Name of the optional content layer holding the marks
	Rasterizer Rasterizer         // Renders page 1; nil = Pdftoppm
	Logger     logrus.FieldLogger // nil = logrus standard logger
	Font       FontConfig
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() Config {
	return Config{
		LayerName: "Redline",
		Font:      DefaultFont,
	}
}

// FontConfig contains font settings for the replacement text
type FontConfig struct {
	Name        string  // Font name (e.g., "Helvetica")
	Style       string  // Font style ("", "B", "I", "BI")
	AscentRatio float64 // Vertical positioning ratio
	Padding     float64 // Inset of the text inside its box, in points
}

// DefaultFont is the core Helvetica face, which needs no embedding.
var DefaultFont = FontConfig{
	Name:        "Helvetica",
	Style:       "",
	AscentRatio: 0.718,
	Padding:     1,
}

func (c Config) logger() logrus.FieldLogger {
	if c.Logger == nil {
		return logrus.StandardLogger()
	}
	return c.Logger
}

func (c Config) rasterizer() Rasterizer {
	if c.Rasterizer == nil {
		return Pdftoppm{}
	}
	return c.Rasterizer
}

func (c Config) layerName() string {
	if c.LayerName == "" {
		return DefaultConfig().LayerName
	}
	return c.LayerName
}

package redline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/redliner/pkg/rederr"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0, cfg.Retries())
	assert.Equal(t, CurrentCrop, cfg.CropRect())

	cfg.Format = "legacy"
	assert.Equal(t, 3, cfg.Retries())
	assert.Equal(t, LegacyCrop, cfg.CropRect())

	zero := 0
	cfg.RotationRetries = &zero
	assert.Equal(t, 0, cfg.Retries())
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "redline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
format: legacy
dpi: 200
crop: {x0: 10, y0: 20, width: 100, height: 50}
rotation_retries: 1
ocr:
  engine: gdocai
  gdocai:
    project_id: p
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.Format)
	assert.Equal(t, 200, cfg.DPI)
	assert.Equal(t, Crop{X0: 10, Y0: 20, Width: 100, Height: 50}, cfg.CropRect())
	assert.Equal(t, 1, cfg.Retries())
	assert.Equal(t, "gdocai", cfg.OCR.Engine)
	assert.Equal(t, "FCS14", cfg.ReplacementPrefix)
	assert.NoError(t, cfg.Validate())

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateRejects(t *testing.T) {
	four := 4
	tests := map[string]func(*Config){
		"format":    func(c *Config) { c.Format = "v3" },
		"placement": func(c *Config) { c.FCSPlacement = "up" },
		"dpi":       func(c *Config) { c.DPI = 10 },
		"retries":   func(c *Config) { c.RotationRetries = &four },
		"prefix":    func(c *Config) { c.ReplacementPrefix = "" },
		"font":      func(c *Config) { c.Font.Size = -1 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			if name == "dpi" || name == "retries" || name == "prefix" || name == "font" {
				assert.True(t, errors.Is(err, rederr.ErrConfiguration))
			}
		})
	}
}

package pdfredline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// Rasterizer renders one page of a PDF document at the given DPI.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdf []byte, page, dpi int) (image.Image, error)
}

// Pdftoppm renders pages with pdftoppm from poppler-utils.
type Pdftoppm struct {
	Binary string // default "pdftoppm"
}

func (p Pdftoppm) Rasterize(ctx context.Context, pdf []byte, page, dpi int) (image.Image, error) {
	bin := p.Binary
	if bin == "" {
		bin = "pdftoppm"
	}

	tmpDir, err := os.MkdirTemp("", "redline-page-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	input := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(input, pdf, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write temp pdf: %w", err)
	}
	outputPrefix := filepath.Join(tmpDir, "page")

	pageStr := strconv.Itoa(page)
	cmd := exec.CommandContext(ctx, bin,
		"-png",
		"-f", pageStr,
		"-l", pageStr,
		"-r", strconv.Itoa(dpi),
		"-singlefile",
		input,
		outputPrefix,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w (output: %s)", err, string(output))
	}

	// -singlefile writes <prefix>.png
	data, err := os.ReadFile(outputPrefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("pdftoppm did not create expected output: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode rendered page: %w", err)
	}
	return img, nil
}

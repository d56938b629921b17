package pdfredline

import (
	"bytes"
	"fmt"
	"io"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"

	"github.com/gardar/redliner/pkg/geometry"
)

// Bytes renders the redlined document. Every page is imported without
// rotation, page 1 gets the redline layer, and the rotations are put back
// afterwards; page 1 keeps its current rotation.
func (d *Document) Bytes() ([]byte, error) {
	unrotated := make(map[int]geometry.Rotation, len(d.pages))
	restore := make(map[int]geometry.Rotation, len(d.pages))
	for i, p := range d.pages {
		rot := p.Rotation
		if i == 0 {
			rot = d.rotation
		}
		if p.Rotation != 0 {
			unrotated[i+1] = 0
		}
		if rot != 0 {
			restore[i+1] = rot
		}
	}

	// always rewritten: gofpdi needs classic cross reference tables
	flat, err := withRotations(d.data, unrotated)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize page rotation: %w", err)
	}

	pdf := fpdf.New("P", "pt", "", "")
	pdf.SetAutoPageBreak(false, 0)
	importer := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(flat))

	layer := pdf.AddLayer(d.cfg.layerName(), true)
	pdf.OpenLayerPane()

	for i, p := range d.pages {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: p.Size.W, Ht: p.Size.H})

		tpl := importer.ImportPageFromStream(pdf, &rs, i+1, "/MediaBox")
		importer.UseImportedTemplate(pdf, tpl, 0, 0, p.Size.W, p.Size.H)

		if i == 0 {
			if err := drawRedlineLayer(pdf, layer, d.marks, d.cfg.Font, d.cfg.Debug); err != nil {
				return nil, fmt.Errorf("failed to draw redline layer: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	if len(restore) == 0 {
		return buf.Bytes(), nil
	}
	out, err := withRotations(buf.Bytes(), restore)
	if err != nil {
		return nil, fmt.Errorf("failed to restore page rotation: %w", err)
	}
	return out, nil
}

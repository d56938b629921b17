// Package pdfredline reads loop drawings and writes redlined copies of them.
//
// A Document is opened from raw PDF bytes. Its first page can be rendered
// to a raster at any DPI and in any of the four rotations, and it collects
// the redline marks placed on that page: strike lines, replacement text,
// white cover boxes and a stamp image. Save writes a copy of the document
// in which page 1 carries those marks on their own optional content layer,
// so they can be toggled in compatible PDF readers.
//
// Key Features:
//
// - Load documents from local files or over HTTP
// - Inspect page geometry and rotation with pdfcpu
// - Rasterize the first page with pdftoppm
// - Detect an existing redline layer to prevent annotating a drawing twice
// - Draw marks with fpdf on top of the imported original pages
package pdfredline

package pdfredline

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/gardar/redliner/pkg/annotate"
	"github.com/gardar/redliner/pkg/geometry"
	"github.com/gardar/redliner/pkg/rederr"
)

// Document is an opened drawing. Marks are collected in memory and only
// written by Save.
type Document struct {
	cfg      Config
	log      logrus.FieldLogger
	data     []byte
	pages    []PageInfo
	rotation geometry.Rotation
	marks    []mark
}

// Open inspects a PDF document. A document that already carries the
// redline layer is rejected with an AlreadyAnnotated error unless
// cfg.Force is set.
func Open(data []byte, cfg Config) (*Document, error) {
	log := cfg.logger()
	if len(data) == 0 {
		return nil, rederr.DocumentLoad(nil, "input PDF data is empty")
	}
	if cfg.Debug {
		dumpPDFStructure(data, 2000, log)
	}

	ctx, err := readContext(data)
	if err != nil {
		return nil, rederr.DocumentLoad(err, "failed to open the document")
	}
	if ctx.PageCount < 1 {
		return nil, rederr.DocumentLoad(nil, "the document has no pages")
	}
	pages, err := inspectPages(ctx)
	if err != nil {
		return nil, rederr.DocumentLoad(err, "failed to inspect the document")
	}

	layers := CheckExistingLayers(ctx, data, cfg.layerName())
	if len(layers.Layers) > 0 {
		log.WithField("layers", layers.Layers).Debug("existing layers detected")
	}
	for _, w := range layers.Warnings {
		log.Warn(w)
	}
	if layers.HasRedlineLayer {
		if !cfg.Force {
			return nil, rederr.AlreadyAnnotated("the document already has a redline layer '%s', use -force to reapply",
				layers.RedlineLayerName)
		}
		log.Warn("the document already has a redline layer, reapplying due to -force will duplicate it")
	}

	return &Document{
		cfg:      cfg,
		log:      log,
		data:     data,
		pages:    pages,
		rotation: pages[0].Rotation,
	}, nil
}

// Size is the un-rotated media box of page 1.
func (d *Document) Size() geometry.Size { return d.pages[0].Size }

// Rotation is the current rotation of page 1.
func (d *Document) Rotation() geometry.Rotation { return d.rotation }

// SetRotation changes the rotation page 1 is rendered and saved with.
func (d *Document) SetRotation(r geometry.Rotation) { d.rotation = r.Normalize() }

func (d *Document) PageCount() int { return len(d.pages) }

// Pages returns the geometry of every page as read from the file.
func (d *Document) Pages() []PageInfo {
	return append([]PageInfo(nil), d.pages...)
}

// Marks is the number of marks placed so far.
func (d *Document) Marks() int { return len(d.marks) }

// Render rasterizes page 1 at dpi in its current rotation.
func (d *Document) Render(ctx context.Context, dpi int) (image.Image, error) {
	if dpi <= 0 {
		return nil, rederr.InvalidValue("dpi must be positive, got %d", dpi)
	}
	data := d.data
	if d.rotation != d.pages[0].Rotation {
		var err error
		data, err = withRotations(d.data, map[int]geometry.Rotation{1: d.rotation})
		if err != nil {
			return nil, rederr.DocumentLoad(err, "failed to rotate page 1 to %d", d.rotation)
		}
	}
	img, err := d.cfg.rasterizer().Rasterize(ctx, data, 1, dpi)
	if err != nil {
		return nil, rederr.DocumentLoad(err, "failed to render page 1")
	}
	return img, nil
}

func finite(p geometry.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// AddLine places a strike line from one point to another.
func (d *Document) AddLine(from, to geometry.Point) error {
	if !finite(from) || !finite(to) || from == to {
		return rederr.AnnotationInsert(nil, "line from %v to %v is degenerate", from, to)
	}
	d.marks = append(d.marks, lineMark{from: from, to: to})
	return nil
}

// AddFreeText places text inside r, turned by rot so that it reads upright
// on the displayed page.
func (d *Document) AddFreeText(r geometry.Rect, text string, style annotate.TextStyle, rot geometry.Rotation) error {
	if r.IsEmpty() {
		return rederr.AnnotationInsert(nil, "text rectangle %v is empty", r)
	}
	if style.FontSize <= 0 {
		return rederr.AnnotationInsert(nil, "font size must be positive, got %g", style.FontSize)
	}
	latin1, ok := toLatin1(text)
	if !ok {
		d.log.WithField("text", text).Warn("replacement text is not Latin-1, some characters were replaced")
	}
	d.marks = append(d.marks, textMark{rect: r.Normalize(), text: latin1, style: style, rot: rot.Normalize()})
	return nil
}

// AddStamp places img inside r, kept proportional and turned by rot.
func (d *Document) AddStamp(r geometry.Rect, img image.Image, rot geometry.Rotation) error {
	if r.IsEmpty() {
		return rederr.AnnotationInsert(nil, "stamp rectangle %v is empty", r)
	}
	if img == nil || img.Bounds().Empty() {
		return rederr.AnnotationInsert(nil, "stamp image is empty")
	}
	d.marks = append(d.marks, stampMark{rect: r.Normalize(), img: img, rot: rot.Normalize()})
	return nil
}

// Save writes the redlined document to path.
func (d *Document) Save(path string) error {
	out, err := d.Bytes()
	if err != nil {
		return rederr.Save(err, "failed to build the annotated document")
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return rederr.Save(err, "error while saving the annotated pdf")
	}
	d.log.WithFields(logrus.Fields{"path": path, "marks": len(d.marks)}).Info("annotated document saved")
	return nil
}

func (d *Document) String() string {
	return fmt.Sprintf("document(%d pages, %v, rotation %d)", len(d.pages), d.Size(), d.rotation)
}

// Package redline runs the redlining pipeline on loop drawings: render the
// first page, recognize the text of the configured region, find the FCS
// markers and node labels, and save a copy of the document carrying the
// redline marks and a stamp.
package redline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"

	"github.com/gardar/redliner/pkg/annotate"
	"github.com/gardar/redliner/pkg/diag"
	"github.com/gardar/redliner/pkg/geometry"
	"github.com/gardar/redliner/pkg/matcher"
	"github.com/gardar/redliner/pkg/ocr"
	"github.com/gardar/redliner/pkg/pdfredline"
	"github.com/gardar/redliner/pkg/rederr"
	"github.com/gardar/redliner/pkg/search"
	"github.com/gardar/redliner/pkg/stamp"
)

// Page is the document side of a run. Only page 1 is ever redlined.
type Page interface {
	Size() geometry.Size
	Rotation() geometry.Rotation
	SetRotation(r geometry.Rotation)
	Render(ctx context.Context, dpi int) (image.Image, error)
	AddLine(from, to geometry.Point) error
	AddFreeText(r geometry.Rect, text string, style annotate.TextStyle, rot geometry.Rotation) error
	AddStamp(r geometry.Rect, img image.Image, rot geometry.Rotation) error
	Save(path string) error
}

var _ Page = (*pdfredline.Document)(nil)

// Loader opens the document a source refers to.
type Loader interface {
	Load(ctx context.Context, source string, log logrus.FieldLogger) (Page, error)
}

// PDFLoader fetches a local file or URL and opens it with pdfredline.
type PDFLoader struct {
	Config pdfredline.Config
}

func (l PDFLoader) Load(ctx context.Context, source string, log logrus.FieldLogger) (Page, error) {
	data, err := pdfredline.SourceFor(source).Fetch(ctx)
	if err != nil {
		return nil, err
	}
	cfg := l.Config
	cfg.Logger = log
	doc, err := pdfredline.Open(data, cfg)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// AnnotatedPath is the default output of a source: the file name with an
// "_annotated" suffix, next to local files and in the working directory
// for URLs.
func AnnotatedPath(source string) string {
	name := source
	if src, ok := pdfredline.SourceFor(source).(*pdfredline.HTTPSource); ok {
		name = src.Name()
	}
	ext := filepath.Ext(name)
	if ext == "" {
		return name + "_annotated.pdf"
	}
	return strings.TrimSuffix(name, ext) + "_annotated" + ext
}

// Session redlines documents one at a time with a shared OCR engine.
type Session struct {
	cfg       Config
	layout    annotate.Layout
	placement annotate.Placement
	engine    ocr.Engine
	strategy  matcher.Strategy
	loader    Loader
	stamp     image.Image
	out       io.Writer
	formatter logrus.Formatter
}

// Option configures a Session.
type Option func(*Session)

func WithLoader(l Loader) Option {
	return func(s *Session) { s.loader = l }
}

func WithStrategy(st matcher.Strategy) Option {
	return func(s *Session) { s.strategy = st }
}

// WithStamp replaces the configured stamp image.
func WithStamp(img image.Image) Option {
	return func(s *Session) { s.stamp = img }
}

func WithFormatter(f logrus.Formatter) Option {
	return func(s *Session) { s.formatter = f }
}

// NewSession validates cfg and prepares everything that does not depend on
// a document.
func NewSession(cfg Config, engine ocr.Engine, opts ...Option) (*Session, error) {
	if engine == nil {
		return nil, rederr.Configuration("an OCR engine is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	layout, _ := cfg.Layout()
	placement, _ := annotate.ParsePlacement(cfg.FCSPlacement)

	mopts := matcher.DefaultOptions()
	mopts.ReplacementPrefix = cfg.ReplacementPrefix
	var strategy matcher.Strategy = matcher.NewCurrent(mopts)
	if layout == annotate.LayoutLegacy {
		strategy = matcher.NewLegacy(mopts)
	}

	font := pdfredline.DefaultFont
	if cfg.Font.Name != "" {
		font.Name = cfg.Font.Name
		font.Style = cfg.Font.Style
	}

	s := &Session{
		cfg:       cfg,
		layout:    layout,
		placement: placement,
		engine:    engine,
		strategy:  strategy,
		loader: PDFLoader{Config: pdfredline.Config{
			Debug:     cfg.Debug,
			Force:     cfg.Force,
			LayerName: cfg.LayerName,
			Font:      font,
		}},
		out: cfg.Logger,
	}
	for _, o := range opts {
		o(s)
	}

	if s.stamp == nil {
		if cfg.Stamp != "" {
			img, err := stamp.Load(cfg.Stamp)
			if err != nil {
				return nil, rederr.Configuration("cannot use stamp %s: %v", cfg.Stamp, err)
			}
			s.stamp = img
		} else {
			s.stamp = stamp.Default()
		}
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	return s, nil
}

// run is the state of one MakeRedline call.
type run struct {
	s        *Session
	log      *logrus.Entry
	hook     *opLog
	recorder diag.Recorder
	page     Page
	frame    *geometry.Frame
	raster   image.Image
	pairs    []annotate.Pair
	stampAt  image.Rectangle
	outcome  Outcome
}

// MakeRedline redlines the document at source and saves it to output
// (AnnotatedPath(source) when empty). The outcome is always filled in; the
// error is the one its Status describes. An already annotated document is
// reported as Skipped.
func (s *Session) MakeRedline(ctx context.Context, source, output string) (Outcome, error) {
	if output == "" && source != "" {
		output = AnnotatedPath(source)
	}

	hook := &opLog{}
	logger := logrus.New()
	logger.SetOutput(s.out)
	if s.formatter != nil {
		logger.SetFormatter(s.formatter)
	}
	if s.cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	logger.AddHook(hook)

	r := &run{s: s, hook: hook}
	r.outcome = Outcome{RunID: uuid.NewString(), Source: source}
	name := filepath.Base(source)
	if src, ok := pdfredline.SourceFor(source).(*pdfredline.HTTPSource); ok {
		name = src.Name()
	}
	r.log = logger.WithFields(logrus.Fields{
		fieldRun:      r.outcome.RunID,
		fieldDocument: name,
		fieldFormat:   s.layout.String(),
	})
	if s.cfg.DebugDir != "" {
		r.recorder = diag.Recorder{Dir: filepath.Join(s.cfg.DebugDir, strings.TrimSuffix(name, filepath.Ext(name)))}
	}

	err := r.execute(ctx, source, output)
	return r.finish(source, err)
}

func (r *run) execute(ctx context.Context, source, output string) error {
	s := r.s
	if source == "" {
		return rederr.DocumentLoad(nil, "pdf path cannot be empty")
	}

	r.log.Infof("Opening %s...", source)
	page, err := s.loader.Load(ctx, source, r.log)
	if err != nil {
		return err
	}
	r.page = page

	frame := geometry.NewFrame(page.Size(), page.Rotation())
	if s.cfg.FullPage {
		frame.UseFullPage()
	} else {
		c := s.cfg.CropRect()
		if c.Width > 0 || c.Height > 0 {
			err = frame.SetCropWH(c.X0, c.Y0, c.Width, c.Height)
		} else {
			err = frame.SetCrop(c.X0, c.Y0, c.X1, c.Y1)
		}
		if err != nil {
			return err
		}
	}
	if err := frame.SetDPI(s.cfg.DPI); err != nil {
		return err
	}
	r.frame = frame

	ctrl, err := search.New(s.cfg.Retries(), r.log)
	if err != nil {
		return err
	}
	mode := matcher.RequireMarker
	if !s.cfg.RequireMarker {
		mode = matcher.NodeOnly
	}
	m := matcher.New(s.strategy, matcher.WithMode(mode), matcher.WithLogger(r.log))

	res, err := ctrl.Run(ctx,
		func(ctx context.Context, attempt int) (matcher.Result, error) {
			return r.pass(ctx, m, attempt)
		},
		func() error {
			frame.Rotate(90)
			page.SetRotation(frame.Rotation())
			return nil
		},
	)
	r.outcome.Passes = ctrl.Attempts()
	r.outcome.Rotation = int(frame.Rotation())
	if err != nil {
		return err
	}
	r.outcome.Matches = len(res.FCS()) + len(res.Nodes())

	r.annotate(res)
	r.addStamp()
	r.saveMarked()

	r.log.Info("Saving the annotated pdf and closing the document...")
	if err := page.Save(output); err != nil {
		return err
	}
	r.outcome.Output = output
	return nil
}

// pass renders the page in its current rotation, recognizes the cropped
// region and matches the result.
func (r *run) pass(ctx context.Context, m *matcher.Matcher, attempt int) (matcher.Result, error) {
	r.log.WithFields(logrus.Fields{"attempt": attempt, "rotation": int(r.frame.Rotation())}).Info("Rendering the page...")
	img, err := r.page.Render(ctx, r.frame.DPI())
	if err != nil {
		return matcher.Result{}, err
	}
	r.raster = img
	r.debugSave(diag.OriginalImage, img)

	if !r.frame.CropOverlaps(img.Bounds()) {
		r.log.WithField("rotation", int(r.frame.Rotation())).
			Warn("the crop region lies outside the rotated page, nothing to recognize")
		return matcher.Result{}, nil
	}
	rect, err := r.frame.CropPixels(img.Bounds())
	if err != nil {
		return matcher.Result{}, err
	}
	cropped := cropImage(img, rect)

	r.log.Info("Recognizing the cropped image...")
	pass, err := r.s.engine.Recognize(ctx, cropped)
	if err != nil {
		return matcher.Result{}, rederr.OCR(err, "text recognition failed")
	}

	if r.recorder.Enabled() {
		canvas := diag.NewCanvas(cropped)
		m = m.WithCanvas(canvas)
		defer r.debugSave(diag.CroppedImage, canvas.Image())
	}
	return m.Match(pass.All())
}

// annotate places the marks of every record. A mark that cannot be placed
// is logged and skipped.
func (r *run) annotate(res matcher.Result) {
	b := annotate.NewBuilder(r.frame, r.s.layout,
		annotate.WithPlacement(r.s.placement),
		annotate.WithFontSize(r.s.cfg.Font.Size),
	)
	pairs, errs := b.BuildAll(res)
	for _, err := range errs {
		r.log.WithError(err).Warn("failed to compute an annotation")
	}

	for _, p := range pairs {
		if !p.Cover {
			if err := r.page.AddLine(p.Line.TL(), p.Line.BR()); err != nil {
				r.log.WithError(err).Warnf("failed to add a %s line annotation", p.Kind)
			} else {
				r.outcome.Annotations++
			}
		}
		if err := r.page.AddFreeText(p.Text, p.Content, p.Style, p.Rotate); err != nil {
			r.log.WithError(err).Warnf("failed to add a %s text annotation", p.Kind)
		} else {
			r.outcome.Annotations++
		}
	}
	r.pairs = pairs
}

// addStamp puts the stamp in the emptiest area of the last rendered page.
func (r *run) addStamp() {
	if r.raster == nil {
		return
	}
	loc, err := stamp.Locate(r.raster, r.frame.DPI())
	if err != nil {
		r.log.WithError(err).Warn("failed to find an empty area for the stamp")
		return
	}
	rect, err := r.frame.ToPDFRect(float64(loc.Min.X), float64(loc.Min.Y), float64(loc.Max.X), float64(loc.Max.Y))
	if err != nil {
		r.log.WithError(err).Warn("failed to place the stamp")
		return
	}
	if err := r.page.AddStamp(rect, r.s.stamp, r.frame.Rotation()); err != nil {
		r.log.WithError(err).Warn("failed to add the stamp")
		return
	}
	r.stampAt = loc
	r.outcome.Annotations++
}

var (
	colorCrop  = color.RGBA{R: 255, A: 255}
	colorStamp = color.RGBA{G: 200, A: 255}
)

// saveMarked writes the rendered page with the crop frame, the matches
// and the stamp area outlined.
func (r *run) saveMarked() {
	if !r.recorder.Enabled() || r.raster == nil {
		return
	}
	canvas := diag.NewCanvas(r.raster)
	if crop, err := r.frame.ScaledCrop(); err == nil && !r.frame.FullPage() {
		_ = canvas.Outline(crop, colorCrop, 5)
	}
	for _, p := range r.pairs {
		var c color.Color = matcher.ColorFCS
		switch p.Kind {
		case matcher.NodeNumberMatch:
			c = matcher.ColorNodeNumber
		case matcher.NodeLabelMatch:
			c = matcher.ColorNodeLabel
		}
		_ = canvas.Outline(p.Pixel, c, 2)
	}
	if !r.stampAt.Empty() {
		_ = canvas.Outline(geometry.Rect{
			X0: float64(r.stampAt.Min.X), Y0: float64(r.stampAt.Min.Y),
			X1: float64(r.stampAt.Max.X), Y1: float64(r.stampAt.Max.Y),
		}, colorStamp, 2)
	}
	r.debugSave(diag.MarkedImage, canvas.Image())
}

func (r *run) debugSave(name string, img image.Image) {
	if err := r.recorder.Save(name, img); err != nil {
		r.log.WithError(err).Debug("failed to save debug image")
	}
}

func (r *run) finish(source string, err error) (Outcome, error) {
	if err != nil {
		r.outcome.Status = describe(err)
		if errors.Is(err, rederr.ErrAlreadyAnnotated) {
			r.outcome.Skipped = true
			r.log.Warn(r.outcome.Status)
		} else {
			r.log.Errorf("%s, aborting...", r.outcome.Status)
		}
		var re *rederr.Error
		if errors.As(err, &re) && re.Document == "" {
			err = re.WithDocument(source)
		}
	} else {
		r.outcome.Status = StatusSuccess
		r.log.Info(StatusSuccess)
	}
	r.outcome.Log = r.hook.Lines()
	r.outcome.Warnings = r.hook.Warnings()
	return r.outcome, err
}

func cropImage(img image.Image, rect image.Rectangle) image.Image {
	if rect == img.Bounds() {
		return img
	}
	if sub, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(rect)
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)
	return dst
}

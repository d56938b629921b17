package matcher

import (
	"image/color"
	"iter"

	"github.com/sirupsen/logrus"

	"github.com/gardar/redliner/pkg/geometry"
	"github.com/gardar/redliner/pkg/ocr"
	"github.com/gardar/redliner/pkg/rederr"
)

// Outline colours of the debug canvas.
var (
	ColorBlock      = color.RGBA{R: 255, A: 255}
	ColorFCS        = color.RGBA{B: 255, A: 255}
	ColorNodeLabel  = color.RGBA{G: 128, A: 255}
	ColorNodeNumber = color.RGBA{R: 255, G: 165, A: 255}
)

// Canvas receives an outline for every classified block.
type Canvas interface {
	Outline(r geometry.Rect, c color.Color, width int) error
}

// Matcher runs a Strategy over OCR passes.
type Matcher struct {
	strategy Strategy
	mode     Mode
	canvas   Canvas
	log      logrus.FieldLogger
}

// Option configures a Matcher.
type Option func(*Matcher)

func WithMode(mode Mode) Option {
	return func(m *Matcher) { m.mode = mode }
}

// WithCanvas draws every block onto c.
func WithCanvas(c Canvas) Option {
	return func(m *Matcher) { m.canvas = c }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(m *Matcher) { m.log = l }
}

// New creates a Matcher for strategy.
func New(strategy Strategy, opts ...Option) *Matcher {
	m := &Matcher{strategy: strategy, mode: RequireMarker, log: logrus.StandardLogger()}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Matcher) Strategy() Strategy { return m.strategy }
func (m *Matcher) Mode() Mode { return m.mode }

// WithCanvas returns a copy of m drawing onto c.
func (m *Matcher) WithCanvas(c Canvas) *Matcher {
	cp := *m
	cp.canvas = c
	return &cp
}

// Match consumes pass and returns the records found in it. A block carrying
// the replacement marker before any original marker aborts the scan with
// an AlreadyAnnotated error and no records.
func (m *Matcher) Match(pass iter.Seq[ocr.Block]) (Result, error) {
	var res Result
	scan := m.strategy.NewScanner()
	var fcs, nodes int
	var anchored bool

	for b := range pass {
		m.outline(b.Quad, ColorBlock)

		c := scan.Classify(b)
		switch c.Kind {
		case NoMatch:
		case AlreadyAnnotated:
			return Result{}, rederr.AlreadyAnnotated(
				"the loop drawing already contains %s, no need to redline", prefix(c.Text, 5))
		case FcsMatch:
			fcs++
			res.Matches = append(res.Matches, c)
			m.outline(c.Quad, ColorFCS)
			m.log.WithFields(logrus.Fields{"text": c.Text, "rect": c.Quad.Bounds()}).Info("FCS marker found")
		case NodeLabelMatch:
			nodes++
			res.Matches = append(res.Matches, c)
			m.outline(c.Quad, ColorNodeLabel)
			m.log.WithFields(logrus.Fields{"text": c.Text, "rect": c.Quad.Bounds(), "node": c.Value - 1}).Info("node label found")
		case NodeNumberMatch:
			nodes++
			res.Matches = append(res.Matches, c)
			m.outline(c.Quad, ColorNodeNumber)
			m.log.WithFields(logrus.Fields{"text": c.Text, "rect": c.Quad.Bounds()}).Info("node number found")
		case NodeAnchor:
			anchored = true
			m.log.WithField("rect", c.Quad.Bounds()).Info("NODE label found")
		}
	}

	if !anchored && nodes == 0 {
		m.log.Info("no node label was found")
	}
	if fcs == 0 {
		m.log.Info("no FCS marker was found")
	}
	if fcs > 0 && fcs != nodes {
		w := "number of FCS markers found is not equal to the number of node numbers"
		res.Warnings = append(res.Warnings, w)
		m.log.WithFields(logrus.Fields{"fcs": fcs, "nodes": nodes}).Warn(w)
	}

	switch m.mode {
	case NodeOnly:
		res.Found = nodes > 0
	default:
		res.Found = fcs > 0
	}
	return res, nil
}

func (m *Matcher) outline(q geometry.Quad, c color.Color) {
	if m.canvas == nil {
		return
	}
	if err := m.canvas.Outline(q.Bounds(), c, 2); err != nil {
		m.log.WithError(err).Debug("failed to draw debug outline")
	}
}

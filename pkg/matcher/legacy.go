package matcher

import (
	"math"
	"math/big"
	"regexp"

	"github.com/gardar/redliner/pkg/ocr"
)

var legacyFCSPattern = regexp.MustCompile(`^FCS\d\d\d\d$`)

// Legacy matches the older drawing format, where the node number sits
// below a bare "NODE" label.
type Legacy struct {
	opts Options
}

func NewLegacy(opts Options) *Legacy {
	return &Legacy{opts: opts}
}

func (l *Legacy) Name() string { return "legacy" }

func (l *Legacy) NewScanner() Scanner {
	return &legacyScanner{opts: l.opts}
}

type legacyScanner struct {
	opts    Options
	fcsSeen bool

	// last node label: numbers must start right of x0, end left of x2 and lie below y2
	anchored   bool
	x0, x2, y2 float64
}

func (s *legacyScanner) Classify(b ocr.Block) Match {
	text := b.Text
	m := Match{Kind: NoMatch, Quad: b.Quad, Text: text}

	if prefix(text, 5) == s.opts.ReplacementPrefix && !s.fcsSeen {
		m.Kind = AlreadyAnnotated
		return m
	}

	if contains(s.opts.FCSPrefixes, prefix(text, 5)) && legacyFCSPattern.MatchString(text) {
		m.Kind = FcsMatch
		m.Replacement = s.opts.ReplacementPrefix + text[5:]
		s.fcsSeen = true
		return m
	}

	if contains(s.opts.NodeLabels, text) {
		s.anchored = true
		s.x0 = b.Quad.TL().X
		s.x2 = b.Quad.BR().X + s.opts.NodeTolerance
		s.y2 = b.Quad.BR().Y
		m.Kind = NodeAnchor
		return m
	}

	if s.anchored && isDigits(text) {
		// the top-right corner decides, as measured on real drawings
		tr := b.Quad.TR()
		if s.x0 < tr.X && tr.X < s.x2 && tr.Y > s.y2 {
			n, ok := new(big.Int).SetString(text, 10)
			if !ok {
				return m
			}
			n.Add(n, big.NewInt(1))
			m.Kind = NodeNumberMatch
			m.Replacement = n.String()
			// Value stays 0 for numbers beyond int
			if n.IsInt64() && n.Int64() <= math.MaxInt {
				m.Value = int(n.Int64())
			}
		}
	}
	return m
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

package matcher

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/gardar/redliner/pkg/ocr"
)

var (
	currentFCSPattern  = regexp.MustCompile(`^(FCS|FSC)\d\d(\d\d)-?(\d\d)-?(\d\d).*$`)
	currentNodePattern = regexp.MustCompile(`^N[O0C]DE\s*(\d{1,2})\s*$`)
)

// Current matches the present drawing format.
type Current struct {
	opts Options
}

func NewCurrent(opts Options) *Current {
	return &Current{opts: opts}
}

func (c *Current) Name() string { return "current" }

func (c *Current) NewScanner() Scanner {
	return &currentScanner{opts: c.opts}
}

type currentScanner struct {
	opts    Options
	fcsSeen bool
}

func (s *currentScanner) Classify(b ocr.Block) Match {
	text := b.Text
	m := Match{Kind: NoMatch, Quad: b.Quad, Text: text}

	if prefix(text, 5) == s.opts.ReplacementPrefix && !s.fcsSeen {
		m.Kind = AlreadyAnnotated
		return m
	}

	if contains(s.opts.FCSPrefixes, prefix(text, 5)) && len(text) > 7 {
		if g := currentFCSPattern.FindStringSubmatch(text); g != nil {
			node, _ := strconv.Atoi(g[3])
			m.Kind = FcsMatch
			m.Value = node + 1
			m.Replacement = fmt.Sprintf("%s%s-%02d-%s", s.opts.ReplacementPrefix, g[2], node+1, g[4])
			s.fcsSeen = true
			return m
		}
	}

	if contains(s.opts.NodeLabels, prefix(text, 4)) {
		if g := currentNodePattern.FindStringSubmatch(text); g != nil {
			node, _ := strconv.Atoi(g[1])
			m.Kind = NodeLabelMatch
			m.Value = node + 1
			m.Replacement = fmt.Sprintf("NODE %d", node+1)
		}
	}
	return m
}

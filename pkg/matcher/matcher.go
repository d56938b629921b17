// Package matcher finds the FCS marker and the node indications of a loop
// diagram among recognized text blocks and computes their replacements.
//
// Two drawing formats are supported, each as a Strategy:
//
// - Current: markers like FCS0702-01-03 whose second group is the node index,
// and node labels carrying their number ("NODE 3")
// - Legacy: markers like FCS0712 and bare "NODE" labels with the node number
// printed underneath as a separate block
//
// A Matcher consumes one OCR pass, classifies every block and returns the
// match records. Finding the replacement marker before any original marker
// means the drawing was already redlined; the scan stops with an
// AlreadyAnnotated error.
package matcher

import (
	"fmt"

	"github.com/gardar/redliner/pkg/geometry"
	"github.com/gardar/redliner/pkg/ocr"
)

// Kind classifies a block.
type Kind int

const (
	NoMatch Kind = iota
	FcsMatch
	NodeLabelMatch
	NodeNumberMatch
	// NodeAnchor is a bare node label; later number blocks are associated with it.
	NodeAnchor
	// AlreadyAnnotated is a block carrying the replacement marker.
	AlreadyAnnotated
)

func (k Kind) String() string {
	switch k {
	case NoMatch:
		return "no-match"
	case FcsMatch:
		return "fcs"
	case NodeLabelMatch:
		return "node-label"
	case NodeNumberMatch:
		return "node-number"
	case NodeAnchor:
		return "node-anchor"
	case AlreadyAnnotated:
		return "already-annotated"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsRecord reports whether blocks of this kind become match records.
func (k Kind) IsRecord() bool {
	return k == FcsMatch || k == NodeLabelMatch || k == NodeNumberMatch
}

// Match is a classified block. For records, Replacement is the text that
// supersedes Text and Value is the incremented node number.
type Match struct {
	Kind        Kind
	Quad        geometry.Quad
	Text        string
	Replacement string
	Value       int
}

// Mode decides what counts as a successful search.
type Mode int

const (
	// RequireMarker succeeds only when at least one FCS marker was found.
	RequireMarker Mode = iota
	// NodeOnly succeeds when at least one node match was found.
	NodeOnly
)

func (m Mode) String() string {
	if m == NodeOnly {
		return "node-only"
	}
	return "require-marker"
}

// Result of one pass.
type Result struct {
	Matches  []Match
	Found    bool
	Warnings []string
}

// FCS returns the marker records.
func (r Result) FCS() []Match {
	return r.filter(FcsMatch)
}

// Nodes returns the node label and node number records.
func (r Result) Nodes() []Match {
	return r.filter(NodeLabelMatch, NodeNumberMatch)
}

func (r Result) filter(kinds ...Kind) []Match {
	var out []Match
	for _, m := range r.Matches {
		for _, k := range kinds {
			if m.Kind == k {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// Scanner classifies the blocks of a single pass. Implementations keep
// per-pass state (for instance the last node label seen).
type Scanner interface {
	Classify(b ocr.Block) Match
}

// Strategy is a drawing format.
type Strategy interface {
	Name() string
	NewScanner() Scanner
}

// Options holds the text tables shared by both formats.
type Options struct {
	FCSPrefixes       []string
	NodeLabels        []string
	ReplacementPrefix string
	// NodeTolerance widens the legacy node label to the right, in pixels.
	NodeTolerance float64
}

// DefaultOptions returns the tables observed on real drawings, including
// the usual OCR confusions (O for 0, C for O, swapped S and C).
func DefaultOptions() Options {
	return Options{
		FCSPrefixes:       []string{"FCS07", "FCSO7", "FSC07"},
		NodeLabels:        []string{"NODE", "NCDE", "N0DE"},
		ReplacementPrefix: "FCS14",
		NodeTolerance:     15,
	}
}

// prefix returns the first n bytes of s (all of s when shorter).
func prefix(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

package ocr

import (
	"iter"
	"slices"
	"sync/atomic"
)

// Pass is the result of one recognition call. It can be consumed once.
type Pass struct {
	seq  iter.Seq[Block]
	used atomic.Bool
}

// NewPass wraps a lazily produced block sequence.
func NewPass(seq iter.Seq[Block]) *Pass {
	return &Pass{seq: seq}
}

// PassOf returns a pass over a fixed set of blocks.
func PassOf(blocks ...Block) *Pass {
	return NewPass(slices.Values(blocks))
}

// All yields the blocks of the pass. Only the first iteration produces
// anything; later ones are empty.
func (p *Pass) All() iter.Seq[Block] {
	return func(yield func(Block) bool) {
		if p == nil || p.seq == nil || p.used.Swap(true) {
			return
		}
		for b := range p.seq {
			if !yield(b) {
				return
			}
		}
	}
}

// Consumed reports whether the pass has been iterated.
func (p *Pass) Consumed() bool {
	return p.used.Load()
}

package remap

import (
	"context"

	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/state"
)

// Tables holds the four remapping tables of a Chain.
type Tables struct {
	Insert             []Remapping
	InsertNonRecursive []Remapping
	Other              []Remapping
	OtherNonRecursive  []Remapping
}

// Chain consults its remappers in priority order.
type Chain struct {
	remappers []*Remapper
}

// NewChain builds the standard chain of four remappers. Options apply to
// every remapper.
func NewChain(t Tables, opts ...Option) *Chain {
	return &Chain{
		remappers: []*Remapper{
			NewInsertMode(true, t.Insert, opts...),
			NewOtherModes(true, t.Other, opts...),
			NewInsertMode(false, t.InsertNonRecursive, opts...),
			NewOtherModes(false, t.OtherNonRecursive, opts...),
		},
	}
}

// Remappers returns the remappers in the order they are consulted.
func (c *Chain) Remappers() []*Remapper {
	return append([]*Remapper(nil), c.remappers...)
}

// SendKey offers keys to each remapper until one handles them. Found is
// the union of every consulted remapper's result.
func (c *Chain) SendKey(ctx context.Context, keys key.Sequence, h ModeHandler, s *state.Session) (Result, error) {
	var found bool
	for _, r := range c.remappers {
		res, err := r.SendKey(ctx, keys, h, s)
		if err != nil {
			return res, err
		}
		if res.Handled {
			return res, nil
		}
		found = found || res.Found
	}
	return Result{Found: found}, nil
}

// IsPotentialRemap reports whether any remapper considers the last keys a
// possible remap prefix.
func (c *Chain) IsPotentialRemap() bool {
	for _, r := range c.remappers {
		if r.IsPotentialRemap() {
			return true
		}
	}
	return false
}

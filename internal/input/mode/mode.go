package mode

import (
	"sort"
	"strings"
)

// Standard mode names.
const (
	ModeNormal          = "normal"
	ModeInsert          = "insert"
	ModeVisual          = "visual"
	ModeVisualLine      = "visual-line"
	ModeVisualBlock     = "visual-block"
	ModeCommand         = "command"
	ModeOperatorPending = "operator-pending"
	ModeReplace         = "replace"
	ModeSearch          = "search"
)

// Set is a set of mode names.
type Set map[string]struct{}

// NewSet creates a set holding the given modes.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Contains reports whether name is in the set.
func (s Set) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the sorted mode names in the set.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// String returns the names joined with "|".
func (s Set) String() string {
	return strings.Join(s.Names(), "|")
}

// Common mode groups.
var (
	// Insert is the insert mode alone.
	Insert = NewSet(ModeInsert)

	// NormalAndVisual is normal mode plus every visual variant.
	NormalAndVisual = NewSet(ModeNormal, ModeVisual, ModeVisualLine, ModeVisualBlock)

	// VisualModes holds the visual variants.
	VisualModes = NewSet(ModeVisual, ModeVisualLine, ModeVisualBlock)

	// All holds every standard mode.
	All = NewSet(ModeNormal, ModeInsert, ModeVisual, ModeVisualLine, ModeVisualBlock,
		ModeCommand, ModeOperatorPending, ModeReplace, ModeSearch)
)

// Union returns a new set holding the modes of every given set.
func Union(sets ...Set) Set {
	out := make(Set)
	for _, s := range sets {
		for n := range s {
			out[n] = struct{}{}
		}
	}
	return out
}

// DisplayName returns the status line label for a mode.
func DisplayName(name string) string {
	switch name {
	case ModeVisualLine:
		return "VISUAL LINE"
	case ModeVisualBlock:
		return "VISUAL BLOCK"
	case ModeOperatorPending:
		return "OPERATOR PENDING"
	default:
		return strings.ToUpper(name)
	}
}

package action

import (
	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/mode"
	"github.com/dshills/vimkeys/internal/input/pattern"
	"github.com/dshills/vimkeys/internal/input/state"
)

// Kind identifies an action variant (e.g., "cursor.moveDown").
type Kind string

// Flags describes how an action combines with others.
type Flags struct {
	// IsMotion marks actions that can follow an operator (like w in dw).
	IsMotion bool

	// CanBeRepeatedWithDot marks actions that "." repeats.
	CanBeRepeatedWithDot bool

	// MustBeFirstKey requires that no count prefix precedes the trigger.
	MustBeFirstKey bool

	// IsOperator marks actions that wait for a motion (like d).
	IsOperator bool
}

// Descriptor is the registered prototype of an action.
type Descriptor struct {
	// Kind is the action variant constructed on a match.
	Kind Kind

	// Modes are the modes the action applies in.
	Modes mode.Set

	// Keys is the trigger pattern. Descriptors without keys are abstract
	// and never resolved directly.
	Keys pattern.Pattern

	// Flags are copied into every Action built from this descriptor.
	Flags Flags

	// Description documents the action.
	Description string

	// Category groups actions for display purposes.
	Category string
}

// State is the session state consulted during resolution.
type State interface {
	// CurrentMode returns the current mode name.
	CurrentMode() string

	// RecordedState returns the pending command.
	RecordedState() *state.Recorded
}

// Applies reports whether the descriptor is triggered exactly by pressed.
func (d Descriptor) Applies(m pattern.Matcher, st State, pressed key.Sequence) bool {
	if !d.Modes.Contains(st.CurrentMode()) {
		return false
	}
	if !m.Matches(d.Keys, pressed) {
		return false
	}
	return d.firstKeyOK(st, pressed)
}

// CouldApply reports whether more keys could complete the descriptor's
// pattern.
func (d Descriptor) CouldApply(m pattern.Matcher, st State, pressed key.Sequence) bool {
	if !d.Modes.Contains(st.CurrentMode()) {
		return false
	}
	if !m.Matches(d.Keys.Truncate(len(pressed)), pressed) {
		return false
	}
	return d.firstKeyOK(st, pressed)
}

// firstKeyOK checks that a MustBeFirstKey action is not preceded by a count.
func (d Descriptor) firstKeyOK(st State, pressed key.Sequence) bool {
	if !d.Flags.MustBeFirstKey {
		return true
	}
	rec := st.RecordedState()
	if rec == nil {
		return true
	}
	return rec.KeysWithoutCountPrefix()-len(pressed) <= 0
}

// String returns the literal join of the trigger pattern.
func (d Descriptor) String() string {
	return d.Keys.String()
}

// Action is a concrete action triggered by keys.
type Action struct {
	// Kind is the action variant.
	Kind Kind

	// Flags are copied from the descriptor.
	Flags Flags

	// KeysPressed are the keys that triggered the action.
	KeysPressed key.Sequence
}

// String returns the literal join of the keys that triggered the action.
func (a Action) String() string {
	return a.KeysPressed.String()
}

// newAction builds an Action value from its descriptor.
func newAction(d Descriptor, keys key.Sequence) *Action {
	return &Action{
		Kind:        d.Kind,
		Flags:       d.Flags,
		KeysPressed: keys.Clone(),
	}
}

package action

import (
	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/pattern"
)

// Status is the outcome of resolving pressed keys.
type Status uint8

const (
	// NoPossibleMatch means no action can ever match the keys.
	NoPossibleMatch Status = iota

	// WaitingOnKeys means more keys could still complete a match.
	WaitingOnKeys

	// Matched means an action was triggered.
	Matched
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case Matched:
		return "matched"
	case WaitingOnKeys:
		return "waiting"
	default:
		return "no-match"
	}
}

// Result is the outcome of Resolve.
type Result struct {
	// Action is set when Status is Matched.
	Action *Action

	// Status classifies the pressed keys.
	Status Status
}

// Registry is an ordered, immutable list of action descriptors.
// It is safe for concurrent use.
type Registry struct {
	matcher     pattern.Matcher
	descriptors []Descriptor
}

// NewRegistry creates a registry from descriptors in registration order.
// leader is the token <leader> stands for in patterns.
func NewRegistry(leader key.Token, descriptors ...Descriptor) *Registry {
	defs := make([]Descriptor, len(descriptors))
	copy(defs, descriptors)
	return &Registry{
		matcher:     pattern.NewMatcher(leader),
		descriptors: defs,
	}
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	return len(r.descriptors)
}

// Descriptors returns a copy of the descriptors in registration order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// Matcher returns the pattern matcher used for resolution.
func (r *Registry) Matcher() pattern.Matcher {
	return r.matcher
}

// Resolve returns the action triggered by pressed, or whether more keys
// could still trigger one.
//
// The first descriptor in registration order that applies wins. Once a
// potential match is known the scan only continues to look for a later
// exact match. When ignoreExactMatch is set only the potential-match
// check runs.
func (r *Registry) Resolve(pressed key.Sequence, st State, ignoreExactMatch bool) Result {
	potential := false

	for _, d := range r.descriptors {
		if d.Keys.IsEmpty() {
			// Abstract action that can't be triggered directly
			continue
		}

		if !ignoreExactMatch && d.Applies(r.matcher, st, pressed) {
			return Result{
				Action: newAction(d, triggerKeys(st, pressed)),
				Status: Matched,
			}
		}

		if !potential && d.CouldApply(r.matcher, st, pressed) {
			potential = true
		}
	}

	if potential {
		return Result{Status: WaitingOnKeys}
	}
	return Result{Status: NoPossibleMatch}
}

// triggerKeys returns the keys recorded for the pending command, falling
// back to pressed when nothing was recorded.
func triggerKeys(st State, pressed key.Sequence) key.Sequence {
	if rec := st.RecordedState(); rec != nil && len(rec.ActionKeys) > 0 {
		return rec.ActionKeys
	}
	return pressed
}

package remap

import (
	"context"

	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/state"
)

// Command is a host command run when a remapping fires.
type Command struct {
	// ID names the command. IDs starting with ":" are run through the
	// command line with the ":" stripped.
	ID string

	// Args are passed to host commands as declared.
	Args []any
}

// IsCommandLine reports whether the command is run by the command line.
func (c Command) IsCommandLine() bool {
	return len(c.ID) > 0 && c.ID[0] == ':'
}

// Remapping replaces a trigger sequence with keys and/or commands.
type Remapping struct {
	// Before is the trigger sequence.
	Before key.Sequence

	// After is replayed as if typed.
	After key.Sequence

	// Commands run in order after After is replayed.
	Commands []Command
}

// IsDisabled reports whether the remapping has nothing to do. Disabled
// remappings are recognised but never fire.
func (r Remapping) IsDisabled() bool {
	return len(r.After) == 0 && len(r.Commands) == 0
}

// ModeHandler replays keys and refreshes the view.
type ModeHandler interface {
	// HandleKeys processes keys as if they were typed.
	HandleKeys(ctx context.Context, keys key.Sequence) error

	// UpdateView redraws the host view.
	UpdateView(ctx context.Context) error
}

// CommandLine runs Ex-style commands.
type CommandLine interface {
	Run(ctx context.Context, command string, s *state.Session) error
}

// HostCommands runs commands of the host editor.
type HostCommands interface {
	Execute(ctx context.Context, id string, args []any) error
}

// Result is the outcome of SendKey.
type Result struct {
	// Found is set when some remapping's trigger equals the keys, even a
	// disabled one.
	Found bool

	// Handled is set when a remapping fired.
	Handled bool

	// RemappedKeys is the length of the trigger that fired.
	RemappedKeys int
}

type remappingKey struct{}

// WithRemapping marks ctx as replaying a non-recursive remapping.
func WithRemapping(ctx context.Context) context.Context {
	return context.WithValue(ctx, remappingKey{}, true)
}

// IsRemapping reports whether ctx belongs to a non-recursive replay.
func IsRemapping(ctx context.Context) bool {
	v, _ := ctx.Value(remappingKey{}).(bool)
	return v
}

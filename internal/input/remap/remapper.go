package remap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/mode"
	"github.com/dshills/vimkeys/internal/input/state"
)

// Errors returned when a remapping needs a collaborator that was not
// configured.
var (
	ErrNoCommandLine  = errors.New("remap: no command line configured")
	ErrNoHostCommands = errors.New("remap: no host commands configured")
)

// Option configures a Remapper or a Chain.
type Option func(*options)

type options struct {
	cmdline CommandLine
	host    HostCommands
	logger  *slog.Logger
}

// WithCommandLine sets the command line used for ":" commands.
func WithCommandLine(c CommandLine) Option {
	return func(o *options) {
		o.cmdline = c
	}
}

// WithHostCommands sets the host command surface.
func WithHostCommands(h HostCommands) Option {
	return func(o *options) {
		o.host = h
	}
}

// WithLogger sets the logger. Logging is discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Remapper applies one table of remappings in a set of modes.
//
// A Remapper reads its table once at construction. It is used by one
// session at a time.
type Remapper struct {
	name       string
	modes      mode.Set
	recursive  bool
	remappings []Remapping
	longest    int

	potential bool

	opts options
}

// New creates a remapper for the given modes. The table is copied.
func New(name string, modes mode.Set, recursive bool, table []Remapping, opts ...Option) *Remapper {
	r := &Remapper{
		name:       name,
		modes:      modes,
		recursive:  recursive,
		remappings: append([]Remapping(nil), table...),
		longest:    1,
		opts:       buildOptions(opts),
	}
	for _, rm := range r.remappings {
		if len(rm.Before) > r.longest {
			r.longest = len(rm.Before)
		}
	}
	return r
}

// NewInsertMode creates a remapper listening in insert mode.
func NewInsertMode(recursive bool, table []Remapping, opts ...Option) *Remapper {
	return New(tableName("insertModeKeyBindings", recursive), mode.Insert, recursive, table, opts...)
}

// NewOtherModes creates a remapper listening in normal and visual modes.
func NewOtherModes(recursive bool, table []Remapping, opts ...Option) *Remapper {
	return New(tableName("otherModesKeyBindings", recursive), mode.NormalAndVisual, recursive, table, opts...)
}

func tableName(base string, recursive bool) string {
	if recursive {
		return base
	}
	return base + "NonRecursive"
}

// Name returns the remapper's table name.
func (r *Remapper) Name() string {
	return r.name
}

// Recursive reports whether replayed keys may trigger remappings again.
func (r *Remapper) Recursive() bool {
	return r.recursive
}

// IsPotentialRemap reports whether the keys of the last SendKey call
// are a prefix of some remapping. It is reset by every SendKey.
func (r *Remapper) IsPotentialRemap() bool {
	return r.potential
}

func (r *Remapper) isInsert() bool {
	return r.modes.Contains(mode.ModeInsert)
}

// SendKey looks for a remapping triggered by keys and applies it.
//
// keys ends with the key being processed; that key has not been committed
// to the session yet, while the keys before it have.
func (r *Remapper) SendKey(ctx context.Context, keys key.Sequence, h ModeHandler, s *state.Session) (Result, error) {
	r.potential = false

	if !r.modes.Contains(s.Mode) {
		return Result{}, nil
	}

	var (
		found    bool
		selected *Remapping
	)
	if r.isInsert() {
		// Text may precede the trigger, so try trailing windows.
		for n := 1; n <= r.longest && selected == nil; n++ {
			selected = r.find(keys.Tail(n), &found)
		}
	} else {
		selected = r.find(keys, &found)
	}

	if selected == nil {
		for _, rm := range r.remappings {
			if keys.String() == rm.Before.Head(len(keys)).String() {
				r.potential = true
				break
			}
		}
		return Result{Found: found}, nil
	}

	if !found {
		panic("remap: remapping selected without being found")
	}

	if err := r.apply(ctx, *selected, h, s); err != nil {
		return Result{Found: true}, err
	}
	return Result{Found: true, Handled: true, RemappedKeys: len(selected.Before)}, nil
}

// find returns the first enabled remapping whose trigger equals keys.
// found is set when any examined trigger equals keys.
func (r *Remapper) find(keys key.Sequence, found *bool) *Remapping {
	joined := keys.String()
	for i := range r.remappings {
		rm := &r.remappings[i]
		if rm.Before.String() != joined {
			continue
		}
		*found = true
		if !rm.IsDisabled() {
			return rm
		}
	}
	return nil
}

func (r *Remapper) apply(ctx context.Context, rm Remapping, h ModeHandler, s *state.Session) error {
	if !r.recursive {
		ctx = WithRemapping(ctx)
	}

	r.opts.logger.Debug("applying remapping",
		"table", r.name,
		"before", rm.Before.String(),
		"after", rm.After.String(),
		"commands", len(rm.Commands),
		"session", s.ID,
	)

	s.Recorded.RemappedKeys += len(rm.Before)

	// The last key of the trigger was never committed.
	numToRemove := len(rm.Before) - 1
	if r.isInsert() && numToRemove > 0 && s.Editor != nil {
		if err := s.Editor.UndoChanges(ctx, numToRemove*s.CursorCount()); err != nil {
			return fmt.Errorf("reverting %q: %w", rm.Before.Head(numToRemove).String(), err)
		}
		s.Editor.MoveCursorLeft(numToRemove)
	}
	s.TrimKeys(numToRemove)

	// The count belongs to the remapping, whether or not it replays keys.
	count := s.TakeCount()
	if count == 0 {
		count = 1
	}

	if len(rm.After) > 0 {
		for i := 0; i < count; i++ {
			if err := h.HandleKeys(ctx, rm.After.Clone()); err != nil {
				return fmt.Errorf("replaying %q: %w", rm.After.String(), err)
			}
		}
	}

	for _, c := range rm.Commands {
		if err := r.run(ctx, c, h, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Remapper) run(ctx context.Context, c Command, h ModeHandler, s *state.Session) error {
	if c.IsCommandLine() {
		if r.opts.cmdline == nil {
			return fmt.Errorf("command %q: %w", c.ID, ErrNoCommandLine)
		}
		if err := r.opts.cmdline.Run(ctx, c.ID[1:], s); err != nil {
			return fmt.Errorf("command %q: %w", c.ID, err)
		}
		if err := h.UpdateView(ctx); err != nil {
			return fmt.Errorf("updating view after %q: %w", c.ID, err)
		}
		return nil
	}

	if r.opts.host == nil {
		return fmt.Errorf("command %q: %w", c.ID, ErrNoHostCommands)
	}
	if err := r.opts.host.Execute(ctx, c.ID, c.Args); err != nil {
		return fmt.Errorf("command %q: %w", c.ID, err)
	}
	return nil
}

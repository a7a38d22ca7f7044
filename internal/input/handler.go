package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dshills/vimkeys/internal/input/action"
	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/mode"
	"github.com/dshills/vimkeys/internal/input/remap"
	"github.com/dshills/vimkeys/internal/input/state"
)

// ErrRemapDepth is returned when remappings keep triggering each other.
var ErrRemapDepth = errors.New("input: recursive remapping too deep")

// maxCount bounds the count prefix.
const maxCount = 999_999_999

// Config configures the input handler.
type Config struct {
	// InitialMode is the mode the session starts in (default: "normal").
	InitialMode string

	// MaxRemapDepth bounds nested replays of recursive remappings.
	// Default: 1000
	MaxRemapDepth int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		InitialMode:   mode.ModeNormal,
		MaxRemapDepth: 1000,
	}
}

// Executor performs resolved actions on the host editor.
type Executor interface {
	// Execute performs a matched action. The session still holds the
	// pending command, count included.
	Execute(ctx context.Context, a action.Action, s *state.Session) error

	// InsertText inserts text typed in insert mode that matched no action.
	InsertText(ctx context.Context, text string, s *state.Session) error
}

// Viewer redraws the host view.
type Viewer interface {
	UpdateView(ctx context.Context) error
}

// Outcome describes what happened to one key.
type Outcome struct {
	// Key is the key that was handled.
	Key key.Token

	// Status is the resolution status. It is WaitingOnKeys for count
	// digits and potential remappings.
	Status action.Status

	// Action is the action executed, if any.
	Action *action.Action

	// Remapped is set when the key completed a remapping.
	Remapped bool

	// Inserted is set when the key was inserted as text.
	Inserted bool

	// Consumed is set when a hook consumed the key.
	Consumed bool

	// Replayed is set for keys replayed by a remapping.
	Replayed bool
}

// Option configures a Handler.
type Option func(*Handler)

// WithExecutor sets the action executor.
func WithExecutor(e Executor) Option {
	return func(h *Handler) {
		h.executor = e
	}
}

// WithViewer sets the view used after command-line remappings.
func WithViewer(v Viewer) Option {
	return func(h *Handler) {
		h.viewer = v
	}
}

// WithChain sets the remapper chain.
func WithChain(c *remap.Chain) Option {
	return func(h *Handler) {
		h.chain = c
	}
}

// WithEditor attaches the host editor to the session.
func WithEditor(e state.Editor) Option {
	return func(h *Handler) {
		h.editor = e
	}
}

// WithLogger sets the logger. Logging is discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = l
	}
}

// Handler turns keys into remappings and actions for one session.
//
// Each key is first offered to the remapper chain, then committed to the
// pending command and resolved against the action registry. A Handler is
// driven from a single goroutine; Executor and Viewer calls happen on it.
type Handler struct {
	config   Config
	registry *action.Registry
	chain    *remap.Chain
	session  *state.Session
	modes    *mode.Manager
	executor Executor
	viewer   Viewer
	editor   state.Editor
	hooks    *HookManager
	metrics  *Metrics
	logger   *slog.Logger

	// depth counts nested replays.
	depth int

	// heldForRemap is set while the pending keys wait for a remapping.
	heldForRemap bool
}

// NewHandler creates a handler resolving keys against registry.
func NewHandler(config Config, registry *action.Registry, opts ...Option) (*Handler, error) {
	if registry == nil {
		return nil, errors.New("input: nil registry")
	}
	if config.InitialMode == "" {
		config.InitialMode = mode.ModeNormal
	}
	if config.MaxRemapDepth <= 0 {
		config.MaxRemapDepth = DefaultConfig().MaxRemapDepth
	}

	h := &Handler{
		config:   config,
		registry: registry,
		hooks:    NewHookManager(),
		metrics:  NewMetrics(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	modes, err := mode.NewManager(config.InitialMode)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	h.modes = modes
	h.session = state.New(config.InitialMode, h.editor)
	h.modes.OnChange(func(from, to string) {
		h.session.SetMode(to)
		h.logger.Debug("mode changed", "from", from, "to", to, "session", h.session.ID)
	})

	return h, nil
}

// HandleKey processes one key.
func (h *Handler) HandleKey(ctx context.Context, k key.Token) (Outcome, error) {
	timer := h.metrics.StartKeyTimer()
	defer timer.Stop()

	s := h.session
	out := Outcome{Key: k, Replayed: h.depth > 0}

	if h.hooks.RunPreKey(k, s) {
		h.metrics.RecordHookConsumption()
		out.Consumed = true
		return out, nil
	}

	if err := h.process(ctx, k, &out); err != nil {
		return out, err
	}

	h.hooks.RunPostKey(k, out, s)
	return out, nil
}

func (h *Handler) process(ctx context.Context, k key.Token, out *Outcome) error {
	s := h.session
	insert := s.Mode == mode.ModeInsert

	if h.chain != nil && !remap.IsRemapping(ctx) {
		held := h.heldForRemap
		h.heldForRemap = false

		res, err := h.chain.SendKey(ctx, h.remapKeys(k), replayer{h}, s)
		if err != nil {
			return err
		}
		if res.Handled {
			// A replay may leave a command pending; otherwise the
			// remapping was the whole command.
			if len(s.Recorded.ActionKeys) == 0 {
				s.FinishCommand()
			}
			h.metrics.RecordRemap()
			out.Remapped = true
			out.Status = action.Matched
			return nil
		}
		if !insert && h.chain.IsPotentialRemap() {
			s.PushKey(k)
			h.heldForRemap = true
			out.Status = action.WaitingOnKeys
			return nil
		}
		if held {
			if err := h.releaseHeld(ctx); err != nil {
				return err
			}
			return h.process(ctx, k, out)
		}
	}

	s.PushKey(k)

	if !insert && h.accumulateCount(k) {
		out.Status = action.WaitingOnKeys
		return nil
	}

	res := h.registry.Resolve(s.Recorded.CommandKeys(), s, false)
	out.Status = res.Status
	h.metrics.RecordStatus(res.Status)

	switch res.Status {
	case action.Matched:
		out.Action = res.Action
		if h.executor != nil {
			if err := h.executor.Execute(ctx, *res.Action, s); err != nil {
				s.FinishCommand()
				return fmt.Errorf("executing %s (%s): %w", res.Action.Kind, res.Action, err)
			}
		}
		s.FinishCommand()

	case action.NoPossibleMatch:
		if insert && !k.IsControl() && h.executor != nil {
			if err := h.executor.InsertText(ctx, string(k), s); err != nil {
				s.FinishCommand()
				return fmt.Errorf("inserting %q: %w", k, err)
			}
			out.Inserted = true
		} else {
			h.logger.Debug("no action", "keys", s.Recorded.ActionKeys.String(), "mode", s.Mode)
		}
		s.FinishCommand()
	}
	return nil
}

// releaseHeld handles the keys held for a remapping that did not come
// about. They are resolved as plain keys, without remapping.
func (h *Handler) releaseHeld(ctx context.Context) error {
	s := h.session
	keys := s.Recorded.ActionKeys.Clone()
	s.TrimKeys(len(keys))
	s.FinishCommand()

	h.logger.Debug("releasing held keys", "keys", keys.String(), "session", s.ID)

	h.depth++
	defer func() { h.depth-- }()
	return h.HandleKeys(remap.WithRemapping(ctx), keys)
}

// HandleKeys processes keys in order, stopping at the first error.
func (h *Handler) HandleKeys(ctx context.Context, keys key.Sequence) error {
	for _, k := range keys {
		if _, err := h.HandleKey(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// HandleEvent processes a terminal key event.
func (h *Handler) HandleEvent(ctx context.Context, ev key.Event) (Outcome, error) {
	return h.HandleKey(ctx, ev.Token())
}

// remapKeys returns the keys offered to the remappers. In insert mode
// the key history is offered so remappings can follow typed text;
// elsewhere only the pending command without its count prefix.
func (h *Handler) remapKeys(k key.Token) key.Sequence {
	var keys key.Sequence
	if h.session.Mode == mode.ModeInsert {
		keys = h.session.KeyHistory.Clone()
	} else {
		keys = h.session.Recorded.CommandKeys()
	}
	return append(keys, k)
}

// accumulateCount consumes k as part of the count prefix. 1-9 start a
// count and 0 continues one.
func (h *Handler) accumulateCount(k key.Token) bool {
	rec := &h.session.Recorded
	if !k.IsDigit() || rec.CountKeys != len(rec.ActionKeys)-1 {
		return false
	}
	if k == "0" && rec.Count == 0 {
		return false
	}
	rec.Count = rec.Count*10 + int(k[0]-'0')
	if rec.Count > maxCount {
		rec.Count = maxCount
	}
	rec.CountKeys++
	return true
}

// SetMode switches the session's mode. Executors call it from Execute.
func (h *Handler) SetMode(name string) error {
	return h.modes.Switch(name)
}

// CurrentMode returns the name of the current mode.
func (h *Handler) CurrentMode() string {
	return h.modes.Current()
}

// OnModeChange registers a callback for mode changes.
// Returns a function to unregister the callback.
func (h *Handler) OnModeChange(cb mode.ChangeCallback) func() {
	return h.modes.OnChange(cb)
}

// ModeManager returns the mode manager.
func (h *Handler) ModeManager() *mode.Manager {
	return h.modes
}

// Session returns the handler's session.
func (h *Handler) Session() *state.Session {
	return h.session
}

// Registry returns the action registry.
func (h *Handler) Registry() *action.Registry {
	return h.registry
}

// SetChain replaces the remapper chain, for example after the remapping
// configuration was reloaded.
func (h *Handler) SetChain(c *remap.Chain) {
	h.chain = c
}

// PendingKeys returns the keys of the pending command.
func (h *Handler) PendingKeys() string {
	return h.session.Recorded.ActionKeys.String()
}

// Reset drops the pending command.
func (h *Handler) Reset() {
	h.heldForRemap = false
	h.session.FinishCommand()
}

// Hooks returns the hook manager.
func (h *Handler) Hooks() *HookManager {
	return h.hooks
}

// Metrics returns the handler's metrics.
func (h *Handler) Metrics() *Metrics {
	return h.metrics
}

// replayer lets remappings feed keys back into the handler.
type replayer struct {
	h *Handler
}

func (r replayer) HandleKeys(ctx context.Context, keys key.Sequence) error {
	if r.h.depth >= r.h.config.MaxRemapDepth {
		return fmt.Errorf("replaying %q: %w", keys.String(), ErrRemapDepth)
	}
	r.h.depth++
	defer func() { r.h.depth-- }()
	return r.h.HandleKeys(ctx, keys)
}

func (r replayer) UpdateView(ctx context.Context) error {
	if r.h.viewer == nil {
		return nil
	}
	return r.h.viewer.UpdateView(ctx)
}

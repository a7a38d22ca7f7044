package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dshills/vimkeys/internal/input"
	"github.com/dshills/vimkeys/internal/input/action"
	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/macro"
	"github.com/dshills/vimkeys/internal/input/mode"
	"github.com/dshills/vimkeys/internal/input/remap"
	"github.com/dshills/vimkeys/internal/input/state"
)

// maxMessages bounds the message log of the simulated editor.
const maxMessages = 50

// row is one handled key as shown by the resolve and run commands.
type row struct {
	Key      key.Token
	Mode     string
	Status   action.Status
	Action   string
	Remapped bool
	Inserted bool
	Consumed bool
	Replayed bool
}

func (r row) note() string {
	var notes []string
	if r.Replayed {
		notes = append(notes, "replayed")
	}
	if r.Remapped {
		notes = append(notes, "remapped")
	}
	if r.Inserted {
		notes = append(notes, "inserted")
	}
	if r.Consumed {
		notes = append(notes, "consumed")
	}
	return strings.Join(notes, ",")
}

// simEditor is a minimal editor that switches modes, keeps the text typed
// in insert mode and runs macros. It stands in for a real editor so the
// key pipeline can be exercised from the command line.
type simEditor struct {
	h        *input.Handler
	recorder *macro.Recorder
	player   *macro.Player
	logger   *slog.Logger

	// changes are the inserted texts in order; undo drops the last ones.
	changes      []string
	lastInserted string
	cmdline      []rune
	commands     []string
	messages     []string
	rows         []row

	// onUpdate redraws the view when set.
	onUpdate func()
}

var (
	_ input.Executor     = (*simEditor)(nil)
	_ input.Viewer       = (*simEditor)(nil)
	_ input.Hook         = (*simEditor)(nil)
	_ state.Editor       = (*simEditor)(nil)
	_ remap.CommandLine  = (*simEditor)(nil)
	_ remap.HostCommands = simCommands{}
)

func newSimEditor(logger *slog.Logger) *simEditor {
	rec := macro.NewRecorder()
	return &simEditor{
		recorder: rec,
		player:   macro.NewPlayer(rec),
		logger:   logger,
	}
}

// attach binds the editor to the handler driving it.
func (e *simEditor) attach(h *input.Handler) {
	e.h = h
	h.Hooks().RegisterWithOptions(e.recorder, "macro", input.HookPriorityHighest)
	h.Hooks().RegisterWithOptions(e, "sim", input.HookPriorityNormal)
}

// Execute implements input.Executor.
func (e *simEditor) Execute(ctx context.Context, a action.Action, s *state.Session) error {
	e.logger.Debug("action", "kind", a.Kind, "keys", a.String(), "count", s.Recorded.Count)

	switch {
	case a.Kind == action.KindRecordMacro:
		return e.recorder.Start(lastRune(a.KeysPressed))
	case a.Kind == action.KindPlayMacro:
		count := s.Recorded.Count
		s.FinishCommand()
		return e.player.Play(ctx, lastRune(a.KeysPressed), count, e.h)
	case a.Flags.IsOperator && s.Mode == mode.ModeNormal:
		return e.h.SetMode(mode.ModeOperatorPending)
	case a.Flags.IsOperator:
		return e.h.SetMode(mode.ModeNormal)
	case a.Flags.IsMotion && s.Mode == mode.ModeOperatorPending:
		return e.h.SetMode(mode.ModeNormal)
	}

	switch a.Kind {
	case action.KindInsertBefore, action.KindInsertAfter, action.KindInsertLineStart,
		action.KindInsertLineEnd, action.KindOpenLineBelow, action.KindOpenLineAbove:
		e.lastInserted = ""
		return e.h.SetMode(mode.ModeInsert)
	case action.KindVisual:
		return e.h.SetMode(mode.ModeVisual)
	case action.KindVisualLine:
		return e.h.SetMode(mode.ModeVisualLine)
	case action.KindVisualBlock:
		return e.h.SetMode(mode.ModeVisualBlock)
	case action.KindCommandLine:
		e.cmdline = nil
		return e.h.SetMode(mode.ModeCommand)
	case action.KindEscape, action.KindInsertCommandOnce:
		return e.h.SetMode(mode.ModeNormal)
	case action.KindInsertBackspace:
		e.deleteBackward()
	case action.KindInsertNewline:
		e.insert("\n")
	case action.KindInsertTab:
		e.insert("\t")
	case action.KindInsertPrevText:
		e.insert(e.lastInserted)
	case action.KindUndo:
		return e.UndoChanges(ctx, max(s.Recorded.Count, 1))
	}
	return nil
}

// InsertText implements input.Executor.
func (e *simEditor) InsertText(_ context.Context, text string, _ *state.Session) error {
	e.insert(text)
	return nil
}

func (e *simEditor) insert(text string) {
	if text == "" {
		return
	}
	e.changes = append(e.changes, text)
	e.lastInserted += text
}

func (e *simEditor) deleteBackward() {
	if len(e.changes) == 0 {
		return
	}
	last := []rune(e.changes[len(e.changes)-1])
	if len(last) <= 1 {
		e.changes = e.changes[:len(e.changes)-1]
	} else {
		e.changes[len(e.changes)-1] = string(last[:len(last)-1])
	}
}

// Text returns the text inserted so far.
func (e *simEditor) Text() string {
	return strings.Join(e.changes, "")
}

// CursorCount implements state.Editor.
func (e *simEditor) CursorCount() int {
	return 1
}

// MoveCursorLeft implements state.Editor. The simulated cursor always
// sits at the end of the text.
func (e *simEditor) MoveCursorLeft(int) {}

// UndoChanges implements state.Editor.
func (e *simEditor) UndoChanges(_ context.Context, n int) error {
	if n > len(e.changes) {
		n = len(e.changes)
	}
	e.changes = e.changes[:len(e.changes)-n]
	return nil
}

// UpdateView implements input.Viewer.
func (e *simEditor) UpdateView(context.Context) error {
	if e.onUpdate != nil {
		e.onUpdate()
	}
	return nil
}

// Run implements remap.CommandLine.
func (e *simEditor) Run(_ context.Context, command string, _ *state.Session) error {
	e.commands = append(e.commands, command)
	e.message(":" + command)
	return nil
}

// PreKey implements input.Hook.
func (e *simEditor) PreKey(key.Token, *state.Session) bool {
	return false
}

// PostKey implements input.Hook. It records every key and types the
// command line, which has no actions of its own.
func (e *simEditor) PostKey(k key.Token, out input.Outcome, s *state.Session) {
	r := row{
		Key:      k,
		Mode:     s.Mode,
		Status:   out.Status,
		Remapped: out.Remapped,
		Inserted: out.Inserted,
		Consumed: out.Consumed,
		Replayed: out.Replayed,
	}
	if out.Action != nil {
		r.Action = string(out.Action.Kind)
	}
	e.rows = append(e.rows, r)

	switch {
	case s.Mode == mode.ModeCommand && out.Action == nil && !out.Remapped && !out.Consumed:
		// The command line has no actions: every key is typed into it.
		s.FinishCommand()
		e.typeCommandLine(k, s)
	case s.Mode == mode.ModeOperatorPending && out.Status == action.NoPossibleMatch:
		// Anything but a motion cancels the operator.
		e.switchMode(mode.ModeNormal)
	}
}

func (e *simEditor) typeCommandLine(k key.Token, s *state.Session) {
	switch k {
	case "<CR>":
		command := string(e.cmdline)
		e.cmdline = nil
		e.switchMode(mode.ModeNormal)
		if command != "" {
			_ = e.Run(context.Background(), command, s)
		}
	case "<Esc>", "<C-c>":
		e.cmdline = nil
		e.switchMode(mode.ModeNormal)
	case "<BS>":
		if len(e.cmdline) == 0 {
			e.switchMode(mode.ModeNormal)
			return
		}
		e.cmdline = e.cmdline[:len(e.cmdline)-1]
	default:
		if r := []rune(string(k)); len(r) == 1 {
			e.cmdline = append(e.cmdline, r[0])
		}
	}
}

func (e *simEditor) switchMode(name string) {
	if err := e.h.SetMode(name); err != nil {
		e.logger.Warn("mode switch failed", "mode", name, "error", err)
	}
}

func (e *simEditor) message(msg string) {
	e.messages = append(e.messages, msg)
	if over := len(e.messages) - maxMessages; over > 0 {
		e.messages = e.messages[over:]
	}
}

// simCommands serves host commands for remappings: "echo" and "clear",
// plus every action kind of the registry.
type simCommands struct {
	e *simEditor
}

// Execute implements remap.HostCommands.
func (c simCommands) Execute(ctx context.Context, id string, args []any) error {
	e := c.e
	switch id {
	case "echo":
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = fmt.Sprint(a)
		}
		e.message(strings.Join(parts, " "))
		return nil
	case "clear":
		e.changes = nil
		return nil
	}

	for _, d := range e.h.Registry().Descriptors() {
		if string(d.Kind) == id && !d.Keys.IsEmpty() {
			return e.Execute(ctx, action.Action{Kind: d.Kind, Flags: d.Flags}, e.h.Session())
		}
	}
	return fmt.Errorf("unknown command %q", id)
}

// lastRune returns the register named by the last key of a macro action.
func lastRune(keys key.Sequence) rune {
	if len(keys) == 0 {
		return 0
	}
	r := []rune(string(keys[len(keys)-1]))
	if len(r) != 1 {
		return 0
	}
	return r[0]
}

// newSimHandler builds a handler driving e with env's actions and
// remappings.
func newSimHandler(env *environment, e *simEditor, initialMode string) (*input.Handler, error) {
	cfg := input.DefaultConfig()
	if initialMode != "" {
		cfg.InitialMode = initialMode
	}
	h, err := input.NewHandler(cfg, env.registry,
		input.WithExecutor(e),
		input.WithEditor(e),
		input.WithViewer(e),
		input.WithChain(env.chain(e)),
		input.WithLogger(env.logger),
	)
	if err != nil {
		return nil, err
	}
	e.attach(h)
	return h, nil
}

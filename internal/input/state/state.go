// Package state holds the per-session input state shared by the remappers,
// the action resolver and the input pipeline.
//
// A Session is owned by one editing session and is only mutated by the
// component currently processing a keystroke; it is not safe for
// concurrent use.
package state

import (
	"context"

	"github.com/google/uuid"

	"github.com/dshills/vimkeys/internal/input/key"
)

// Recorded tracks the keys of the command currently being typed.
type Recorded struct {
	// ActionKeys are the literal keys pressed for the pending command,
	// count prefix included.
	ActionKeys key.Sequence

	// Count is the numeric count prefix (0 when none was typed).
	Count int

	// CountKeys is the number of ActionKeys consumed by the count prefix.
	CountKeys int

	// RemappedKeys is the number of pending keys that belong to an
	// applied remapping.
	RemappedKeys int
}

// KeysWithoutCountPrefix returns the number of pending keys typed after
// the count prefix.
func (r *Recorded) KeysWithoutCountPrefix() int {
	return len(r.ActionKeys) - r.CountKeys
}

// CommandKeys returns the pending keys that follow the count prefix.
func (r *Recorded) CommandKeys() key.Sequence {
	if r.CountKeys >= len(r.ActionKeys) {
		return key.Sequence{}
	}
	return r.ActionKeys[r.CountKeys:].Clone()
}

// Reset clears the pending command.
func (r *Recorded) Reset() {
	*r = Recorded{}
}

// Editor is the part of the host editor the input system may change
// directly: cursors and the edit history.
type Editor interface {
	// CursorCount returns the number of active cursors.
	CursorCount() int

	// MoveCursorLeft moves the primary cursor n positions left.
	MoveCursorLeft(n int)

	// UndoChanges reverts the last n applied changes and drops them from
	// the edit history.
	UndoChanges(ctx context.Context, n int) error
}

// MaxKeyHistory bounds Session.KeyHistory.
const MaxKeyHistory = 256

// Session is the input state of one editing session.
type Session struct {
	// ID identifies the session in logs.
	ID uuid.UUID

	// Mode is the current mode name.
	Mode string

	// Recorded is the pending command.
	Recorded Recorded

	// KeyHistory holds the keys handled since the last mode change, at
	// most MaxKeyHistory of them.
	KeyHistory key.Sequence

	// Editor is the host editor; nil when running detached.
	Editor Editor
}

// New creates a session in the given mode.
func New(mode string, editor Editor) *Session {
	return &Session{
		ID:     uuid.New(),
		Mode:   mode,
		Editor: editor,
	}
}

// CurrentMode returns the session's mode.
func (s *Session) CurrentMode() string {
	return s.Mode
}

// RecordedState returns the pending command.
func (s *Session) RecordedState() *Recorded {
	return &s.Recorded
}

// PushKey appends a key to both the pending command and the key history.
func (s *Session) PushKey(t key.Token) {
	s.Recorded.ActionKeys = append(s.Recorded.ActionKeys, t)
	s.KeyHistory = append(s.KeyHistory, t)
	if over := len(s.KeyHistory) - MaxKeyHistory; over > 0 {
		s.KeyHistory = append(key.Sequence(nil), s.KeyHistory[over:]...)
	}
}

// TrimKeys drops the last n keys from the pending command and the key
// history.
func (s *Session) TrimKeys(n int) {
	s.Recorded.ActionKeys = s.Recorded.ActionKeys.TrimEnd(n)
	s.KeyHistory = s.KeyHistory.TrimEnd(n)
	if s.Recorded.CountKeys > len(s.Recorded.ActionKeys) {
		s.Recorded.CountKeys = len(s.Recorded.ActionKeys)
	}
}

// TakeCount removes the count prefix from the pending command and
// returns it, 0 when none was typed.
func (s *Session) TakeCount() int {
	rec := &s.Recorded
	count := rec.Count
	if rec.CountKeys > 0 {
		rec.ActionKeys = rec.CommandKeys()
	}
	rec.Count, rec.CountKeys = 0, 0
	return count
}

// FinishCommand clears the pending command. The key history is kept.
func (s *Session) FinishCommand() {
	s.Recorded.Reset()
}

// SetMode switches the session's mode. Changing mode starts a new key
// history.
func (s *Session) SetMode(name string) {
	if name == s.Mode {
		return
	}
	s.Mode = name
	s.KeyHistory = nil
}

// CursorCount returns the number of cursors, 1 when detached.
func (s *Session) CursorCount() int {
	if s.Editor == nil {
		return 1
	}
	return s.Editor.CursorCount()
}

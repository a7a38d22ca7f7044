package macro

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/vimkeys/internal/input"
	"github.com/dshills/vimkeys/internal/input/action"
	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/state"
)

// macroExecutor records actions and drives the recorder and player the
// way an editor would.
type macroExecutor struct {
	h        *input.Handler
	recorder *Recorder
	player   *Player
	kinds    []action.Kind
}

func (x *macroExecutor) Execute(ctx context.Context, a action.Action, s *state.Session) error {
	x.kinds = append(x.kinds, a.Kind)

	register := []rune(string(a.KeysPressed[len(a.KeysPressed)-1]))[0]
	switch a.Kind {
	case action.KindRecordMacro:
		return x.recorder.Start(register)
	case action.KindPlayMacro:
		count := s.Recorded.Count
		s.FinishCommand()
		return x.player.Play(ctx, register, count, x.h)
	}
	return nil
}

func (x *macroExecutor) InsertText(context.Context, string, *state.Session) error {
	return nil
}

func (x *macroExecutor) count(kind action.Kind) int {
	n := 0
	for _, k := range x.kinds {
		if k == kind {
			n++
		}
	}
	return n
}

func newMacroHandler(t *testing.T) (*input.Handler, *macroExecutor) {
	t.Helper()

	rec := NewRecorder()
	exec := &macroExecutor{recorder: rec, player: NewPlayer(rec)}
	reg := action.NewRegistry(`\`, action.Defaults()...)
	h, err := input.NewHandler(input.DefaultConfig(), reg, input.WithExecutor(exec))
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	h.Hooks().RegisterWithOptions(rec, "macro", input.HookPriorityHighest)
	exec.h = h
	return h, exec
}

func typeKeys(t *testing.T, h *input.Handler, keys string) {
	t.Helper()
	if err := h.HandleKeys(context.Background(), key.ParseSequence(keys)); err != nil {
		t.Fatalf("HandleKeys(%q) error = %v", keys, err)
	}
}

func TestRegisters(t *testing.T) {
	tests := []struct {
		r         rune
		valid     bool
		appending bool
		normal    rune
	}{
		{'a', true, false, 'a'},
		{'z', true, false, 'z'},
		{'0', true, false, '0'},
		{'A', false, true, 'a'},
		{'!', false, false, 0},
		{' ', false, false, 0},
	}

	for _, tt := range tests {
		if got := IsValidRegister(tt.r); got != tt.valid {
			t.Errorf("IsValidRegister(%q) = %v, want %v", tt.r, got, tt.valid)
		}
		if got := IsAppendRegister(tt.r); got != tt.appending {
			t.Errorf("IsAppendRegister(%q) = %v, want %v", tt.r, got, tt.appending)
		}
		if got := NormalizeRegister(tt.r); got != tt.normal {
			t.Errorf("NormalizeRegister(%q) = %q, want %q", tt.r, got, tt.normal)
		}
	}
}

func TestRecordAndPlay(t *testing.T) {
	h, exec := newMacroHandler(t)

	typeKeys(t, h, "qajjq")

	if exec.recorder.IsRecording() {
		t.Fatal("recording should stop on q")
	}
	if got := exec.recorder.Get('a').String(); got != "jj" {
		t.Fatalf("register a = %q, want %q", got, "jj")
	}
	if n := exec.count(action.KindMoveDown); n != 2 {
		t.Errorf("moves while recording = %d, want 2", n)
	}

	typeKeys(t, h, "2@a")
	if n := exec.count(action.KindMoveDown); n != 6 {
		t.Errorf("moves after 2@a = %d, want 6", n)
	}

	typeKeys(t, h, "@@")
	if n := exec.count(action.KindMoveDown); n != 8 {
		t.Errorf("moves after @@ = %d, want 8", n)
	}
	if exec.recorder.LastPlayed() != 'a' {
		t.Errorf("LastPlayed() = %q, want 'a'", exec.recorder.LastPlayed())
	}
}

func TestRecordAppend(t *testing.T) {
	h, exec := newMacroHandler(t)

	typeKeys(t, h, "qajqqAkq")

	if got := exec.recorder.Get('a').String(); got != "jk" {
		t.Errorf("register a = %q, want %q", got, "jk")
	}
}

func TestPlaybackIsNotRecorded(t *testing.T) {
	h, exec := newMacroHandler(t)
	if err := exec.recorder.Set('a', key.ParseSequence("jj")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	typeKeys(t, h, "qb@aq")

	if got := exec.recorder.Get('b').String(); got != "@a" {
		t.Errorf("register b = %q, want %q", got, "@a")
	}
}

func TestStopKeyNeedsEmptyCommand(t *testing.T) {
	h, exec := newMacroHandler(t)

	typeKeys(t, h, "qa")
	rec := exec.recorder

	// "q" completes "fq" instead of stopping.
	typeKeys(t, h, "fq")
	if !rec.IsRecording() {
		t.Fatal("q inside a pending command should not stop recording")
	}
	if n := exec.count(action.KindFindForward); n != 1 {
		t.Errorf("find actions = %d, want 1", n)
	}

	typeKeys(t, h, "q")
	if got := rec.Get('a').String(); got != "fq" {
		t.Errorf("register a = %q, want %q", got, "fq")
	}
}

type sinkFunc func(context.Context, key.Sequence) error

func (f sinkFunc) HandleKeys(ctx context.Context, keys key.Sequence) error {
	return f(ctx, keys)
}

func TestPlayErrors(t *testing.T) {
	rec := NewRecorder()
	p := NewPlayer(rec)
	ctx := context.Background()
	noop := sinkFunc(func(context.Context, key.Sequence) error { return nil })

	if err := p.Play(ctx, 'a', 1, noop); err == nil {
		t.Error("playing an empty register should fail")
	}
	if err := p.Play(ctx, '!', 1, noop); err == nil {
		t.Error("playing an invalid register should fail")
	}
	if err := p.Play(ctx, LastRegister, 1, noop); err == nil {
		t.Error("@@ before any playback should fail")
	}

	_ = rec.Set('a', key.ParseSequence("@a"))
	var self sinkFunc
	self = func(ctx context.Context, keys key.Sequence) error {
		return p.Play(ctx, 'a', 1, self)
	}
	if err := p.Play(ctx, 'a', 1, self); !errors.Is(err, ErrAlreadyPlaying) {
		t.Errorf("recursive Play() error = %v, want ErrAlreadyPlaying", err)
	}
	if p.IsPlaying() {
		t.Error("IsPlaying() should be false after playback")
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if err := p.Play(canceled, 'a', 1, noop); !errors.Is(err, context.Canceled) {
		t.Errorf("Play() with canceled context error = %v, want context.Canceled", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "macros.json")

	rec := NewRecorder()
	_ = rec.Set('a', key.ParseSequence("dd<C-r>j"))
	_ = rec.Set('z', key.ParseSequence(":w<CR>"))

	if err := Save(rec, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should be renamed")
	}

	loaded := NewRecorder()
	if err := Load(loaded, path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := loaded.Get('a'); !got.Equal(key.ParseSequence("dd<C-r>j")) {
		t.Errorf("register a = %v", got)
	}
	if got := loaded.Registers(); len(got) != 2 || got[0] != 'a' || got[1] != 'z' {
		t.Errorf("Registers() = %q, want [a z]", got)
	}

	if err := Load(NewRecorder(), filepath.Join(t.TempDir(), "missing.json")); err != nil {
		t.Errorf("Load(missing) error = %v, want nil", err)
	}
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macros.json")
	if err := os.WriteFile(path, []byte(`{"version": 99, "macros": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Load(NewRecorder(), path); err == nil {
		t.Error("Load() should reject a newer file version")
	}
}

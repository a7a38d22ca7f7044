package remap

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/mode"
	"github.com/dshills/vimkeys/internal/input/state"
)

// fakeEditor stores inserted text as one change per key.
type fakeEditor struct {
	changes []string
	cursors int
	cursor  int
	undone  int
}

func (e *fakeEditor) CursorCount() int {
	if e.cursors == 0 {
		return 1
	}
	return e.cursors
}

func (e *fakeEditor) MoveCursorLeft(n int) {
	e.cursor -= n
	if e.cursor < 0 {
		e.cursor = 0
	}
}

func (e *fakeEditor) UndoChanges(_ context.Context, n int) error {
	e.undone += n
	if n > len(e.changes) {
		n = len(e.changes)
	}
	e.changes = e.changes[:len(e.changes)-n]
	return nil
}

func (e *fakeEditor) text() string {
	return strings.Join(e.changes, "")
}

// fakeHandler records replays; <Esc> leaves insert mode.
type fakeHandler struct {
	session   *state.Session
	log       *[]string
	replayed  []key.Sequence
	remapping []bool
	views     int
	replayErr error

	// remappedKeys is the session's RemappedKeys seen by each replay.
	remappedKeys []int
}

func (h *fakeHandler) HandleKeys(ctx context.Context, keys key.Sequence) error {
	h.replayed = append(h.replayed, keys)
	h.remapping = append(h.remapping, IsRemapping(ctx))
	h.remappedKeys = append(h.remappedKeys, h.session.Recorded.RemappedKeys)
	if h.log != nil {
		*h.log = append(*h.log, "keys:"+keys.String())
	}
	if h.replayErr != nil {
		return h.replayErr
	}
	for _, k := range keys {
		if k == key.Escape {
			h.session.Mode = mode.ModeNormal
		}
	}
	return nil
}

func (h *fakeHandler) UpdateView(context.Context) error {
	h.views++
	if h.log != nil {
		*h.log = append(*h.log, "view")
	}
	return nil
}

type fakeCommandLine struct {
	log *[]string
	err error
}

func (c *fakeCommandLine) Run(_ context.Context, command string, _ *state.Session) error {
	*c.log = append(*c.log, "cmdline:"+command)
	return c.err
}

type fakeHost struct {
	log  *[]string
	args [][]any
	err  error
}

func (h *fakeHost) Execute(_ context.Context, id string, args []any) error {
	*h.log = append(*h.log, "host:"+id)
	h.args = append(h.args, args)
	return h.err
}

func remapping(before, after string, commands ...Command) Remapping {
	return Remapping{
		Before:   key.ParseSequence(before),
		After:    key.ParseSequence(after),
		Commands: commands,
	}
}

// insertSession returns an insert-mode session whose editor already holds
// text, one change and one history key per character.
func insertSession(text string) (*state.Session, *fakeEditor) {
	ed := &fakeEditor{}
	s := state.New(mode.ModeInsert, ed)
	for _, k := range key.ParseSequence(text) {
		ed.changes = append(ed.changes, string(k))
		ed.cursor++
		s.KeyHistory = append(s.KeyHistory, k)
	}
	return s, ed
}

// typed returns the session's key history followed by k.
func typed(s *state.Session, k string) key.Sequence {
	return append(s.KeyHistory.Clone(), key.ParseSequence(k)...)
}

func TestInsertModeTrailingWindow(t *testing.T) {
	s, ed := insertSession("hello j")
	h := &fakeHandler{session: s}
	r := NewInsertMode(true, []Remapping{remapping("jj", "<Esc>")})

	res, err := r.SendKey(context.Background(), typed(s, "j"), h, s)
	if err != nil {
		t.Fatalf("SendKey() error = %v", err)
	}

	if !res.Found || !res.Handled {
		t.Errorf("result = %+v, want found and handled", res)
	}
	if res.RemappedKeys != 2 {
		t.Errorf("RemappedKeys = %d, want 2", res.RemappedKeys)
	}
	if got := ed.text(); got != "hello " {
		t.Errorf("text = %q, want %q", got, "hello ")
	}
	if ed.undone != 1 {
		t.Errorf("undone = %d, want 1", ed.undone)
	}
	if ed.cursor != 6 {
		t.Errorf("cursor = %d, want 6", ed.cursor)
	}
	if got := s.KeyHistory.String(); got != "hello " {
		t.Errorf("KeyHistory = %q, want %q", got, "hello ")
	}
	if s.Mode != mode.ModeNormal {
		t.Errorf("Mode = %q, want %q", s.Mode, mode.ModeNormal)
	}
	if len(h.replayed) != 1 || h.replayed[0].String() != "<Esc>" {
		t.Errorf("replayed = %v, want [<Esc>]", h.replayed)
	}
}

func TestInsertModeRevertsEveryCursor(t *testing.T) {
	s, ed := insertSession("abjjabjj")
	ed.cursors = 2
	h := &fakeHandler{session: s}
	r := NewInsertMode(true, []Remapping{remapping("jjj", "<Esc>")})

	res, err := r.SendKey(context.Background(), typed(s, "j"), h, s)
	if err != nil {
		t.Fatalf("SendKey() error = %v", err)
	}
	if !res.Handled {
		t.Fatal("remapping should fire")
	}

	if ed.undone != 4 {
		t.Errorf("undone = %d, want 4 (2 keys x 2 cursors)", ed.undone)
	}
	if ed.cursor != 6 {
		t.Errorf("cursor = %d, want 6", ed.cursor)
	}
}

func TestInsertModeShortestWindowFirst(t *testing.T) {
	s, _ := insertSession("a")
	h := &fakeHandler{session: s}
	r := NewInsertMode(true, []Remapping{
		remapping("ab", "X"),
		remapping("b", "Y"),
	})

	res, err := r.SendKey(context.Background(), typed(s, "b"), h, s)
	if err != nil {
		t.Fatalf("SendKey() error = %v", err)
	}
	if !res.Handled || res.RemappedKeys != 1 {
		t.Errorf("result = %+v, want the one-key remapping", res)
	}
	if len(h.replayed) != 1 || h.replayed[0].String() != "Y" {
		t.Errorf("replayed = %v, want [Y]", h.replayed)
	}
}

func TestOtherModesExactMatch(t *testing.T) {
	var log []string
	host := &fakeHost{log: &log}
	r := NewOtherModes(true, []Remapping{
		remapping(`\w`, "", Command{ID: "workbench.action.closeActiveEditor", Args: []any{"now"}}),
	}, WithHostCommands(host))

	tests := []struct {
		name    string
		pending string
		key     string
		handled bool
	}{
		{"exact", `\`, "w", true},
		{"extra leading key", `x\`, "w", false},
		{"prefix only", "", `\`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log = nil
			s := state.New(mode.ModeNormal, nil)
			for _, k := range key.ParseSequence(tt.pending) {
				s.PushKey(k)
			}
			h := &fakeHandler{session: s}

			keys := append(s.Recorded.ActionKeys.Clone(), key.ParseSequence(tt.key)...)
			res, err := r.SendKey(context.Background(), keys, h, s)
			if err != nil {
				t.Fatalf("SendKey() error = %v", err)
			}
			if res.Handled != tt.handled {
				t.Errorf("Handled = %v, want %v", res.Handled, tt.handled)
			}
			if tt.handled {
				if len(log) != 1 || log[0] != "host:workbench.action.closeActiveEditor" {
					t.Errorf("log = %v", log)
				}
				if len(s.Recorded.ActionKeys) != 0 {
					t.Errorf("ActionKeys = %v, want the trigger removed", s.Recorded.ActionKeys)
				}
			} else if len(log) != 0 {
				t.Errorf("log = %v, want no commands", log)
			}
		})
	}

	if len(host.args) != 1 || host.args[0][0] != "now" {
		t.Errorf("args = %v, want [[now]]", host.args)
	}
}

func TestDisabledRemapping(t *testing.T) {
	s, ed := insertSession("j")
	h := &fakeHandler{session: s}
	r := NewInsertMode(true, []Remapping{remapping("jj", "")})

	res, err := r.SendKey(context.Background(), typed(s, "j"), h, s)
	if err != nil {
		t.Fatalf("SendKey() error = %v", err)
	}

	if !res.Found {
		t.Error("disabled remapping should be found")
	}
	if res.Handled {
		t.Error("disabled remapping should not be handled")
	}
	if ed.undone != 0 || len(h.replayed) != 0 {
		t.Error("disabled remapping should not change anything")
	}
}

func TestDisabledRemappingShadowed(t *testing.T) {
	s := state.New(mode.ModeNormal, nil)
	h := &fakeHandler{session: s}
	r := NewOtherModes(true, []Remapping{
		remapping("Q", ""),
		remapping("Q", "gq"),
	})

	res, err := r.SendKey(context.Background(), key.Tokens("Q"), h, s)
	if err != nil {
		t.Fatalf("SendKey() error = %v", err)
	}
	if !res.Handled {
		t.Error("a later enabled remapping with the same trigger should fire")
	}
}

func TestModeGate(t *testing.T) {
	s := state.New(mode.ModeNormal, nil)
	h := &fakeHandler{session: s}
	r := NewInsertMode(true, []Remapping{remapping("jj", "<Esc>")})

	res, err := r.SendKey(context.Background(), key.Tokens("j"), h, s)
	if err != nil {
		t.Fatalf("SendKey() error = %v", err)
	}
	if res != (Result{}) {
		t.Errorf("result = %+v, want zero", res)
	}
	if r.IsPotentialRemap() {
		t.Error("IsPotentialRemap() = true outside the remapper's modes")
	}
}

func TestIsPotentialRemap(t *testing.T) {
	s := state.New(mode.ModeNormal, nil)
	h := &fakeHandler{session: s}
	r := NewOtherModes(true, []Remapping{remapping(`\wq`, ":wq")})

	tests := []struct {
		keys string
		want bool
	}{
		{`\`, true},
		{`\w`, true},
		{`\x`, false},
		{"w", false},
	}

	for _, tt := range tests {
		_, err := r.SendKey(context.Background(), key.ParseSequence(tt.keys), h, s)
		if err != nil {
			t.Fatalf("SendKey(%q) error = %v", tt.keys, err)
		}
		if got := r.IsPotentialRemap(); got != tt.want {
			t.Errorf("IsPotentialRemap() after %q = %v, want %v", tt.keys, got, tt.want)
		}
	}
}

func TestCountReplay(t *testing.T) {
	s := state.New(mode.ModeNormal, nil)
	s.PushKey("3")
	s.Recorded.Count = 3
	s.Recorded.CountKeys = 1
	h := &fakeHandler{session: s}
	r := NewOtherModes(true, []Remapping{remapping("Y", "y$")})

	res, err := r.SendKey(context.Background(), key.Tokens("Y"), h, s)
	if err != nil {
		t.Fatalf("SendKey() error = %v", err)
	}
	if !res.Handled {
		t.Fatal("remapping should fire")
	}

	if len(h.replayed) != 3 {
		t.Errorf("replays = %d, want 3", len(h.replayed))
	}
	if s.Recorded.Count != 0 {
		t.Errorf("Count = %d, want 0", s.Recorded.Count)
	}
}

func TestCommandsOnlyTakeCount(t *testing.T) {
	var log []string
	s := state.New(mode.ModeNormal, nil)
	s.PushKey("3")
	s.Recorded.Count = 3
	s.Recorded.CountKeys = 1
	h := &fakeHandler{session: s}
	r := NewOtherModes(true, []Remapping{remapping("Q", "", Command{ID: "macro.replay"})},
		WithHostCommands(&fakeHost{log: &log}))

	res, err := r.SendKey(context.Background(), key.Tokens("Q"), h, s)
	if err != nil {
		t.Fatalf("SendKey() error = %v", err)
	}
	if !res.Handled {
		t.Fatal("remapping should fire")
	}
	if len(log) != 1 {
		t.Errorf("host commands = %v, want one", log)
	}
	if s.Recorded.Count != 0 || s.Recorded.CountKeys != 0 {
		t.Errorf("Count = %d, CountKeys = %d, want 0", s.Recorded.Count, s.Recorded.CountKeys)
	}
	if got := s.Recorded.ActionKeys.String(); got != "" {
		t.Errorf("ActionKeys = %q, want empty", got)
	}
}

func TestRemappedKeysRecordedBeforeReplay(t *testing.T) {
	s := state.New(mode.ModeNormal, nil)
	s.PushKey("g")
	h := &fakeHandler{session: s}
	r := NewOtherModes(true, []Remapping{remapping("gs", "j")})

	if _, err := r.SendKey(context.Background(), key.Tokens("g", "s"), h, s); err != nil {
		t.Fatalf("SendKey() error = %v", err)
	}
	if len(h.remappedKeys) != 1 || h.remappedKeys[0] != 2 {
		t.Errorf("RemappedKeys during replay = %v, want [2]", h.remappedKeys)
	}
}

func TestSingleKeyRemapTrimsNothing(t *testing.T) {
	s := state.New(mode.ModeNormal, nil)
	s.PushKey("d")
	h := &fakeHandler{session: s}
	r := NewOtherModes(true, []Remapping{remapping("Y", "y$")})

	if _, err := r.SendKey(context.Background(), key.Tokens("Y"), h, s); err != nil {
		t.Fatalf("SendKey() error = %v", err)
	}
	if got := s.Recorded.ActionKeys.String(); got != "d" {
		t.Errorf("ActionKeys = %q, want %q", got, "d")
	}
	if got := s.KeyHistory.String(); got != "d" {
		t.Errorf("KeyHistory = %q, want %q", got, "d")
	}
}

func TestCommandsRunInOrder(t *testing.T) {
	var log []string
	s := state.New(mode.ModeNormal, nil)
	h := &fakeHandler{session: s, log: &log}
	r := NewOtherModes(true, []Remapping{
		remapping("ZZ", "<Esc>",
			Command{ID: ":w"},
			Command{ID: "editor.close"},
			Command{ID: ":q"},
		),
	}, WithCommandLine(&fakeCommandLine{log: &log}), WithHostCommands(&fakeHost{log: &log}))

	if _, err := r.SendKey(context.Background(), key.Tokens("Z", "Z"), h, s); err != nil {
		t.Fatalf("SendKey() error = %v", err)
	}

	want := []string{"keys:<Esc>", "cmdline:w", "view", "host:editor.close", "cmdline:q", "view"}
	if strings.Join(log, ",") != strings.Join(want, ",") {
		t.Errorf("log = %v, want %v", log, want)
	}
}

func TestNonRecursiveMarksReplay(t *testing.T) {
	tests := []struct {
		recursive bool
		want      bool
	}{
		{true, false},
		{false, true},
	}

	for _, tt := range tests {
		s := state.New(mode.ModeNormal, nil)
		h := &fakeHandler{session: s}
		r := NewOtherModes(tt.recursive, []Remapping{remapping("j", "gj")})

		ctx := context.Background()
		if _, err := r.SendKey(ctx, key.Tokens("j"), h, s); err != nil {
			t.Fatalf("SendKey() error = %v", err)
		}
		if len(h.remapping) != 1 || h.remapping[0] != tt.want {
			t.Errorf("recursive=%v: IsRemapping during replay = %v, want %v", tt.recursive, h.remapping, tt.want)
		}
		if IsRemapping(ctx) {
			t.Error("caller context should not be marked")
		}
	}
}

func TestSendKeyErrors(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name    string
		rm      Remapping
		handler func(*fakeHandler)
		opts    func(*[]string) []Option
		want    error
	}{
		{
			name:    "replay",
			rm:      remapping("Q", "x"),
			handler: func(h *fakeHandler) { h.replayErr = errBoom },
			want:    errBoom,
		},
		{
			name: "command line",
			rm:   remapping("Q", "", Command{ID: ":w"}),
			opts: func(log *[]string) []Option {
				return []Option{WithCommandLine(&fakeCommandLine{log: log, err: errBoom})}
			},
			want: errBoom,
		},
		{
			name: "host",
			rm:   remapping("Q", "", Command{ID: "save"}),
			opts: func(log *[]string) []Option {
				return []Option{WithHostCommands(&fakeHost{log: log, err: errBoom})}
			},
			want: errBoom,
		},
		{
			name: "no command line",
			rm:   remapping("Q", "", Command{ID: ":w"}),
			want: ErrNoCommandLine,
		},
		{
			name: "no host",
			rm:   remapping("Q", "", Command{ID: "save"}),
			want: ErrNoHostCommands,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var log []string
			s := state.New(mode.ModeNormal, nil)
			h := &fakeHandler{session: s}
			if tt.handler != nil {
				tt.handler(h)
			}
			var opts []Option
			if tt.opts != nil {
				opts = tt.opts(&log)
			}
			r := NewOtherModes(true, []Remapping{tt.rm}, opts...)

			_, err := r.SendKey(context.Background(), key.Tokens("Q"), h, s)
			if !errors.Is(err, tt.want) {
				t.Errorf("SendKey() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestChainShortCircuit(t *testing.T) {
	var log []string
	s, _ := insertSession("j")
	h := &fakeHandler{session: s}
	c := NewChain(Tables{
		Insert:             []Remapping{remapping("jj", "<Esc>")},
		InsertNonRecursive: []Remapping{remapping("jj", "", Command{ID: "never"})},
	}, WithHostCommands(&fakeHost{log: &log}))

	res, err := c.SendKey(context.Background(), typed(s, "j"), h, s)
	if err != nil {
		t.Fatalf("SendKey() error = %v", err)
	}
	if !res.Handled || !res.Found {
		t.Errorf("result = %+v, want found and handled", res)
	}
	if len(log) != 0 {
		t.Errorf("later remappers ran: %v", log)
	}
	if len(h.remapping) != 1 || h.remapping[0] {
		t.Error("the recursive insert remapper should have handled the keys")
	}
}

func TestChainFoundUnion(t *testing.T) {
	s := state.New(mode.ModeNormal, nil)
	h := &fakeHandler{session: s}
	c := NewChain(Tables{
		OtherNonRecursive: []Remapping{remapping("Q", "")},
	})

	res, err := c.SendKey(context.Background(), key.Tokens("Q"), h, s)
	if err != nil {
		t.Fatalf("SendKey() error = %v", err)
	}
	if !res.Found || res.Handled {
		t.Errorf("result = %+v, want found but not handled", res)
	}
}

func TestChainOrder(t *testing.T) {
	s := state.New(mode.ModeNormal, nil)
	h := &fakeHandler{session: s}
	c := NewChain(Tables{
		Other:             []Remapping{remapping("Q", "a")},
		OtherNonRecursive: []Remapping{remapping("Q", "b")},
	})

	if _, err := c.SendKey(context.Background(), key.Tokens("Q"), h, s); err != nil {
		t.Fatalf("SendKey() error = %v", err)
	}
	if len(h.replayed) != 1 || h.replayed[0].String() != "a" {
		t.Errorf("replayed = %v, want [a]", h.replayed)
	}

	names := []string{}
	for _, r := range c.Remappers() {
		names = append(names, r.Name())
	}
	want := "insertModeKeyBindings,otherModesKeyBindings,insertModeKeyBindingsNonRecursive,otherModesKeyBindingsNonRecursive"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("order = %s, want %s", got, want)
	}
}

func TestChainIsPotentialRemap(t *testing.T) {
	s := state.New(mode.ModeNormal, nil)
	h := &fakeHandler{session: s}
	c := NewChain(Tables{
		OtherNonRecursive: []Remapping{remapping("gq", "")},
	})

	if _, err := c.SendKey(context.Background(), key.Tokens("g"), h, s); err != nil {
		t.Fatalf("SendKey() error = %v", err)
	}
	if !c.IsPotentialRemap() {
		t.Error("IsPotentialRemap() = false, want true")
	}

	if _, err := c.SendKey(context.Background(), key.Tokens("x"), h, s); err != nil {
		t.Fatalf("SendKey() error = %v", err)
	}
	if c.IsPotentialRemap() {
		t.Error("IsPotentialRemap() = true, want false")
	}
}

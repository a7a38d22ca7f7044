package terminal

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/vimkeys/internal/input/key"
)

func TestConvertEvent(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want key.Token
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone), "j"},
		{"shifted rune", tcell.NewEventKey(tcell.KeyRune, 'J', tcell.ModShift), "J"},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyRune, 'u', tcell.ModCtrl), "<C-u>"},
		{"ctrl key code", tcell.NewEventKey(tcell.KeyCtrlD, 0, tcell.ModCtrl), "<C-d>"},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt), "<A-x>"},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "<Esc>"},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "<CR>"},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), "<Tab>"},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), "<BS>"},
		{"shift backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModShift), "<Shift+BS>"},
		{"arrow", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), "<Up>"},
		{"function key", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), "<F5>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ConvertEvent(tt.ev)
			if !ok {
				t.Fatalf("ConvertEvent() not converted")
			}
			if got.Token() != tt.want {
				t.Errorf("ConvertEvent() token = %q, want %q", got.Token(), tt.want)
			}
		})
	}
}

func TestConvertEventUnsupported(t *testing.T) {
	if _, ok := ConvertEvent(tcell.NewEventKey(tcell.KeyPrint, 0, tcell.ModNone)); ok {
		t.Error("KeyPrint should not convert")
	}
}

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()

	screen := tcell.NewSimulationScreen("")
	term, err := New(screen)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	screen.SetSize(20, 3)
	return term, screen
}

func TestReadKey(t *testing.T) {
	term, screen := newSimTerminal(t)

	screen.InjectKey(tcell.KeyPrint, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'g', tcell.ModNone)
	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	ev, ok := term.ReadKey()
	if !ok || ev.Token() != "g" {
		t.Fatalf("ReadKey() = %q, %v, want g", ev.Token(), ok)
	}
	ev, ok = term.ReadKey()
	if !ok || ev.Token() != "<Esc>" {
		t.Fatalf("ReadKey() = %q, %v, want <Esc>", ev.Token(), ok)
	}

	term.Close()
	if _, ok := term.ReadKey(); ok {
		t.Error("ReadKey() after Close should return false")
	}
}

func TestDraw(t *testing.T) {
	term, screen := newSimTerminal(t)
	defer term.Close()

	term.Draw([]string{"mode: normal", "a line longer than the screen", "x", "clipped"})

	cells, width, _ := screen.GetContents()
	row := func(y int) string {
		var b []byte
		for x := 0; x < width; x++ {
			b = append(b, cells[y*width+x].Bytes...)
		}
		return strings.TrimRight(string(b), " ")
	}

	if got := row(0); got != "mode: normal" {
		t.Errorf("row 0 = %q", got)
	}
	if got := row(1); got != "a line longer than t" {
		t.Errorf("row 1 = %q", got)
	}
	if got := row(2); got != "x" {
		t.Errorf("row 2 = %q", got)
	}
}

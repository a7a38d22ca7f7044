// Package terminal reads keys from a tcell screen and draws plain text
// lines on it.
package terminal

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/vimkeys/internal/input/key"
)

// Terminal wraps a tcell screen.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
}

// Open creates and initializes a screen on the controlling terminal.
func Open() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return New(screen)
}

// New initializes screen and wraps it. Tests pass a simulation screen.
func New(screen tcell.Screen) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnablePaste()
	return &Terminal{screen: screen}, nil
}

// Close restores the terminal.
func (t *Terminal) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Fini()
}

// ReadKey blocks until a key is pressed. It returns false once the
// screen is finalized. Keys with no Vim notation are skipped.
func (t *Terminal) ReadKey() (key.Event, bool) {
	for {
		ev := t.screen.PollEvent()
		switch e := ev.(type) {
		case nil:
			return key.Event{}, false
		case *tcell.EventKey:
			if k, ok := ConvertEvent(e); ok {
				return k, true
			}
		case *tcell.EventResize:
			t.mu.Lock()
			t.screen.Sync()
			t.mu.Unlock()
		}
	}
}

// Draw replaces the screen content with lines, clipped to the screen.
func (t *Terminal) Draw(lines []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
	width, height := t.screen.Size()
	style := tcell.StyleDefault
	for y, line := range lines {
		if y >= height {
			break
		}
		x := 0
		for _, r := range line {
			if x >= width {
				break
			}
			t.screen.SetContent(x, y, r, nil, style)
			x++
		}
	}
	t.screen.Show()
}

// ConvertEvent converts a tcell key event. It returns false for keys
// without a Vim notation.
func ConvertEvent(ev *tcell.EventKey) (key.Event, bool) {
	mods := convertMod(ev.Modifiers())
	k := ev.Key()

	switch {
	case k == tcell.KeyRune:
		// Shift is part of the rune.
		return key.NewRuneEvent(ev.Rune(), mods.Without(key.ModShift)), true
	case k == tcell.KeyCtrlSpace:
		return key.NewRuneEvent(' ', mods.With(key.ModCtrl)), true
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return key.NewRuneEvent('a'+rune(k-tcell.KeyCtrlA), mods.With(key.ModCtrl)), true
	}

	if special, ok := specialKeys[k]; ok {
		return key.NewSpecialEvent(special, mods), true
	}
	return key.Event{}, false
}

// specialKeys maps tcell keys to special keys.
var specialKeys = map[tcell.Key]key.Key{
	tcell.KeyEscape:     key.KeyEscape,
	tcell.KeyEnter:      key.KeyEnter,
	tcell.KeyTab:        key.KeyTab,
	tcell.KeyBackspace:  key.KeyBackspace,
	tcell.KeyBackspace2: key.KeyBackspace,
	tcell.KeyDelete:     key.KeyDelete,
	tcell.KeyInsert:     key.KeyInsert,
	tcell.KeyHome:       key.KeyHome,
	tcell.KeyEnd:        key.KeyEnd,
	tcell.KeyPgUp:       key.KeyPageUp,
	tcell.KeyPgDn:       key.KeyPageDown,
	tcell.KeyUp:         key.KeyUp,
	tcell.KeyDown:       key.KeyDown,
	tcell.KeyLeft:       key.KeyLeft,
	tcell.KeyRight:      key.KeyRight,
	tcell.KeyF1:         key.KeyF1,
	tcell.KeyF2:         key.KeyF2,
	tcell.KeyF3:         key.KeyF3,
	tcell.KeyF4:         key.KeyF4,
	tcell.KeyF5:         key.KeyF5,
	tcell.KeyF6:         key.KeyF6,
	tcell.KeyF7:         key.KeyF7,
	tcell.KeyF8:         key.KeyF8,
	tcell.KeyF9:         key.KeyF9,
	tcell.KeyF10:        key.KeyF10,
	tcell.KeyF11:        key.KeyF11,
	tcell.KeyF12:        key.KeyF12,
}

// convertMod converts tcell modifiers.
func convertMod(m tcell.ModMask) key.Modifier {
	var mods key.Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(key.ModMeta)
	}
	return mods
}

package key

import (
	"fmt"
	"unicode"
)

// Event represents a single key press as delivered by a terminal backend.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsModified returns true if any modifier is pressed.
// For character events, Shift alone is not considered modified
// (since Shift changes the character itself).
func (e Event) IsModified() bool {
	if e.IsRune() {
		return e.Modifiers&(ModCtrl|ModAlt|ModMeta) != 0
	}
	return e.Modifiers != ModNone
}

// Token renders the event in the Vim notation used for matching.
// Examples: "a", "A", " ", "<Esc>", "<C-u>", "<Shift+BS>"
func (e Event) Token() Token {
	if e.IsRune() && !e.IsModified() {
		return Token(string(e.Rune))
	}
	if e.Key == KeyBackspace && e.Modifiers == ModShift {
		return ShiftBackspace
	}

	var name string
	if e.Key == KeyRune {
		name = string(unicode.ToLower(e.Rune))
		if e.Rune == ' ' {
			name = "Space"
		}
		return Token("<" + e.Modifiers.prefix(true) + name + ">")
	}
	return Token("<" + e.Modifiers.prefix(false) + e.Key.String() + ">")
}

// Equals returns true if two events represent the same key press.
func (e Event) Equals(other Event) bool {
	return e.Key == other.Key && e.Rune == other.Rune && e.Modifiers == other.Modifiers
}

// GoString implements fmt.GoStringer for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("Event{Key: %s, Rune: %q, Modifiers: %d}", e.Key, e.Rune, e.Modifiers)
}

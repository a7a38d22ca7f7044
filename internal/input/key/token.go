package key

import "strings"

// Token is a single keystroke unit: a literal key in Vim notation or a
// wildcard class.
type Token string

// Wildcard tokens usable in action patterns.
const (
	Any       Token = "<any>"
	Number    Token = "<number>"
	Alpha     Token = "<alpha>"
	Character Token = "<character>"
	Leader    Token = "<leader>"
)

// Literal tokens with special handling.
const (
	Escape         Token = "<Esc>"
	Backspace      Token = "<BS>"
	ShiftBackspace Token = "<Shift+BS>"
	Tab            Token = "<Tab>"
)

// IsWildcard reports whether t is one of the wildcard classes.
func (t Token) IsWildcard() bool {
	switch t {
	case Any, Number, Alpha, Character, Leader:
		return true
	}
	return false
}

// IsControl reports whether t is a bracketed control key such as <C-u>.
// <BS>, <Shift+BS> and <Tab> count as plain characters.
func (t Token) IsControl() bool {
	if len(t) <= 1 || t[0] != '<' {
		return false
	}
	switch strings.ToUpper(string(t)) {
	case "<BS>", "<SHIFT+BS>", "<TAB>":
		return false
	}
	return true
}

// IsDigit reports whether t is exactly one ASCII digit.
func (t Token) IsDigit() bool {
	return len(t) == 1 && t[0] >= '0' && t[0] <= '9'
}

// IsAlpha reports whether t is exactly one ASCII letter.
func (t Token) IsAlpha() bool {
	if len(t) != 1 {
		return false
	}
	c := t[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// String returns the token text.
func (t Token) String() string {
	return string(t)
}

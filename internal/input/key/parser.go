package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification string into an Event.
//
// Supported formats:
//   - Single character: "a", "A", "1", "@"
//   - Special keys: "Enter", "Escape", "Tab", "Backspace"
//   - With modifiers: "Ctrl+S", "Alt+F4", "Shift+BS"
//   - Vim-style: "<C-s>", "<A-f>", "<C-S-p>", "<CR>", "<Esc>", "<Shift+BS>"
func Parse(spec string) (Event, error) {
	if strings.TrimSpace(spec) == "" {
		return Event{}, ErrEmptySpec
	}
	if spec == " " {
		return NewRuneEvent(' ', ModNone), nil
	}
	spec = strings.TrimSpace(spec)

	if len(spec) > 2 && strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		inner := spec[1 : len(spec)-1]
		if strings.Contains(inner, "+") {
			return parseModified(inner, "+")
		}
		return parseModified(inner, "-")
	}

	if len(spec) > 1 && strings.Contains(spec, "+") {
		return parseModified(spec, "+")
	}

	return parseSingle(spec)
}

// parseModified parses "C-s" or "Ctrl+S" style notation.
func parseModified(spec, sep string) (Event, error) {
	parts := strings.Split(spec, sep)
	keyPart := parts[len(parts)-1]
	// "<C-->" and "Ctrl++" name the separator itself.
	if keyPart == "" && len(parts) > 2 && parts[len(parts)-2] == "" {
		keyPart = sep
		parts = parts[:len(parts)-1]
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod := modifierByName(strings.ToLower(strings.TrimSpace(p)))
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}
	return parseKeyWithModifiers(keyPart, mods)
}

// parseSingle parses a single character or key name.
func parseSingle(spec string) (Event, error) {
	if k := KeyFromName(spec); k != KeyNone {
		return NewSpecialEvent(k, ModNone), nil
	}
	if r, size := utf8.DecodeRuneInString(spec); size == len(spec) {
		return NewRuneEvent(r, ModNone), nil
	}
	return Event{}, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
}

// parseKeyWithModifiers parses a key part with already-known modifiers.
func parseKeyWithModifiers(keyPart string, mods Modifier) (Event, error) {
	keyPart = strings.TrimSpace(keyPart)
	if keyPart == "" {
		return Event{}, ErrInvalidSpec
	}

	switch strings.ToLower(keyPart) {
	case "space":
		return NewRuneEvent(' ', mods), nil
	case "lt":
		return NewRuneEvent('<', mods), nil
	case "gt":
		return NewRuneEvent('>', mods), nil
	case "bar":
		return NewRuneEvent('|', mods), nil
	case "bslash":
		return NewRuneEvent('\\', mods), nil
	}

	if k := KeyFromName(keyPart); k != KeyNone {
		return NewSpecialEvent(k, mods), nil
	}

	r, size := utf8.DecodeRuneInString(keyPart)
	if size != len(keyPart) {
		if hint := Suggest(keyPart); hint != "" {
			return Event{}, fmt.Errorf("%w: unknown key %q (did you mean %q?)", ErrInvalidSpec, keyPart, hint)
		}
		return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
	}
	if mods.Has(ModCtrl) {
		r = unicode.ToLower(r)
	}
	return NewRuneEvent(r, mods), nil
}

// Normalize parses a key specification and returns its canonical token.
// Wildcard names are accepted case-insensitively and returned unchanged.
func Normalize(spec string) (Token, error) {
	if t := Token(strings.ToLower(strings.TrimSpace(spec))); t.IsWildcard() {
		return t, nil
	}
	event, err := Parse(spec)
	if err != nil {
		return "", err
	}
	return event.Token(), nil
}

// MustNormalize is like Normalize but panics on error.
// Use only for known-valid specs in initialization code.
func MustNormalize(spec string) Token {
	t, err := Normalize(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return t
}

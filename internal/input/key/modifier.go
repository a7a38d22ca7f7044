package key

// Modifier represents keyboard modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt

	// ModMeta indicates the Meta key (Cmd on macOS).
	ModMeta
)

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// prefix renders the modifiers as a Vim notation prefix such as "C-A-".
// Shift is omitted when omitShift is set (shifted characters carry it).
func (m Modifier) prefix(omitShift bool) string {
	var b []byte
	if m.Has(ModCtrl) {
		b = append(b, "C-"...)
	}
	if m.Has(ModAlt) {
		b = append(b, "A-"...)
	}
	if m.Has(ModMeta) {
		b = append(b, "D-"...)
	}
	if m.Has(ModShift) && !omitShift {
		b = append(b, "S-"...)
	}
	return string(b)
}

// modifierNames maps the Vim modifier letters, and the long names
// accepted in "Ctrl+x" notation, to modifiers.
var modifierNames = map[string]Modifier{
	"c": ModCtrl, "ctrl": ModCtrl, "control": ModCtrl,
	"a": ModAlt, "m": ModAlt, "alt": ModAlt, "option": ModAlt,
	"s": ModShift, "shift": ModShift,
	"d": ModMeta, "meta": ModMeta, "cmd": ModMeta,
}

// modifierByName returns the modifier for a lowercase name, or ModNone.
func modifierByName(name string) Modifier {
	return modifierNames[name]
}

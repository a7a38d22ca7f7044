package macro

import "unicode"

// IsValidRegister returns true if r is a valid register name.
// Valid registers are lowercase letters (a-z) and digits (0-9).
func IsValidRegister(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// IsAppendRegister returns true if r is an uppercase letter (A-Z).
// Uppercase letters append to the corresponding lowercase register.
func IsAppendRegister(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// NormalizeRegister converts a register to its canonical form.
// Uppercase letters are converted to lowercase; invalid registers
// return 0.
func NormalizeRegister(r rune) rune {
	if IsAppendRegister(r) {
		return unicode.ToLower(r)
	}
	if IsValidRegister(r) {
		return r
	}
	return 0
}

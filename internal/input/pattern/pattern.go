// Package pattern matches pressed keys against action trigger patterns.
//
// A Pattern is one or more alternative token sequences. Matching is
// token-by-token and symmetric: wildcard classes (<any>, <number>,
// <alpha>, <character>, <leader>) may appear on either side.
package pattern

import (
	"strings"

	"github.com/dshills/vimkeys/internal/input/key"
)

// Pattern is a set of alternative key sequences. Any one alternative
// matching is a match for the whole pattern.
type Pattern []key.Sequence

// Keys creates a single-alternative pattern from Vim notation.
// Example: Keys("g<character>")
func Keys(notation string) Pattern {
	return Pattern{key.ParseSequence(notation)}
}

// OneOf creates a pattern from several alternatives in Vim notation.
// Example: OneOf("<C-r>", "<C-R>")
func OneOf(notations ...string) Pattern {
	p := make(Pattern, len(notations))
	for i, n := range notations {
		p[i] = key.ParseSequence(n)
	}
	return p
}

// IsEmpty reports whether the pattern has no alternatives.
func (p Pattern) IsEmpty() bool {
	return len(p) == 0
}

// Truncate returns the pattern with every alternative cut to at most n tokens.
func (p Pattern) Truncate(n int) Pattern {
	out := make(Pattern, len(p))
	for i, alt := range p {
		out[i] = alt.Head(n)
	}
	return out
}

// String joins each alternative literally; alternatives are separated by "|".
func (p Pattern) String() string {
	parts := make([]string, len(p))
	for i, alt := range p {
		parts[i] = alt.String()
	}
	return strings.Join(parts, "|")
}

// Matcher compares key sequences honouring wildcard tokens.
// The zero value has no leader; <leader> then matches nothing.
type Matcher struct {
	// Leader is the literal token that <leader> stands for.
	Leader key.Token
}

// NewMatcher creates a matcher with the given leader token.
func NewMatcher(leader key.Token) Matcher {
	return Matcher{Leader: leader}
}

// Matches reports whether any alternative of p matches pressed exactly.
func (m Matcher) Matches(p Pattern, pressed key.Sequence) bool {
	for _, alt := range p {
		if m.MatchSequence(alt, pressed) {
			return true
		}
	}
	return false
}

// MatchSequence reports whether two sequences of equal length match
// token by token.
func (m Matcher) MatchSequence(left, right key.Sequence) bool {
	if len(left) != len(right) {
		return false
	}
	for i := range left {
		if !m.MatchToken(left[i], right[i]) {
			return false
		}
	}
	return true
}

// MatchToken compares a single pair of tokens.
func (m Matcher) MatchToken(left, right key.Token) bool {
	if left == key.Any || right == key.Any {
		return true
	}
	if (left == key.Number && right.IsDigit()) || (right == key.Number && left.IsDigit()) {
		return true
	}
	if (left == key.Alpha && right.IsAlpha()) || (right == key.Alpha && left.IsAlpha()) {
		return true
	}
	if (left == key.Character && !right.IsControl()) || (right == key.Character && !left.IsControl()) {
		return true
	}
	if m.Leader != "" {
		if (left == key.Leader && right == m.Leader) || (right == key.Leader && left == m.Leader) {
			return true
		}
		// The leader only ever equals itself.
		if left == m.Leader || right == m.Leader {
			return left == right
		}
	}
	return left == right
}

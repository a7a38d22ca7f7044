package key

import (
	"strings"
	"unicode/utf8"
)

// Sequence is an ordered run of tokens, such as the keys pressed for the
// pending command or the trigger of a remapping.
type Sequence []Token

// Tokens builds a sequence from token strings.
func Tokens(tokens ...string) Sequence {
	seq := make(Sequence, len(tokens))
	for i, t := range tokens {
		seq[i] = Token(t)
	}
	return seq
}

// Len returns the number of tokens in the sequence.
func (s Sequence) Len() int {
	return len(s)
}

// String returns the literal join of the tokens.
// Examples: "gg", "d<C-v>j"
func (s Sequence) String() string {
	var sb strings.Builder
	for _, t := range s {
		sb.WriteString(string(t))
	}
	return sb.String()
}

// Strings returns the tokens as plain strings.
func (s Sequence) Strings() []string {
	out := make([]string, len(s))
	for i, t := range s {
		out[i] = string(t)
	}
	return out
}

// Equal returns true if both sequences hold the same tokens.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i, t := range s {
		if t != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix returns true if the sequence starts with prefix.
func (s Sequence) HasPrefix(prefix Sequence) bool {
	if len(prefix) > len(s) {
		return false
	}
	return s[:len(prefix)].Equal(prefix)
}

// Clone returns a copy of the sequence.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// Head returns a copy of the first n tokens (all of them if n >= Len).
func (s Sequence) Head(n int) Sequence {
	if n < 0 {
		n = 0
	}
	if n > len(s) {
		n = len(s)
	}
	return s[:n].Clone()
}

// Tail returns a copy of the last n tokens (all of them if n >= Len).
func (s Sequence) Tail(n int) Sequence {
	if n < 0 {
		n = 0
	}
	if n > len(s) {
		n = len(s)
	}
	return s[len(s)-n:].Clone()
}

// TrimEnd returns the sequence without its last n tokens.
// The result shares storage with s.
func (s Sequence) TrimEnd(n int) Sequence {
	if n <= 0 {
		return s
	}
	if n >= len(s) {
		return s[:0]
	}
	return s[:len(s)-n]
}

// ParseSequence splits a continuous Vim-style string into tokens.
// Bracketed names are kept whole; an unclosed "<" is a literal "<".
// Examples: "gg", "<leader>w", "<C-x><C-s>", "d<number>w"
func ParseSequence(s string) Sequence {
	seq := make(Sequence, 0, len(s))
	rest := s
	for rest != "" {
		if rest[0] == '<' {
			if end := strings.IndexByte(rest, '>'); end > 1 && !strings.Contains(rest[1:end], "<") {
				seq = append(seq, Token(rest[:end+1]))
				rest = rest[end+1:]
				continue
			}
		}
		_, size := utf8.DecodeRuneInString(rest)
		seq = append(seq, Token(rest[:size]))
		rest = rest[size:]
	}
	return seq
}

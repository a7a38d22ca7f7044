package key

import (
	"testing"
)

func TestParseSequence(t *testing.T) {
	tests := []struct {
		input string
		want  Sequence
	}{
		{"", Sequence{}},
		{"gg", Tokens("g", "g")},
		{"<leader>w", Tokens("<leader>", "w")},
		{"<C-x><C-s>", Tokens("<C-x>", "<C-s>")},
		{"d<number>w", Tokens("d", "<number>", "w")},
		{"a<b", Tokens("a", "<", "b")},
		{"<>", Tokens("<", ">")},
		{"<<C-v>", Tokens("<", "<C-v>")},
		{"é<Esc>", Tokens("é", "<Esc>")},
	}

	for _, tt := range tests {
		got := ParseSequence(tt.input)
		if !got.Equal(tt.want) {
			t.Errorf("ParseSequence(%q) = %q, want %q", tt.input, got.Strings(), tt.want.Strings())
		}
	}
}

func TestSequenceString(t *testing.T) {
	seq := Tokens("d", "<C-v>", "j")
	if got := seq.String(); got != "d<C-v>j" {
		t.Errorf("String() = %q, want %q", got, "d<C-v>j")
	}
	if got := Sequence(nil).String(); got != "" {
		t.Errorf("nil String() = %q, want empty", got)
	}
}

func TestSequenceHeadTail(t *testing.T) {
	seq := Tokens("h", "e", "j", "j")

	if got := seq.Head(2); !got.Equal(Tokens("h", "e")) {
		t.Errorf("Head(2) = %q", got.Strings())
	}
	if got := seq.Head(10); !got.Equal(seq) {
		t.Errorf("Head(10) = %q", got.Strings())
	}
	if got := seq.Tail(2); !got.Equal(Tokens("j", "j")) {
		t.Errorf("Tail(2) = %q", got.Strings())
	}
	if got := seq.Tail(0); got.Len() != 0 {
		t.Errorf("Tail(0) = %q, want empty", got.Strings())
	}

	// Head and Tail return copies.
	head := seq.Head(1)
	head[0] = "x"
	if seq[0] != "h" {
		t.Error("Head should not alias the source sequence")
	}
}

func TestSequenceTrimEnd(t *testing.T) {
	seq := Tokens("a", "b", "c")

	tests := []struct {
		n    int
		want Sequence
	}{
		{0, Tokens("a", "b", "c")},
		{-1, Tokens("a", "b", "c")},
		{1, Tokens("a", "b")},
		{3, Sequence{}},
		{5, Sequence{}},
	}

	for _, tt := range tests {
		if got := seq.TrimEnd(tt.n); !got.Equal(tt.want) {
			t.Errorf("TrimEnd(%d) = %q, want %q", tt.n, got.Strings(), tt.want.Strings())
		}
	}
}

func TestSequenceHasPrefix(t *testing.T) {
	seq := Tokens("g", "g")
	if !seq.HasPrefix(Tokens("g")) {
		t.Error("gg should have prefix g")
	}
	if !seq.HasPrefix(nil) {
		t.Error("every sequence has the empty prefix")
	}
	if seq.HasPrefix(Tokens("g", "g", "g")) {
		t.Error("prefix longer than sequence should not match")
	}
	if seq.HasPrefix(Tokens("z")) {
		t.Error("gg should not have prefix z")
	}
}

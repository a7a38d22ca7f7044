package key

import "testing"

func TestTokenIsControl(t *testing.T) {
	tests := []struct {
		token Token
		want  bool
	}{
		{"a", false},
		{"<", false},
		{"<C-u>", true},
		{"<Esc>", true},
		{"<BS>", false},
		{"<bs>", false},
		{"<Shift+BS>", false},
		{"<shift+bs>", false},
		{"<Tab>", false},
		{"<TAB>", false},
		{"<S-Tab>", true},
		{"<leader>", true},
	}

	for _, tt := range tests {
		if got := tt.token.IsControl(); got != tt.want {
			t.Errorf("Token(%q).IsControl() = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestTokenClasses(t *testing.T) {
	tests := []struct {
		token     Token
		wantDigit bool
		wantAlpha bool
	}{
		{"0", true, false},
		{"9", true, false},
		{"10", false, false},
		{"a", false, true},
		{"Z", false, true},
		{"é", false, false},
		{"-", false, false},
		{"<C-a>", false, false},
	}

	for _, tt := range tests {
		if got := tt.token.IsDigit(); got != tt.wantDigit {
			t.Errorf("Token(%q).IsDigit() = %v, want %v", tt.token, got, tt.wantDigit)
		}
		if got := tt.token.IsAlpha(); got != tt.wantAlpha {
			t.Errorf("Token(%q).IsAlpha() = %v, want %v", tt.token, got, tt.wantAlpha)
		}
	}
}

func TestTokenIsWildcard(t *testing.T) {
	for _, tok := range []Token{Any, Number, Alpha, Character, Leader} {
		if !tok.IsWildcard() {
			t.Errorf("Token(%q).IsWildcard() = false, want true", tok)
		}
	}
	if Token("<Esc>").IsWildcard() {
		t.Error("<Esc> should not be a wildcard")
	}
}

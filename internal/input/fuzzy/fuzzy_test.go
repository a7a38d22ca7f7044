package fuzzy

import (
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		query, text string
		ok          bool
	}{
		{"", "anything", true},
		{"md", "cursor.moveDown", true},
		{"MOVE", "cursor.moveDown", true},
		{"dm", "cursor.moveDown", false},
		{"xyz", "cursor.moveDown", false},
		{"é", "café", true},
	}

	for _, tt := range tests {
		_, _, ok := Score(tt.query, tt.text)
		if ok != tt.ok {
			t.Errorf("Score(%q, %q) ok = %v, want %v", tt.query, tt.text, ok, tt.ok)
		}
	}
}

func TestScoreOrdering(t *testing.T) {
	prefix, _, _ := Score("undo", "undo")
	inner, _, _ := Score("undo", "editor.undo")
	scattered, _, _ := Score("undo", "u n d o somewhere")
	if prefix <= inner {
		t.Errorf("prefix score %d should beat inner match %d", prefix, inner)
	}
	if inner <= scattered {
		t.Errorf("consecutive score %d should beat scattered match %d", inner, scattered)
	}

	_, pos, _ := Score("wf", "cursor.wordForward")
	if len(pos) != 2 || pos[0] != 7 || pos[1] != 11 {
		t.Errorf("positions = %v, want [7 11]", pos)
	}
}

func TestRank(t *testing.T) {
	type item struct{ name, desc string }
	items := []item{
		{"cursor.moveDown", "Move down"},
		{"editor.undo", "Undo"},
		{"mode.insert", "Insert before cursor"},
	}
	texts := func(i item) []string { return []string{i.name, i.desc} }

	got := Rank("undo", items, texts, 0)
	if len(got) != 1 || got[0].Item.name != "editor.undo" {
		t.Fatalf("Rank(undo) = %+v", got)
	}

	got = Rank("cursor", items, texts, 0)
	if len(got) != 2 || got[0].Item.name != "cursor.moveDown" {
		t.Fatalf("Rank(cursor) = %+v", got)
	}

	if got := Rank("", items, texts, 2); len(got) != 2 {
		t.Errorf("Rank with limit = %d items, want 2", len(got))
	}
}

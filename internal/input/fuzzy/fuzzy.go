// Package fuzzy ranks strings against a typed query, for searching
// actions by kind, keys or description.
//
// A query matches when its runes appear in order in the text. Matches
// score higher when the runes are consecutive, start words or start the
// text. Matching ignores case.
package fuzzy

import (
	"sort"
	"strings"
	"unicode"
)

// Scoring weights.
const (
	baseScore        = 100
	consecutiveBonus = 20
	boundaryBonus    = 15
	prefixBonus      = 50
	gapPenalty       = 2
	shortTextLimit   = 20
)

// Ranked is an item with its match score.
type Ranked[T any] struct {
	Item  T
	Score int

	// Positions are the rune indices of the matched runes.
	Positions []int
}

// Score scores text against query. ok is false when text does not
// contain the query's runes in order. An empty query matches everything
// with score 0.
func Score(query, text string) (score int, positions []int, ok bool) {
	q := []rune(strings.ToLower(strings.TrimSpace(query)))
	if len(q) == 0 {
		return 0, nil, true
	}
	orig := []rune(text)
	lower := []rune(strings.ToLower(text))
	if len(lower) != len(orig) {
		// Lowercasing changed the rune count; match on the original.
		lower = orig
	}

	positions = make([]int, 0, len(q))
	qi := 0
	for i := 0; i < len(lower) && qi < len(q); i++ {
		if lower[i] == q[qi] {
			positions = append(positions, i)
			qi++
		}
	}
	if qi != len(q) {
		return 0, nil, false
	}

	score = baseScore
	for i, p := range positions {
		if i > 0 && p == positions[i-1]+1 {
			score += consecutiveBonus
		}
		if startsWord(orig, p) {
			score += boundaryBonus
		}
	}
	if strings.HasPrefix(string(lower), string(q)) {
		score += prefixBonus
	}
	if gap := positions[len(positions)-1] - positions[0] - len(positions) + 1; gap > 0 {
		score -= gap * gapPenalty
	}
	score -= positions[0]
	if len(orig) < shortTextLimit {
		score += shortTextLimit - len(orig)
	}
	return max(score, 1), positions, true
}

// startsWord reports whether the rune at i begins a word: it follows a
// separator or is an upper-case letter after a lower-case one.
func startsWord(runes []rune, i int) bool {
	if i == 0 {
		return true
	}
	prev, cur := runes[i-1], runes[i]
	if unicode.IsSpace(prev) || unicode.IsPunct(prev) {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(cur)
}

// Rank returns the items matching query, best first. Each item is
// scored on the best of its texts. Ties keep the input order. limit <= 0
// returns every match.
func Rank[T any](query string, items []T, texts func(T) []string, limit int) []Ranked[T] {
	var out []Ranked[T]
	for _, item := range items {
		best := Ranked[T]{Item: item, Score: -1}
		for _, text := range texts(item) {
			if score, pos, ok := Score(query, text); ok && score > best.Score {
				best.Score, best.Positions = score, pos
			}
		}
		if best.Score >= 0 {
			out = append(out, best)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

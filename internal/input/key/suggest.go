package key

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds how far a misspelled key name may be from a
// suggestion.
const maxSuggestDistance = 2

// knownNames returns every key name Parse accepts inside brackets, in
// canonical spelling.
func knownNames() []string {
	names := []string{"Space", "lt", "gt", "Bar", "Bslash"}
	for _, w := range []Token{Any, Number, Alpha, Character, Leader} {
		names = append(names, string(w))
	}
	for _, name := range keyNames {
		names = append(names, name)
	}
	for k := KeyF1; k <= KeyF12; k++ {
		names = append(names, k.String())
	}
	sort.Strings(names)
	return names
}

// Suggest returns the known key name closest to name, or "" when nothing
// is close enough. Surrounding brackets are ignored.
func Suggest(name string) string {
	name = strings.ToLower(strings.Trim(strings.TrimSpace(name), "<>"))
	if name == "" {
		return ""
	}

	best, bestDist := "", maxSuggestDistance+1
	for _, known := range knownNames() {
		candidate := strings.ToLower(strings.Trim(known, "<>"))
		d := levenshtein.ComputeDistance(name, candidate)
		if d < bestDist {
			best, bestDist = known, d
		}
	}
	if bestDist == 0 || best == "" {
		return ""
	}
	return best
}

package match

import (
	"strings"
	"unicode"
)

// SuggestThreshold is the lowest similarity Suggest accepts.
const SuggestThreshold = 0.6

// Suggest returns the known name most similar to name, for "did you mean"
// hints on misspelled field names and component ids. Names are
// compared case-insensitively with separators removed. ok is false when
// nothing is similar enough.
func Suggest(name string, known []string) (best string, ok bool) {
	target := normalize(name)
	bestScore := SuggestThreshold

	for _, k := range known {
		if k == name {
			continue
		}

		if score := Similarity(target, normalize(k)); score >= bestScore && (!ok || score > bestScore) {
			best, bestScore, ok = k, score, true
		}
	}

	return best, ok
}

// Similarity scores two strings between 0 (nothing shared) and 1 (equal)
// as 1 - edit distance / longer length.
func Similarity(a, b string) float64 {
	longer := max(len(a), len(b))
	if longer == 0 {
		return 1
	}

	return 1 - float64(Levenshtein(a, b))/float64(longer)
}

// Levenshtein returns the edit distance between a and b in bytes.
func Levenshtein(a, b string) int {
	if len(a) > len(b) {
		a, b = b, a
	}

	// Two rows of the distance matrix, sized by the shorter string.
	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

func normalize(s string) string {
	var b strings.Builder

	for _, r := range s {
		if r == '_' || r == '-' || r == '.' || unicode.IsSpace(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

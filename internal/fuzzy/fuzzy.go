// Package fuzzy provides dependency-free Levenshtein-distance "did you mean"
// suggestions for not-found errors, per spec §7/§9.
package fuzzy

import "sort"

// Distance computes the Levenshtein edit distance between a and b.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			curr[j] = min3(del, ins, sub)
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

type match struct {
	value    string
	distance int
}

// ClosestMatches returns up to 3 entries from options within maxDistance of
// input, sorted by ascending distance (ties keep the input order).
func ClosestMatches(input string, options []string, maxDistance int) []string {
	matches := make([]match, 0, len(options))
	for _, opt := range options {
		d := Distance(input, opt)
		if d <= maxDistance {
			matches = append(matches, match{value: opt, distance: d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].distance < matches[j].distance })
	if len(matches) > 3 {
		matches = matches[:3]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.value
	}
	return out
}

// SuggestAlternatives builds a human-readable "not found, did you mean"
// message for itemType (e.g. "use case", "methodology").
func SuggestAlternatives(input string, available []string, itemType string) string {
	suggestions := ClosestMatches(input, available, 3)
	if len(suggestions) == 0 {
		return itemType + " '" + input + "' not found."
	}
	msg := itemType + " '" + input + "' not found. Did you mean:"
	for _, s := range suggestions {
		msg += "\n  " + s
	}
	return msg
}

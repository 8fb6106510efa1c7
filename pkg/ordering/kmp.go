package ordering

import "strings"

// Contains reports whether pattern occurs in text, ignoring case.
//
// It uses Knuth–Morris–Pratt matching over runes, so it runs in
// O(len(text) + len(pattern)). An empty pattern matches any text.
func Contains(text, pattern string) bool {
	if pattern == "" {
		return true
	}
	t := []rune(strings.ToLower(text))
	p := []rune(strings.ToLower(pattern))
	if len(p) > len(t) {
		return false
	}

	pi := prefixFunction(p)
	q := 0
	for _, r := range t {
		for q > 0 && p[q] != r {
			q = pi[q-1]
		}
		if p[q] == r {
			q++
		}
		if q == len(p) {
			return true
		}
	}
	return false
}

// prefixFunction computes, for each position of p, the length of the longest
// proper prefix of p[:i+1] that is also its suffix.
func prefixFunction(p []rune) []int {
	pi := make([]int, len(p))
	k := 0
	for q := 1; q < len(p); q++ {
		for k > 0 && p[k] != p[q] {
			k = pi[k-1]
		}
		if p[k] == p[q] {
			k++
		}
		pi[q] = k
	}
	return pi
}

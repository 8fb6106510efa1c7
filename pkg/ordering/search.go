package ordering

import "strings"

// RangeSearch returns the contiguous run of items whose key starts with query,
// ignoring case.
//
// sorted must already be ordered ascending by the lower-cased key. A single
// binary search lands on any matching item, then the run is expanded left and
// right while neighbours still match. An empty query or no match yields an
// empty result.
//
// The binary search steers by full string comparison, not by the prefix
// predicate. This finds every run in ordinary sorted data but is not a
// monotonic predicate search; see DESIGN.md for why it is kept as is.
func RangeSearch[T any](sorted []T, query string, key func(T) string) []T {
	if query == "" {
		return []T{}
	}
	target := strings.ToLower(query)
	matches := func(i int) bool {
		return strings.HasPrefix(strings.ToLower(key(sorted[i])), target)
	}

	hit := -1
	low, high := 0, len(sorted)-1
	for low <= high && hit < 0 {
		mid := (low + high) / 2
		v := strings.ToLower(key(sorted[mid]))
		switch {
		case strings.HasPrefix(v, target):
			hit = mid
		case v < target:
			low = mid + 1
		default:
			high = mid - 1
		}
	}
	if hit < 0 {
		return []T{}
	}

	start, end := hit, hit
	for start > 0 && matches(start-1) {
		start--
	}
	for end < len(sorted)-1 && matches(end+1) {
		end++
	}

	out := make([]T, end-start+1)
	copy(out, sorted[start:end+1])
	return out
}

// Search is RangeSearch with a substring fallback: when no key starts with
// query, every item whose key contains query (see [Contains]) is returned in
// input order. An empty query yields an empty result.
func Search[T any](sorted []T, query string, key func(T) string) []T {
	if query == "" {
		return []T{}
	}
	if run := RangeSearch(sorted, query, key); len(run) > 0 {
		return run
	}
	out := []T{}
	for _, item := range sorted {
		if Contains(key(item), query) {
			out = append(out, item)
		}
	}
	return out
}

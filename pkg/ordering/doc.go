// Package ordering sorts and searches sequences of caller-owned records.
//
// Every operation receives the records alongside a key extractor. The package
// never looks inside a record beyond the key the extractor returns, and it
// never mutates the input slice: results are always freshly allocated.
//
// # Sorting
//
//   - [Stable]: top-down merge sort. Records with equal keys keep their input
//     order, in both ascending and reversed direction.
//   - [Unstable]: quicksort around the middle element, partitioned into
//     less/equal/greater buckets. Equal keys end up adjacent but their
//     relative order is not guaranteed.
//
// # Searching
//
//   - [RangeSearch]: case-insensitive prefix search over a slice already
//     sorted ascending by the lower-cased key.
//   - [Contains]: Knuth–Morris–Pratt substring match, case-insensitive.
//   - [Search]: [RangeSearch] with a [Contains] scan as fallback.
//
// # Ranking
//
// [TopN] ranks market records by a signed percentage field such as "+2.50%"
// (see [ParseChange]) and returns the strongest gainers first.
//
//	prices := ordering.TopN(records, 3, func(r Record) string { return r.Change })
//
// # Concurrency
//
// All functions are pure and safe for concurrent use as long as the key
// extractors are.
package ordering

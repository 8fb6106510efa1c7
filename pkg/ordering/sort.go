package ordering

import "cmp"

// Stable returns the items sorted by key using merge sort.
//
// The result is a permutation of items; for any two items with equal keys the
// one appearing first in items also appears first in the result. reverse
// flips the key comparison but keeps that tie-break. Runs in O(n log n) time
// with O(n) auxiliary space.
func Stable[T any, K cmp.Ordered](items []T, key func(T) K, reverse bool) []T {
	out := make([]T, len(items))
	copy(out, items)
	if len(out) < 2 {
		return out
	}
	keys := make([]K, len(out))
	for i, item := range out {
		keys[i] = key(item)
	}
	mergeSort(out, keys, make([]T, len(out)), make([]K, len(out)), reverse)
	return out
}

// mergeSort sorts items and their parallel keys in place using the scratch
// buffers. The left run wins ties, which is what makes the sort stable.
func mergeSort[T any, K cmp.Ordered](items []T, keys []K, bufItems []T, bufKeys []K, reverse bool) {
	n := len(items)
	if n < 2 {
		return
	}
	mid := n / 2
	mergeSort(items[:mid], keys[:mid], bufItems[:mid], bufKeys[:mid], reverse)
	mergeSort(items[mid:], keys[mid:], bufItems[mid:], bufKeys[mid:], reverse)

	copy(bufItems, items)
	copy(bufKeys, keys)

	i, j, k := 0, mid, 0
	for i < mid && j < n {
		if takeLeft(bufKeys[i], bufKeys[j], reverse) {
			items[k], keys[k] = bufItems[i], bufKeys[i]
			i++
		} else {
			items[k], keys[k] = bufItems[j], bufKeys[j]
			j++
		}
		k++
	}
	for ; i < mid; i, k = i+1, k+1 {
		items[k], keys[k] = bufItems[i], bufKeys[i]
	}
	for ; j < n; j, k = j+1, k+1 {
		items[k], keys[k] = bufItems[j], bufKeys[j]
	}
}

func takeLeft[K cmp.Ordered](left, right K, reverse bool) bool {
	if reverse {
		return left >= right
	}
	return left <= right
}

// Unstable returns the items sorted by key using quicksort.
//
// The pivot is the middle element; the remaining items are partitioned into
// less, equal and greater buckets and the outer buckets are sorted
// recursively. Average cost is O(n log n); adversarial inputs still push it
// toward O(n²). Equal keys are grouped together but their relative order is
// not guaranteed.
func Unstable[T any, K cmp.Ordered](items []T, key func(T) K, reverse bool) []T {
	keyed := make([]keyedItem[T, K], len(items))
	for i, item := range items {
		keyed[i] = keyedItem[T, K]{item: item, key: key(item)}
	}
	sorted := quickSort(keyed, reverse)
	out := make([]T, len(sorted))
	for i, ki := range sorted {
		out[i] = ki.item
	}
	return out
}

type keyedItem[T any, K cmp.Ordered] struct {
	item T
	key  K
}

func quickSort[T any, K cmp.Ordered](items []keyedItem[T, K], reverse bool) []keyedItem[T, K] {
	if len(items) <= 1 {
		return items
	}
	pivot := items[len(items)/2].key

	var before, equal, after []keyedItem[T, K]
	for _, it := range items {
		c := cmp.Compare(it.key, pivot)
		if reverse {
			c = -c
		}
		switch {
		case c < 0:
			before = append(before, it)
		case c > 0:
			after = append(after, it)
		default:
			equal = append(equal, it)
		}
	}

	out := make([]keyedItem[T, K], 0, len(items))
	out = append(out, quickSort(before, reverse)...)
	out = append(out, equal...)
	return append(out, quickSort(after, reverse)...)
}

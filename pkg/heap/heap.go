// Package heap provides an array-backed binary min-heap keyed by an
// externally supplied priority.
//
// Items with equal priority leave the heap in an order decided by the heap's
// shape, so pops are not stable. There is no decrease-key operation; callers
// that need one push a fresh entry and skip stale ones on pop (see
// graph.ShortestPath).
package heap

// entry pairs a payload with its priority.
type entry[T any] struct {
	priority float64
	item     T
}

// MinHeap pops items in ascending priority order.
// The zero value is an empty heap ready for use.
// MinHeap is not safe for concurrent use.
type MinHeap[T any] struct {
	entries []entry[T]
}

// New creates an empty heap with room for capacity entries.
func New[T any](capacity int) *MinHeap[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &MinHeap[T]{entries: make([]entry[T], 0, capacity)}
}

// Push appends item and sifts it up. O(log n).
func (h *MinHeap[T]) Push(item T, priority float64) {
	h.entries = append(h.entries, entry[T]{priority: priority, item: item})
	h.up(len(h.entries) - 1)
}

// PopMin removes and returns the item with the smallest priority.
// The second result is false when the heap is empty.
func (h *MinHeap[T]) PopMin() (T, bool) {
	item, _, ok := h.PopMinPriority()
	return item, ok
}

// PopMinPriority is PopMin that also reports the popped priority.
func (h *MinHeap[T]) PopMinPriority() (T, float64, bool) {
	n := len(h.entries)
	if n == 0 {
		var zero T
		return zero, 0, false
	}
	root := h.entries[0]
	last := n - 1
	h.entries[0] = h.entries[last]
	h.entries[last] = entry[T]{}
	h.entries = h.entries[:last]
	if last > 0 {
		h.down(0)
	}
	return root.item, root.priority, true
}

// Peek returns the minimum item and its priority without removing it.
func (h *MinHeap[T]) Peek() (T, float64, bool) {
	if len(h.entries) == 0 {
		var zero T
		return zero, 0, false
	}
	return h.entries[0].item, h.entries[0].priority, true
}

// Len returns the number of queued items.
func (h *MinHeap[T]) Len() int { return len(h.entries) }

func (h *MinHeap[T]) up(j int) {
	for j > 0 {
		parent := (j - 1) / 2
		if h.entries[j].priority >= h.entries[parent].priority {
			return
		}
		h.entries[j], h.entries[parent] = h.entries[parent], h.entries[j]
		j = parent
	}
}

func (h *MinHeap[T]) down(i int) {
	n := len(h.entries)
	for {
		smallest := i
		left, right := 2*i+1, 2*i+2
		if left < n && h.entries[left].priority < h.entries[smallest].priority {
			smallest = left
		}
		if right < n && h.entries[right].priority < h.entries[smallest].priority {
			smallest = right
		}
		if smallest == i {
			return
		}
		h.entries[i], h.entries[smallest] = h.entries[smallest], h.entries[i]
		i = smallest
	}
}

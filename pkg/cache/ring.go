package cache

// Ring is a fixed-capacity circular buffer. Once full, each Enqueue
// overwrites the oldest slot; writes never block or fail.
type Ring[T any] struct {
	slots []T
	head  int // oldest slot
	tail  int // next write position
	count int
}

// NewRing creates a ring with capacity n. A non-positive n is treated as 1.
func NewRing[T any](n int) *Ring[T] {
	if n <= 0 {
		n = 1
	}
	return &Ring[T]{slots: make([]T, n)}
}

// Enqueue writes item into the next slot, evicting the oldest item when the
// ring is full.
func (r *Ring[T]) Enqueue(item T) {
	r.slots[r.tail] = item
	r.tail = (r.tail + 1) % len(r.slots)
	if r.count < len(r.slots) {
		r.count++
		return
	}
	r.head = (r.head + 1) % len(r.slots)
}

// Snapshot returns the current contents, most recently written first.
func (r *Ring[T]) Snapshot() []T {
	out := make([]T, r.count)
	for i := 0; i < r.count; i++ {
		idx := (r.head + r.count - 1 - i) % len(r.slots)
		out[i] = r.slots[idx]
	}
	return out
}

// Len returns the number of occupied slots; always <= Cap.
func (r *Ring[T]) Len() int { return r.count }

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int { return len(r.slots) }

package cache

// Recent keeps the last few items added, newest first. Unlike [Ring] it is
// meant for short activity feeds where the bound is small and order is
// always read newest first.
type Recent[T any] struct {
	items []T
	max   int
}

// NewRecent creates a list bounded to max items (10 when max <= 0).
func NewRecent[T any](max int) *Recent[T] {
	if max <= 0 {
		max = 10
	}
	return &Recent[T]{items: make([]T, 0, max), max: max}
}

// Add places item at the front, dropping the oldest item past the bound.
func (l *Recent[T]) Add(item T) {
	if len(l.items) < l.max {
		var zero T
		l.items = append(l.items, zero)
	}
	copy(l.items[1:], l.items[:len(l.items)-1])
	l.items[0] = item
}

// Items returns a copy of the list, newest first.
func (l *Recent[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of items held.
func (l *Recent[T]) Len() int { return len(l.items) }

package cache

// Sentinel slots in the LRU arena. They are never removed or reused.
const (
	lruHead = 0
	lruTail = 1
)

// lruNode lives in the LRU arena. prev and next are arena indexes.
type lruNode[K comparable, V any] struct {
	key   K
	value V
	prev  int
	next  int
}

// LRU is a capacity-bounded cache that evicts the least recently used key.
//
// Recency is tracked by a doubly linked list stored in an index arena (a
// slice of nodes plus a free list) rather than pointer-linked nodes. Slot 0
// is the head sentinel (most recent side) and slot 1 the tail sentinel.
// Get and Put are O(1).
type LRU[K comparable, V any] struct {
	capacity int
	nodes    []lruNode[K, V]
	free     []int
	index    map[K]int
}

// NewLRU creates a cache holding at most capacity keys.
// A non-positive capacity is treated as 1.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = 1
	}
	c := &LRU[K, V]{
		capacity: capacity,
		nodes:    make([]lruNode[K, V], 2, capacity+2),
		index:    make(map[K]int, capacity),
	}
	c.nodes[lruHead].next = lruTail
	c.nodes[lruTail].prev = lruHead
	return c
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	i, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.unlink(i)
	c.pushFront(i)
	return c.nodes[i].value, true
}

// Peek returns the value for key without touching its recency.
func (c *LRU[K, V]) Peek(key K) (V, bool) {
	if i, ok := c.index[key]; ok {
		return c.nodes[i].value, true
	}
	var zero V
	return zero, false
}

// Put inserts or updates key and marks it most recently used. When a new key
// pushes the cache past capacity, the least recently used key is evicted and
// returned with evicted set to true.
func (c *LRU[K, V]) Put(key K, value V) (evictedKey K, evicted bool) {
	if i, ok := c.index[key]; ok {
		c.nodes[i].value = value
		c.unlink(i)
		c.pushFront(i)
		return evictedKey, false
	}

	i := c.alloc(key, value)
	c.index[key] = i
	c.pushFront(i)

	if len(c.index) > c.capacity {
		lru := c.nodes[lruTail].prev
		evictedKey = c.nodes[lru].key
		c.release(lru)
		return evictedKey, true
	}
	return evictedKey, false
}

// Remove deletes key and reports whether it was present.
func (c *LRU[K, V]) Remove(key K) bool {
	i, ok := c.index[key]
	if !ok {
		return false
	}
	c.release(i)
	return true
}

// Len returns the number of cached keys.
func (c *LRU[K, V]) Len() int { return len(c.index) }

// Cap returns the capacity.
func (c *LRU[K, V]) Cap() int { return c.capacity }

// Keys returns the cached keys from most to least recently used.
func (c *LRU[K, V]) Keys() []K {
	keys := make([]K, 0, len(c.index))
	for i := c.nodes[lruHead].next; i != lruTail; i = c.nodes[i].next {
		keys = append(keys, c.nodes[i].key)
	}
	return keys
}

func (c *LRU[K, V]) alloc(key K, value V) int {
	n := lruNode[K, V]{key: key, value: value}
	if last := len(c.free) - 1; last >= 0 {
		i := c.free[last]
		c.free = c.free[:last]
		c.nodes[i] = n
		return i
	}
	c.nodes = append(c.nodes, n)
	return len(c.nodes) - 1
}

// release unlinks slot i, drops it from the index and returns it to the
// free list.
func (c *LRU[K, V]) release(i int) {
	c.unlink(i)
	delete(c.index, c.nodes[i].key)
	c.nodes[i] = lruNode[K, V]{}
	c.free = append(c.free, i)
}

func (c *LRU[K, V]) unlink(i int) {
	prev, next := c.nodes[i].prev, c.nodes[i].next
	c.nodes[prev].next = next
	c.nodes[next].prev = prev
}

func (c *LRU[K, V]) pushFront(i int) {
	first := c.nodes[lruHead].next
	c.nodes[i].prev = lruHead
	c.nodes[i].next = first
	c.nodes[first].prev = i
	c.nodes[lruHead].next = i
}

package cache

// DefaultBuckets is the bucket count used when NewHashTable gets a
// non-positive size.
const DefaultBuckets = 100

// entry is one key/value pair in a bucket chain.
type entry[K comparable, V any] struct {
	key   K
	value V
}

// HashTable is a fixed-size separate-chaining hash table.
// Keys are unique; upserts scan the bucket chain linearly.
type HashTable[K comparable, V any] struct {
	buckets [][]entry[K, V]
	size    int
}

// NewHashTable creates a table with the given number of buckets.
func NewHashTable[K comparable, V any](buckets int) *HashTable[K, V] {
	if buckets <= 0 {
		buckets = DefaultBuckets
	}
	return &HashTable[K, V]{buckets: make([][]entry[K, V], buckets)}
}

// Bucket returns the bucket index key hashes to.
func (h *HashTable[K, V]) Bucket(key K) int {
	return sumHash(key, len(h.buckets))
}

// Set inserts key or replaces its value.
func (h *HashTable[K, V]) Set(key K, value V) {
	b := h.Bucket(key)
	for i := range h.buckets[b] {
		if h.buckets[b][i].key == key {
			h.buckets[b][i].value = value
			return
		}
	}
	h.buckets[b] = append(h.buckets[b], entry[K, V]{key: key, value: value})
	h.size++
}

// Get returns the value stored for key.
func (h *HashTable[K, V]) Get(key K) (V, bool) {
	for _, e := range h.buckets[h.Bucket(key)] {
		if e.key == key {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

// Delete removes key and reports whether it was present.
func (h *HashTable[K, V]) Delete(key K) bool {
	b := h.Bucket(key)
	chain := h.buckets[b]
	for i, e := range chain {
		if e.key == key {
			h.buckets[b] = append(chain[:i], chain[i+1:]...)
			h.size--
			return true
		}
	}
	return false
}

// Len returns the number of stored keys.
func (h *HashTable[K, V]) Len() int { return h.size }

// Buckets returns the fixed bucket count.
func (h *HashTable[K, V]) Buckets() int { return len(h.buckets) }

// ChainLen returns the length of the chain holding key's bucket.
func (h *HashTable[K, V]) ChainLen(key K) int {
	return len(h.buckets[h.Bucket(key)])
}

// Keys returns all keys in bucket order, then chain order.
func (h *HashTable[K, V]) Keys() []K {
	keys := make([]K, 0, h.size)
	for _, chain := range h.buckets {
		for _, e := range chain {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// Package cache provides the in-memory containers used to avoid recomputation
// in request handlers: a chained [HashTable], a fixed-capacity [Ring], a
// capacity-bounded [LRU] cache and a bounded most-recent-first [Recent] list.
//
// # Misses
//
// Lookups never fail. A miss is reported as the zero value plus false, the
// same comma-ok shape as a Go map read:
//
//	if v, ok := lru.Get("session:42"); ok {
//	    // hit
//	}
//
// # Hashing
//
// [HashTable] buckets keys by the sum of the code points of their string
// form. Anagram keys such as "tea" and "eat" always collide. This is kept on
// purpose so bucket layouts stay predictable; swap in a proper string hash
// before using the table for large or adversarial key sets.
//
// # Concurrency
//
// No container holds a lock. A process-wide instance shared between
// goroutines must be guarded by its owner (see package toolkit).
package cache

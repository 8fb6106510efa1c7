package cache

import "fmt"

// sumHash buckets key by the sum of the code points of fmt.Sprint(key),
// modulo buckets.
func sumHash(key any, buckets int) int {
	sum := 0
	for _, r := range fmt.Sprint(key) {
		sum += int(r)
	}
	return sum % buckets
}

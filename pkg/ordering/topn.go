package ordering

import (
	"strconv"
	"strings"
)

// ParseChange converts a signed percentage string such as "+2.50%" or "-1.2%"
// to a float. The "%" and "+" characters are stripped; anything that still
// fails to parse reads as 0.
func ParseChange(s string) float64 {
	s = strings.NewReplacer("%", "", "+", "").Replace(s)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// TopN returns up to n items with the largest change value, largest first.
// change extracts the percentage field parsed by [ParseChange]. Items are
// ranked with [Unstable], so items with equal change come out in no
// particular order.
func TopN[T any](items []T, n int, change func(T) string) []T {
	if n <= 0 || len(items) == 0 {
		return []T{}
	}
	ranked := Unstable(items, func(item T) float64 { return ParseChange(change(item)) }, true)
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

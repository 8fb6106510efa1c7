package ordering

import (
	"math/rand"
	"slices"
	"testing"
)

type rec struct {
	k string
	i int
}

func recKey(r rec) string { return r.k }

func TestStablePreservesTieOrder(t *testing.T) {
	in := []rec{{"b", 0}, {"a", 1}, {"b", 2}}

	tests := []struct {
		name    string
		reverse bool
		want    []rec
	}{
		{"ascending", false, []rec{{"a", 1}, {"b", 0}, {"b", 2}}},
		{"descending", true, []rec{{"b", 0}, {"b", 2}, {"a", 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Stable(in, recKey, tt.reverse)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Stable() = %v, want %v", got, tt.want)
			}
		})
	}

	if in[0] != (rec{"b", 0}) || in[1] != (rec{"a", 1}) {
		t.Error("Stable() must not modify its input")
	}
}

func TestStableIdempotent(t *testing.T) {
	in := []rec{{"a", 0}, {"a", 1}, {"c", 2}, {"d", 3}, {"d", 4}}
	once := Stable(in, recKey, false)
	twice := Stable(once, recKey, false)
	if !slices.Equal(once, in) {
		t.Errorf("sorting sorted input changed it: %v", once)
	}
	if !slices.Equal(once, twice) {
		t.Errorf("Stable() not idempotent: %v vs %v", once, twice)
	}
}

func TestStableRandomAgainstSlices(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	in := make([]rec, 300)
	for i := range in {
		in[i] = rec{k: string(rune('a' + r.Intn(8))), i: i}
	}
	want := slices.Clone(in)
	slices.SortStableFunc(want, func(a, b rec) int {
		switch {
		case a.k < b.k:
			return -1
		case a.k > b.k:
			return 1
		}
		return 0
	})
	if got := Stable(in, recKey, false); !slices.Equal(got, want) {
		t.Error("Stable() disagrees with slices.SortStableFunc")
	}
}

func TestStableEmptyAndSingle(t *testing.T) {
	if got := Stable([]int(nil), func(v int) int { return v }, false); len(got) != 0 {
		t.Errorf("Stable(nil) = %v, want empty", got)
	}
	if got := Stable([]int{4}, func(v int) int { return v }, true); !slices.Equal(got, []int{4}) {
		t.Errorf("Stable([4]) = %v", got)
	}
}

func TestUnstableSortsKeys(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	in := make([]int, 500)
	for i := range in {
		in[i] = r.Intn(50) - 25
	}
	id := func(v int) int { return v }

	asc := Unstable(in, id, false)
	if !slices.IsSorted(asc) {
		t.Error("Unstable() ascending result is not sorted")
	}
	desc := Unstable(in, id, true)
	slices.Reverse(desc)
	if !slices.IsSorted(desc) {
		t.Error("Unstable() descending result is not sorted")
	}

	want := slices.Clone(in)
	slices.Sort(want)
	if !slices.Equal(asc, want) {
		t.Error("Unstable() result is not a permutation of its input")
	}
}

func TestUnstableGroupsEqualKeys(t *testing.T) {
	in := []rec{{"b", 0}, {"a", 1}, {"b", 2}, {"a", 3}, {"c", 4}}
	got := Unstable(in, recKey, false)
	keys := make([]string, len(got))
	for i, r := range got {
		keys[i] = r.k
	}
	if want := []string{"a", "a", "b", "b", "c"}; !slices.Equal(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
}

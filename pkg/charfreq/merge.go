package charfreq

import "sort"

// Frequencies maps each counted character to its number of occurrences.
type Frequencies map[rune]int

// Entry is one character and its count.
type Entry struct {
	Char  rune
	Count int
}

// Total returns the sum of all counts.
func (f Frequencies) Total() int {
	total := 0
	for _, n := range f {
		total += n
	}
	return total
}

// Clone returns a copy of f. Cloning nil yields an empty, non-nil map.
func (f Frequencies) Clone() Frequencies {
	out := make(Frequencies, len(f))
	for r, n := range f {
		out[r] = n
	}
	return out
}

// Equal reports whether f and other hold the same characters and counts.
// A nil map equals an empty map.
func (f Frequencies) Equal(other Frequencies) bool {
	if len(f) != len(other) {
		return false
	}
	for r, n := range f {
		if m, ok := other[r]; !ok || m != n {
			return false
		}
	}
	return true
}

// Sorted returns the entries ordered by descending count, ties broken by
// ascending character.
func (f Frequencies) Sorted() []Entry {
	entries := make([]Entry, 0, len(f))
	for r, n := range f {
		entries = append(entries, Entry{Char: r, Count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Char < entries[j].Char
	})
	return entries
}

// Merge returns a new mapping holding the per-character sum of a and b.
// Neither operand is modified. Merge is commutative and associative, and
// merging with an empty mapping returns a copy of the other operand.
func Merge(a, b Frequencies) Frequencies {
	out := make(Frequencies, max(len(a), len(b)))
	for r, n := range a {
		out[r] = n
	}
	for r, n := range b {
		out[r] += n
	}
	return out
}

// mergeInto consumes both operands: the smaller map is added into the larger
// one, which is returned. Only for partials owned by the caller.
func mergeInto(a, b Frequencies) Frequencies {
	if len(a) < len(b) {
		a, b = b, a
	}
	for r, n := range b {
		a[r] += n
	}
	return a
}

package charfreq

import "fmt"

// Range is an inclusive, zero-based span of character positions.
type Range struct {
	From int
	To   int
}

// Len returns the number of characters covered by the range.
// Ranges with To < From are empty.
func (r Range) Len() int {
	if r.To < r.From {
		return 0
	}
	return r.To - r.From + 1
}

// String implements fmt.Stringer.
func (r Range) String() string {
	return fmt.Sprintf("[%d..%d]", r.From, r.To)
}

// Plan splits length characters into contiguous, non-overlapping ranges for
// the given number of workers.
//
// Rules:
//   - threads <= 0 is treated as 1
//   - length == 0 produces no ranges
//   - threads is clamped to length so that no range is empty
//   - with chunk = length/threads and rem = length%threads, the first
//     threads-rem ranges hold chunk characters and the last rem ranges hold
//     chunk+1, laid out from position 0 upward without gaps
//
// Example:
//
//	Plan(12, 5) // [0..1] [2..3] [4..5] [6..8] [9..11]
func Plan(length, threads int) []Range {
	if length <= 0 {
		return nil
	}
	if threads < 1 {
		threads = 1
	}
	if threads > length {
		threads = length
	}

	chunk := max(1, length/threads)
	heavier := length % threads
	lighter := threads - heavier

	ranges := make([]Range, 0, threads)
	from := 0
	for i := 0; i < lighter; i++ {
		ranges = append(ranges, Range{From: from, To: from + chunk - 1})
		from += chunk
	}
	for i := 0; i < heavier; i++ {
		ranges = append(ranges, Range{From: from, To: from + chunk})
		from += chunk + 1
	}
	return ranges
}

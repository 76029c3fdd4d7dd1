package charfreq

import (
	"context"
	"fmt"
)

// cancelCheckInterval is how many characters a counting task processes
// between context checks.
const cancelCheckInterval = 1 << 14

// CountRange counts the characters of text in r using DefaultCaseMode.
func CountRange(text Text, r Range) (Frequencies, error) {
	return CountRangeWithMode(text, r, DefaultCaseMode)
}

// CountRangeWithMode counts the characters of text at positions r.From
// through r.To inclusive, folding each one under mode.
//
// Positions are character positions, not byte offsets. r is clamped to the
// text; a range covering no characters returns an empty mapping.
//
// CountRangeWithMode only reads text and is safe to call concurrently on
// disjoint or overlapping ranges of the same Text.
func CountRangeWithMode(text Text, r Range, mode CaseMode) (Frequencies, error) {
	return countRange(context.Background(), text, r, mode)
}

func countRange(ctx context.Context, text Text, r Range, mode CaseMode) (Frequencies, error) {
	f, err := newFolder(mode)
	if err != nil {
		return nil, err
	}

	chars := text.slice(r)
	freqs := make(Frequencies)
	for i, c := range chars {
		if i%cancelCheckInterval == cancelCheckInterval-1 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("count %s: %w", r, err)
			}
		}
		folded, err := f.fold(c)
		if err != nil {
			return nil, err
		}
		freqs[folded]++
	}
	return freqs, nil
}

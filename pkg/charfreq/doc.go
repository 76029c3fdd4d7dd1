// Package charfreq counts how often each character occurs in a text.
//
// The text is split into contiguous character ranges, every range is counted
// on its own goroutine, and the partial counts are merged pairwise as they
// complete until a single result remains. Counting by character position
// (not byte offset) keeps ranges correct for multi-byte UTF-8 input.
//
// Three case modes control how characters are grouped:
//   - Sensitive: every character is counted as-is
//   - InsensitiveASCIIOnly: A-Z fold onto a-z, everything else is untouched (default)
//   - Insensitive: full Unicode lowercase; characters whose lowercase form
//     spans several characters are rejected with ErrUnsupportedFold
//
// The parallel and sequential paths always produce identical results for the
// same text and mode, regardless of how goroutines are scheduled.
//
// Example usage:
//
//	freqs, err := charfreq.CharacterFrequencies("Hello, World!")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(freqs['l']) // 3
//
//	counter := charfreq.NewCounter(
//	    charfreq.WithThreads(8),
//	    charfreq.WithCaseMode(charfreq.Sensitive),
//	    charfreq.WithMetrics(charfreq.NewPrometheusMetrics()),
//	)
//	freqs, err = counter.Count(ctx, text)
package charfreq

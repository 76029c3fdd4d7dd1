package charfreq

import (
	"context"
	"runtime"
)

// DefaultThreads returns the number of goroutines used when no thread count
// is given: the current GOMAXPROCS value.
func DefaultThreads() int {
	return max(1, runtime.GOMAXPROCS(0))
}

// CharacterFrequencies counts the characters of text using DefaultThreads()
// goroutines and DefaultCaseMode.
func CharacterFrequencies(text string) (Frequencies, error) {
	return CharacterFrequenciesWithNThreadsWithCase(text, DefaultThreads(), DefaultCaseMode)
}

// CharacterFrequenciesWithCase counts the characters of text using
// DefaultThreads() goroutines and the given case mode.
func CharacterFrequenciesWithCase(text string, mode CaseMode) (Frequencies, error) {
	return CharacterFrequenciesWithNThreadsWithCase(text, DefaultThreads(), mode)
}

// CharacterFrequenciesWithNThreads counts the characters of text using up to
// threads goroutines and DefaultCaseMode. threads <= 1 counts sequentially.
func CharacterFrequenciesWithNThreads(text string, threads int) (Frequencies, error) {
	return CharacterFrequenciesWithNThreadsWithCase(text, threads, DefaultCaseMode)
}

// CharacterFrequenciesWithNThreadsWithCase counts the characters of text
// using up to threads goroutines and the given case mode.
func CharacterFrequenciesWithNThreadsWithCase(text string, threads int, mode CaseMode) (Frequencies, error) {
	return NewCounter().CountText(context.Background(), NewText(text), threads, mode)
}

// SequentialCharacterFrequencies counts the characters of text in a single
// pass on the calling goroutine. It is the reference result for the
// parallel functions.
func SequentialCharacterFrequencies(text string, mode CaseMode) (Frequencies, error) {
	return NewCounter().Sequential(context.Background(), NewText(text), mode)
}

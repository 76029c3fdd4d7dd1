package charfreq

// Text is an immutable, character-indexed view of a string.
//
// The runes are decoded once and then shared read-only by every goroutine of
// a counting operation. Invalid UTF-8 bytes decode to U+FFFD, one character
// per invalid byte, matching the behavior of ranging over a Go string.
type Text struct {
	runes []rune
}

// NewText decodes s into a Text.
func NewText(s string) Text {
	return Text{runes: []rune(s)}
}

// Len returns the number of characters in the text.
func (t Text) Len() int {
	return len(t.runes)
}

// At returns the character at position i.
func (t Text) At(i int) rune {
	return t.runes[i]
}

// String re-encodes the text.
func (t Text) String() string {
	return string(t.runes)
}

// slice returns the characters covered by r after clamping r to the text.
// The returned slice aliases the text and must not be modified.
func (t Text) slice(r Range) []rune {
	from, to := r.From, r.To
	if from < 0 {
		from = 0
	}
	if to > len(t.runes)-1 {
		to = len(t.runes) - 1
	}
	if to < from {
		return nil
	}
	return t.runes[from : to+1]
}

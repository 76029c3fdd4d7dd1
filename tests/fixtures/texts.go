// Package fixtures provides reusable test data for counting and storage tests.
package fixtures

import (
	"strings"
	"unicode/utf8"
)

// Language selects the sentence set used by GenerateText.
type Language string

const (
	English  Language = "english"
	Japanese Language = "japanese"
	// Greek sentences mix final and medial sigma and accented capitals.
	Greek Language = "greek"
)

// TextOptions configures generated text.
type TextOptions struct {
	// Length is the target character count. The result is within 10% of it.
	Length   int
	Language Language
	// IncludeEmoji mixes in sentences with characters outside the BMP.
	IncludeEmoji bool
}

var sentences = map[Language][]string{
	English: {
		"The quick brown fox jumps over the lazy dog.",
		"Pack my box with five dozen liquor jugs.",
		"Sphinx of black quartz, judge my vow.",
		"How vexingly quick daft zebras jump!",
		"The five boxing wizards jump quickly.",
	},
	Japanese: {
		"いろはにほへと ちりぬるを わかよたれそ つねならむ。",
		"吾輩は猫である。名前はまだ無い。",
		"国境の長いトンネルを抜けると雪国であった。",
		"春はあけぼの。やうやう白くなりゆく山ぎは。",
	},
	Greek: {
		"Ξεσκεπάζω την ψυχοφθόρα βδελυγμία.",
		"ΟΔΥΣΣΕΥΣ και Πηνελόπη.",
		"Σίσυφος ΣΊΣΥΦΟΣ σίσυφος.",
	},
}

var emojiSentences = []string{
	"Counting stars 🚀✨",
	"数を数える 📊📈",
	"Μετράμε 🔬🌟",
}

// GenerateText returns deterministic text of about opts.Length characters.
// Unknown languages fall back to English.
func GenerateText(opts TextOptions) string {
	base, ok := sentences[opts.Language]
	if !ok {
		base = sentences[English]
	}
	if opts.Length <= 0 {
		return ""
	}

	lower := opts.Length * 9 / 10
	upper := opts.Length * 11 / 10

	var b strings.Builder
	length := 0
	for i := 0; length < opts.Length; i++ {
		sentence := base[i%len(base)]
		if opts.IncludeEmoji && i%3 == 2 {
			sentence = emojiSentences[(i/3)%len(emojiSentences)]
		}

		add := utf8.RuneCountInString(sentence)
		if length > 0 {
			add++
		}
		if length >= lower && length+add > upper {
			break
		}
		if length > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(sentence)
		length += add
	}
	return b.String()
}

// GenerateShortText returns about 500 characters of English text.
func GenerateShortText() string {
	return GenerateText(TextOptions{Length: 500, Language: English})
}

// GenerateLongText returns about 100000 characters of Japanese text.
func GenerateLongText() string {
	return GenerateText(TextOptions{Length: 100_000, Language: Japanese})
}

package postgres

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// codePointPrefix marks a stored counts key. Keys are code points such as
// "U+0061" because JSONB rejects the \u0000 escape a NUL character needs.
const codePointPrefix = "U+"

// encodeCounts serializes snapshot counts as a JSON object keyed by code point.
func encodeCounts(counts map[string]int) ([]byte, error) {
	stored := make(map[string]int, len(counts))
	for key, n := range counts {
		r, size := utf8.DecodeRuneInString(key)
		if size == 0 || size != len(key) {
			return nil, fmt.Errorf("counts key %q is not a single character", key)
		}
		stored[fmt.Sprintf("%s%04X", codePointPrefix, r)] = n
	}
	return json.Marshal(stored)
}

// decodeCounts reverses encodeCounts.
func decodeCounts(data []byte) (map[string]int, error) {
	var stored map[string]int
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(stored))
	for key, n := range stored {
		hex, ok := strings.CutPrefix(key, codePointPrefix)
		if !ok {
			return nil, fmt.Errorf("counts key %q is not a code point", key)
		}
		cp, err := strconv.ParseUint(hex, 16, 32)
		if err != nil || !utf8.ValidRune(rune(cp)) {
			return nil, fmt.Errorf("counts key %q is not a code point", key)
		}
		counts[string(rune(cp))] = n
	}
	return counts, nil
}

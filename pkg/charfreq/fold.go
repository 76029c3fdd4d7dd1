package charfreq

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CaseMode selects how characters are grouped before counting.
type CaseMode int

const (
	// Sensitive counts every character as-is.
	Sensitive CaseMode = iota
	// InsensitiveASCIIOnly folds A-Z onto a-z and leaves every other
	// character untouched.
	InsensitiveASCIIOnly
	// Insensitive folds every character onto its full Unicode lowercase form.
	Insensitive
)

// DefaultCaseMode is used by the operations that do not take a mode.
const DefaultCaseMode = InsensitiveASCIIOnly

var caseModeNames = map[CaseMode]string{
	Sensitive:            "sensitive",
	InsensitiveASCIIOnly: "insensitive-ascii",
	Insensitive:          "insensitive",
}

// String returns the configuration name of the mode.
func (m CaseMode) String() string {
	if name, ok := caseModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("CaseMode(%d)", int(m))
}

// Valid reports whether m is one of the defined modes.
func (m CaseMode) Valid() bool {
	_, ok := caseModeNames[m]
	return ok
}

// ParseCaseMode parses a mode name as produced by CaseMode.String.
// Matching ignores surrounding whitespace and letter case.
func ParseCaseMode(s string) (CaseMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for mode, n := range caseModeNames {
		if n == name {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (expected sensitive, insensitive-ascii or insensitive)", ErrInvalidCaseMode, s)
}

// Fold maps r to the character that is counted for it under mode.
//
// Insensitive mode returns *UnsupportedFoldError when the lowercase form of r
// is longer than one character.
func Fold(r rune, mode CaseMode) (rune, error) {
	f, err := newFolder(mode)
	if err != nil {
		return 0, err
	}
	return f.fold(r)
}

// folder applies one CaseMode. It is not safe for concurrent use: each
// counting goroutine owns its own folder because cases.Caser keeps state.
type folder struct {
	mode   CaseMode
	caser  cases.Caser
	folded map[rune]rune
}

func newFolder(mode CaseMode) (*folder, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCaseMode, int(mode))
	}
	f := &folder{mode: mode}
	if mode == Insensitive {
		f.caser = cases.Lower(language.Und)
		f.folded = make(map[rune]rune)
	}
	return f, nil
}

func (f *folder) fold(r rune) (rune, error) {
	switch f.mode {
	case Sensitive:
		return r, nil
	case InsensitiveASCIIOnly:
		return foldASCII(r), nil
	}

	if r < utf8.RuneSelf {
		return foldASCII(r), nil
	}
	if lower, ok := f.folded[r]; ok {
		return lower, nil
	}
	lower := f.caser.String(string(r))
	if utf8.RuneCountInString(lower) != 1 {
		return 0, &UnsupportedFoldError{Char: r, Lower: lower}
	}
	l, _ := utf8.DecodeRuneInString(lower)
	f.folded[r] = l
	return l, nil
}

func foldASCII(r rune) rune {
	if 'A' <= r && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

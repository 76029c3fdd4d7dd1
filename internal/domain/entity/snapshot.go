package entity

import (
	"fmt"
	"time"
	"unicode/utf8"

	"charfreq/pkg/charfreq"
)

// ProfileDimensions is the length of a letter profile: one entry per ASCII
// letter a-z.
const ProfileDimensions = 26

// Snapshot is the stored result of counting one source once.
type Snapshot struct {
	ID          int64
	OperationID string
	SourceName  string
	CaseMode    string
	Threads     int
	// Length is the number of characters counted.
	Length int
	// Distinct is the number of distinct counted characters.
	Distinct int
	// Counts maps each counted character (as a one-character string) to its count.
	Counts map[string]int
	// Profile holds the relative frequency of each ASCII letter, case folded.
	// It sums to 1, or is all zeros for a text without ASCII letters.
	Profile   []float32
	CreatedAt time.Time
}

// NewSnapshot builds a snapshot from a counting result.
func NewSnapshot(operationID, sourceName string, mode charfreq.CaseMode, threads int, freqs charfreq.Frequencies, createdAt time.Time) *Snapshot {
	counts := make(map[string]int, len(freqs))
	for r, n := range freqs {
		counts[string(r)] = n
	}
	return &Snapshot{
		OperationID: operationID,
		SourceName:  sourceName,
		CaseMode:    mode.String(),
		Threads:     threads,
		Length:      freqs.Total(),
		Distinct:    len(freqs),
		Counts:      counts,
		Profile:     LetterProfile(freqs),
		CreatedAt:   createdAt,
	}
}

// LetterProfile returns the relative frequencies of the ASCII letters a-z in
// freqs, folding A-Z onto a-z.
func LetterProfile(freqs charfreq.Frequencies) []float32 {
	profile := make([]float32, ProfileDimensions)
	total := 0
	for r, n := range freqs {
		switch {
		case 'a' <= r && r <= 'z':
			profile[r-'a'] += float32(n)
		case 'A' <= r && r <= 'Z':
			profile[r-'A'] += float32(n)
		default:
			continue
		}
		total += n
	}
	if total == 0 {
		return profile
	}
	for i := range profile {
		profile[i] /= float32(total)
	}
	return profile
}

// IsZeroProfile reports whether profile has no letter weight. Such profiles
// have no cosine distance to anything.
func IsZeroProfile(profile []float32) bool {
	for _, v := range profile {
		if v != 0 {
			return false
		}
	}
	return true
}

// Frequencies converts Counts back to a frequency mapping.
func (s *Snapshot) Frequencies() charfreq.Frequencies {
	freqs := make(charfreq.Frequencies, len(s.Counts))
	for key, n := range s.Counts {
		r, _ := utf8.DecodeRuneInString(key)
		freqs[r] += n
	}
	return freqs
}

// Validate checks the snapshot before it is stored.
func (s *Snapshot) Validate() error {
	if s.SourceName == "" {
		return &ValidationError{Field: "source_name", Message: "source name is required"}
	}
	if _, err := charfreq.ParseCaseMode(s.CaseMode); err != nil {
		return &ValidationError{Field: "case_mode", Message: err.Error()}
	}
	if len(s.Profile) != ProfileDimensions {
		return &ValidationError{
			Field:   "profile",
			Message: fmt.Sprintf("profile must have %d dimensions, got %d", ProfileDimensions, len(s.Profile)),
		}
	}
	total := 0
	for key, n := range s.Counts {
		if utf8.RuneCountInString(key) != 1 {
			return &ValidationError{Field: "counts", Message: fmt.Sprintf("key %q is not a single character", key)}
		}
		if n <= 0 {
			return &ValidationError{Field: "counts", Message: fmt.Sprintf("count for %q must be positive", key)}
		}
		total += n
	}
	if total != s.Length {
		return &ValidationError{
			Field:   "length",
			Message: fmt.Sprintf("length %d does not match sum of counts %d", s.Length, total),
		}
	}
	if s.Distinct != len(s.Counts) {
		return &ValidationError{
			Field:   "distinct",
			Message: fmt.Sprintf("distinct %d does not match %d counted characters", s.Distinct, len(s.Counts)),
		}
	}
	return nil
}

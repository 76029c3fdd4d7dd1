package fixtures

import (
	"time"

	"charfreq/internal/domain/entity"
	"charfreq/pkg/charfreq"
)

// SnapshotOption customizes a test snapshot.
type SnapshotOption func(*entity.Snapshot)

// NewTestSnapshot returns a valid snapshot of the text "abba" counted with
// the default case mode.
//
// Example:
//
//	snap := NewTestSnapshot(WithSourceName("bob"))
func NewTestSnapshot(opts ...SnapshotOption) *entity.Snapshot {
	s := entity.NewSnapshot(
		"op-test",
		"alice",
		charfreq.DefaultCaseMode,
		4,
		charfreq.Frequencies{'a': 2, 'b': 2},
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithSourceName sets the source name.
func WithSourceName(name string) SnapshotOption {
	return func(s *entity.Snapshot) {
		s.SourceName = name
	}
}

// WithID sets the snapshot ID.
func WithID(id int64) SnapshotOption {
	return func(s *entity.Snapshot) {
		s.ID = id
	}
}

// WithCreatedAt sets the creation time.
func WithCreatedAt(t time.Time) SnapshotOption {
	return func(s *entity.Snapshot) {
		s.CreatedAt = t
	}
}

// WithFrequencies replaces the counts and everything derived from them.
func WithFrequencies(freqs charfreq.Frequencies) SnapshotOption {
	return func(s *entity.Snapshot) {
		fresh := entity.NewSnapshot(s.OperationID, s.SourceName, charfreq.DefaultCaseMode, s.Threads, freqs, s.CreatedAt)
		s.Length = fresh.Length
		s.Distinct = fresh.Distinct
		s.Counts = fresh.Counts
		s.Profile = fresh.Profile
	}
}

// UnitProfile returns a letter profile with all weight on one letter.
func UnitProfile(letter rune) []float32 {
	p := make([]float32, entity.ProfileDimensions)
	if 'a' <= letter && letter <= 'z' {
		p[letter-'a'] = 1
	}
	return p
}

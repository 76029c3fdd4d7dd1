package repository

import (
	"context"

	"charfreq/internal/domain/entity"
)

// SimilarSnapshot is one result of a profile similarity search.
// Similarity is the cosine similarity of the letter profiles (0.0 to 1.0).
type SimilarSnapshot struct {
	SnapshotID int64
	SourceName string
	Similarity float64
}

// SnapshotRepository stores counting results.
type SnapshotRepository interface {
	// Save validates and inserts the snapshot, filling in its ID.
	Save(ctx context.Context, snapshot *entity.Snapshot) error

	// LatestBySource returns the most recent snapshot of a source.
	// Returns entity.ErrNotFound when the source has none.
	LatestBySource(ctx context.Context, sourceName string) (*entity.Snapshot, error)

	// SearchSimilar returns the snapshots whose letter profile is closest to
	// profile, highest similarity first. limit defaults to 10 and is capped at 100.
	// Snapshots with an all-zero profile are skipped, and an all-zero profile
	// argument fails with entity.ErrValidationFailed.
	SearchSimilar(ctx context.Context, profile []float32, limit int) ([]SimilarSnapshot, error)
}

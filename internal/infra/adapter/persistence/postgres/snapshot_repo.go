package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"

	"charfreq/internal/domain/entity"
	"charfreq/internal/observability/metrics"
	"charfreq/internal/repository"
)

// DefaultSearchTimeout is the default timeout for similarity search queries.
const DefaultSearchTimeout = 5 * time.Second

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 100
)

// SnapshotRepo implements repository.SnapshotRepository for PostgreSQL.
type SnapshotRepo struct {
	db *sql.DB
}

// NewSnapshotRepo creates a PostgreSQL-based SnapshotRepository.
func NewSnapshotRepo(db *sql.DB) repository.SnapshotRepository {
	return &SnapshotRepo{db: db}
}

// Save inserts the snapshot and sets its ID.
func (repo *SnapshotRepo) Save(ctx context.Context, snapshot *entity.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("Save: snapshot is nil")
	}
	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("Save: %w", err)
	}

	counts, err := encodeCounts(snapshot.Counts)
	if err != nil {
		return fmt.Errorf("Save: marshal counts: %w", err)
	}

	const query = `
INSERT INTO char_snapshots
	(operation_id, source_name, case_mode, threads, length, distinct_chars, counts, profile, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`

	start := time.Now()
	err = repo.db.QueryRowContext(ctx, query,
		snapshot.OperationID,
		snapshot.SourceName,
		snapshot.CaseMode,
		snapshot.Threads,
		snapshot.Length,
		snapshot.Distinct,
		string(counts),
		pgvector.NewVector(snapshot.Profile),
		snapshot.CreatedAt,
	).Scan(&snapshot.ID)
	metrics.RecordDBQuery("snapshot_save", time.Since(start))
	if err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	return nil
}

// LatestBySource returns the newest snapshot of sourceName.
func (repo *SnapshotRepo) LatestBySource(ctx context.Context, sourceName string) (*entity.Snapshot, error) {
	const query = `
SELECT id, operation_id, source_name, case_mode, threads, length, distinct_chars, counts, profile, created_at
FROM char_snapshots
WHERE source_name = $1
ORDER BY created_at DESC, id DESC
LIMIT 1`

	var (
		s       entity.Snapshot
		counts  []byte
		profile pgvector.Vector
	)
	start := time.Now()
	err := repo.db.QueryRowContext(ctx, query, sourceName).Scan(
		&s.ID,
		&s.OperationID,
		&s.SourceName,
		&s.CaseMode,
		&s.Threads,
		&s.Length,
		&s.Distinct,
		&counts,
		&profile,
		&s.CreatedAt,
	)
	metrics.RecordDBQuery("snapshot_latest", time.Since(start))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("LatestBySource %q: %w", sourceName, entity.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("LatestBySource: %w", err)
	}

	s.Counts, err = decodeCounts(counts)
	if err != nil {
		return nil, fmt.Errorf("LatestBySource: unmarshal counts: %w", err)
	}
	s.Profile = profile.Slice()
	return &s, nil
}

// SearchSimilar orders snapshots by cosine distance (<=>) to profile.
// Cosine distance is undefined for an all-zero profile, so snapshots of texts
// without ASCII letters are never returned and a zero profile is rejected.
func (repo *SnapshotRepo) SearchSimilar(ctx context.Context, profile []float32, limit int) ([]repository.SimilarSnapshot, error) {
	if len(profile) != entity.ProfileDimensions {
		return nil, fmt.Errorf("SearchSimilar: %w", &entity.ValidationError{
			Field:   "profile",
			Message: fmt.Sprintf("profile must have %d dimensions, got %d", entity.ProfileDimensions, len(profile)),
		})
	}
	if entity.IsZeroProfile(profile) {
		return nil, fmt.Errorf("SearchSimilar: %w", &entity.ValidationError{
			Field:   "profile",
			Message: "profile has no letter weight",
		})
	}

	searchCtx, cancel := context.WithTimeout(ctx, DefaultSearchTimeout)
	defer cancel()

	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	const query = `
SELECT id, source_name, 1 - (profile <=> $1) AS similarity
FROM char_snapshots
WHERE vector_norm(profile) > 0
ORDER BY profile <=> $1
LIMIT $2`

	start := time.Now()
	rows, err := repo.db.QueryContext(searchCtx, query, pgvector.NewVector(profile), limit)
	if err != nil {
		return nil, fmt.Errorf("SearchSimilar: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := make([]repository.SimilarSnapshot, 0, limit)
	for rows.Next() {
		var r repository.SimilarSnapshot
		if err := rows.Scan(&r.SnapshotID, &r.SourceName, &r.Similarity); err != nil {
			return nil, fmt.Errorf("SearchSimilar: Scan: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("SearchSimilar: %w", err)
	}
	metrics.RecordDBQuery("snapshot_search", time.Since(start))

	return results, nil
}

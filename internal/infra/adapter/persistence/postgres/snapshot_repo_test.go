package postgres_test

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charfreq/internal/domain/entity"
	pg "charfreq/internal/infra/adapter/persistence/postgres"
	"charfreq/internal/repository"
	"charfreq/pkg/charfreq"
	"charfreq/tests/fixtures"
)

var snapshotColumns = []string{
	"id", "operation_id", "source_name", "case_mode", "threads",
	"length", "distinct_chars", "counts", "profile", "created_at",
}

// countsJSON matches the counts argument of an insert by its decoded JSON.
type countsJSON map[string]int

func (want countsJSON) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	var got map[string]int
	if err := json.Unmarshal([]byte(s), &got); err != nil {
		return false
	}
	return assert.ObjectsAreEqual(map[string]int(want), got)
}

func newMock(t *testing.T) (repository.SnapshotRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return pg.NewSnapshotRepo(db), mock
}

/* ─────────────────────────── Save Tests ─────────────────────────── */

func TestSnapshotRepo_Save(t *testing.T) {
	repo, mock := newMock(t)
	snap := fixtures.NewTestSnapshot()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO char_snapshots")).
		WithArgs(
			snap.OperationID,
			snap.SourceName,
			snap.CaseMode,
			snap.Threads,
			snap.Length,
			snap.Distinct,
			sqlmock.AnyArg(), // counts JSON
			sqlmock.AnyArg(), // profile vector
			snap.CreatedAt,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	require.NoError(t, repo.Save(context.Background(), snap))
	assert.Equal(t, int64(42), snap.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepo_Save_NulCharacter(t *testing.T) {
	repo, mock := newMock(t)
	freqs, err := charfreq.SequentialCharacterFrequencies("a\x00b\x00", charfreq.Sensitive)
	require.NoError(t, err)
	snap := entity.NewSnapshot("op-nul", "nul", charfreq.Sensitive, 1, freqs, time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO char_snapshots")).
		WithArgs(
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			4, 3,
			countsJSON{"U+0000": 2, "U+0061": 1, "U+0062": 1},
			sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	require.NoError(t, repo.Save(context.Background(), snap))
	assert.Equal(t, int64(9), snap.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepo_Save_ValidationError(t *testing.T) {
	repo, mock := newMock(t)

	tests := []struct {
		name     string
		snapshot *entity.Snapshot
	}{
		{name: "nil", snapshot: nil},
		{name: "missing source", snapshot: fixtures.NewTestSnapshot(fixtures.WithSourceName(""))},
		{
			name: "short profile",
			snapshot: func() *entity.Snapshot {
				s := fixtures.NewTestSnapshot()
				s.Profile = s.Profile[:3]
				return s
			}(),
		},
		{
			name: "length mismatch",
			snapshot: func() *entity.Snapshot {
				s := fixtures.NewTestSnapshot()
				s.Length++
				return s
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Save(context.Background(), tt.snapshot)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "Save")
		})
	}
	// No query reaches the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepo_Save_QueryError(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO char_snapshots")).
		WillReturnError(errors.New("connection reset"))

	err := repo.Save(context.Background(), fixtures.NewTestSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

/* ─────────────────────────── LatestBySource Tests ─────────────────────────── */

func TestSnapshotRepo_LatestBySource(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM char_snapshots")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(snapshotColumns).AddRow(
			int64(7), "op-1", "alice", "insensitive-ascii", 4,
			3, 2, []byte(`{"U+0061":2,"U+0062":1}`),
			"[0.6666667,0.33333334,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0]",
			created,
		))

	snap, err := repo.LatestBySource(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, int64(7), snap.ID)
	assert.Equal(t, "op-1", snap.OperationID)
	assert.Equal(t, 4, snap.Threads)
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, snap.Counts)
	assert.Equal(t, charfreq.Frequencies{'a': 2, 'b': 1}, snap.Frequencies())
	require.Len(t, snap.Profile, entity.ProfileDimensions)
	assert.InDelta(t, 0.6666667, snap.Profile[0], 1e-6)
	assert.Equal(t, created, snap.CreatedAt)
	assert.NoError(t, snap.Validate())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepo_LatestBySource_NulAndAstral(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM char_snapshots")).
		WithArgs("nul").
		WillReturnRows(sqlmock.NewRows(snapshotColumns).AddRow(
			int64(3), "op-2", "nul", "sensitive", 1,
			3, 2, []byte(`{"U+0000":2,"U+1F600":1}`),
			"[0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0]",
			time.Now(),
		))

	snap, err := repo.LatestBySource(context.Background(), "nul")
	require.NoError(t, err)
	assert.Equal(t, charfreq.Frequencies{0: 2, '\U0001F600': 1}, snap.Frequencies())
	assert.NoError(t, snap.Validate())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepo_LatestBySource_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM char_snapshots")).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(snapshotColumns))

	snap, err := repo.LatestBySource(context.Background(), "nobody")
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, entity.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepo_LatestBySource_BadCounts(t *testing.T) {
	tests := []struct {
		name   string
		counts string
	}{
		{name: "not json", counts: `not json`},
		{name: "raw character key", counts: `{"a":1}`},
		{name: "non hex code point", counts: `{"U+ZZ":1}`},
		{name: "surrogate code point", counts: `{"U+D800":1}`},
		{name: "beyond unicode", counts: `{"U+110000":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMock(t)
			mock.ExpectQuery(regexp.QuoteMeta("FROM char_snapshots")).
				WithArgs("alice").
				WillReturnRows(sqlmock.NewRows(snapshotColumns).AddRow(
					int64(7), "op-1", "alice", "sensitive", 1, 1, 1,
					[]byte(tt.counts), "[0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0]",
					time.Now(),
				))

			_, err := repo.LatestBySource(context.Background(), "alice")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "unmarshal counts")
		})
	}
}

/* ─────────────────────────── SearchSimilar Tests ─────────────────────────── */

func TestSnapshotRepo_SearchSimilar(t *testing.T) {
	repo, mock := newMock(t)
	profile := fixtures.NewTestSnapshot().Profile

	mock.ExpectQuery(regexp.QuoteMeta("WHERE vector_norm(profile) > 0")).
		WithArgs(sqlmock.AnyArg(), 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "source_name", "similarity"}).
			AddRow(int64(1), "alice", 0.99).
			AddRow(int64(2), "bob", 0.75))

	results, err := repo.SearchSimilar(context.Background(), profile, 2)
	require.NoError(t, err)
	assert.Equal(t, []repository.SimilarSnapshot{
		{SnapshotID: 1, SourceName: "alice", Similarity: 0.99},
		{SnapshotID: 2, SourceName: "bob", Similarity: 0.75},
	}, results)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepo_SearchSimilar_LimitNormalization(t *testing.T) {
	tests := []struct {
		name          string
		limit         int
		expectedLimit int
	}{
		{name: "zero uses default", limit: 0, expectedLimit: 10},
		{name: "negative uses default", limit: -5, expectedLimit: 10},
		{name: "over max is capped", limit: 500, expectedLimit: 100},
		{name: "within range", limit: 25, expectedLimit: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMock(t)
			mock.ExpectQuery(regexp.QuoteMeta("FROM char_snapshots")).
				WithArgs(sqlmock.AnyArg(), tt.expectedLimit).
				WillReturnRows(sqlmock.NewRows([]string{"id", "source_name", "similarity"}))

			results, err := repo.SearchSimilar(context.Background(), fixtures.UnitProfile('e'), tt.limit)
			require.NoError(t, err)
			assert.NotNil(t, results)
			assert.Empty(t, results)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSnapshotRepo_SearchSimilar_WrongDimensions(t *testing.T) {
	repo, mock := newMock(t)

	_, err := repo.SearchSimilar(context.Background(), []float32{1, 0}, 5)
	assert.ErrorIs(t, err, entity.ErrValidationFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepo_SearchSimilar_ZeroProfile(t *testing.T) {
	repo, mock := newMock(t)

	_, err := repo.SearchSimilar(context.Background(), make([]float32, entity.ProfileDimensions), 5)
	assert.ErrorIs(t, err, entity.ErrValidationFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepo_SearchSimilar_QueryError(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM char_snapshots")).
		WillReturnError(errors.New("statement timeout"))

	_, err := repo.SearchSimilar(context.Background(), fixtures.UnitProfile('e'), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SearchSimilar")
	assert.NoError(t, mock.ExpectationsWereMet())
}

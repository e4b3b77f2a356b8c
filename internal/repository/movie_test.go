package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/aisearch/internal/model"
)

func newMockRepo(t *testing.T) (*MovieRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMovieRepository(db), mock
}

func TestListPendingEnrichmentSelection(t *testing.T) {
	repo, mock := newMockRepo(t)

	// only unclassified records with a non-empty description are candidates
	rows := sqlmock.NewRows([]string{"id", "title", "description_en", "genres"}).
		AddRow("tt001", "Deep Water", "A shark terrorizes a coastal town.", "Horror")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE ai_classified = FALSE AND description_en <> ''")).
		WithArgs(50).
		WillReturnRows(rows)

	movies, err := repo.ListPendingEnrichment(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "tt001", movies[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitEnrichmentKeepsEmbeddingWhenMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	// a nil vector binds NULL, COALESCE falls back to the stored one
	mock.ExpectExec(regexp.QuoteMeta("embedding = COALESCE($5, embedding)")).
		WithArgs("tt001", "Una notte buia.", "Horror", "blood", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CommitEnrichment(context.Background(), &model.Movie{
		ID:             "tt001",
		DescriptionIT:  "Una notte buia.",
		Genres:         "Horror",
		PhobiaWarnings: "blood",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitEnrichmentWritesEmbedding(t *testing.T) {
	repo, mock := newMockRepo(t)

	vec := pgvector.NewVector([]float32{0.1, 0.2})
	mock.ExpectExec(regexp.QuoteMeta("embedding = COALESCE($5, embedding)")).
		WithArgs("tt001", "", "", "", vec).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CommitEnrichment(context.Background(), &model.Movie{
		ID:        "tt001",
		Embedding: &vec,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

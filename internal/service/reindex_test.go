package service

import (
	"context"
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/aisearch/internal/model"
)

type fakeReindexStore struct {
	embedded []*model.Movie
	resets   []string
	known    map[string]bool
}

func (f *fakeReindexStore) ListEmbedded(_ context.Context) ([]*model.Movie, error) {
	return f.embedded, nil
}

func (f *fakeReindexStore) ResetClassification(_ context.Context, id string) (bool, error) {
	f.resets = append(f.resets, id)
	return f.known[id], nil
}

func embeddedMovie(id, title string) *model.Movie {
	vec := pgvector.NewVector(testVector())
	return &model.Movie{
		ID:            id,
		Title:         title,
		DescriptionEN: "Stored description.",
		Year:          "2021",
		Embedding:     &vec,
	}
}

func TestRebuildIndexFromStore(t *testing.T) {
	store := &fakeReindexStore{embedded: []*model.Movie{
		embeddedMovie("tt001", "First"),
		embeddedMovie("tt002", "Second"),
	}}
	index := &fakeIndex{}

	svc := NewReindexService(store, index)
	count, err := svc.RebuildIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// the collection is dropped and refilled from stored vectors only,
	// without any model calls
	assert.Equal(t, 1, index.rebuilds)
	require.Len(t, index.upserts, 2)
	assert.Equal(t, "tt001", index.upserts[0].ID)
	assert.Equal(t, "Stored description.", index.upserts[0].Document)
}

func TestResetMovie(t *testing.T) {
	store := &fakeReindexStore{known: map[string]bool{"tt001": true}}
	svc := NewReindexService(store, &fakeIndex{})

	found, err := svc.ResetMovie(context.Background(), "tt001")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = svc.ResetMovie(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

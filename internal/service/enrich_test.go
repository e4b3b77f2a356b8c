package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/aisearch/internal/model"
	"github.com/user/aisearch/internal/repository"
)

// fakeAI answers each prompt kind with a canned response, keyed off the
// system prompt wording.
type fakeAI struct {
	translation string
	horror      string
	phobias     string
	embedding   []float32
	generateErr error
	embedErr    error

	mu            sync.Mutex
	generateCalls int
	embedCalls    []string
}

func (f *fakeAI) Generate(_ context.Context, system, _ string) (string, error) {
	f.mu.Lock()
	f.generateCalls++
	f.mu.Unlock()
	if f.generateErr != nil {
		return "", f.generateErr
	}
	switch {
	case strings.Contains(system, "Italian"):
		return f.translation, nil
	case strings.Contains(system, "Animal Horror"):
		return f.horror, nil
	case strings.Contains(system, "triggers"):
		return f.phobias, nil
	}
	return "", nil
}

func (f *fakeAI) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.embedCalls = append(f.embedCalls, text)
	f.mu.Unlock()
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return f.embedding, nil
}

type fakeIndex struct {
	mu       sync.Mutex
	upserts  []*repository.IndexEntry
	rebuilds int
	hits     []repository.IndexHit
	queryErr error
}

func (f *fakeIndex) Upsert(_ context.Context, e *repository.IndexEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, e)
	return nil
}

func (f *fakeIndex) Query(_ context.Context, _ []float32, _ int) ([]repository.IndexHit, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.hits, nil
}

func (f *fakeIndex) Rebuild(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rebuilds++
	return nil
}

type fakeEnrichStore struct {
	mu        sync.Mutex
	pending   []*model.Movie
	limit     int
	committed []*model.Movie
}

func (f *fakeEnrichStore) ListPendingEnrichment(_ context.Context, limit int) ([]*model.Movie, error) {
	f.limit = limit
	return f.pending, nil
}

func (f *fakeEnrichStore) CommitEnrichment(_ context.Context, m *model.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed = append(f.committed, m)
	return nil
}

func testVector() []float32 {
	v := make([]float32, 768)
	v[0] = 0.5
	return v
}

func TestEnrichCommitsAllDerivedFields(t *testing.T) {
	ai := &fakeAI{
		translation: "Uno squalo terrorizza una città costiera.",
		horror:      "YES",
		phobias:     "blood",
		embedding:   testVector(),
	}
	index := &fakeIndex{}
	store := &fakeEnrichStore{pending: []*model.Movie{
		{ID: "tt001", Title: "Deep Water", DescriptionEN: "A shark terrorizes a coastal town.", Genres: "Horror", Year: "2020"},
	}}

	svc := NewEnrichService(store, ai, index, 2, 10)
	processed, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	require.Len(t, store.committed, 1)
	m := store.committed[0]
	assert.Equal(t, "Uno squalo terrorizza una città costiera.", m.DescriptionIT)
	assert.Equal(t, "Horror, Animal Horror", m.Genres)
	assert.Equal(t, "blood", m.PhobiaWarnings)
	require.NotNil(t, m.Embedding)

	require.Len(t, index.upserts, 1)
	entry := index.upserts[0]
	assert.Equal(t, "tt001", entry.ID)
	assert.Equal(t, "Deep Water", entry.Title)
	assert.Equal(t, "2020", entry.Year)
	assert.Equal(t, "A shark terrorizes a coastal town.", entry.Document)
}

func TestEnrichDoesNotDuplicateAnimalHorrorTag(t *testing.T) {
	ai := &fakeAI{horror: "YES", embedding: testVector()}
	index := &fakeIndex{}
	store := &fakeEnrichStore{pending: []*model.Movie{
		{ID: "tt002", Title: "Again", DescriptionEN: "Creatures attack.", Genres: "Animal Horror, Thriller"},
	}}

	svc := NewEnrichService(store, ai, index, 1, 10)
	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, store.committed, 1)
	assert.Equal(t, "Animal Horror, Thriller", store.committed[0].Genres)
}

func TestEnrichNormalizesNoneSentinel(t *testing.T) {
	ai := &fakeAI{horror: "NO", phobias: "NONE", embedding: testVector()}
	index := &fakeIndex{}
	store := &fakeEnrichStore{pending: []*model.Movie{
		{ID: "tt003", Title: "Calm", DescriptionEN: "Nothing scary happens.", Genres: "Drama"},
	}}

	svc := NewEnrichService(store, ai, index, 1, 10)
	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, store.committed, 1)
	m := store.committed[0]
	assert.Empty(t, m.PhobiaWarnings)
	assert.Equal(t, "Drama", m.Genres)
}

func TestEnrichCommitsEvenWhenEmbeddingFails(t *testing.T) {
	ai := &fakeAI{
		translation: "Tradotto.",
		horror:      "NO",
		phobias:     "NONE",
		embedErr:    errors.New("ollama down"),
	}
	index := &fakeIndex{}
	store := &fakeEnrichStore{pending: []*model.Movie{
		{ID: "tt004", Title: "Unlucky", DescriptionEN: "Some plot."},
	}}

	svc := NewEnrichService(store, ai, index, 1, 10)
	processed, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	// the record is still committed so the pass moves on; re-embedding
	// goes through the reset endpoint
	require.Len(t, store.committed, 1)
	assert.Nil(t, store.committed[0].Embedding)
	assert.Empty(t, index.upserts)
}

func TestEnrichSoftFailsGenerationErrors(t *testing.T) {
	ai := &fakeAI{generateErr: errors.New("model busy"), embedding: testVector()}
	index := &fakeIndex{}
	store := &fakeEnrichStore{pending: []*model.Movie{
		{ID: "tt005", Title: "Busy", DescriptionEN: "Some plot.", Genres: "Drama"},
	}}

	svc := NewEnrichService(store, ai, index, 1, 10)
	processed, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	require.Len(t, store.committed, 1)
	m := store.committed[0]
	assert.Empty(t, m.DescriptionIT)
	assert.Empty(t, m.PhobiaWarnings)
	assert.Equal(t, "Drama", m.Genres)
	// the embedding call is independent of the generation failures
	require.Len(t, index.upserts, 1)
}

func TestEnrichWithNothingPending(t *testing.T) {
	svc := NewEnrichService(&fakeEnrichStore{}, &fakeAI{}, &fakeIndex{}, 1, 10)
	processed, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, processed)
}

func TestEnrichSkipsEmptyDescription(t *testing.T) {
	ai := &fakeAI{embedding: testVector()}
	index := &fakeIndex{}
	store := &fakeEnrichStore{pending: []*model.Movie{
		{ID: "tt001", Title: "No Blurb"},
		{ID: "tt002", Title: "Blank Blurb", DescriptionEN: "   "},
	}}

	svc := NewEnrichService(store, ai, index, 1, 10)
	processed, err := svc.Run(context.Background())
	require.NoError(t, err)

	// nothing to analyze: no model calls, no commit, no flag flip
	assert.Zero(t, processed)
	assert.Zero(t, ai.generateCalls)
	assert.Empty(t, ai.embedCalls)
	assert.Empty(t, index.upserts)
	assert.Empty(t, store.committed)
}

func TestEnrichRequestsConfiguredBatchSize(t *testing.T) {
	store := &fakeEnrichStore{}
	svc := NewEnrichService(store, &fakeAI{}, &fakeIndex{}, 1, 25)
	_, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25, store.limit)
}

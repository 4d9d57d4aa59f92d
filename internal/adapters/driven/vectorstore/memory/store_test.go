package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

func seedChunks() []domain.Chunk {
	return []domain.Chunk{
		{ID: "a.txt:0", DocumentName: "a.txt", Index: 0, Content: "alpha", Location: "page 1", Embedding: []float32{1, 0, 0}},
		{ID: "a.txt:1", DocumentName: "a.txt", Index: 1, Content: "beta", Location: "page 2", Embedding: []float32{0, 1, 0}},
		{ID: "b.txt:0", DocumentName: "b.txt", Index: 0, Content: "gamma", Location: "full document", Embedding: []float32{0.9, 0.1, 0}},
	}
}

func TestStore_Query_OrdersByScore(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.UpsertChunks(ctx, seedChunks()))

	results, err := store.Query(ctx, []float32{1, 0, 0}, 3, "")

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "a.txt:0", results[0].Chunk.ID)
	assert.Equal(t, "b.txt:0", results[1].Chunk.ID)
	assert.Equal(t, "a.txt:1", results[2].Chunk.ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.Greater(t, results[1].Score, results[2].Score)
}

func TestStore_Query_RespectsK(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.UpsertChunks(ctx, seedChunks()))

	results, err := store.Query(ctx, []float32{1, 0, 0}, 1, "")

	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestStore_Query_DocumentFilter(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.UpsertChunks(ctx, seedChunks()))

	results, err := store.Query(ctx, []float32{1, 0, 0}, 10, "b.txt")

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b.txt:0", results[0].Chunk.ID)
}

func TestStore_Query_Empty(t *testing.T) {
	store := NewStore()

	results, err := store.Query(context.Background(), []float32{1, 0, 0}, 5, "")

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStore_Upsert_Overwrites(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.UpsertChunks(ctx, seedChunks()))

	updated := domain.Chunk{
		ID: "a.txt:0", DocumentName: "a.txt", Content: "alpha revised",
		Embedding: []float32{1, 0, 0},
	}
	require.NoError(t, store.UpsertChunks(ctx, []domain.Chunk{updated}))

	results, err := store.Query(ctx, []float32{1, 0, 0}, 1, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "alpha revised", results[0].Chunk.Content)

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, 2, docs[0].ChunkCount)
}

func TestStore_DeleteByDocument(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.UpsertChunks(ctx, seedChunks()))

	deleted, err := store.DeleteByDocument(ctx, "a.txt")

	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b.txt", docs[0].Name)
}

func TestStore_DeleteByDocument_Absent(t *testing.T) {
	store := NewStore()

	deleted, err := store.DeleteByDocument(context.Background(), "never-there.txt")

	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestStore_DeleteAll(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.UpsertChunks(ctx, seedChunks()))

	require.NoError(t, store.DeleteAll(ctx))

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0.0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0.0},
		{"empty", nil, nil, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-6)
		})
	}
}

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

func TestKnowledgeBaseService_Ingest(t *testing.T) {
	svc, deps := newTestService(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	defer func() { now = time.Now }()

	raw := &domain.RawDocument{
		Name:    "notes.txt",
		Content: []byte("First sentence. Second sentence."),
	}

	doc, err := svc.Ingest(context.Background(), raw)

	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "notes.txt", doc.Name)
	assert.Equal(t, "plaintext", doc.Format)
	assert.Equal(t, 1, doc.ChunkCount)
	assert.Equal(t, fixed, doc.IngestedAt)

	require.Len(t, deps.store.upserted, 1)
	stored := deps.store.upserted[0]
	assert.Equal(t, "notes.txt:0", stored.ID)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, stored.Embedding)
}

func TestKnowledgeBaseService_Ingest_NilDocument(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Ingest(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestKnowledgeBaseService_Ingest_EmptyContent(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Ingest(context.Background(), &domain.RawDocument{Name: "empty.txt"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestKnowledgeBaseService_Ingest_DuplicateName(t *testing.T) {
	svc, deps := newTestService(t)
	deps.store.docs = []domain.DocumentInfo{{Name: "notes.txt", ChunkCount: 2}}

	_, err := svc.Ingest(context.Background(), &domain.RawDocument{
		Name:    "notes.txt",
		Content: []byte("updated text"),
	})

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.Empty(t, deps.store.upserted)
}

func TestKnowledgeBaseService_Ingest_UnsupportedFormat(t *testing.T) {
	svc, deps := newTestService(t)
	deps.registry.selectErr = domain.ErrUnsupportedFormat

	_, err := svc.Ingest(context.Background(), &domain.RawDocument{
		Name:    "photo.png",
		Content: []byte{0x89, 0x50, 0x4e, 0x47},
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Equal(t, 0, deps.embedder.embedCalls)
}

func TestKnowledgeBaseService_Ingest_NoContent(t *testing.T) {
	svc, deps := newTestService(t)
	deps.registry.extractor = &mockExtractor{extractErr: domain.ErrNoContent}

	_, err := svc.Ingest(context.Background(), &domain.RawDocument{
		Name:    "scanned.pdf",
		Content: []byte("%PDF-1.7"),
	})

	assert.ErrorIs(t, err, domain.ErrNoContent)
	assert.Empty(t, deps.store.upserted)
}

func TestKnowledgeBaseService_Ingest_EmbedFailure(t *testing.T) {
	// An embedding failure aborts before anything reaches the store.
	svc, deps := newTestService(t)
	deps.embedder.embedErr = errors.New("quota exceeded")

	_, err := svc.Ingest(context.Background(), &domain.RawDocument{
		Name:    "notes.txt",
		Content: []byte("some text"),
	})

	assert.ErrorIs(t, err, domain.ErrEmbeddingService)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Empty(t, deps.store.upserted)
}

func TestKnowledgeBaseService_Ingest_VectorCountMismatch(t *testing.T) {
	svc, deps := newTestService(t)
	deps.embedder.batchSize = 2
	deps.chunker.chunks = []domain.Chunk{
		{ID: "notes.txt:0", DocumentName: "notes.txt", Content: "a"},
		{ID: "notes.txt:1", DocumentName: "notes.txt", Content: "b"},
		{ID: "notes.txt:2", DocumentName: "notes.txt", Content: "c"},
	}

	_, err := svc.Ingest(context.Background(), &domain.RawDocument{
		Name:    "notes.txt",
		Content: []byte("some text"),
	})

	assert.ErrorIs(t, err, domain.ErrEmbeddingService)
	assert.Empty(t, deps.store.upserted)
}

func TestKnowledgeBaseService_Ingest_UpsertFailureCompensates(t *testing.T) {
	// A failed upsert triggers a delete-by-document so no partial
	// chunk set survives.
	svc, deps := newTestService(t)
	deps.store.upsertErr = errors.New("disk full")

	_, err := svc.Ingest(context.Background(), &domain.RawDocument{
		Name:    "notes.txt",
		Content: []byte("some text"),
	})

	assert.ErrorIs(t, err, domain.ErrVectorStore)
	assert.Equal(t, "notes.txt", deps.store.deletedDoc)
}

func TestKnowledgeBaseService_Ingest_ConcurrentSameName(t *testing.T) {
	svc, _ := newTestService(t)
	raw := &domain.RawDocument{Name: "notes.txt", Content: []byte("text")}

	require.NoError(t, svc.acquireIngest(raw.Name))
	defer svc.releaseIngest(raw.Name)

	_, err := svc.Ingest(context.Background(), raw)

	assert.ErrorIs(t, err, domain.ErrIngestInProgress)
}

func TestKnowledgeBaseService_Ingest_DistinctNamesInParallel(t *testing.T) {
	svc, deps := newTestService(t)
	deps.store.docs = nil

	var wg sync.WaitGroup
	errs := make([]error, 2)
	names := []string{"a.txt", "b.txt"}
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			_, errs[i] = svc.Ingest(context.Background(), &domain.RawDocument{
				Name:    name,
				Content: []byte("text for " + name),
			})
		}(i, name)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
}

func TestKnowledgeBaseService_Ingest_ReleasesGuardOnFailure(t *testing.T) {
	svc, deps := newTestService(t)
	deps.embedder.embedErr = errors.New("boom")
	raw := &domain.RawDocument{Name: "notes.txt", Content: []byte("text")}

	_, err := svc.Ingest(context.Background(), raw)
	require.Error(t, err)

	// The in-flight marker must be released so a retry can proceed.
	deps.embedder.embedErr = nil
	_, err = svc.Ingest(context.Background(), raw)
	require.NoError(t, err)
}

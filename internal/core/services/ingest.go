package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/logger"
)

// Ingest extracts, chunks, embeds and indexes a document as one
// logical unit.
//
// All chunks are embedded before anything is written to the store, so
// an embedding failure or cancellation leaves no partial chunk set
// behind. Should the upsert itself fail partway, a compensating
// delete-by-document runs before the error is surfaced.
func (s *KnowledgeBaseService) Ingest(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil || raw.Name == "" {
		return nil, fmt.Errorf("%w: missing document name", domain.ErrInvalidInput)
	}
	if len(raw.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document %q", domain.ErrInvalidInput, raw.Name)
	}

	logger.Section("Ingest")
	logger.Debug("Document: %q (%d bytes)", raw.Name, len(raw.Content))

	if err := s.acquireIngest(raw.Name); err != nil {
		return nil, err
	}
	defer s.releaseIngest(raw.Name)

	// Documents are immutable once indexed; re-ingestion under an
	// existing name is rejected, not merged.
	existing, err := s.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	for _, info := range existing {
		if info.Name == raw.Name {
			return nil, fmt.Errorf("%w: document %q", domain.ErrAlreadyExists, raw.Name)
		}
	}

	extractor, err := s.extractors.ForDocument(raw)
	if err != nil {
		return nil, err
	}
	logger.Debug("Format: %s", extractor.Format())

	segments, err := extractor.Extract(ctx, raw)
	if err != nil {
		return nil, err
	}
	logger.Debug("Extracted %d segment(s)", len(segments))

	chunks, err := s.chunker.Chunk(raw.Name, segments)
	if err != nil {
		return nil, err
	}
	logger.Info("Chunked %q into %d chunk(s)", raw.Name, len(chunks))

	if err := s.embedChunks(ctx, chunks); err != nil {
		return nil, err
	}

	if err := s.upsertChunks(ctx, raw.Name, chunks); err != nil {
		return nil, err
	}

	logger.Info("Indexed %q: %d chunks", raw.Name, len(chunks))

	return &domain.Document{
		ID:         uuid.New().String(),
		Name:       raw.Name,
		Format:     extractor.Format(),
		ChunkCount: len(chunks),
		IngestedAt: now(),
	}, nil
}

// embedChunks embeds every chunk in one batch and attaches the vectors.
func (s *KnowledgeBaseService) embedChunks(ctx context.Context, chunks []domain.Chunk) error {
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Content
	}

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	vectors, err := s.embedder.EmbedBatch(callCtx, texts)
	if err != nil {
		return serviceError(err, domain.ErrEmbeddingService, "embed chunks")
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: got %d vectors for %d chunks",
			domain.ErrEmbeddingService, len(vectors), len(chunks))
	}

	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}
	return nil
}

// upsertChunks writes the fully embedded chunk set, compensating with
// a delete-by-document if the write fails partway.
func (s *KnowledgeBaseService) upsertChunks(ctx context.Context, documentName string, chunks []domain.Chunk) error {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	if err := s.store.UpsertChunks(callCtx, chunks); err != nil {
		logger.Warn("Upsert failed for %q, removing partial chunks: %v", documentName, err)

		// Compensation runs on a fresh context: the original may
		// already be cancelled, and a half-upserted document must not
		// survive cancellation.
		cleanupCtx, cleanupCancel := s.callContext(context.WithoutCancel(ctx))
		defer cleanupCancel()
		if _, cleanupErr := s.store.DeleteByDocument(cleanupCtx, documentName); cleanupErr != nil {
			logger.Warn("Compensating delete for %q failed: %v", documentName, cleanupErr)
		}

		return serviceError(err, domain.ErrVectorStore, "upsert chunks")
	}
	return nil
}

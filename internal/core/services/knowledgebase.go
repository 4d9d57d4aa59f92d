package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driving"
	"github.com/docsage-labs/docsage-cli/internal/logger"
)

// Ensure KnowledgeBaseService implements the interface.
var _ driving.KnowledgeBase = (*KnowledgeBaseService)(nil)

// Chunker turns extracted segments into token-bounded chunks.
type Chunker interface {
	Chunk(documentName string, segments []domain.Segment) ([]domain.Chunk, error)
}

// KnowledgeBaseService orchestrates ingestion and grounded querying.
// It is the one place where the grounding and citation invariants are
// enforced.
type KnowledgeBaseService struct {
	extractors driven.ExtractorRegistry
	chunker    Chunker
	embedder   driven.EmbeddingService
	store      driven.VectorStore
	generator  driven.GenerationService
	settings   domain.Settings

	// inFlight serialises ingestion per document name. Ingestion of
	// different documents proceeds in parallel; a concurrent ingest of
	// the same name is rejected rather than interleaved.
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewKnowledgeBaseService creates the knowledge-base service.
// Settings must already be validated.
func NewKnowledgeBaseService(
	extractors driven.ExtractorRegistry,
	chunker Chunker,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	generator driven.GenerationService,
	settings domain.Settings,
) *KnowledgeBaseService {
	return &KnowledgeBaseService{
		extractors: extractors,
		chunker:    chunker,
		embedder:   embedder,
		store:      store,
		generator:  generator,
		settings:   settings,
		inFlight:   make(map[string]struct{}),
	}
}

// Remove deletes a document and all its chunks. Idempotent: removing
// an already-absent document is not an error.
func (s *KnowledgeBaseService) Remove(ctx context.Context, documentName string) error {
	if documentName == "" {
		return domain.ErrInvalidInput
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	deleted, err := s.store.DeleteByDocument(ctx, documentName)
	if err != nil {
		return serviceError(err, domain.ErrVectorStore, "delete document")
	}

	logger.Info("Removed %q (%d chunks)", documentName, deleted)
	return nil
}

// ResetAll clears the whole knowledge base.
func (s *KnowledgeBaseService) ResetAll(ctx context.Context) error {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	if err := s.store.DeleteAll(ctx); err != nil {
		return serviceError(err, domain.ErrVectorStore, "reset knowledge base")
	}

	logger.Info("Knowledge base reset")
	return nil
}

// ListDocuments returns indexed document names with chunk counts.
func (s *KnowledgeBaseService) ListDocuments(ctx context.Context) ([]domain.DocumentInfo, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	docs, err := s.store.ListDocuments(ctx)
	if err != nil {
		return nil, serviceError(err, domain.ErrVectorStore, "list documents")
	}
	return docs, nil
}

// callContext bounds a single external call by the configured timeout.
func (s *KnowledgeBaseService) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.settings.RequestTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.settings.RequestTimeout)
}

// acquireIngest marks a document name as being ingested.
func (s *KnowledgeBaseService) acquireIngest(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inFlight[name]; busy {
		return fmt.Errorf("%w: %q", domain.ErrIngestInProgress, name)
	}
	s.inFlight[name] = struct{}{}
	return nil
}

// releaseIngest clears the in-flight marker for a document name.
func (s *KnowledgeBaseService) releaseIngest(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, name)
}

// serviceError wraps an infrastructure failure with the matching
// domain sentinel, keeping the adapter's operator-actionable detail.
// Deadline expiry maps to ErrTimeout so callers can tell a retryable
// timeout from an authentication or validation failure.
func serviceError(err error, sentinel error, op string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", domain.ErrTimeout, op, err)
	}
	if errors.Is(err, sentinel) || errors.Is(err, domain.ErrTimeout) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, sentinel, err)
}

// now is stubbed in tests.
var now = time.Now

package services

import (
	"context"
	"fmt"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
	"github.com/docsage-labs/docsage-cli/internal/logger"
)

// Answer retrieves the most relevant chunks for the question and
// produces a grounded answer with validated citations.
//
// The empty-knowledge-base and below-threshold branches return fixed
// responses without touching the embedding or generation services;
// relevance thresholding is deterministic and independent of generator
// behaviour.
func (s *KnowledgeBaseService) Answer(ctx context.Context, question string, opts domain.QueryOptions) (*domain.Answer, error) {
	logger.Section("Answer")
	logger.Debug("Question: %q", question)

	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	topK, err := s.resolveTopK(opts.TopK)
	if err != nil {
		return nil, err
	}
	logger.Debug("TopK: %d, filter: %q", topK, opts.DocumentFilter)

	docs, err := s.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		logger.Info("Knowledge base empty, returning fixed response")
		return &domain.Answer{Text: domain.NoDocumentsResponse}, nil
	}

	vector, err := s.embedQuestion(ctx, question)
	if err != nil {
		return nil, err
	}

	retrieved, err := s.retrieve(ctx, vector, topK, opts.DocumentFilter)
	if err != nil {
		return nil, err
	}
	logger.Debug("Retrieved %d chunk(s)", len(retrieved.Chunks))

	relevant := s.aboveThreshold(retrieved)
	if len(relevant.Chunks) == 0 {
		logger.Info("No chunk above threshold %.2f, returning not-found response",
			s.settings.Retrieval.MinScore)
		return &domain.Answer{Text: domain.NotFoundResponse}, nil
	}

	answer, err := s.generate(ctx, question, relevant)
	if err != nil {
		return nil, err
	}

	return answer, nil
}

// resolveTopK applies the configured default and bounds.
func (s *KnowledgeBaseService) resolveTopK(topK int) (int, error) {
	if topK == 0 {
		return s.settings.Retrieval.TopK, nil
	}
	if topK < 1 || topK > domain.MaxTopK {
		return 0, fmt.Errorf("%w: top_k must be in [1, %d], got %d",
			domain.ErrInvalidInput, domain.MaxTopK, topK)
	}
	return topK, nil
}

// embedQuestion embeds the question text.
func (s *KnowledgeBaseService) embedQuestion(ctx context.Context, question string) ([]float32, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	vector, err := s.embedder.Embed(callCtx, question)
	if err != nil {
		return nil, serviceError(err, domain.ErrEmbeddingService, "embed question")
	}
	return vector, nil
}

// retrieve runs the top-K similarity query.
func (s *KnowledgeBaseService) retrieve(ctx context.Context, vector []float32, topK int, filter string) (domain.RetrievalResult, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	chunks, err := s.store.Query(callCtx, vector, topK, filter)
	if err != nil {
		return domain.RetrievalResult{}, serviceError(err, domain.ErrVectorStore, "similarity query")
	}
	return domain.RetrievalResult{Chunks: chunks}, nil
}

// aboveThreshold keeps the chunks whose score clears the configured
// relevance threshold, preserving descending-score order.
func (s *KnowledgeBaseService) aboveThreshold(retrieved domain.RetrievalResult) domain.RetrievalResult {
	var kept []domain.ScoredChunk
	for _, sc := range retrieved.Chunks {
		if sc.Score >= s.settings.Retrieval.MinScore {
			kept = append(kept, sc)
		}
	}
	return domain.RetrievalResult{Chunks: kept}
}

// generate invokes the generation service and post-processes its
// untrusted output into a validated Answer.
func (s *KnowledgeBaseService) generate(ctx context.Context, question string, retrieved domain.RetrievalResult) (*domain.Answer, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	text, err := s.generator.Generate(callCtx, driven.GenerateRequest{
		SystemInstruction: systemInstruction,
		Context:           buildContext(retrieved.Chunks),
		Question:          question,
		Temperature:       s.settings.Retrieval.Temperature,
	})
	if err != nil {
		return nil, serviceError(err, domain.ErrGenerationService, "generate answer")
	}

	// The generator may report in prose that the context lacked the
	// answer; normalise that to the fixed response with no citations.
	if isNoInfoResponse(text) {
		logger.Info("Generator reported no answer in context")
		return &domain.Answer{Text: domain.NotFoundResponse, Sources: retrieved.Chunks}, nil
	}

	citations, dropped := extractCitations(text, retrieved.Chunks)
	if dropped > 0 {
		logger.Warn("Dropped %d citation(s) referencing unretrieved sources", dropped)
	}

	return &domain.Answer{
		Text:             text,
		Citations:        citations,
		Sources:          retrieved.Chunks,
		DroppedCitations: dropped,
	}, nil
}

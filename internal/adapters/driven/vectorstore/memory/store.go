// Package memory provides an in-memory vector store.
//
// It holds chunks in a map guarded by a mutex and scores queries by
// brute-force cosine similarity. Nothing is persisted; intended for
// tests and short-lived sessions.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is an in-memory vector store.
type Store struct {
	mu     sync.RWMutex
	chunks map[string]domain.Chunk
}

// NewStore creates an empty in-memory vector store.
func NewStore() *Store {
	return &Store{
		chunks: make(map[string]domain.Chunk),
	}
}

// UpsertChunks stores chunks keyed by chunk ID.
func (s *Store) UpsertChunks(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range chunks {
		s.chunks[ch.ID] = ch
	}
	return nil
}

// DeleteByDocument removes all chunks for the named document.
func (s *Store) DeleteByDocument(_ context.Context, documentName string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, ch := range s.chunks {
		if ch.DocumentName == documentName {
			delete(s.chunks, id)
			deleted++
		}
	}
	return deleted, nil
}

// DeleteAll removes every chunk.
func (s *Store) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chunks = make(map[string]domain.Chunk)
	return nil
}

// Query returns up to k chunks by descending cosine similarity.
func (s *Store) Query(_ context.Context, vector []float32, k int, documentFilter string) ([]domain.ScoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var scored []domain.ScoredChunk
	for _, ch := range s.chunks {
		if documentFilter != "" && ch.DocumentName != documentFilter {
			continue
		}
		scored = append(scored, domain.ScoredChunk{
			Chunk: ch,
			Score: CosineSimilarity(vector, ch.Embedding),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		// Stable order for equal scores.
		return scored[i].Chunk.ID < scored[j].Chunk.ID
	})

	if k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

// ListDocuments returns indexed document names with chunk counts,
// sorted by name.
func (s *Store) ListDocuments(_ context.Context) ([]domain.DocumentInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, ch := range s.chunks {
		counts[ch.DocumentName]++
	}

	docs := make([]domain.DocumentInfo, 0, len(counts))
	for name, count := range counts {
		docs = append(docs, domain.DocumentInfo{Name: name, ChunkCount: count})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// CosineSimilarity computes the cosine similarity of two vectors.
// Mismatched lengths and zero vectors score zero rather than erroring;
// a corrupt or absent embedding should rank last, not break the query.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

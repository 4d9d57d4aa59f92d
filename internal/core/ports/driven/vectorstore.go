package driven

import (
	"context"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

// VectorStore persists chunks with their embeddings and serves
// k-nearest-neighbour queries by cosine similarity.
//
// The store is the sole source of truth for persisted chunks; the core
// holds no independent persistent cache. Implementations must make
// upserted chunks visible to an immediately following Query. Where a
// backing service has indexing lag, the retrieval-freshness guarantee
// is correspondingly relaxed; that relaxation belongs in the adapter's
// documentation, never silently assumed.
//
// A query racing an in-flight ingestion of the same document may
// observe a partial or absent chunk set. This is an accepted
// eventual-consistency boundary, not a correctness bug.
type VectorStore interface {
	// UpsertChunks stores chunks with their embeddings. All chunks for
	// one document are upserted in a single call after every embedding
	// succeeded, so no partial chunk set survives an earlier failure.
	UpsertChunks(ctx context.Context, chunks []domain.Chunk) error

	// DeleteByDocument removes all chunks for the named document and
	// returns how many were deleted. Deleting an absent document is
	// not an error.
	DeleteByDocument(ctx context.Context, documentName string) (int, error)

	// DeleteAll removes every chunk in the store.
	DeleteAll(ctx context.Context) error

	// Query returns up to k chunks ordered by descending cosine
	// similarity to the vector. A non-empty documentFilter restricts
	// results to that document name.
	Query(ctx context.Context, vector []float32, k int, documentFilter string) ([]domain.ScoredChunk, error)

	// ListDocuments returns the indexed document names with their
	// chunk counts.
	ListDocuments(ctx context.Context) ([]domain.DocumentInfo, error)

	// Close releases resources.
	Close() error
}

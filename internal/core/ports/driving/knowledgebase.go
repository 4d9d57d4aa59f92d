package driving

import (
	"context"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

// KnowledgeBase is the entire contract the UI/collaborator layer is
// allowed to depend on.
type KnowledgeBase interface {
	// Ingest extracts, chunks, embeds and indexes a document as one
	// logical unit. On any failure partway through, no partial chunk
	// set is left indexed for that document.
	Ingest(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error)

	// Remove deletes a document and all its chunks. Idempotent:
	// removing an already-absent document is not an error.
	Remove(ctx context.Context, documentName string) error

	// ResetAll clears the whole knowledge base.
	ResetAll(ctx context.Context) error

	// ListDocuments returns indexed document names with chunk counts.
	ListDocuments(ctx context.Context) ([]domain.DocumentInfo, error)

	// Answer retrieves the most relevant chunks for the question and
	// produces a grounded answer with validated citations.
	Answer(ctx context.Context, question string, opts domain.QueryOptions) (*domain.Answer, error)
}

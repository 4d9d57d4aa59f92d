package driven

import (
	"context"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

// Extractor converts raw document bytes into an ordered sequence of
// text segments tagged with location markers. Each extractor handles
// one source format (PDF, DOCX, Markdown, plain text).
type Extractor interface {
	// Format returns the canonical format name (e.g. "pdf").
	Format() string

	// Extensions returns the file extensions this extractor handles,
	// lowercased and including the dot (e.g. ".pdf").
	Extensions() []string

	// Extract produces the segment sequence for a raw document.
	// Returns domain.ErrNoContent when the document contains no
	// non-whitespace text (e.g. an image-only PDF).
	Extract(ctx context.Context, raw *domain.RawDocument) ([]domain.Segment, error)
}

// ExtractorRegistry selects the extractor for a raw document.
// Selection is a pure function of file extension plus content
// sniffing, not runtime type inspection.
type ExtractorRegistry interface {
	// ForDocument returns the extractor responsible for the document.
	// Returns domain.ErrUnsupportedFormat when no extractor matches.
	ForDocument(raw *domain.RawDocument) (Extractor, error)
}

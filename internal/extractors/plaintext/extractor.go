// Package plaintext extracts plain text documents as a single segment.
package plaintext

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// WholeDocumentLocation marks a segment covering an entire file.
const WholeDocumentLocation = "full document"

// Extractor handles plain text documents. The whole file becomes one
// segment; there is no finer location structure to preserve.
type Extractor struct{}

// New creates a plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Format returns the canonical format name.
func (e *Extractor) Format() string {
	return "text"
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".txt", ".text", ".log"}
}

// Extract returns the file content as a single located segment.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawDocument) ([]domain.Segment, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text := decode(raw.Content)
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrNoContent
	}

	return []domain.Segment{{Text: text, Location: WholeDocumentLocation}}, nil
}

// decode interprets bytes as UTF-8, falling back to Latin-1 for
// legacy files that do not validate.
func decode(content []byte) string {
	if utf8.Valid(content) {
		return string(content)
	}

	runes := make([]rune, len(content))
	for i, b := range content {
		runes[i] = rune(b)
	}
	return string(runes)
}

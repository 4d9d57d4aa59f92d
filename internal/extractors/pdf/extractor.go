// Package pdf extracts PDF documents page by page so that page
// numbers survive into location markers and citations.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PDF documents.
type Extractor struct{}

// New creates a PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Format returns the canonical format name.
func (e *Extractor) Format() string {
	return "pdf"
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".pdf"}
}

// Extract produces one segment per page carrying text. An image-only
// PDF yields domain.ErrNoContent rather than an empty document, so
// callers can tell the two apart.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawDocument) ([]domain.Segment, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := pdf.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a valid PDF", domain.ErrInvalidInput)
	}

	var segments []domain.Segment
	total := reader.NumPage()

	for pageNum := 1; pageNum <= total; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page does not fail the document;
			// remaining pages may still carry text.
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		segments = append(segments, domain.Segment{
			Text:     text,
			Location: fmt.Sprintf("page %d", pageNum),
		})
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: PDF has %d page(s) but no extractable text", domain.ErrNoContent, total)
	}

	return segments, nil
}

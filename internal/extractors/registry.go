package extractors

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
	"github.com/docsage-labs/docsage-cli/internal/extractors/docx"
	"github.com/docsage-labs/docsage-cli/internal/extractors/markdown"
	"github.com/docsage-labs/docsage-cli/internal/extractors/pdf"
	"github.com/docsage-labs/docsage-cli/internal/extractors/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps file extensions to extractors.
type Registry struct {
	byExtension map[string]driven.Extractor
}

// NewRegistry creates a registry with the given extractors.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{byExtension: make(map[string]driven.Extractor)}
	for _, e := range extractors {
		for _, ext := range e.Extensions() {
			r.byExtension[strings.ToLower(ext)] = e
		}
	}
	return r
}

// NewDefaultRegistry creates a registry with all built-in extractors.
func NewDefaultRegistry() *Registry {
	return NewRegistry(
		pdf.New(),
		docx.New(),
		markdown.New(),
		plaintext.New(),
	)
}

// Magic byte prefixes used for content sniffing when the extension is
// absent or ambiguous.
var (
	pdfMagic = []byte("%PDF-")
	zipMagic = []byte("PK\x03\x04")
)

// ForDocument returns the extractor responsible for the document.
// The declared format wins; otherwise the file extension decides,
// with content sniffing covering extension-less uploads.
func (r *Registry) ForDocument(raw *domain.RawDocument) (driven.Extractor, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	ext := strings.ToLower(raw.Format)
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(raw.Name))
	}
	if ext == "" {
		ext = sniffExtension(raw.Content)
	}

	if e, ok := r.byExtension[ext]; ok {
		return e, nil
	}

	return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
}

// sniffExtension guesses an extension from leading magic bytes.
func sniffExtension(content []byte) string {
	switch {
	case bytes.HasPrefix(content, pdfMagic):
		return ".pdf"
	case bytes.HasPrefix(content, zipMagic):
		return ".docx"
	default:
		return ".txt"
	}
}

package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

func TestForDocument(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		name       string
		doc        domain.RawDocument
		wantFormat string
	}{
		{
			name:       "pdf by extension",
			doc:        domain.RawDocument{Name: "paper.pdf"},
			wantFormat: "pdf",
		},
		{
			name:       "docx by extension",
			doc:        domain.RawDocument{Name: "report.DOCX"},
			wantFormat: "docx",
		},
		{
			name:       "markdown by extension",
			doc:        domain.RawDocument{Name: "README.md"},
			wantFormat: "markdown",
		},
		{
			name:       "text by extension",
			doc:        domain.RawDocument{Name: "notes.txt"},
			wantFormat: "text",
		},
		{
			name:       "declared format wins over extension",
			doc:        domain.RawDocument{Name: "odd-name.bin", Format: ".md"},
			wantFormat: "markdown",
		},
		{
			name:       "pdf by magic bytes without extension",
			doc:        domain.RawDocument{Name: "upload", Content: []byte("%PDF-1.7 ...")},
			wantFormat: "pdf",
		},
		{
			name:       "zip magic without extension is docx",
			doc:        domain.RawDocument{Name: "upload", Content: []byte("PK\x03\x04rest")},
			wantFormat: "docx",
		},
		{
			name:       "unknown bytes without extension fall back to text",
			doc:        domain.RawDocument{Name: "upload", Content: []byte("hello world")},
			wantFormat: "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := r.ForDocument(&tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormat, e.Format())
		})
	}
}

func TestForDocument_Unsupported(t *testing.T) {
	r := NewDefaultRegistry()

	_, err := r.ForDocument(&domain.RawDocument{Name: "photo.png"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestForDocument_NilInput(t *testing.T) {
	r := NewDefaultRegistry()

	_, err := r.ForDocument(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

func TestExtract(t *testing.T) {
	e := New()

	t.Run("splits on headings with titles", func(t *testing.T) {
		content := `# Introduction

This paper introduces the method.

## Background

Earlier work covered the basics.
`
		raw := &domain.RawDocument{Name: "paper.md", Content: []byte(content)}

		segments, err := e.Extract(context.Background(), raw)
		require.NoError(t, err)
		require.Len(t, segments, 2)

		assert.Equal(t, "section 1 'Introduction'", segments[0].Location)
		assert.Contains(t, segments[0].Text, "introduces the method")
		assert.Equal(t, "section 2 'Background'", segments[1].Location)
		assert.Contains(t, segments[1].Text, "Earlier work")
	})

	t.Run("content before first heading", func(t *testing.T) {
		content := "A preamble paragraph.\n\n# Details\n\nThe details follow."
		raw := &domain.RawDocument{Name: "doc.md", Content: []byte(content)}

		segments, err := e.Extract(context.Background(), raw)
		require.NoError(t, err)
		require.Len(t, segments, 2)
		assert.Equal(t, "section 1", segments[0].Location)
		assert.Equal(t, "A preamble paragraph.", segments[0].Text)
		assert.Equal(t, "section 2 'Details'", segments[1].Location)
	})

	t.Run("no headings becomes full document", func(t *testing.T) {
		raw := &domain.RawDocument{Name: "plain.md", Content: []byte("Just some text without structure.")}

		segments, err := e.Extract(context.Background(), raw)
		require.NoError(t, err)
		require.Len(t, segments, 1)
		assert.Equal(t, "full document", segments[0].Location)
	})

	t.Run("formatting stripped", func(t *testing.T) {
		content := "# Title\n\nSome **bold** text with a [link](https://example.com) and `code`."
		raw := &domain.RawDocument{Name: "fmt.md", Content: []byte(content)}

		segments, err := e.Extract(context.Background(), raw)
		require.NoError(t, err)
		require.Len(t, segments, 1)
		assert.Contains(t, segments[0].Text, "Some bold text with a link and")
		assert.NotContains(t, segments[0].Text, "**")
		assert.NotContains(t, segments[0].Text, "https://example.com")
	})

	t.Run("empty document", func(t *testing.T) {
		raw := &domain.RawDocument{Name: "empty.md", Content: []byte("")}

		_, err := e.Extract(context.Background(), raw)
		assert.ErrorIs(t, err, domain.ErrNoContent)
	})

	t.Run("nil input", func(t *testing.T) {
		_, err := e.Extract(context.Background(), nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestExtensions(t *testing.T) {
	e := New()
	assert.ElementsMatch(t, []string{".md", ".markdown"}, e.Extensions())
	assert.Equal(t, "markdown", e.Format())
}

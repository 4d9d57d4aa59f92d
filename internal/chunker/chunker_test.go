package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/tokenizer"
)

func TestNew(t *testing.T) {
	tok := tokenizer.NewHeuristic()

	t.Run("default values", func(t *testing.T) {
		c := New(tok)
		if c.min != DefaultMinTokens {
			t.Errorf("expected min %d, got %d", DefaultMinTokens, c.min)
		}
		if c.max != DefaultMaxTokens {
			t.Errorf("expected max %d, got %d", DefaultMaxTokens, c.max)
		}
		if c.overlap != DefaultOverlapTokens {
			t.Errorf("expected overlap %d, got %d", DefaultOverlapTokens, c.overlap)
		}
	})

	t.Run("custom bounds", func(t *testing.T) {
		c := New(tok, WithBounds(30, 80), WithOverlap(10))
		if c.min != 30 || c.max != 80 || c.overlap != 10 {
			t.Errorf("unexpected config: min=%d max=%d overlap=%d", c.min, c.max, c.overlap)
		}
	})

	t.Run("overlap exceeding lower bound is clamped", func(t *testing.T) {
		c := New(tok, WithBounds(40, 80), WithOverlap(60))
		if c.overlap >= c.min {
			t.Errorf("overlap %d should be clamped below min %d", c.overlap, c.min)
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		c := New(tok, WithBounds(0, 0), WithOverlap(-1))
		if c.min != DefaultMinTokens || c.max != DefaultMaxTokens {
			t.Errorf("expected defaults, got min=%d max=%d", c.min, c.max)
		}
	})
}

// proseSegment builds a segment of n short sentences under one location.
func proseSegment(location string, n int) domain.Segment {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "The quick brown fox jumps over the lazy dog number %d. ", i)
	}
	return domain.Segment{Text: b.String(), Location: location}
}

func TestChunk_TokenBounds(t *testing.T) {
	tok := tokenizer.NewHeuristic()
	c := New(tok, WithBounds(40, 80), WithOverlap(10))

	chunks, err := c.Chunk("paper.pdf", []domain.Segment{proseSegment("page 1", 30)})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, ch := range chunks {
		if i < len(chunks)-1 {
			assert.GreaterOrEqual(t, ch.TokenCount, 40, "chunk %d below lower bound", i)
		}
		assert.LessOrEqual(t, ch.TokenCount, 80, "chunk %d above upper bound", i)
	}
}

func TestChunk_ShortOpenerBeforeLongSentence(t *testing.T) {
	tok := tokenizer.NewHeuristic()
	c := New(tok, WithBounds(40, 80), WithOverlap(10))

	// A long sentence arriving while the accumulation is still tiny
	// must not close an undersized chunk; the sentence is split to
	// fill the chunk to the upper bound instead.
	long := "It " + strings.Repeat("really ", 74) + "works."
	text := "Tiny opener sentence here. " + long

	chunks, err := c.Chunk("paper.pdf", []domain.Segment{{Text: text, Location: "page 1"}})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, ch := range chunks {
		if i < len(chunks)-1 {
			assert.GreaterOrEqual(t, ch.TokenCount, 40, "chunk %d below lower bound", i)
		}
		assert.LessOrEqual(t, ch.TokenCount, 80, "chunk %d above upper bound", i)
	}

	assert.True(t, strings.HasPrefix(chunks[0].Content, "Tiny opener sentence here."))
	assert.True(t, strings.HasSuffix(chunks[len(chunks)-1].Content, "works."))
}

func TestChunk_Overlap(t *testing.T) {
	tok := tokenizer.NewHeuristic()
	c := New(tok, WithBounds(40, 80), WithOverlap(12))

	chunks, err := c.Chunk("paper.pdf", []domain.Segment{proseSegment("page 1", 30)})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		// The next chunk starts with a trailing sentence of the
		// previous chunk (sentence-boundary rounding of the window).
		firstSentence := strings.SplitAfter(chunks[i].Content, ". ")[0]
		assert.Contains(t, prev.Content, strings.TrimSpace(firstSentence),
			"chunk %d does not overlap its predecessor", i)
	}
}

func TestChunk_Ordering(t *testing.T) {
	tok := tokenizer.NewHeuristic()
	c := New(tok, WithBounds(40, 80), WithOverlap(10))

	chunks, err := c.Chunk("paper.pdf", []domain.Segment{proseSegment("page 1", 25)})
	require.NoError(t, err)

	for i, ch := range chunks {
		assert.Equal(t, i, ch.Index)
		assert.Equal(t, fmt.Sprintf("paper.pdf:%d", i), ch.ID)
		assert.Equal(t, "paper.pdf", ch.DocumentName)
	}
}

func TestChunk_ShortDocument(t *testing.T) {
	tok := tokenizer.NewHeuristic()
	c := New(tok, WithBounds(500, 1000), WithOverlap(100))

	seg := domain.Segment{Text: "A tiny document. It has two sentences.", Location: "full document"}
	chunks, err := c.Chunk("note.txt", []domain.Segment{seg})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "A tiny document. It has two sentences.", chunks[0].Content)
	assert.Equal(t, "full document", chunks[0].Location)
	assert.Equal(t, 0, chunks[0].Index)
}

func TestChunk_LocationRange(t *testing.T) {
	tok := tokenizer.NewHeuristic()
	c := New(tok, WithBounds(40, 80), WithOverlap(0))

	segments := []domain.Segment{
		proseSegment("page 1", 4),
		proseSegment("page 2", 4),
	}
	chunks, err := c.Chunk("paper.pdf", segments)
	require.NoError(t, err)

	var spanning bool
	for _, ch := range chunks {
		if ch.Location == "page 1-2" {
			spanning = true
		}
	}
	assert.True(t, spanning, "expected a chunk spanning page 1-2, got %+v", chunks)
}

func TestChunk_NoSentenceBoundaries(t *testing.T) {
	tok := tokenizer.NewHeuristic()
	c := New(tok, WithBounds(20, 40), WithOverlap(5))

	// A code block with no terminal punctuation falls back to fixed
	// token windows.
	words := strings.Repeat("func main() { fmt_Println(x) }\n", 20)
	words = strings.ReplaceAll(words, ".", "")
	chunks, err := c.Chunk("snippet.txt", []domain.Segment{{Text: words, Location: "full document"}})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for i, ch := range chunks {
		assert.LessOrEqual(t, ch.TokenCount, 40, "window chunk %d above upper bound", i)
	}
}

func TestChunk_EmptyInput(t *testing.T) {
	tok := tokenizer.NewHeuristic()
	c := New(tok)

	t.Run("no segments", func(t *testing.T) {
		_, err := c.Chunk("empty.txt", nil)
		assert.ErrorIs(t, err, domain.ErrNoContent)
	})

	t.Run("whitespace only", func(t *testing.T) {
		_, err := c.Chunk("empty.txt", []domain.Segment{{Text: "   \n\t  ", Location: "full document"}})
		assert.ErrorIs(t, err, domain.ErrNoContent)
	})

	t.Run("missing document name", func(t *testing.T) {
		_, err := c.Chunk("", []domain.Segment{{Text: "content.", Location: "full document"}})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "simple sentences",
			text: "First sentence. Second sentence! Third?",
			want: []string{"First sentence.", "Second sentence!", "Third?"},
		},
		{
			name: "no terminator",
			text: "just a fragment without punctuation",
			want: []string{"just a fragment without punctuation"},
		},
		{
			name: "trailing fragment",
			text: "Complete sentence. trailing bit",
			want: []string{"Complete sentence.", "trailing bit"},
		},
		{
			name: "ellipsis",
			text: "Wait... Then what?",
			want: []string{"Wait...", "Then what?"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitSentences(tt.text))
		})
	}
}

func TestLocationRange(t *testing.T) {
	tests := []struct {
		first, last, want string
	}{
		{"page 1", "page 1", "page 1"},
		{"page 1", "page 3", "page 1-3"},
		{"section 1 'Intro'", "section 2 'Background'", "section 1 'Intro' - section 2 'Background'"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, locationRange(tt.first, tt.last))
	}
}

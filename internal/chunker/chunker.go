// Package chunker splits extracted document segments into overlapping,
// token-bounded chunks along sentence boundaries.
package chunker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
)

// Default token bounds, tuned for embedding-model context windows.
const (
	DefaultMinTokens     = 500
	DefaultMaxTokens     = 1000
	DefaultOverlapTokens = 100
)

// sentencePattern matches sentences ending in terminal punctuation.
var sentencePattern = regexp.MustCompile(`[^.!?]*[.!?]+['")\]]*\s*`)

// Chunker accumulates sentences into token-bounded chunks.
// The same Tokenizer must be used here and wherever chunk bounds are
// checked; mismatched tokenizers silently break the bound invariant.
type Chunker struct {
	tok     driven.Tokenizer
	min     int
	max     int
	overlap int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithBounds sets the lower and upper token bounds.
func WithBounds(minTokens, maxTokens int) Option {
	return func(c *Chunker) {
		if minTokens > 0 {
			c.min = minTokens
		}
		if maxTokens > 0 {
			c.max = maxTokens
		}
	}
}

// WithOverlap sets the overlap token count between adjacent chunks.
func WithOverlap(tokens int) Option {
	return func(c *Chunker) {
		if tokens >= 0 {
			c.overlap = tokens
		}
	}
}

// New creates a chunker using the given tokenizer.
func New(tok driven.Tokenizer, opts ...Option) *Chunker {
	c := &Chunker{
		tok:     tok,
		min:     DefaultMinTokens,
		max:     DefaultMaxTokens,
		overlap: DefaultOverlapTokens,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must leave room for new content in every chunk.
	if c.overlap >= c.min {
		c.overlap = c.min / 4
	}
	if c.max < c.min {
		c.max = c.min
	}

	return c
}

// sentence is a sentence with the location marker it was extracted under.
type sentence struct {
	text     string
	tokens   int
	location string
}

// Chunk transforms the extractor's segment sequence into chunks for
// the named document.
//
// Sentences are accumulated greedily up to the upper token bound; the
// next chunk is seeded with the trailing sentences of the previous one
// totalling at least the configured overlap. Every chunk but the last
// holds at least the lower bound, splitting a sentence mid-way when
// closing on its boundary would leave the chunk undersized. A document
// shorter than the lower bound produces exactly one chunk with no
// overlap. Chunks spanning multiple location markers record the range,
// e.g. "page 1-2".
func (c *Chunker) Chunk(documentName string, segments []domain.Segment) ([]domain.Chunk, error) {
	if documentName == "" {
		return nil, domain.ErrInvalidInput
	}

	queue := c.collectSentences(segments)
	if len(queue) == 0 {
		return nil, domain.ErrNoContent
	}

	var chunks []domain.Chunk
	var current []sentence
	currentTokens := 0

	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]

		if len(current) > 0 && currentTokens+s.tokens > c.max {
			// An accumulation still under the lower bound must not be
			// closed early. Fill it to the upper bound with the head
			// of the incoming sentence and requeue the rest.
			if currentTokens < c.min {
				head, tail := c.splitSentence(s, c.max-currentTokens)
				if head.text != "" {
					current = append(current, head)
					currentTokens += head.tokens
				}
				chunks = append(chunks, c.buildChunk(documentName, len(chunks), current))
				current = nil
				currentTokens = 0
				if tail.text != "" {
					queue = append([]sentence{tail}, queue...)
				}
				continue
			}

			chunks = append(chunks, c.buildChunk(documentName, len(chunks), current))

			// Seed the next chunk with trailing sentences covering
			// the overlap window. The seed gives way entirely when it
			// would leave no room for the incoming sentence.
			current = c.overlapTail(current)
			currentTokens = 0
			for _, seeded := range current {
				currentTokens += seeded.tokens
			}
			if currentTokens+s.tokens > c.max {
				current = nil
				currentTokens = 0
			}
		}
		current = append(current, s)
		currentTokens += s.tokens
	}

	if len(current) > 0 {
		chunks = append(chunks, c.buildChunk(documentName, len(chunks), current))
	}

	return chunks, nil
}

// collectSentences splits every segment into sentences tagged with the
// segment's location marker. Sentences longer than the upper bound are
// broken into fixed-size token windows, as is a segment with no
// detectable sentence boundaries (e.g. a code block).
func (c *Chunker) collectSentences(segments []domain.Segment) []sentence {
	var out []sentence

	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}

		parts := splitSentences(text)
		for _, part := range parts {
			tokens := c.tok.CountTokens(part)
			if tokens <= c.max {
				out = append(out, sentence{text: part, tokens: tokens, location: seg.Location})
				continue
			}
			for _, window := range c.tokenWindows(part) {
				out = append(out, sentence{
					text:     window,
					tokens:   c.tok.CountTokens(window),
					location: seg.Location,
				})
			}
		}
	}

	return out
}

// tokenWindows splits text into windows of at most max tokens.
func (c *Chunker) tokenWindows(text string) []string {
	tokens := c.tok.SplitTokens(text)

	var windows []string
	for start := 0; start < len(tokens); start += c.max {
		end := start + c.max
		if end > len(tokens) {
			end = len(tokens)
		}
		window := strings.TrimSpace(strings.Join(tokens[start:end], ""))
		if window != "" {
			windows = append(windows, window)
		}
	}
	return windows
}

// overlapTail returns the trailing sentences totalling at least the
// overlap token count. Returns nil when the chunk has a single
// sentence or overlap is disabled.
func (c *Chunker) overlapTail(current []sentence) []sentence {
	if c.overlap <= 0 || len(current) < 2 {
		return nil
	}

	total := 0
	start := len(current)
	for start > 1 {
		if total >= c.overlap {
			break
		}
		start--
		total += current[start].tokens
	}

	tail := make([]sentence, len(current)-start)
	copy(tail, current[start:])
	return tail
}

// splitSentence breaks a sentence after limit tokens. The remainder
// keeps the sentence's location marker.
func (c *Chunker) splitSentence(s sentence, limit int) (sentence, sentence) {
	tokens := c.tok.SplitTokens(s.text)
	if limit >= len(tokens) {
		return s, sentence{}
	}

	headText := strings.TrimSpace(strings.Join(tokens[:limit], ""))
	tailText := strings.TrimSpace(strings.Join(tokens[limit:], ""))
	return sentence{text: headText, tokens: c.tok.CountTokens(headText), location: s.location},
		sentence{text: tailText, tokens: c.tok.CountTokens(tailText), location: s.location}
}

// buildChunk assembles a chunk from its sentences.
func (c *Chunker) buildChunk(documentName string, index int, sentences []sentence) domain.Chunk {
	parts := make([]string, len(sentences))
	for i, s := range sentences {
		parts[i] = s.text
	}
	content := strings.Join(parts, " ")

	return domain.Chunk{
		ID:           fmt.Sprintf("%s:%d", documentName, index),
		DocumentName: documentName,
		Index:        index,
		Content:      content,
		Location:     locationRange(sentences[0].location, sentences[len(sentences)-1].location),
		TokenCount:   c.tok.CountTokens(content),
	}
}

// pageLocation matches markers like "page 4".
var pageLocation = regexp.MustCompile(`^page (\d+)$`)

// locationRange merges the first and last location markers of a chunk.
// Page markers collapse to "page 1-2"; other markers join with " - ".
func locationRange(first, last string) string {
	if first == last {
		return first
	}

	fm := pageLocation.FindStringSubmatch(first)
	lm := pageLocation.FindStringSubmatch(last)
	if fm != nil && lm != nil {
		return fmt.Sprintf("page %s-%s", fm[1], lm[1])
	}

	return first + " - " + last
}

// splitSentences splits text on terminal punctuation followed by
// whitespace. Text without any terminator comes back as one piece.
func splitSentences(text string) []string {
	matches := sentencePattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return []string{text}
	}

	consumed := 0
	out := make([]string, 0, len(matches)+1)
	for _, m := range matches {
		consumed += len(m)
		m = strings.TrimSpace(m)
		if m != "" {
			out = append(out, m)
		}
	}

	// Trailing text after the last terminator is its own sentence.
	if rest := strings.TrimSpace(text[consumed:]); rest != "" {
		out = append(out, rest)
	}

	return out
}

// Package markdown extracts Markdown documents, splitting sections on
// heading structure so location markers survive into citations.
package markdown

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// headingPattern matches ATX headings (# through ######).
var headingPattern = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)

// Extractor handles Markdown documents.
type Extractor struct{}

// New creates a Markdown extractor.
func New() *Extractor {
	return &Extractor{}
}

// Format returns the canonical format name.
func (e *Extractor) Format() string {
	return "markdown"
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".md", ".markdown"}
}

// Extract splits the document on headings into located segments.
// A document without headings becomes a single "full document" segment.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawDocument) ([]domain.Segment, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text := decode(raw.Content)
	segments := splitSections(text)
	if len(segments) == 0 {
		return nil, domain.ErrNoContent
	}

	return segments, nil
}

// splitSections cuts text at each heading. The heading line stays with
// its section so the title remains searchable.
func splitSections(text string) []domain.Segment {
	matches := headingPattern.FindAllStringSubmatchIndex(text, -1)

	if len(matches) == 0 {
		body := stripFormatting(text)
		if body == "" {
			return nil
		}
		return []domain.Segment{{Text: body, Location: "full document"}}
	}

	var segments []domain.Segment
	sectionNum := 1

	// Content before the first heading has no title of its own.
	if lead := stripFormatting(text[:matches[0][0]]); lead != "" {
		segments = append(segments, domain.Segment{
			Text:     lead,
			Location: fmt.Sprintf("section %d", sectionNum),
		})
		sectionNum++
	}

	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		title := strings.TrimSpace(text[m[4]:m[5]])
		body := stripFormatting(text[m[0]:end])
		if body == "" {
			continue
		}

		segments = append(segments, domain.Segment{
			Text:     body,
			Location: fmt.Sprintf("section %d '%s'", sectionNum, title),
		})
		sectionNum++
	}

	return segments
}

// Formatting patterns removed before indexing.
var (
	codeFence    = regexp.MustCompile("(?s)```[^`]*```")
	inlineCode   = regexp.MustCompile("`[^`]+`")
	imageLink    = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	namedLink    = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headingMarks = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	blockquote   = regexp.MustCompile(`(?m)^>\s*`)
	listMarker   = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	multiNewline = regexp.MustCompile(`\n{3,}`)
)

// stripFormatting removes common Markdown syntax, keeping the prose.
func stripFormatting(content string) string {
	content = codeFence.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "")
	content = imageLink.ReplaceAllString(content, "")
	content = namedLink.ReplaceAllString(content, "$1")
	content = headingMarks.ReplaceAllString(content, "")
	content = blockquote.ReplaceAllString(content, "")
	content = listMarker.ReplaceAllString(content, "")
	content = strings.ReplaceAll(content, "**", "")
	content = strings.ReplaceAll(content, "__", "")
	content = multiNewline.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

// decode interprets bytes as UTF-8, falling back to Latin-1.
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

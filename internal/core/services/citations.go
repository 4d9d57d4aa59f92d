package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

// citationPattern matches [Source N] and [Source N, M] references in
// generated text.
var citationPattern = regexp.MustCompile(`\[Source\s+(\d+(?:\s*,\s*\d+)*)[^\]]*\]`)

// excerptLength bounds citation excerpts for display.
const excerptLength = 200

// extractCitations parses source references out of generated text and
// validates them against the retrieval result the generator was given.
//
// Generation output is untrusted free-form text: a reference to a
// source number outside the retrieval set is a data-integrity defect
// and is dropped, never fabricated into the output. The dropped count
// is returned so callers can report it. Pure function; independently
// testable without any external service.
func extractCitations(text string, retrieved []domain.ScoredChunk) (citations []domain.Citation, dropped int) {
	matches := citationPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, 0
	}

	seen := make(map[int]bool)
	for _, m := range matches {
		for _, field := range strings.Split(m[1], ",") {
			n, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				dropped++
				continue
			}
			if n < 1 || n > len(retrieved) {
				// The generator cited a source absent from its context.
				dropped++
				continue
			}
			if seen[n] {
				continue
			}
			seen[n] = true

			chunk := retrieved[n-1].Chunk
			citations = append(citations, domain.Citation{
				DocumentName: chunk.DocumentName,
				Location:     chunk.Location,
				Excerpt:      excerpt(chunk.Content),
				ChunkID:      chunk.ID,
			})
		}
	}

	return citations, dropped
}

// excerpt truncates content for citation display. The cut backs off
// to a rune boundary so the excerpt stays valid UTF-8.
func excerpt(content string) string {
	content = strings.TrimSpace(content)
	if len(content) <= excerptLength {
		return content
	}
	cut := excerptLength
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut] + "..."
}

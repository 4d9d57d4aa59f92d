// Package tokenizer provides token counting for the chunking pipeline.
//
// The chunker and the chunk-bound checks must share one Tokenizer
// instance; the implementations here satisfy the driven.Tokenizer port.
package tokenizer

import (
	"unicode"

	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
)

// Ensure Heuristic implements the interface.
var _ driven.Tokenizer = (*Heuristic)(nil)

// Heuristic approximates tokens as whitespace-delimited words with
// punctuation split off. It needs no model data, so it works offline
// and in tests; counts are close to BPE counts for English prose.
type Heuristic struct{}

// NewHeuristic creates a heuristic tokenizer.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// CountTokens returns the number of tokens in text.
func (h *Heuristic) CountTokens(text string) int {
	return len(h.SplitTokens(text))
}

// SplitTokens splits text into tokens whose concatenation reproduces
// the input. Each token carries its leading whitespace so the
// round-trip property holds.
func (h *Heuristic) SplitTokens(text string) []string {
	if text == "" {
		return nil
	}

	var tokens []string
	runes := []rune(text)
	start := 0
	i := 0

	for i < len(runes) {
		// Consume leading whitespace into the token.
		for i < len(runes) && unicode.IsSpace(runes[i]) {
			i++
		}
		if i >= len(runes) {
			break
		}

		if isWordRune(runes[i]) {
			for i < len(runes) && isWordRune(runes[i]) {
				i++
			}
		} else {
			// A punctuation or symbol rune is its own token.
			i++
		}

		tokens = append(tokens, string(runes[start:i]))
		start = i
	}

	// Trailing whitespace attaches to the final token.
	if start < len(runes) {
		if len(tokens) == 0 {
			return []string{string(runes[start:])}
		}
		tokens[len(tokens)-1] += string(runes[start:])
	}

	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-'
}

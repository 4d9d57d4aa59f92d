package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristic_CountTokens(t *testing.T) {
	tok := NewHeuristic()

	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"single word", "hello", 1},
		{"simple sentence", "The quick brown fox.", 5},
		{"punctuation split off", "wait, really?", 4},
		{"hyphen and apostrophe kept", "state-of-the-art isn't split", 3},
		{"numbers", "revenue grew 12 percent", 4},
		{"only whitespace", "   \t\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tok.CountTokens(tt.text))
		})
	}
}

func TestHeuristic_SplitTokens_RoundTrip(t *testing.T) {
	tok := NewHeuristic()

	texts := []string{
		"Plain prose with several words.",
		"  leading whitespace",
		"trailing whitespace   ",
		"tabs\tand\nnewlines mixed  in",
		"punct!?;:()[]{}",
		"unicode: naïve café résumé",
		strings.Repeat("long input with many words. ", 50),
	}
	for _, text := range texts {
		tokens := tok.SplitTokens(text)
		assert.Equal(t, text, strings.Join(tokens, ""), "round trip failed for %q", text)
	}
}

func TestHeuristic_SplitTokens_Boundaries(t *testing.T) {
	tok := NewHeuristic()

	tokens := tok.SplitTokens("Hello, world!")

	assert.Equal(t, []string{"Hello", ",", " world", "!"}, tokens)
}

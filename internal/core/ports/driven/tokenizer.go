package driven

// Tokenizer counts and splits text into tokens.
//
// The same Tokenizer instance must be used for chunking and for
// validating chunk size bounds; mixing tokenizers silently breaks the
// chunk bound invariant, so the pipeline is constructed around a
// single injected implementation.
type Tokenizer interface {
	// CountTokens returns the number of tokens in text.
	CountTokens(text string) int

	// SplitTokens splits text into token strings whose concatenation
	// round-trips to the original text. Used for the fixed-window
	// fallback when no sentence boundaries are found.
	SplitTokens(text string) []string
}

package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
)

// DefaultEncoding is the BPE encoding used for token counting.
const DefaultEncoding = "cl100k_base"

// Ensure Tiktoken implements the interface.
var _ driven.Tokenizer = (*Tiktoken)(nil)

// Tiktoken counts tokens with a real BPE encoding, matching what
// embedding and generation backends bill against.
type Tiktoken struct {
	enc *tiktoken.Tiktoken
}

// NewTiktoken creates a tokenizer for the named encoding.
// Encoding data is fetched on first use unless cached locally.
func NewTiktoken(encoding string) (*Tiktoken, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}

	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("loading encoding %q: %w", encoding, err)
	}

	return &Tiktoken{enc: enc}, nil
}

// CountTokens returns the number of BPE tokens in text.
func (t *Tiktoken) CountTokens(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// SplitTokens splits text into BPE token strings. Decoding token IDs
// one at a time preserves the round-trip property of BPE encodings.
func (t *Tiktoken) SplitTokens(text string) []string {
	ids := t.enc.Encode(text, nil, nil)
	if len(ids) == 0 {
		return nil
	}

	tokens := make([]string, len(ids))
	for i, id := range ids {
		tokens[i] = t.enc.Decode([]int{id})
	}
	return tokens
}

package services

import (
	"fmt"
	"strings"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

// systemInstruction constrains the generator to the supplied context.
const systemInstruction = `You are a helpful document assistant. Your task is to answer questions based ONLY on the provided context from uploaded documents.

IMPORTANT RULES:
1. ONLY use information from the provided context to answer questions
2. If the answer is not found in the context, respond with: "I couldn't find this information in the uploaded document(s)."
3. Always cite your sources using the [Source N] markers from the context
4. Be concise but thorough in your answers
5. If the context contains partial information, acknowledge what you found and what's missing`

// buildContext assembles the grounded context block. Chunks arrive in
// descending-score order; each is tagged with its source number,
// document name and location so citations can be mapped back.
func buildContext(chunks []domain.ScoredChunk) string {
	parts := make([]string, len(chunks))
	for i, sc := range chunks {
		parts[i] = fmt.Sprintf("[Source %d: %s - %s]\n%s\n",
			i+1, sc.Chunk.DocumentName, sc.Chunk.Location, sc.Chunk.Content)
	}
	return strings.Join(parts, "\n---\n")
}

// noInfoPhrases mark a generator self-report that the context did not
// contain the answer.
var noInfoPhrases = []string{
	"not found in",
	"no information",
	"cannot find",
	"couldn't find",
	"don't have information",
	"not mentioned",
	"not available in",
	"context does not contain",
	"context doesn't contain",
}

// isNoInfoResponse reports whether the generated answer says the
// context lacked the information.
func isNoInfoResponse(answer string) bool {
	lower := strings.ToLower(answer)
	for _, phrase := range noInfoPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

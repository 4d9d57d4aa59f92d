package driven

import "context"

// GenerationService produces answer text from a grounded prompt.
//
// Implementations may include:
//   - Gemini (gemini-2.0-flash-lite)
//   - OpenAI (gpt-4o-mini)
//
// The core enforces no semantic contract on the output beyond its own
// citation-validation pass; generation output is treated as untrusted
// free-form text.
type GenerationService interface {
	// Generate produces a completion for the given system instruction,
	// context block and question.
	Generate(ctx context.Context, req GenerateRequest) (string, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateRequest carries the parts of a grounded generation call.
type GenerateRequest struct {
	// SystemInstruction constrains the generator to the context block.
	SystemInstruction string

	// Context is the assembled block of retrieved chunks.
	Context string

	// Question is the user's question.
	Question string

	// Temperature controls randomness. Low values favour factual,
	// grounded completions.
	Temperature float64
}

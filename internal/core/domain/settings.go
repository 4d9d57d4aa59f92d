package domain

import (
	"fmt"
	"time"
)

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is the Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// StoreBackend identifies a vector store backend.
type StoreBackend string

// Available vector store backends.
const (
	// StoreBackendSQLite is the embedded SQLite store.
	StoreBackendSQLite StoreBackend = "sqlite"

	// StoreBackendQdrant is a remote Qdrant instance.
	StoreBackendQdrant StoreBackend = "qdrant"
)

// IsValid returns true if the store backend is recognised.
func (b StoreBackend) IsValid() bool {
	switch b {
	case StoreBackendSQLite, StoreBackendQdrant:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StoreBackend) String() string {
	return string(b)
}

// ChunkingSettings holds the chunker configuration.
type ChunkingSettings struct {
	// MinTokens is the lower chunk size bound. Every chunk except
	// possibly a document's final chunk holds at least this many tokens.
	MinTokens int

	// MaxTokens is the upper chunk size bound.
	MaxTokens int

	// OverlapTokens is how many trailing tokens of a chunk are repeated
	// at the start of the next chunk. Must be smaller than MinTokens.
	OverlapTokens int
}

// Validate checks chunking bounds for consistency.
func (s ChunkingSettings) Validate() error {
	if s.MinTokens <= 0 {
		return fmt.Errorf("%w: chunk min_tokens must be positive, got %d", ErrInvalidConfig, s.MinTokens)
	}
	if s.MaxTokens < s.MinTokens {
		return fmt.Errorf("%w: chunk max_tokens (%d) must be >= min_tokens (%d)",
			ErrInvalidConfig, s.MaxTokens, s.MinTokens)
	}
	if s.OverlapTokens < 0 {
		return fmt.Errorf("%w: chunk overlap_tokens must not be negative, got %d",
			ErrInvalidConfig, s.OverlapTokens)
	}
	if s.OverlapTokens >= s.MinTokens {
		return fmt.Errorf("%w: chunk overlap_tokens (%d) must be smaller than min_tokens (%d)",
			ErrInvalidConfig, s.OverlapTokens, s.MinTokens)
	}
	return nil
}

// RetrievalSettings holds query-side configuration.
type RetrievalSettings struct {
	// TopK is the default number of chunks retrieved per query.
	TopK int

	// MinScore is the relevance threshold. When every retrieved score
	// falls below it, generation is skipped and the fixed not-found
	// response is returned. Tunable; cosine similarity in [-1, 1].
	MinScore float64

	// Temperature is passed to the generation service. Low values
	// favour factual, grounded completions.
	Temperature float64
}

// MaxTopK bounds the top-K parameter.
const MaxTopK = 10

// Validate checks retrieval settings for consistency.
func (s RetrievalSettings) Validate() error {
	if s.TopK < 1 || s.TopK > MaxTopK {
		return fmt.Errorf("%w: top_k must be in [1, %d], got %d", ErrInvalidConfig, MaxTopK, s.TopK)
	}
	if s.MinScore < -1 || s.MinScore > 1 {
		return fmt.Errorf("%w: min_score must be in [-1, 1], got %g", ErrInvalidConfig, s.MinScore)
	}
	if s.Temperature < 0 || s.Temperature > 2 {
		return fmt.Errorf("%w: temperature must be in [0, 2], got %g", ErrInvalidConfig, s.Temperature)
	}
	return nil
}

// AISettings holds provider credentials and model choices.
type AISettings struct {
	// APIKey authenticates against the selected provider.
	APIKey string

	// BaseURL overrides the provider endpoint. Empty means the
	// provider default; useful for Azure OpenAI or compatible APIs.
	BaseURL string

	// EmbeddingModel overrides the provider's default embedding model.
	EmbeddingModel string

	// GenerationModel overrides the provider's default generation model.
	GenerationModel string
}

// QdrantSettings holds the remote vector store connection.
type QdrantSettings struct {
	// URL is the Qdrant base URL, e.g. http://localhost:6333.
	URL string

	// APIKey authenticates requests. Empty for unsecured instances.
	APIKey string

	// Collection is the collection name. Empty means the default.
	Collection string
}

// Settings is the validated application configuration.
type Settings struct {
	// Chunking configures the chunker.
	Chunking ChunkingSettings

	// Retrieval configures query behaviour.
	Retrieval RetrievalSettings

	// Provider selects the embedding and generation backend.
	Provider AIProvider

	// Store selects the vector store backend.
	Store StoreBackend

	// AI holds provider credentials and model choices.
	AI AISettings

	// Qdrant configures the remote store when Store is "qdrant".
	Qdrant QdrantSettings

	// DataDir is where local state (the SQLite store) lives.
	// Empty means the default under the user's home directory.
	DataDir string

	// Dimensions is the embedding vector size. Must match both the
	// embedding model and the vector store configuration; a mismatch
	// is a startup error, never a query-time one.
	Dimensions int

	// RequestTimeout bounds every call to external services.
	RequestTimeout time.Duration
}

// Validate checks the full settings for consistency.
func (s Settings) Validate() error {
	if err := s.Chunking.Validate(); err != nil {
		return err
	}
	if err := s.Retrieval.Validate(); err != nil {
		return err
	}
	if !s.Provider.IsValid() {
		return fmt.Errorf("%w: unknown AI provider %q", ErrInvalidConfig, s.Provider)
	}
	if !s.Store.IsValid() {
		return fmt.Errorf("%w: unknown store backend %q", ErrInvalidConfig, s.Store)
	}
	if s.Dimensions <= 0 {
		return fmt.Errorf("%w: dimensions must be positive, got %d", ErrInvalidConfig, s.Dimensions)
	}
	if s.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request_timeout must be positive, got %s", ErrInvalidConfig, s.RequestTimeout)
	}
	if s.Store == StoreBackendQdrant && s.Qdrant.URL == "" {
		return fmt.Errorf("%w: qdrant store selected but no qdrant URL configured", ErrInvalidConfig)
	}
	return nil
}

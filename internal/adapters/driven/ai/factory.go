// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	geminiembed "github.com/docsage-labs/docsage-cli/internal/adapters/driven/embedding/gemini"
	openaiembed "github.com/docsage-labs/docsage-cli/internal/adapters/driven/embedding/openai"
	geminillm "github.com/docsage-labs/docsage-cli/internal/adapters/driven/llm/gemini"
	openaillm "github.com/docsage-labs/docsage-cli/internal/adapters/driven/llm/openai"
	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Services bundles the AI adapters for the selected provider.
type Services struct {
	Embedding  driven.EmbeddingService
	Generation driven.GenerationService
}

// Close releases all resources held by the services.
func (s *Services) Close() {
	if s.Embedding != nil {
		s.Embedding.Close()
	}
	if s.Generation != nil {
		s.Generation.Close()
	}
}

// CreateServices creates the embedding and generation services for the
// configured provider and verifies the embedding dimension against the
// settings. A dimension mismatch would silently corrupt the vector
// index, so it is rejected here at startup.
func CreateServices(ctx context.Context, settings domain.Settings) (*Services, error) {
	embedding, err := CreateEmbeddingService(ctx, settings)
	if err != nil {
		return nil, err
	}

	if embedding.Dimensions() != settings.Dimensions {
		embedding.Close()
		return nil, fmt.Errorf("%w: embedding model %q produces %d dimensions but %d are configured",
			domain.ErrInvalidConfig, embedding.ModelName(), embedding.Dimensions(), settings.Dimensions)
	}

	generation, err := CreateGenerationService(ctx, settings)
	if err != nil {
		embedding.Close()
		return nil, err
	}

	return &Services{Embedding: embedding, Generation: generation}, nil
}

// CreateEmbeddingService creates the embedding service for the
// configured provider.
func CreateEmbeddingService(ctx context.Context, settings domain.Settings) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case domain.AIProviderGemini:
		return geminiembed.NewEmbeddingService(ctx, geminiembed.Config{
			APIKey: settings.AI.APIKey,
			Model:  settings.AI.EmbeddingModel,
		})

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.AI.APIKey,
			BaseURL:    settings.AI.BaseURL,
			Model:      settings.AI.EmbeddingModel,
			Dimensions: settings.Dimensions,
		})

	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider %q",
			domain.ErrInvalidConfig, settings.Provider)
	}
}

// CreateGenerationService creates the generation service for the
// configured provider.
func CreateGenerationService(ctx context.Context, settings domain.Settings) (driven.GenerationService, error) {
	switch settings.Provider {
	case domain.AIProviderGemini:
		return geminillm.NewGenerationService(ctx, geminillm.Config{
			APIKey: settings.AI.APIKey,
			Model:  settings.AI.GenerationModel,
		})

	case domain.AIProviderOpenAI:
		return openaillm.NewGenerationService(openaillm.Config{
			APIKey:  settings.AI.APIKey,
			BaseURL: settings.AI.BaseURL,
			Model:   settings.AI.GenerationModel,
		})

	default:
		return nil, fmt.Errorf("%w: unsupported generation provider %q",
			domain.ErrInvalidConfig, settings.Provider)
	}
}

// ValidateConnectivity pings both services with a short deadline.
// Intended for an explicit health check, not the hot path.
func ValidateConnectivity(ctx context.Context, services *Services) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := services.Embedding.Ping(ctx); err != nil {
		return fmt.Errorf("embedding service unreachable: %w", err)
	}
	if err := services.Generation.Ping(ctx); err != nil {
		return fmt.Errorf("generation service unreachable: %w", err)
	}
	return nil
}

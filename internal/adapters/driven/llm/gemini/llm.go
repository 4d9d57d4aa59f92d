// Package gemini provides a generation service adapter using the
// Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
)

// Ensure GenerationService implements the interface.
var _ driven.GenerationService = (*GenerationService)(nil)

// DefaultModel is the generation model used when none is configured.
const DefaultModel = "gemini-2.0-flash-lite"

// Config holds configuration for the Gemini generation service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the model to use (default: gemini-2.0-flash-lite).
	Model string
}

// GenerationService produces answers using the Gemini API.
type GenerationService struct {
	client *genai.Client
	name   string
}

// NewGenerationService creates a new Gemini generation service.
func NewGenerationService(ctx context.Context, cfg Config) (*GenerationService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &GenerationService{
		client: client,
		name:   cfg.Model,
	}, nil
}

// Generate produces a grounded completion. The system instruction is
// set as the model's system instruction; context and question form the
// user content.
func (s *GenerationService) Generate(ctx context.Context, req driven.GenerateRequest) (string, error) {
	model := s.client.GenerativeModel(s.name)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(req.SystemInstruction)},
	}
	temp := float32(req.Temperature)
	model.Temperature = &temp

	prompt := fmt.Sprintf("Context from uploaded documents:\n%s\n\nQuestion: %s",
		req.Context, req.Question)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", apiError(err)
	}

	var parts []string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				parts = append(parts, string(text))
			}
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: gemini returned no text candidates", domain.ErrGenerationService)
	}

	return strings.Join(parts, "\n"), nil
}

// ModelName returns the name of the model being used.
func (s *GenerationService) ModelName() string {
	return s.name
}

// Ping validates the service is reachable with a minimal request.
func (s *GenerationService) Ping(ctx context.Context) error {
	model := s.client.GenerativeModel(s.name)
	if _, err := model.GenerateContent(ctx, genai.Text("ping")); err != nil {
		return apiError(err)
	}
	return nil
}

// Close releases the underlying client.
func (s *GenerationService) Close() error {
	return s.client.Close()
}

// apiError maps a Gemini API failure to the domain sentinels.
func apiError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: gemini: %v", domain.ErrTimeout, err)
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit"):
		return fmt.Errorf("%w: gemini: rate limit or quota exceeded: %v", domain.ErrGenerationService, err)
	case strings.Contains(msg, "401") || strings.Contains(msg, "403") || strings.Contains(msg, "api key"):
		return fmt.Errorf("%w: gemini: authentication failed: %v", domain.ErrGenerationService, err)
	default:
		return fmt.Errorf("%w: gemini: %v", domain.ErrGenerationService, err)
	}
}

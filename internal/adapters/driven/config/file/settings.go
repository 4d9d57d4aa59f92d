// Package file provides a TOML-backed settings store.
//
// Settings live in a single config.toml under the docsage config
// directory. Missing values fall back to defaults; the loaded result
// is validated before anything else starts.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

// Default settings values.
const (
	DefaultChunkMinTokens = 500
	DefaultChunkMaxTokens = 1000
	DefaultChunkOverlap   = 100

	DefaultTopK     = 5
	DefaultMinScore = 0.25
	DefaultTemp     = 0.1

	DefaultDimensions     = 768
	DefaultRequestTimeout = 60 * time.Second
)

// fileConfig is the on-disk TOML layout.
type fileConfig struct {
	Provider string `toml:"provider"`
	Store    string `toml:"store"`
	DataDir  string `toml:"data_dir"`

	AI struct {
		APIKey          string `toml:"api_key"`
		BaseURL         string `toml:"base_url"`
		EmbeddingModel  string `toml:"embedding_model"`
		GenerationModel string `toml:"generation_model"`
		Dimensions      int    `toml:"dimensions"`
		TimeoutSeconds  int    `toml:"timeout_seconds"`
	} `toml:"ai"`

	Chunking struct {
		MinTokens     int `toml:"min_tokens"`
		MaxTokens     int `toml:"max_tokens"`
		OverlapTokens int `toml:"overlap_tokens"`
	} `toml:"chunking"`

	Retrieval struct {
		TopK        int     `toml:"top_k"`
		MinScore    float64 `toml:"min_score"`
		Temperature float64 `toml:"temperature"`
	} `toml:"retrieval"`

	Qdrant struct {
		URL        string `toml:"url"`
		APIKey     string `toml:"api_key"`
		Collection string `toml:"collection"`
	} `toml:"qdrant"`
}

// SettingsStore loads and saves settings from a TOML file.
type SettingsStore struct {
	filePath string
}

// NewSettingsStore creates a settings store under configDir.
// If configDir is empty, defaults to ~/.docsage.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".docsage")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	return &SettingsStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Path returns the config file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}

// Load reads the config file, applies defaults for missing values and
// validates the result. A missing file yields validated defaults.
// The provider API key falls back to the GEMINI_API_KEY or
// OPENAI_API_KEY environment variable when not set in the file.
func (s *SettingsStore) Load() (domain.Settings, error) {
	var cfg fileConfig

	data, err := os.ReadFile(s.filePath)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return domain.Settings{}, fmt.Errorf("%w: parsing %s: %v",
				domain.ErrInvalidConfig, s.filePath, err)
		}
	case os.IsNotExist(err):
		// Defaults only.
	default:
		return domain.Settings{}, fmt.Errorf("reading %s: %w", s.filePath, err)
	}

	settings := applyDefaults(cfg)
	if err := settings.Validate(); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

// Save writes the settings back to the config file.
func (s *SettingsStore) Save(settings domain.Settings) error {
	var cfg fileConfig
	cfg.Provider = settings.Provider.String()
	cfg.Store = settings.Store.String()
	cfg.DataDir = settings.DataDir
	cfg.AI.APIKey = settings.AI.APIKey
	cfg.AI.BaseURL = settings.AI.BaseURL
	cfg.AI.EmbeddingModel = settings.AI.EmbeddingModel
	cfg.AI.GenerationModel = settings.AI.GenerationModel
	cfg.AI.Dimensions = settings.Dimensions
	cfg.AI.TimeoutSeconds = int(settings.RequestTimeout / time.Second)
	cfg.Chunking.MinTokens = settings.Chunking.MinTokens
	cfg.Chunking.MaxTokens = settings.Chunking.MaxTokens
	cfg.Chunking.OverlapTokens = settings.Chunking.OverlapTokens
	cfg.Retrieval.TopK = settings.Retrieval.TopK
	cfg.Retrieval.MinScore = settings.Retrieval.MinScore
	cfg.Retrieval.Temperature = settings.Retrieval.Temperature
	cfg.Qdrant.URL = settings.Qdrant.URL
	cfg.Qdrant.APIKey = settings.Qdrant.APIKey
	cfg.Qdrant.Collection = settings.Qdrant.Collection

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	// Write atomically via a temp file.
	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, s.filePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", s.filePath, err)
	}
	return nil
}

// applyDefaults fills zero values with defaults and resolves the API
// key from the environment when absent.
func applyDefaults(cfg fileConfig) domain.Settings {
	settings := domain.Settings{
		Chunking: domain.ChunkingSettings{
			MinTokens:     orInt(cfg.Chunking.MinTokens, DefaultChunkMinTokens),
			MaxTokens:     orInt(cfg.Chunking.MaxTokens, DefaultChunkMaxTokens),
			OverlapTokens: orInt(cfg.Chunking.OverlapTokens, DefaultChunkOverlap),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:        orInt(cfg.Retrieval.TopK, DefaultTopK),
			MinScore:    orFloat(cfg.Retrieval.MinScore, DefaultMinScore),
			Temperature: orFloat(cfg.Retrieval.Temperature, DefaultTemp),
		},
		Provider:       domain.AIProvider(orString(cfg.Provider, domain.AIProviderGemini.String())),
		Store:          domain.StoreBackend(orString(cfg.Store, domain.StoreBackendSQLite.String())),
		Dimensions:     orInt(cfg.AI.Dimensions, DefaultDimensions),
		RequestTimeout: time.Duration(orInt(cfg.AI.TimeoutSeconds, int(DefaultRequestTimeout/time.Second))) * time.Second,
		DataDir:        cfg.DataDir,
	}

	settings.AI = domain.AISettings{
		APIKey:          cfg.AI.APIKey,
		BaseURL:         cfg.AI.BaseURL,
		EmbeddingModel:  cfg.AI.EmbeddingModel,
		GenerationModel: cfg.AI.GenerationModel,
	}
	if settings.AI.APIKey == "" {
		settings.AI.APIKey = apiKeyFromEnv(settings.Provider)
	}

	settings.Qdrant = domain.QdrantSettings{
		URL:        cfg.Qdrant.URL,
		APIKey:     cfg.Qdrant.APIKey,
		Collection: cfg.Qdrant.Collection,
	}

	return settings
}

// apiKeyFromEnv resolves the provider API key from the environment.
func apiKeyFromEnv(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderGemini:
		return os.Getenv("GEMINI_API_KEY")
	case domain.AIProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	default:
		return ""
	}
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orFloat(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func orString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

func TestSettingsStore_Load_Defaults(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	settings, err := store.Load()

	require.NoError(t, err)
	assert.Equal(t, DefaultChunkMinTokens, settings.Chunking.MinTokens)
	assert.Equal(t, DefaultChunkMaxTokens, settings.Chunking.MaxTokens)
	assert.Equal(t, DefaultChunkOverlap, settings.Chunking.OverlapTokens)
	assert.Equal(t, DefaultTopK, settings.Retrieval.TopK)
	assert.InDelta(t, DefaultMinScore, settings.Retrieval.MinScore, 1e-9)
	assert.Equal(t, domain.AIProviderGemini, settings.Provider)
	assert.Equal(t, domain.StoreBackendSQLite, settings.Store)
	assert.Equal(t, DefaultDimensions, settings.Dimensions)
	assert.Equal(t, DefaultRequestTimeout, settings.RequestTimeout)
}

func TestSettingsStore_Load_FromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
provider = "openai"
store = "sqlite"

[ai]
api_key = "sk-test"
embedding_model = "text-embedding-3-small"
dimensions = 1536
timeout_seconds = 30

[chunking]
min_tokens = 200
max_tokens = 400
overlap_tokens = 50

[retrieval]
top_k = 3
min_score = 0.4
temperature = 0.2
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	settings, err := store.Load()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Provider)
	assert.Equal(t, "sk-test", settings.AI.APIKey)
	assert.Equal(t, "text-embedding-3-small", settings.AI.EmbeddingModel)
	assert.Equal(t, 1536, settings.Dimensions)
	assert.Equal(t, 30*time.Second, settings.RequestTimeout)
	assert.Equal(t, 200, settings.Chunking.MinTokens)
	assert.Equal(t, 400, settings.Chunking.MaxTokens)
	assert.Equal(t, 50, settings.Chunking.OverlapTokens)
	assert.Equal(t, 3, settings.Retrieval.TopK)
	assert.InDelta(t, 0.4, settings.Retrieval.MinScore, 1e-9)
}

func TestSettingsStore_Load_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not [valid"), 0600))

	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	_, err = store.Load()

	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestSettingsStore_Load_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	content := `
[chunking]
min_tokens = 400
max_tokens = 200
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	_, err = store.Load()

	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestSettingsStore_Load_QdrantRequiresURL(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`store = "qdrant"`), 0600))

	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	_, err = store.Load()

	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestSettingsStore_Load_APIKeyFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")

	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	settings, err := store.Load()

	require.NoError(t, err)
	assert.Equal(t, "env-key", settings.AI.APIKey)
}

func TestSettingsStore_SaveAndReload(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	settings, err := store.Load()
	require.NoError(t, err)
	settings.Retrieval.TopK = 7
	settings.AI.APIKey = "saved-key"
	settings.Qdrant.URL = "http://localhost:6333"

	require.NoError(t, store.Save(settings))

	reloaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 7, reloaded.Retrieval.TopK)
	assert.Equal(t, "saved-key", reloaded.AI.APIKey)
	assert.Equal(t, "http://localhost:6333", reloaded.Qdrant.URL)
}

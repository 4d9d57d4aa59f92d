// Package vectorstore provides a factory for creating the configured
// vector store backend.
package vectorstore

import (
	"context"
	"fmt"

	"github.com/docsage-labs/docsage-cli/internal/adapters/driven/vectorstore/qdrant"
	"github.com/docsage-labs/docsage-cli/internal/adapters/driven/vectorstore/sqlite"
	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
)

// Create returns the vector store selected by the settings.
func Create(ctx context.Context, settings domain.Settings) (driven.VectorStore, error) {
	switch settings.Store {
	case domain.StoreBackendSQLite:
		return sqlite.NewStore(settings.DataDir)

	case domain.StoreBackendQdrant:
		return qdrant.NewStore(ctx, qdrant.Config{
			URL:        settings.Qdrant.URL,
			APIKey:     settings.Qdrant.APIKey,
			Collection: settings.Qdrant.Collection,
			Dimensions: settings.Dimensions,
		})

	default:
		return nil, fmt.Errorf("%w: unsupported store backend %q",
			domain.ErrInvalidConfig, settings.Store)
	}
}

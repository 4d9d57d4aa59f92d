// Package qdrant provides a vector store adapter backed by a Qdrant
// instance over its REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultCollection = "docsage_chunks"
	DefaultTimeout    = 15 * time.Second

	// scrollPageSize bounds one scroll request when listing documents.
	scrollPageSize = 1000
)

// pointNamespace derives deterministic Qdrant point IDs from chunk IDs.
// Qdrant accepts only integers and UUIDs as point IDs.
var pointNamespace = uuid.MustParse("3f2f7a86-9c4e-4f5b-9a6d-2f1f6a0d8c41")

// Config holds configuration for the Qdrant store.
type Config struct {
	// URL is the Qdrant base URL, e.g. http://localhost:6333 (required).
	URL string

	// APIKey authenticates requests. Empty for unsecured instances.
	APIKey string

	// Collection is the collection name (default: docsage_chunks).
	Collection string

	// Dimensions is the vector size used when creating the collection
	// (required).
	Dimensions int

	// Timeout is the per-request timeout (default: 15s).
	Timeout time.Duration
}

// Store is a Qdrant-backed vector store. Writes use wait=true so an
// upsert is visible to an immediately following query.
type Store struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	collection string
}

// NewStore creates the collection if missing and returns the store.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant: URL is required")
	}
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("qdrant: dimensions must be positive, got %d", cfg.Dimensions)
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	s := &Store{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
	}

	// Creating an existing collection with the same schema is a no-op.
	body := map[string]any{
		"vectors": map[string]any{
			"size":     cfg.Dimensions,
			"distance": "Cosine",
		},
	}
	if err := s.do(ctx, http.MethodPut, s.collectionURL(""), body, nil); err != nil {
		return nil, fmt.Errorf("creating collection %q: %w", cfg.Collection, err)
	}

	return s, nil
}

// UpsertChunks stores chunks with their embeddings.
func (s *Store) UpsertChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	points := make([]map[string]any, len(chunks))
	for i, chunk := range chunks {
		points[i] = map[string]any{
			"id":     uuid.NewSHA1(pointNamespace, []byte(chunk.ID)).String(),
			"vector": chunk.Embedding,
			"payload": map[string]any{
				"chunk_id":      chunk.ID,
				"document_name": chunk.DocumentName,
				"position":      chunk.Index,
				"content":       chunk.Content,
				"location":      chunk.Location,
				"token_count":   chunk.TokenCount,
			},
		}
	}

	body := map[string]any{"points": points}
	return s.do(ctx, http.MethodPut, s.collectionURL("/points?wait=true"), body, nil)
}

// DeleteByDocument removes all chunks for the named document.
func (s *Store) DeleteByDocument(ctx context.Context, documentName string) (int, error) {
	filter := documentFilter(documentName)

	// Count first: the delete response does not report how many points
	// matched.
	var countResp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	countBody := map[string]any{"filter": filter, "exact": true}
	if err := s.do(ctx, http.MethodPost, s.collectionURL("/points/count"), countBody, &countResp); err != nil {
		return 0, err
	}

	deleteBody := map[string]any{"filter": filter}
	if err := s.do(ctx, http.MethodPost, s.collectionURL("/points/delete?wait=true"), deleteBody, nil); err != nil {
		return 0, err
	}
	return countResp.Result.Count, nil
}

// DeleteAll removes every chunk in the collection.
func (s *Store) DeleteAll(ctx context.Context) error {
	body := map[string]any{"filter": map[string]any{}}
	return s.do(ctx, http.MethodPost, s.collectionURL("/points/delete?wait=true"), body, nil)
}

// Query returns up to k chunks ordered by descending cosine similarity.
func (s *Store) Query(ctx context.Context, vector []float32, k int, docFilter string) ([]domain.ScoredChunk, error) {
	body := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}
	if docFilter != "" {
		body["filter"] = documentFilter(docFilter)
	}

	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := s.do(ctx, http.MethodPost, s.collectionURL("/points/search"), body, &resp); err != nil {
		return nil, err
	}

	results := make([]domain.ScoredChunk, 0, len(resp.Result))
	for _, r := range resp.Result {
		results = append(results, domain.ScoredChunk{
			Chunk: chunkFromPayload(r.Payload),
			Score: r.Score,
		})
	}
	return results, nil
}

// ListDocuments scrolls all points and aggregates chunk counts per
// document name.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.DocumentInfo, error) {
	counts := make(map[string]int)
	var order []string
	var offset any

	for {
		body := map[string]any{
			"limit":        scrollPageSize,
			"with_payload": []string{"document_name"},
			"with_vector":  false,
		}
		if offset != nil {
			body["offset"] = offset
		}

		var resp struct {
			Result struct {
				Points []struct {
					Payload map[string]any `json:"payload"`
				} `json:"points"`
				NextPageOffset any `json:"next_page_offset"`
			} `json:"result"`
		}
		if err := s.do(ctx, http.MethodPost, s.collectionURL("/points/scroll"), body, &resp); err != nil {
			return nil, err
		}

		for _, p := range resp.Result.Points {
			name, _ := p.Payload["document_name"].(string)
			if name == "" {
				continue
			}
			if counts[name] == 0 {
				order = append(order, name)
			}
			counts[name]++
		}

		if resp.Result.NextPageOffset == nil {
			break
		}
		offset = resp.Result.NextPageOffset
	}

	docs := make([]domain.DocumentInfo, 0, len(order))
	for _, name := range order {
		docs = append(docs, domain.DocumentInfo{Name: name, ChunkCount: counts[name]})
	}
	return docs, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// collectionURL builds a URL under the configured collection.
func (s *Store) collectionURL(suffix string) string {
	return fmt.Sprintf("%s/collections/%s%s", s.baseURL, s.collection, suffix)
}

// documentFilter builds a Qdrant payload filter on document name.
func documentFilter(documentName string) map[string]any {
	return map[string]any{
		"must": []map[string]any{
			{
				"key":   "document_name",
				"match": map[string]any{"value": documentName},
			},
		},
	}
}

// chunkFromPayload rebuilds a chunk from a point payload.
func chunkFromPayload(payload map[string]any) domain.Chunk {
	var chunk domain.Chunk
	if v, ok := payload["chunk_id"].(string); ok {
		chunk.ID = v
	}
	if v, ok := payload["document_name"].(string); ok {
		chunk.DocumentName = v
	}
	if v, ok := payload["position"].(float64); ok {
		chunk.Index = int(v)
	}
	if v, ok := payload["content"].(string); ok {
		chunk.Content = v
	}
	if v, ok := payload["location"].(string); ok {
		chunk.Location = v
	}
	if v, ok := payload["token_count"].(float64); ok {
		chunk.TokenCount = int(v)
	}
	return chunk
}

// do executes one JSON request against the Qdrant API.
func (s *Store) do(ctx context.Context, method, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: qdrant: marshal request: %v", domain.ErrVectorStore, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: qdrant: create request: %v", domain.ErrVectorStore, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: qdrant: %v", domain.ErrTimeout, err)
		}
		var timeoutErr interface{ Timeout() bool }
		if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
			return fmt.Errorf("%w: qdrant: %v", domain.ErrTimeout, err)
		}
		return fmt.Errorf("%w: qdrant: %s %s: %v", domain.ErrVectorStore, method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: qdrant: %s %s returned %s: %s",
			domain.ErrVectorStore, method, url, resp.Status, string(detail))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: qdrant: decode response: %v", domain.ErrVectorStore, err)
		}
	}
	return nil
}

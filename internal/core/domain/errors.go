package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a document with the same name is
	// already indexed. Documents are immutable once ingested; remove
	// the existing document before re-ingesting.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates the document format is not recognised.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrNoContent indicates extraction yielded zero non-whitespace text,
	// e.g. an image-only PDF. Distinct from an unsupported format so
	// callers can message the user accordingly.
	ErrNoContent = errors.New("no text content extracted")

	// ErrIngestInProgress indicates an ingestion for the same document
	// name is already running. Concurrent same-name ingests are rejected
	// to avoid interleaved partial upserts under one identity.
	ErrIngestInProgress = errors.New("ingest already in progress for document")

	// Service Errors.

	// ErrEmbeddingService indicates the embedding backend failed.
	// The operation is aborted; a corrupted vector index is worse than
	// a failed operation, so zero vectors are never substituted.
	ErrEmbeddingService = errors.New("embedding service error")

	// ErrVectorStore indicates the vector store backend failed.
	ErrVectorStore = errors.New("vector store error")

	// ErrGenerationService indicates the generation backend failed.
	// No fabricated answer is ever returned in place of a genuine failure.
	ErrGenerationService = errors.New("generation service error")

	// ErrTimeout indicates an external call exceeded its deadline.
	// Retryable; distinct from authentication or validation failures.
	ErrTimeout = errors.New("operation timed out")

	// ErrInvalidConfig indicates configuration validation failed.
	// Configuration errors are fatal at startup, never at request time.
	ErrInvalidConfig = errors.New("invalid configuration")
)

package domain

import "time"

// RawDocument represents opaque bytes supplied by the caller for ingestion.
// It is the pipeline's input before extraction.
type RawDocument struct {
	// Name is the document name, unique within the knowledge base.
	Name string

	// Content is the raw bytes.
	Content []byte

	// Format is the declared format (file extension, e.g. ".pdf").
	// When empty the format is detected from Name and content sniffing.
	Format string
}

// Segment is a unit of extracted text tagged with its source location.
// Extractors produce an ordered sequence of segments per document.
type Segment struct {
	// Text is the extracted text content.
	Text string

	// Location identifies where the text came from, e.g. "page 3"
	// or "section 2 'Background'".
	Location string
}

// Document represents an ingested document's metadata.
// Documents are immutable once indexed; re-ingestion under the same
// name is rejected rather than mutated in place.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Name is the document name, unique within the knowledge base.
	Name string

	// Format is the source format (e.g. "pdf", "docx", "markdown", "text").
	Format string

	// ChunkCount is the number of chunks produced at ingestion.
	ChunkCount int

	// IngestedAt is when the document was indexed.
	IngestedAt time.Time
}

// Chunk is the atomic retrievable unit of document text.
// Chunks are created during ingestion, never mutated, and deleted
// only via document deletion.
type Chunk struct {
	// ID is the unique identifier for the chunk (documentName:index).
	ID string

	// DocumentName links to the owning document.
	DocumentName string

	// Index is the ordinal position within the document, starting at 0.
	Index int

	// Content is the chunk text.
	Content string

	// Location is the source location marker inherited from the
	// segment(s) this chunk spans, e.g. "page 1-2".
	Location string

	// Embedding is the vector representation for similarity search.
	Embedding []float32

	// TokenCount is the chunk size measured by the ingestion tokenizer.
	TokenCount int
}

// DocumentInfo summarises an indexed document for listings.
type DocumentInfo struct {
	// Name is the document name.
	Name string

	// ChunkCount is the number of chunks stored for the document.
	ChunkCount int
}

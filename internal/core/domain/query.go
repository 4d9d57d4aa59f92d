package domain

// Fixed responses returned without invoking the generation service.
const (
	// NoDocumentsResponse is returned when the knowledge base is empty.
	NoDocumentsResponse = "No documents have been uploaded yet. Please upload a document first."

	// NotFoundResponse is returned when retrieval produces no chunk
	// above the relevance threshold.
	NotFoundResponse = "I couldn't find this information in the uploaded document(s)."
)

// QueryOptions configures an answer request.
type QueryOptions struct {
	// TopK is the number of chunks to retrieve. Zero means the
	// configured default; the valid range is 1-10.
	TopK int

	// DocumentFilter restricts retrieval to a single document name.
	// Empty means all documents.
	DocumentFilter string
}

// ScoredChunk pairs a retrieved chunk with its similarity score.
type ScoredChunk struct {
	// Chunk is the retrieved chunk.
	Chunk Chunk

	// Score is the cosine similarity to the query vector, in [-1, 1].
	Score float64
}

// RetrievalResult is the ordered outcome of a top-K similarity query.
// Chunks are ordered by descending score; length is at most K.
type RetrievalResult struct {
	// Chunks holds the scored chunks, best match first.
	Chunks []ScoredChunk
}

// Contains reports whether the result set includes the given chunk ID.
func (r RetrievalResult) Contains(chunkID string) bool {
	for _, sc := range r.Chunks {
		if sc.Chunk.ID == chunkID {
			return true
		}
	}
	return false
}

// Citation references a source chunk that grounded part of an answer.
// Every citation must reference a chunk present in the retrieval
// result used to generate the answer.
type Citation struct {
	// DocumentName is the cited document.
	DocumentName string

	// Location is the source location marker, e.g. "page 3".
	Location string

	// Excerpt is a snippet of the cited chunk's content.
	Excerpt string

	// ChunkID identifies the cited chunk.
	ChunkID string
}

// Answer is the result of a grounded query.
type Answer struct {
	// Text is the generated answer, or a fixed response when the
	// knowledge base is empty or nothing relevant was retrieved.
	Text string

	// Citations lists the validated source references, in the order
	// they appear in the generated text.
	Citations []Citation

	// Sources holds the full retrieval result the answer was grounded
	// on, for display alongside the answer.
	Sources []ScoredChunk

	// DroppedCitations counts generator citations that referenced
	// chunks absent from the retrieval set and were filtered out.
	// Non-zero values indicate the generator strayed from its context.
	DroppedCitations int
}

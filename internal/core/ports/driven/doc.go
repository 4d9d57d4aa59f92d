// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Extractor: Converts raw document bytes into located text segments
//   - ExtractorRegistry: Selects the extractor for a document format
//   - Tokenizer: Counts and splits tokens consistently across the pipeline
//   - EmbeddingService: Generates vector embeddings
//   - VectorStore: Persists chunks with vectors; sole source of truth
//   - GenerationService: Produces grounded answer text
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven

// Package sqlite provides a SQLite-backed vector store.
//
// Chunks live in a single chunks table with their embeddings stored as
// little-endian float32 blobs. The schema is managed through embedded
// SQL migrations applied at startup.
//
// # Import Rules
//
//   - Can Import: domain, ports/driven, database/sql, modernc.org/sqlite
//   - Cannot Import: Core services, other adapters
package sqlite

// Package domain defines the core business entities for botly.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: Extracted text with its origin
//   - Chunk: A fixed-size unit of embedding and retrieval
//   - Chatbot: A tenant-owned bot with persona fields
//   - IndexManifest: The identity tag of a persisted vector index
//   - Answer: The typed outcome of answering a question
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

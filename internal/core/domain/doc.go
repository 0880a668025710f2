// Package domain defines the core business entities for Recall.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Note: An owner-scoped unit of content
//   - Chunk: The bounded slice of a note that gets embedded
//   - IndexRecord: A chunk plus its embedding as stored in the vector index
//   - ChatEvent: A lifecycle event of a streamed answer
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

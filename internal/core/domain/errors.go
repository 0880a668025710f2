package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbedding indicates the embedding provider was unreachable or
	// rejected the input. The operation that triggered the embedding is
	// aborted and the index is left unchanged.
	ErrEmbedding = errors.New("embedding failed")

	// ErrGeneration indicates the completion provider failed mid-stream.
	// It terminates that request's stream and is reported through the
	// event bus only, never through AskQuestion's return path.
	ErrGeneration = errors.New("generation failed")

	// ErrSnapshotLoad indicates a persisted index snapshot was unreadable
	// or corrupt. Startup falls back to a full rebuild from the note
	// store instead of failing.
	ErrSnapshotLoad = errors.New("snapshot load failed")
)

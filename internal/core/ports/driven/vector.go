package driven

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// ChunkFilter is a hard exclusion applied before ranking: records whose
// metadata fails the predicate never count toward a search's k results.
type ChunkFilter func(meta domain.ChunkMetadata) bool

// VectorIndex owns the chunk vectors for one corpus and answers
// filtered nearest-neighbour queries over them.
//
// The index chunks and embeds documents itself; callers hand it whole
// notes. Mutations are all-or-nothing: if embedding any chunk of a call
// fails, no record of that call is committed. Removal is logical - a
// removed note leaves tombstoned records that every search skips.
//
// Two strategies implement this contract: an ephemeral in-memory index
// that is rebuilt from the note store on every cold start, and a
// durable one that re-persists a snapshot after every mutation.
type VectorIndex interface {
	// AddDocument chunks and embeds the note and appends one record per
	// chunk. It does not remove prior records for the same note; use
	// UpdateDocument when re-indexing an edited note.
	AddDocument(ctx context.Context, note domain.Note) error

	// AddDocuments bulk-indexes several notes with a single embedding
	// batch and, on durable indexes, a single persistence pass.
	AddDocuments(ctx context.Context, notes []domain.Note) error

	// RemoveDocument tombstones every live record belonging to the note.
	// Removing a note with no records is an idempotent no-op, reported
	// as a warning rather than an error.
	RemoveDocument(ctx context.Context, noteID string) error

	// UpdateDocument replaces a note's records: it tombstones the old
	// ones and appends freshly embedded chunks in one step, so an
	// embedding failure leaves the previous records live.
	UpdateDocument(ctx context.Context, note domain.Note) error

	// Search embeds the query once and returns up to k live records
	// passing the filter, ordered by descending similarity with ties
	// broken by insertion order. A nil filter matches everything.
	Search(ctx context.Context, query string, k int, filter ChunkFilter) ([]domain.ScoredChunk, error)

	// Len reports the number of records, tombstones included.
	Len() int

	// Close releases resources.
	Close() error
}

// SnapshotRestorer is implemented by indexes that can be primed from a
// persisted snapshot instead of a full rebuild. LoadSnapshot returns
// the number of records restored; a load failure wraps
// domain.ErrSnapshotLoad and leaves the index empty.
type SnapshotRestorer interface {
	LoadSnapshot(ctx context.Context) (int, error)
}

package domain

import "time"

// Note represents an owner-scoped unit of content.
// The note store is the source of truth; the index only ever
// receives snapshots of it.
type Note struct {
	// ID is the stable, opaque identifier for the note.
	ID string

	// Title is the human-readable title.
	Title string

	// Body is the full text content.
	Body string

	// OwnerID identifies the user the note belongs to.
	OwnerID string

	// CreatedAt is when the note was created.
	CreatedAt time.Time

	// UpdatedAt is when the note was last updated.
	UpdatedAt time.Time
}

// Text returns the content that is chunked and embedded for this note.
func (n Note) Text() string {
	return n.Title + "\n" + n.Body
}

// ChunkMetadata identifies the note a chunk was cut from.
// Every chunk of a note carries the same metadata.
type ChunkMetadata struct {
	// NoteID is the ID of the source note.
	NoteID string

	// Title is the source note's title.
	Title string

	// OwnerID is the source note's owner.
	OwnerID string
}

// Chunk is a bounded slice of a note's text, the unit that is
// embedded and indexed. Chunks have no lifecycle of their own;
// they exist only as index records.
type Chunk struct {
	// Content is the chunk text.
	Content string

	// Metadata identifies the source note.
	Metadata ChunkMetadata
}

// IndexRecord is the unit stored in the vector index.
// Deletion is logical: tombstoned records keep their slot so the
// index structure stays stable, and every search must skip them.
type IndexRecord struct {
	// ID is the dense insertion-order identifier within the index.
	ID int

	// Content is the chunk text the embedding was computed from.
	Content string

	// Embedding is the vector representation of Content.
	Embedding []float32

	// Metadata identifies the source note.
	Metadata ChunkMetadata

	// Deleted marks the record as tombstoned.
	Deleted bool
}

// ScoredChunk is a single similarity search hit.
type ScoredChunk struct {
	// Content is the matched chunk text.
	Content string

	// Metadata identifies the source note.
	Metadata ChunkMetadata

	// Score is the cosine similarity to the query (higher is closer).
	Score float64
}

package driven

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// NoteStore provides note persistence. It is the source of truth the
// vector index is built from: a lost index can always be rebuilt by
// reading every note back out of the store.
type NoteStore interface {
	// SaveNote stores or updates a note.
	SaveNote(ctx context.Context, note *domain.Note) error

	// GetNote retrieves a note by ID.
	// Returns domain.ErrNotFound if the note does not exist.
	GetNote(ctx context.Context, id string) (*domain.Note, error)

	// DeleteNote removes a note by ID.
	// Deleting an absent note is not an error.
	DeleteNote(ctx context.Context, id string) error

	// ListByOwner returns all notes belonging to an owner,
	// most recently updated first.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Note, error)

	// GetAllNotes returns every note across all owners.
	// Used once per process to bulk-build the vector index.
	GetAllNotes(ctx context.Context) ([]domain.Note, error)

	// Close releases resources.
	Close() error
}

package driving

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// NoteService manages notes and keeps the vector index in lockstep
// with every mutation.
type NoteService interface {
	// Create stores a new note and indexes it.
	Create(ctx context.Context, title, body, ownerID string) (*domain.Note, error)

	// Update rewrites an existing note and replaces its index records.
	Update(ctx context.Context, id, title, body string) (*domain.Note, error)

	// Delete removes a note from the store and tombstones its index
	// records.
	Delete(ctx context.Context, id string) error

	// Get retrieves a note by ID.
	Get(ctx context.Context, id string) (*domain.Note, error)

	// ListByOwner returns an owner's notes, most recently updated first.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Note, error)
}

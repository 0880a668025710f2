package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// Ensure NoteService implements the interface.
var _ driving.NoteService = (*NoteService)(nil)

// NoteService manages note CRUD and keeps the vector index in lockstep
// with every mutation. The note store stays the source of truth: an
// index that drifts can always be rebuilt from it.
type NoteService struct {
	noteStore driven.NoteStore
	indexes   *IndexManager
}

// NewNoteService creates a new note service.
func NewNoteService(noteStore driven.NoteStore, indexes *IndexManager) *NoteService {
	return &NoteService{
		noteStore: noteStore,
		indexes:   indexes,
	}
}

// Create stores a new note and indexes it.
func (s *NoteService) Create(ctx context.Context, title, body, ownerID string) (*domain.Note, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	ownerID = strings.TrimSpace(ownerID)

	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrInvalidInput)
	}
	if title == "" && body == "" {
		return nil, fmt.Errorf("%w: note is empty", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	note := &domain.Note{
		ID:        uuid.NewString(),
		Title:     title,
		Body:      body,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.noteStore.SaveNote(ctx, note); err != nil {
		return nil, fmt.Errorf("save note: %w", err)
	}
	logger.Debug("Note %s created for %s", note.ID, ownerID)

	index, err := s.indexes.Index(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize index: %w", err)
	}
	if err := index.AddDocument(ctx, *note); err != nil {
		// The note is saved; the index catches up on the next rebuild.
		logger.Warn("Indexing note %s failed: %v", note.ID, err)
		return nil, fmt.Errorf("index note: %w", err)
	}

	return note, nil
}

// Update rewrites an existing note and replaces its index records.
func (s *NoteService) Update(ctx context.Context, id, title, body string) (*domain.Note, error) {
	note, err := s.noteStore.GetNote(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}

	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" && body == "" {
		return nil, fmt.Errorf("%w: note is empty", domain.ErrInvalidInput)
	}

	note.Title = title
	note.Body = body
	note.UpdatedAt = time.Now().UTC()

	if err := s.noteStore.SaveNote(ctx, note); err != nil {
		return nil, fmt.Errorf("save note: %w", err)
	}
	logger.Debug("Note %s updated", note.ID)

	index, err := s.indexes.Index(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize index: %w", err)
	}
	if err := index.UpdateDocument(ctx, *note); err != nil {
		logger.Warn("Reindexing note %s failed: %v", note.ID, err)
		return nil, fmt.Errorf("reindex note: %w", err)
	}

	return note, nil
}

// Delete removes a note from the store and tombstones its index
// records. Deleting an absent note is not an error.
func (s *NoteService) Delete(ctx context.Context, id string) error {
	if err := s.noteStore.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	logger.Debug("Note %s deleted", id)

	index, err := s.indexes.Index(ctx)
	if err != nil {
		return fmt.Errorf("initialize index: %w", err)
	}
	if err := index.RemoveDocument(ctx, id); err != nil {
		return fmt.Errorf("deindex note: %w", err)
	}

	return nil
}

// Get retrieves a note by ID.
func (s *NoteService) Get(ctx context.Context, id string) (*domain.Note, error) {
	note, err := s.noteStore.GetNote(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

// ListByOwner returns an owner's notes, most recently updated first.
func (s *NoteService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Note, error) {
	notes, err := s.noteStore.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

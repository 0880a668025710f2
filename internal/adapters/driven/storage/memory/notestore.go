// Package memory provides in-memory implementations of the storage
// ports, used in tests and for fully ephemeral runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// Ensure NoteStore implements the interface.
var _ driven.NoteStore = (*NoteStore)(nil)

// NoteStore is an in-memory implementation of driven.NoteStore.
type NoteStore struct {
	mu    sync.RWMutex
	notes map[string]domain.Note
}

// NewNoteStore creates a new in-memory note store.
func NewNoteStore() *NoteStore {
	return &NoteStore{
		notes: make(map[string]domain.Note),
	}
}

// SaveNote stores or updates a note.
func (s *NoteStore) SaveNote(_ context.Context, note *domain.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[note.ID] = *note
	return nil
}

// GetNote retrieves a note by ID.
func (s *NoteStore) GetNote(_ context.Context, id string) (*domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	note, ok := s.notes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &note, nil
}

// DeleteNote removes a note by ID. Absent notes are not an error.
func (s *NoteStore) DeleteNote(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.notes, id)
	return nil
}

// ListByOwner returns an owner's notes, most recently updated first.
func (s *NoteStore) ListByOwner(_ context.Context, ownerID string) ([]domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var notes []domain.Note
	for _, note := range s.notes {
		if note.OwnerID == ownerID {
			notes = append(notes, note)
		}
	}
	sortNotes(notes)
	return notes, nil
}

// GetAllNotes returns every note across all owners.
func (s *NoteStore) GetAllNotes(_ context.Context) ([]domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := make([]domain.Note, 0, len(s.notes))
	for _, note := range s.notes {
		notes = append(notes, note)
	}
	sortNotes(notes)
	return notes, nil
}

// Close releases resources.
func (s *NoteStore) Close() error {
	return nil
}

// sortNotes orders newest-updated first, breaking ties by ID so
// listings are deterministic.
func sortNotes(notes []domain.Note) {
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].UpdatedAt.Equal(notes[j].UpdatedAt) {
			return notes[i].ID < notes[j].ID
		}
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// noteStore implements driven.NoteStore.
type noteStore struct {
	store *Store
}

var _ driven.NoteStore = (*noteStore)(nil)

// SaveNote stores or updates a note.
func (s *noteStore) SaveNote(ctx context.Context, note *domain.Note) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO notes (id, owner_id, title, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			updated_at = excluded.updated_at
	`, note.ID, note.OwnerID, note.Title, note.Body, note.CreatedAt, note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving note: %w", err)
	}
	return nil
}

// GetNote retrieves a note by ID.
func (s *noteStore) GetNote(ctx context.Context, id string) (*domain.Note, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, body, created_at, updated_at
		FROM notes WHERE id = ?
	`, id)

	var note domain.Note
	if err := row.Scan(&note.ID, &note.OwnerID, &note.Title, &note.Body,
		&note.CreatedAt, &note.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning note: %w", err)
	}
	return &note, nil
}

// DeleteNote removes a note by ID. Absent notes are not an error.
func (s *noteStore) DeleteNote(ctx context.Context, id string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}
	return nil
}

// ListByOwner returns an owner's notes, most recently updated first.
func (s *noteStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.Note, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, owner_id, title, body, created_at, updated_at
		FROM notes WHERE owner_id = ?
		ORDER BY updated_at DESC, id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

// GetAllNotes returns every note across all owners.
func (s *noteStore) GetAllNotes(ctx context.Context) ([]domain.Note, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, owner_id, title, body, created_at, updated_at
		FROM notes ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

// Close is a no-op; the shared Store owns the connection.
func (s *noteStore) Close() error {
	return nil
}

// scanNotes collects all note rows.
func scanNotes(rows *sql.Rows) ([]domain.Note, error) {
	var notes []domain.Note
	for rows.Next() {
		var note domain.Note
		if err := rows.Scan(&note.ID, &note.OwnerID, &note.Title, &note.Body,
			&note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notes: %w", err)
	}
	return notes, nil
}

package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

func TestNoteStore_SaveAndGet(t *testing.T) {
	store := NewNoteStore()
	ctx := context.Background()

	note := &domain.Note{ID: "n1", Title: "Groceries", Body: "Buy apples.", OwnerID: "u1"}
	require.NoError(t, store.SaveNote(ctx, note))

	got, err := store.GetNote(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Title)

	// Mutating the returned note must not affect the store.
	got.Title = "Changed"
	again, err := store.GetNote(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", again.Title)
}

func TestNoteStore_GetMissing(t *testing.T) {
	store := NewNoteStore()

	_, err := store.GetNote(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNoteStore_Delete(t *testing.T) {
	store := NewNoteStore()
	ctx := context.Background()

	require.NoError(t, store.SaveNote(ctx, &domain.Note{ID: "n1", OwnerID: "u1", Title: "t"}))
	require.NoError(t, store.DeleteNote(ctx, "n1"))

	_, err := store.GetNote(ctx, "n1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting an absent note is not an error.
	require.NoError(t, store.DeleteNote(ctx, "n1"))
}

func TestNoteStore_ListByOwnerOrdering(t *testing.T) {
	store := NewNoteStore()
	ctx := context.Background()

	older := time.Now().Add(-time.Hour)
	newer := time.Now()
	require.NoError(t, store.SaveNote(ctx, &domain.Note{ID: "n1", OwnerID: "u1", Title: "old", UpdatedAt: older}))
	require.NoError(t, store.SaveNote(ctx, &domain.Note{ID: "n2", OwnerID: "u1", Title: "new", UpdatedAt: newer}))
	require.NoError(t, store.SaveNote(ctx, &domain.Note{ID: "n3", OwnerID: "u2", Title: "other", UpdatedAt: newer}))

	notes, err := store.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "n2", notes[0].ID)
	assert.Equal(t, "n1", notes[1].ID)
}

func TestNoteStore_GetAllNotes(t *testing.T) {
	store := NewNoteStore()
	ctx := context.Background()

	require.NoError(t, store.SaveNote(ctx, &domain.Note{ID: "n1", OwnerID: "u1", Title: "t"}))
	require.NoError(t, store.SaveNote(ctx, &domain.Note{ID: "n2", OwnerID: "u2", Title: "t"}))

	notes, err := store.GetAllNotes(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 2)
}

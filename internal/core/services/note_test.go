package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/adapters/driven/storage/memory"
	vectormemory "github.com/custodia-labs/recall-cli/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/recall-cli/internal/chunker"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

func newNoteFixture() (*NoteService, *vectormemory.Index) {
	noteStore := memory.NewNoteStore()
	index := vectormemory.NewIndex(chunker.New(), &mockEmbedder{})
	manager := NewIndexManager(index, noteStore)
	return NewNoteService(noteStore, manager), index
}

func TestNoteService_CreateIndexesNote(t *testing.T) {
	svc, index := newNoteFixture()
	ctx := context.Background()

	note, err := svc.Create(ctx, "Groceries", "Buy apples and oranges.", "u1")
	require.NoError(t, err)
	require.NotEmpty(t, note.ID)
	assert.Equal(t, "u1", note.OwnerID)
	assert.False(t, note.CreatedAt.IsZero())
	assert.Greater(t, index.Len(), 0)

	got, err := svc.Get(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Title)
}

func TestNoteService_CreateValidation(t *testing.T) {
	svc, _ := newNoteFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, "Title", "Body", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Create(ctx, "  ", "  ", "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNoteService_UpdateReplacesIndexRecords(t *testing.T) {
	svc, index := newNoteFixture()
	ctx := context.Background()

	note, err := svc.Create(ctx, "Groceries", "Buy apples.", "u1")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, note.ID, "Groceries", "Buy bananas.")
	require.NoError(t, err)
	assert.Equal(t, "Buy bananas.", updated.Body)
	assert.True(t, updated.UpdatedAt.After(note.CreatedAt) || updated.UpdatedAt.Equal(note.CreatedAt))

	// Only the new content may be retrievable.
	hits, err := index.Search(ctx, "Buy bananas.", 5, func(meta domain.ChunkMetadata) bool {
		return meta.OwnerID == "u1"
	})
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	for _, hit := range hits {
		assert.NotContains(t, hit.Content, "apples")
	}
}

func TestNoteService_UpdateMissingNote(t *testing.T) {
	svc, _ := newNoteFixture()

	_, err := svc.Update(context.Background(), "missing", "Title", "Body")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNoteService_DeleteRemovesFromStoreAndIndex(t *testing.T) {
	svc, index := newNoteFixture()
	ctx := context.Background()

	note, err := svc.Create(ctx, "Groceries", "Buy apples.", "u1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, note.ID))

	_, err = svc.Get(ctx, note.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	hits, err := index.Search(ctx, "Buy apples.", 5, func(meta domain.ChunkMetadata) bool {
		return meta.OwnerID == "u1"
	})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestNoteService_DeleteIsIdempotent(t *testing.T) {
	svc, _ := newNoteFixture()
	ctx := context.Background()

	note, err := svc.Create(ctx, "Groceries", "Buy apples.", "u1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, note.ID))
	require.NoError(t, svc.Delete(ctx, note.ID))
}

func TestNoteService_ListByOwner(t *testing.T) {
	svc, _ := newNoteFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, "First", "Content one.", "u1")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Second", "Content two.", "u1")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Other", "Not mine.", "u2")
	require.NoError(t, err)

	notes, err := svc.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	for _, note := range notes {
		assert.Equal(t, "u1", note.OwnerID)
	}
}

package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testNote(id, owner string) *domain.Note {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Note{
		ID:        id,
		OwnerID:   owner,
		Title:     "Title " + id,
		Body:      "Body of " + id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestNoteStore_SaveAndGet(t *testing.T) {
	store := setupTestStore(t)
	notes := store.NoteStore()
	ctx := context.Background()

	note := testNote("n1", "u1")
	require.NoError(t, notes.SaveNote(ctx, note))

	got, err := notes.GetNote(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, note.Title, got.Title)
	assert.Equal(t, note.Body, got.Body)
	assert.Equal(t, "u1", got.OwnerID)
}

func TestNoteStore_GetMissing(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.NoteStore().GetNote(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNoteStore_SaveUpdatesExisting(t *testing.T) {
	store := setupTestStore(t)
	notes := store.NoteStore()
	ctx := context.Background()

	note := testNote("n1", "u1")
	require.NoError(t, notes.SaveNote(ctx, note))

	note.Title = "Updated"
	note.UpdatedAt = note.UpdatedAt.Add(time.Minute)
	require.NoError(t, notes.SaveNote(ctx, note))

	got, err := notes.GetNote(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "Updated", got.Title)
}

func TestNoteStore_ListByOwner(t *testing.T) {
	store := setupTestStore(t)
	notes := store.NoteStore()
	ctx := context.Background()

	require.NoError(t, notes.SaveNote(ctx, testNote("a1", "ownerA")))
	require.NoError(t, notes.SaveNote(ctx, testNote("a2", "ownerA")))
	require.NoError(t, notes.SaveNote(ctx, testNote("b1", "ownerB")))

	listed, err := notes.ListByOwner(ctx, "ownerA")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	for _, n := range listed {
		assert.Equal(t, "ownerA", n.OwnerID)
	}

	all, err := notes.GetAllNotes(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestNoteStore_DeleteIsIdempotent(t *testing.T) {
	store := setupTestStore(t)
	notes := store.NoteStore()
	ctx := context.Background()

	require.NoError(t, notes.SaveNote(ctx, testNote("n1", "u1")))
	require.NoError(t, notes.DeleteNote(ctx, "n1"))
	require.NoError(t, notes.DeleteNote(ctx, "n1"))

	_, err := notes.GetNote(ctx, "n1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSnapshotStore_RoundTrip(t *testing.T) {
	store := setupTestStore(t)
	snapshots := store.SnapshotStore()
	ctx := context.Background()

	records := []domain.IndexRecord{
		{
			ID:        0,
			Content:   "Trip\nParis was great.",
			Embedding: []float32{0.1, 0.2, 0.3},
			Metadata:  domain.ChunkMetadata{NoteID: "n1", Title: "Trip", OwnerID: "u1"},
		},
		{
			ID:        1,
			Content:   "Old chunk",
			Embedding: []float32{0.4, 0.5, 0.6},
			Metadata:  domain.ChunkMetadata{NoteID: "n2", Title: "Old", OwnerID: "u2"},
			Deleted:   true,
		},
	}
	require.NoError(t, snapshots.Save(ctx, records))

	loaded, err := snapshots.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, records[0], loaded[0])
	assert.Equal(t, records[1], loaded[1])
	assert.True(t, loaded[1].Deleted, "tombstones must survive persistence")
}

func TestSnapshotStore_EmptyLoad(t *testing.T) {
	store := setupTestStore(t)

	loaded, err := store.SnapshotStore().Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSnapshotStore_SaveOverwrites(t *testing.T) {
	store := setupTestStore(t)
	snapshots := store.SnapshotStore()
	ctx := context.Background()

	first := []domain.IndexRecord{{
		ID:        0,
		Content:   "first",
		Embedding: []float32{1},
		Metadata:  domain.ChunkMetadata{NoteID: "n1", Title: "T", OwnerID: "u1"},
	}}
	require.NoError(t, snapshots.Save(ctx, first))

	second := []domain.IndexRecord{
		{
			ID:        0,
			Content:   "second",
			Embedding: []float32{2},
			Metadata:  domain.ChunkMetadata{NoteID: "n2", Title: "T2", OwnerID: "u1"},
		},
		{
			ID:        1,
			Content:   "third",
			Embedding: []float32{3},
			Metadata:  domain.ChunkMetadata{NoteID: "n3", Title: "T3", OwnerID: "u1"},
		},
	}
	require.NoError(t, snapshots.Save(ctx, second))

	loaded, err := snapshots.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "second", loaded[0].Content)
}

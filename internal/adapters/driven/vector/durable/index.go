// Package durable provides the snapshot-persisting vector index.
//
// It keeps the same flat in-memory structure as the ephemeral index
// and re-persists the full record set through a SnapshotStore after
// every successful mutation, so a cold restart resumes from the latest
// state. A crash between mutation and persistence loses only that one
// mutation; the corpus is rebuildable from the note store regardless.
package durable

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/recall-cli/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/recall-cli/internal/chunker"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// Ensure Index implements the interfaces.
var (
	_ driven.VectorIndex      = (*Index)(nil)
	_ driven.SnapshotRestorer = (*Index)(nil)
)

// Index wraps the flat in-memory index with snapshot persistence.
// Mutations serialize behind a single lock covering both the in-memory
// change and the re-persist, so the persisted snapshot never interleaves
// two mutations. Searches bypass the lock entirely.
type Index struct {
	mu        sync.Mutex
	inner     *memory.Index
	snapshots driven.SnapshotStore
}

// NewIndex creates an empty durable index persisting through snapshots.
func NewIndex(splitter *chunker.Splitter, embedder driven.EmbeddingService, snapshots driven.SnapshotStore) *Index {
	return &Index{
		inner:     memory.NewIndex(splitter, embedder),
		snapshots: snapshots,
	}
}

// LoadSnapshot primes the index from the persisted snapshot and
// returns the number of records restored.
func (i *Index) LoadSnapshot(ctx context.Context) (int, error) {
	records, err := i.snapshots.Load(ctx)
	if err != nil {
		return 0, err
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.inner.Restore(records)
	return len(records), nil
}

// AddDocument indexes the note and re-persists the snapshot.
func (i *Index) AddDocument(ctx context.Context, note domain.Note) error {
	return i.AddDocuments(ctx, []domain.Note{note})
}

// AddDocuments bulk-indexes notes with one embedding batch and one
// persistence pass.
func (i *Index) AddDocuments(ctx context.Context, notes []domain.Note) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.inner.AddDocuments(ctx, notes); err != nil {
		return err
	}
	return i.persist(ctx)
}

// RemoveDocument tombstones the note's records and re-persists the
// snapshot. Removal stays idempotent: an absent note is a warning in
// the inner index and the snapshot is simply rewritten unchanged.
func (i *Index) RemoveDocument(ctx context.Context, noteID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.inner.RemoveDocument(ctx, noteID); err != nil {
		return err
	}
	return i.persist(ctx)
}

// UpdateDocument replaces the note's records and re-persists once.
func (i *Index) UpdateDocument(ctx context.Context, note domain.Note) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.inner.UpdateDocument(ctx, note); err != nil {
		return err
	}
	return i.persist(ctx)
}

// Search delegates to the in-memory structure. A search may or may not
// observe a concurrently added record; that is acceptable.
func (i *Index) Search(ctx context.Context, query string, k int, filter driven.ChunkFilter) ([]domain.ScoredChunk, error) {
	return i.inner.Search(ctx, query, k, filter)
}

// Len reports the number of records, tombstones included.
func (i *Index) Len() int {
	return i.inner.Len()
}

// Close releases the snapshot store.
func (i *Index) Close() error {
	return i.snapshots.Close()
}

// persist rewrites the snapshot from the current record set.
// Caller holds the mutation lock.
func (i *Index) persist(ctx context.Context) error {
	if err := i.snapshots.Save(ctx, i.inner.Records()); err != nil {
		logger.Warn("persisting index snapshot failed: %v", err)
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}

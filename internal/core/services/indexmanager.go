package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// IndexManager owns the vector index lifecycle. The index is built
// lazily on first use and exactly once per process: concurrent early
// callers block on the same in-flight build and share its outcome.
type IndexManager struct {
	index     driven.VectorIndex
	noteStore driven.NoteStore

	initOnce sync.Once
	initErr  error
}

// NewIndexManager creates a new index manager.
func NewIndexManager(index driven.VectorIndex, noteStore driven.NoteStore) *IndexManager {
	return &IndexManager{
		index:     index,
		noteStore: noteStore,
	}
}

// Index returns the initialized vector index, building it on first
// call. A durable index restores from its snapshot when one exists;
// otherwise the index is rebuilt from every note in the store.
func (m *IndexManager) Index(ctx context.Context) (driven.VectorIndex, error) {
	m.initOnce.Do(func() {
		m.initErr = m.initialize(ctx)
	})
	if m.initErr != nil {
		return nil, m.initErr
	}
	return m.index, nil
}

// initialize populates the index, preferring a snapshot restore over a
// full rebuild. A failed restore is not fatal: the note store is the
// source of truth, so the index is rebuilt from it instead.
func (m *IndexManager) initialize(ctx context.Context) error {
	if restorer, ok := m.index.(driven.SnapshotRestorer); ok {
		n, err := restorer.LoadSnapshot(ctx)
		switch {
		case err != nil:
			logger.Warn("Snapshot restore failed, rebuilding index from notes: %v", err)
		case n > 0:
			logger.Info("Vector index restored from snapshot: %d records", n)
			return nil
		default:
			logger.Debug("Snapshot is empty, building index from notes")
		}
	}

	notes, err := m.noteStore.GetAllNotes(ctx)
	if err != nil {
		return fmt.Errorf("load notes for index build: %w", err)
	}
	if len(notes) == 0 {
		logger.Debug("No notes to index")
		return nil
	}

	logger.Info("Building vector index from %d notes", len(notes))
	if err := m.index.AddDocuments(ctx, notes); err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	logger.Info("Vector index built: %d records", m.index.Len())

	return nil
}

// Close closes the managed index.
func (m *IndexManager) Close() error {
	return m.index.Close()
}

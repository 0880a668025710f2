package sqlite

import (
	"context"
	"fmt"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// snapshotStore implements driven.SnapshotStore on the index_records
// table. Save rewrites the whole table in one transaction so the
// persisted snapshot is always a consistent record set.
type snapshotStore struct {
	store *Store
}

var _ driven.SnapshotStore = (*snapshotStore)(nil)

// Load reads the last persisted record set in insertion order.
func (s *snapshotStore) Load(ctx context.Context) ([]domain.IndexRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, note_id, title, owner_id, content, embedding, deleted
		FROM index_records ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying records: %v", domain.ErrSnapshotLoad, err)
	}
	defer rows.Close()

	var records []domain.IndexRecord
	for rows.Next() {
		var rec domain.IndexRecord
		var embedding []byte
		var deleted int
		if err := rows.Scan(&rec.ID, &rec.Metadata.NoteID, &rec.Metadata.Title,
			&rec.Metadata.OwnerID, &rec.Content, &embedding, &deleted); err != nil {
			return nil, fmt.Errorf("%w: scanning record: %v", domain.ErrSnapshotLoad, err)
		}
		rec.Embedding = bytesToFloat32Slice(embedding)
		rec.Deleted = deleted != 0
		if len(rec.Embedding) == 0 {
			return nil, fmt.Errorf("%w: record %d has no embedding", domain.ErrSnapshotLoad, rec.ID)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating records: %v", domain.ErrSnapshotLoad, err)
	}
	return records, nil
}

// Save replaces the persisted snapshot with the given record set.
func (s *snapshotStore) Save(ctx context.Context, records []domain.IndexRecord) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM index_records"); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO index_records (id, note_id, title, owner_id, content, embedding, deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		deleted := 0
		if rec.Deleted {
			deleted = 1
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, rec.Metadata.NoteID, rec.Metadata.Title,
			rec.Metadata.OwnerID, rec.Content, float32SliceToBytes(rec.Embedding), deleted); err != nil {
			return fmt.Errorf("inserting record %d: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// Close is a no-op; the shared Store owns the connection.
func (s *snapshotStore) Close() error {
	return nil
}

package driven

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// SnapshotStore persists the vector index's full record set so a cold
// restart resumes from the latest state instead of re-embedding the
// corpus. The representation is backend-specific; the only contract is
// that Load returns what Save last stored.
type SnapshotStore interface {
	// Load reads the last persisted record set. An empty store returns
	// an empty slice and no error; an unreadable or corrupt snapshot
	// returns an error wrapping domain.ErrSnapshotLoad.
	Load(ctx context.Context) ([]domain.IndexRecord, error)

	// Save replaces the persisted snapshot with the given record set.
	Save(ctx context.Context, records []domain.IndexRecord) error

	// Close releases resources.
	Close() error
}

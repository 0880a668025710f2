// Package memory provides the ephemeral in-memory vector index.
//
// Records live in a flat slice scored by brute-force cosine similarity,
// which is plenty for a single-user note corpus. Nothing is persisted;
// a cold start rebuilds the index from the note store.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/recall-cli/internal/chunker"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is a flat, tombstoning vector index. The record slice only
// grows; removed notes leave tombstoned records that every search
// skips. Searches run concurrently; mutations serialize behind the
// write lock.
type Index struct {
	mu       sync.RWMutex
	records  []domain.IndexRecord
	splitter *chunker.Splitter
	embedder driven.EmbeddingService
}

// NewIndex creates an empty index chunking with splitter and embedding
// through embedder.
func NewIndex(splitter *chunker.Splitter, embedder driven.EmbeddingService) *Index {
	return &Index{
		splitter: splitter,
		embedder: embedder,
	}
}

// AddDocument chunks, embeds and appends one record per chunk of the
// note. Embedding happens before any mutation, so a provider failure
// leaves the index untouched.
func (i *Index) AddDocument(ctx context.Context, note domain.Note) error {
	return i.AddDocuments(ctx, []domain.Note{note})
}

// AddDocuments bulk-indexes notes with a single embedding batch.
func (i *Index) AddDocuments(ctx context.Context, notes []domain.Note) error {
	chunks, embeddings, err := i.embedNotes(ctx, notes)
	if err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.append(chunks, embeddings)
	return nil
}

// RemoveDocument tombstones every live record for the note. Removing a
// note with no live records is an idempotent no-op.
func (i *Index) RemoveDocument(_ context.Context, noteID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if n := i.tombstone(noteID); n == 0 {
		logger.Warn("no index records to remove for note %s", noteID)
	}
	return nil
}

// UpdateDocument replaces the note's records. The new chunks are
// embedded before the old records are tombstoned, so an embedding
// failure leaves the previous version live and searchable.
func (i *Index) UpdateDocument(ctx context.Context, note domain.Note) error {
	chunks, embeddings, err := i.embedNotes(ctx, []domain.Note{note})
	if err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.tombstone(note.ID)
	i.append(chunks, embeddings)
	return nil
}

// Search embeds the query once and ranks every live record passing the
// filter by cosine similarity. Equal scores keep insertion order.
func (i *Index) Search(ctx context.Context, query string, k int, filter driven.ChunkFilter) ([]domain.ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	queryVec, err := i.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", domain.ErrEmbedding, err)
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	type hit struct {
		record *domain.IndexRecord
		score  float64
	}
	var hits []hit
	for idx := range i.records {
		rec := &i.records[idx]
		if rec.Deleted {
			continue
		}
		if filter != nil && !filter(rec.Metadata) {
			continue
		}
		hits = append(hits, hit{record: rec, score: cosine(queryVec, rec.Embedding)})
	}

	// Stable sort keeps insertion order for equal scores.
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].score > hits[b].score
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	results := make([]domain.ScoredChunk, 0, len(hits))
	for _, h := range hits {
		results = append(results, domain.ScoredChunk{
			Content:  h.record.Content,
			Metadata: h.record.Metadata,
			Score:    h.score,
		})
	}
	return results, nil
}

// Len reports the number of records, tombstones included.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.records)
}

// Close releases resources.
func (i *Index) Close() error {
	return nil
}

// Records returns a copy of the full record set, tombstones included.
// Used by the durable index to persist snapshots.
func (i *Index) Records() []domain.IndexRecord {
	i.mu.RLock()
	defer i.mu.RUnlock()

	records := make([]domain.IndexRecord, len(i.records))
	copy(records, i.records)
	return records
}

// Restore replaces the record set with a previously persisted snapshot.
func (i *Index) Restore(records []domain.IndexRecord) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.records = append(i.records[:0], records...)
}

// embedNotes chunks the notes and embeds every chunk in one batch.
// No index state is touched here: this is the all-or-nothing half of
// every mutation.
func (i *Index) embedNotes(ctx context.Context, notes []domain.Note) ([]domain.Chunk, [][]float32, error) {
	chunks := i.splitter.SplitNotes(notes)
	if len(chunks) == 0 {
		return nil, nil, nil
	}

	texts := make([]string, len(chunks))
	for idx, chunk := range chunks {
		texts[idx] = chunk.Content
	}

	embeddings, err := i.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: embed %d chunks: %v", domain.ErrEmbedding, len(chunks), err)
	}
	if len(embeddings) != len(chunks) {
		return nil, nil, fmt.Errorf("%w: got %d embeddings for %d chunks", domain.ErrEmbedding, len(embeddings), len(chunks))
	}
	for idx, embedding := range embeddings {
		if len(embedding) == 0 {
			return nil, nil, fmt.Errorf("%w: empty embedding for chunk %d", domain.ErrEmbedding, idx)
		}
	}
	return chunks, embeddings, nil
}

// append commits embedded chunks as new records. Caller holds the lock.
func (i *Index) append(chunks []domain.Chunk, embeddings [][]float32) {
	for idx, chunk := range chunks {
		i.records = append(i.records, domain.IndexRecord{
			ID:        len(i.records),
			Content:   chunk.Content,
			Embedding: embeddings[idx],
			Metadata:  chunk.Metadata,
		})
	}
}

// tombstone marks every live record of the note deleted and returns
// how many it marked. Caller holds the lock.
func (i *Index) tombstone(noteID string) int {
	count := 0
	for idx := range i.records {
		rec := &i.records[idx]
		if rec.Deleted || rec.Metadata.NoteID != noteID {
			continue
		}
		rec.Deleted = true
		count++
	}
	return count
}

// cosine computes cosine similarity between two vectors, tolerating a
// length mismatch by comparing the shared prefix.
func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

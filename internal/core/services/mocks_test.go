package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// mockEmbedder produces deterministic letter-frequency vectors so
// similar texts score close without a real provider.
type mockEmbedder struct {
	batchCalls atomic.Int64
	embedErr   error
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return letterFrequencies(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls.Add(1)
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = letterFrequencies(text)
	}
	return vectors, nil
}

func (m *mockEmbedder) Dimensions() int              { return 26 }
func (m *mockEmbedder) ModelName() string            { return "mock-embedder" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

func letterFrequencies(text string) []float32 {
	vector := make([]float32, 26)
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z':
			vector[r-'a']++
		case r >= 'A' && r <= 'Z':
			vector[r-'A']++
		}
	}
	return vector
}

// mockCompletion streams a fixed token sequence, or fails with
// streamErr after emitting Start.
type mockCompletion struct {
	tokens    []string
	streamErr error
}

func (m *mockCompletion) StreamComplete(ctx context.Context, _ string, handler driven.StreamHandler) error {
	if handler.OnStart != nil {
		handler.OnStart()
	}
	if m.streamErr != nil {
		return m.streamErr
	}
	for _, token := range m.tokens {
		if err := ctx.Err(); err != nil {
			return err
		}
		if handler.OnToken != nil {
			handler.OnToken(token)
		}
	}
	return nil
}

func (m *mockCompletion) ModelName() string            { return "mock-completion" }
func (m *mockCompletion) Ping(_ context.Context) error { return nil }
func (m *mockCompletion) Close() error                 { return nil }

// mockSnapshotStore keeps snapshots in memory and can simulate load
// failures.
type mockSnapshotStore struct {
	mu      sync.Mutex
	records []domain.IndexRecord
	loadErr error
}

func (m *mockSnapshotStore) Load(_ context.Context) ([]domain.IndexRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]domain.IndexRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *mockSnapshotStore) Save(_ context.Context, records []domain.IndexRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make([]domain.IndexRecord, len(records))
	copy(m.records, records)
	return nil
}

func (m *mockSnapshotStore) Close() error { return nil }

var errMockProvider = errors.New("model overloaded")

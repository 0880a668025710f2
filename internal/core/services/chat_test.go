package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/adapters/driven/storage/memory"
	vectormemory "github.com/custodia-labs/recall-cli/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/recall-cli/internal/chunker"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/events"
)

// newChatFixture builds an orchestrator over an in-memory stack with
// one note for u1 and one for u2.
func newChatFixture(t *testing.T, completion driven.CompletionService) (*ChatOrchestrator, *events.Bus) {
	t.Helper()

	noteStore := memory.NewNoteStore()
	ctx := context.Background()
	require.NoError(t, noteStore.SaveNote(ctx, &domain.Note{
		ID: "n1", Title: "Groceries", Body: "Buy apples and oranges.", OwnerID: "u1",
	}))
	require.NoError(t, noteStore.SaveNote(ctx, &domain.Note{
		ID: "n2", Title: "Chores", Body: "Water the plants on Sunday.", OwnerID: "u2",
	}))

	index := vectormemory.NewIndex(chunker.New(), &mockEmbedder{})
	manager := NewIndexManager(index, noteStore)
	bus := events.NewBus()

	return NewChatOrchestrator(manager, completion, bus), bus
}

// collectUntilTerminal drains the subscription until an end or error
// event arrives.
func collectUntilTerminal(t *testing.T, sub driven.ChatSubscription) []domain.ChatEvent {
	t.Helper()

	var collected []domain.ChatEvent
	timeout := time.After(2 * time.Second)
	for {
		select {
		case event := <-sub.Events():
			collected = append(collected, event)
			if event.Type == domain.ChatEventEnd || event.Type == domain.ChatEventError {
				return collected
			}
		case <-timeout:
			t.Fatalf("no terminal event after %d events", len(collected))
			return nil
		}
	}
}

func TestChatOrchestrator_StreamsAnswer(t *testing.T) {
	completion := &mockCompletion{tokens: []string{"Buy ", "apples."}}
	orchestrator, bus := newChatFixture(t, completion)

	sub := bus.Subscribe("u1")
	defer sub.Close()

	sources, err := orchestrator.AskQuestion(context.Background(), domain.ChatRequest{
		Question: "What should I buy?",
		OwnerID:  "u1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, sources)
	for _, source := range sources {
		assert.Equal(t, "n1", source.Metadata.NoteID)
		assert.Equal(t, "u1", source.Metadata.OwnerID)
	}

	collected := collectUntilTerminal(t, sub)
	require.GreaterOrEqual(t, len(collected), 3)
	assert.Equal(t, domain.ChatEventStart, collected[0].Type)
	assert.Equal(t, domain.ChatEventEnd, collected[len(collected)-1].Type)

	var answer strings.Builder
	for _, event := range collected[1 : len(collected)-1] {
		require.Equal(t, domain.ChatEventToken, event.Type)
		answer.WriteString(event.Text)
	}
	assert.Equal(t, "Buy apples.", answer.String())

	for _, event := range collected {
		assert.Equal(t, "u1", event.OwnerID)
	}
}

func TestChatOrchestrator_OwnerWithoutMatchingNotes(t *testing.T) {
	completion := &mockCompletion{tokens: []string{"I don't know."}}
	orchestrator, bus := newChatFixture(t, completion)

	sub := bus.Subscribe("u3")
	defer sub.Close()

	// u3 has no notes at all: retrieval is empty, generation still runs.
	sources, err := orchestrator.AskQuestion(context.Background(), domain.ChatRequest{
		Question: "What should I buy?",
		OwnerID:  "u3",
	})
	require.NoError(t, err)
	assert.Empty(t, sources)

	collected := collectUntilTerminal(t, sub)
	assert.Equal(t, domain.ChatEventStart, collected[0].Type)
	assert.Equal(t, domain.ChatEventEnd, collected[len(collected)-1].Type)
}

func TestChatOrchestrator_SourcesNeverCrossOwners(t *testing.T) {
	completion := &mockCompletion{tokens: []string{"ok"}}
	orchestrator, bus := newChatFixture(t, completion)

	sub := bus.Subscribe("u2")
	defer sub.Close()

	// u2 asks u1's question verbatim; only u2's chunks may come back.
	sources, err := orchestrator.AskQuestion(context.Background(), domain.ChatRequest{
		Question: "Buy apples and oranges.",
		OwnerID:  "u2",
	})
	require.NoError(t, err)
	for _, source := range sources {
		assert.Equal(t, "u2", source.Metadata.OwnerID)
	}
	collectUntilTerminal(t, sub)
}

func TestChatOrchestrator_GenerationFailurePublishesErrorEvent(t *testing.T) {
	completion := &mockCompletion{streamErr: errMockProvider}
	orchestrator, bus := newChatFixture(t, completion)

	sub := bus.Subscribe("u1")
	defer sub.Close()

	// The failure must not surface through the return path.
	_, err := orchestrator.AskQuestion(context.Background(), domain.ChatRequest{
		Question: "What should I buy?",
		OwnerID:  "u1",
	})
	require.NoError(t, err)

	collected := collectUntilTerminal(t, sub)
	last := collected[len(collected)-1]
	assert.Equal(t, domain.ChatEventError, last.Type)
	assert.Contains(t, last.Error, "model overloaded")
	for _, event := range collected {
		assert.NotEqual(t, domain.ChatEventEnd, event.Type)
	}
}

func TestChatOrchestrator_EventsStayWithRequestOwner(t *testing.T) {
	completion := &mockCompletion{tokens: []string{"answer"}}
	orchestrator, bus := newChatFixture(t, completion)

	u1 := bus.Subscribe("u1")
	defer u1.Close()
	u2 := bus.Subscribe("u2")
	defer u2.Close()

	_, err := orchestrator.AskQuestion(context.Background(), domain.ChatRequest{
		Question: "What should I buy?",
		OwnerID:  "u1",
	})
	require.NoError(t, err)

	collectUntilTerminal(t, u1)

	select {
	case event := <-u2.Events():
		t.Fatalf("u2 received %s event for u1's request", event.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

// blockingCompletion emits Start, then waits for cancellation.
type blockingCompletion struct{}

func (b *blockingCompletion) StreamComplete(ctx context.Context, _ string, handler driven.StreamHandler) error {
	if handler.OnStart != nil {
		handler.OnStart()
	}
	<-ctx.Done()
	return ctx.Err()
}

func (b *blockingCompletion) ModelName() string            { return "blocking" }
func (b *blockingCompletion) Ping(_ context.Context) error { return nil }
func (b *blockingCompletion) Close() error                 { return nil }

func TestChatOrchestrator_NoEventsAfterCancellation(t *testing.T) {
	orchestrator, bus := newChatFixture(t, &blockingCompletion{})

	sub := bus.Subscribe("u1")
	defer sub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	_, err := orchestrator.AskQuestion(ctx, domain.ChatRequest{
		Question: "What should I buy?",
		OwnerID:  "u1",
	})
	require.NoError(t, err)

	// The stream opens, then the caller walks away.
	select {
	case event := <-sub.Events():
		require.Equal(t, domain.ChatEventStart, event.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("no start event")
	}
	cancel()

	select {
	case event := <-sub.Events():
		t.Fatalf("received %s event after cancellation", event.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

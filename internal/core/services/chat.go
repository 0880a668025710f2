package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// Ensure ChatOrchestrator implements the interface.
var _ driving.ChatService = (*ChatOrchestrator)(nil)

// answerContextSize is how many chunks ground each answer.
const answerContextSize = 5

// fallbackErrorMessage is published when a provider fails without a
// usable message of its own.
const fallbackErrorMessage = "An error occurred please try again."

// systemTemplate instructs the model to answer only from the retrieved
// context. The placeholder is filled with the matched chunk texts.
const systemTemplate = `Use the following pieces of context to answer the users question.
If you don't know the answer, just say that you don't know, don't try to make up an answer.
The following context originates from the users notes.
----------------
%s`

// ChatOrchestrator answers questions grounded on the asking owner's
// notes. Retrieval is synchronous; generation streams through the chat
// bus from its own goroutine.
type ChatOrchestrator struct {
	indexes    *IndexManager
	completion driven.CompletionService
	bus        driven.ChatBus
}

// NewChatOrchestrator creates a new chat orchestrator.
func NewChatOrchestrator(
	indexes *IndexManager,
	completion driven.CompletionService,
	bus driven.ChatBus,
) *ChatOrchestrator {
	return &ChatOrchestrator{
		indexes:    indexes,
		completion: completion,
		bus:        bus,
	}
}

// AskQuestion retrieves the chunks most relevant to the question among
// the owner's notes and returns them immediately. The answer itself is
// generated concurrently and streamed over the bus; generation
// failures become error events, never an error from this method.
func (o *ChatOrchestrator) AskQuestion(
	ctx context.Context, req domain.ChatRequest,
) ([]domain.ScoredChunk, error) {
	logger.Debug("Question from %s: %q", req.OwnerID, req.Question)

	index, err := o.indexes.Index(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize index: %w", err)
	}

	// The owner filter is mandatory: no request may retrieve another
	// owner's chunks, however similar.
	sources, err := index.Search(ctx, req.Question, answerContextSize, func(meta domain.ChunkMetadata) bool {
		return meta.OwnerID == req.OwnerID
	})
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	logger.Debug("Retrieved %d context chunks", len(sources))

	prompt := buildPrompt(sources, req.Question)
	go o.stream(ctx, prompt, req.OwnerID)

	return sources, nil
}

// stream runs one generation and publishes its lifecycle to the bus.
// After the context is cancelled no further events are published.
func (o *ChatOrchestrator) stream(ctx context.Context, prompt, ownerID string) {
	handler := driven.StreamHandler{
		OnStart: func() {
			o.bus.Publish(domain.NewStartEvent(ownerID))
		},
		OnToken: func(text string) {
			if ctx.Err() != nil {
				return
			}
			o.bus.Publish(domain.NewTokenEvent(text, ownerID))
		},
	}

	err := o.completion.StreamComplete(ctx, prompt, handler)
	if ctx.Err() != nil {
		logger.Debug("Generation cancelled for %s", ownerID)
		return
	}
	if err != nil {
		logger.Warn("Generation failed for %s: %v", ownerID, err)
		msg := err.Error()
		if msg == "" {
			msg = fallbackErrorMessage
		}
		o.bus.Publish(domain.NewErrorEvent(msg, ownerID))
		return
	}

	o.bus.Publish(domain.NewEndEvent(ownerID))
}

// buildPrompt assembles the grounding prompt from the retrieved chunks
// and the verbatim question.
func buildPrompt(sources []domain.ScoredChunk, question string) string {
	contents := make([]string, len(sources))
	for i, source := range sources {
		contents[i] = source.Content
	}
	context := strings.Join(contents, "\n\n")

	return fmt.Sprintf(systemTemplate, context) + "\n\n" + question
}

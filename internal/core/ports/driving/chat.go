package driving

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// ChatService answers questions grounded on the caller's own notes.
type ChatService interface {
	// AskQuestion retrieves the chunks most relevant to the question,
	// restricted to the requesting owner, and returns them immediately.
	// The generated answer streams concurrently through the chat bus;
	// consume a subscription for the same owner to observe it.
	// Generation failures surface as error events on the bus, never
	// through this return path.
	AskQuestion(ctx context.Context, req domain.ChatRequest) ([]domain.ScoredChunk, error)
}

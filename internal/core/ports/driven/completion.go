package driven

import "context"

// StreamHandler receives callbacks while a completion streams.
// Both callbacks may be nil. Completion and failure are reported
// through StreamComplete's return value, not through callbacks.
type StreamHandler struct {
	// OnStart is called once, after the provider accepted the request
	// and before the first token.
	OnStart func()

	// OnToken is called for every incremental piece of generated text.
	OnToken func(text string)
}

// CompletionService streams text generation from a language model.
//
// Implementations may include:
//   - OpenAI (chat completions with stream: true)
//   - Ollama (local models)
type CompletionService interface {
	// StreamComplete generates an answer for the prompt, delivering
	// incremental tokens through the handler. It returns nil once the
	// stream completed, or the provider's error if generation failed.
	// Cancelling the context aborts the stream; no callbacks fire
	// after that.
	StreamComplete(ctx context.Context, prompt string, handler StreamHandler) error

	// ModelName returns the name of the completion model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

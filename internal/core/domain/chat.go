package domain

// ChatEventType discriminates the lifecycle events of a streamed answer.
type ChatEventType string

const (
	// ChatEventStart signals the completion provider began generating.
	ChatEventStart ChatEventType = "start"

	// ChatEventToken carries one incremental piece of the answer.
	ChatEventToken ChatEventType = "token"

	// ChatEventEnd signals the answer completed normally.
	ChatEventEnd ChatEventType = "end"

	// ChatEventError signals generation failed; no tokens follow it.
	ChatEventError ChatEventType = "error"
)

// ChatEvent is a single lifecycle event of an in-flight answer.
// Events are ephemeral: published once, never retained. Every event
// carries the owner of the request that produced it so subscribers
// can be isolated per owner.
type ChatEvent struct {
	// Type discriminates the event.
	Type ChatEventType `json:"type"`

	// Text is the incremental answer text. Only set for token events.
	Text string `json:"text,omitempty"`

	// Error is the failure message. Only set for error events.
	Error string `json:"error,omitempty"`

	// OwnerID is the owner of the request that produced the event.
	OwnerID string `json:"ownerId"`
}

// ChatRequest is a natural-language question asked by an owner.
type ChatRequest struct {
	// Question is the verbatim user question.
	Question string

	// OwnerID identifies the requesting user. Retrieval is
	// restricted to this owner's notes.
	OwnerID string
}

// NewStartEvent builds a start event for the given owner.
func NewStartEvent(ownerID string) ChatEvent {
	return ChatEvent{Type: ChatEventStart, OwnerID: ownerID}
}

// NewTokenEvent builds a token event for the given owner.
func NewTokenEvent(text, ownerID string) ChatEvent {
	return ChatEvent{Type: ChatEventToken, Text: text, OwnerID: ownerID}
}

// NewEndEvent builds an end event for the given owner.
func NewEndEvent(ownerID string) ChatEvent {
	return ChatEvent{Type: ChatEventEnd, OwnerID: ownerID}
}

// NewErrorEvent builds an error event for the given owner.
func NewErrorEvent(message, ownerID string) ChatEvent {
	return ChatEvent{Type: ChatEventError, Error: message, OwnerID: ownerID}
}

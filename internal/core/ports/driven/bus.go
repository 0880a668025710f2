package driven

import "github.com/custodia-labs/recall-cli/internal/core/domain"

// ChatSubscription is one subscriber's live view of the chat bus.
// Close must be safe to call multiple times.
type ChatSubscription interface {
	// Events streams the matching events published while the
	// subscription is active. A subscriber sees nothing from before it
	// subscribed. The channel is closed by Close.
	Events() <-chan domain.ChatEvent

	// Close unsubscribes and releases the underlying channel.
	Close() error
}

// ChatBus multicasts answer lifecycle events inside the process.
// It retains nothing: an event published with no matching subscriber
// listening is gone.
type ChatBus interface {
	// Publish delivers the event to every subscription whose owner
	// matches. It is fire-and-forget and never blocks on a slow
	// subscriber.
	Publish(event domain.ChatEvent)

	// Subscribe registers a new subscription receiving only events for
	// the given owner. Multiple simultaneous subscriptions for the same
	// owner each receive every matching event independently.
	Subscribe(ownerID string) ChatSubscription
}

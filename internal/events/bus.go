// Package events provides the in-process multicast bus that fans chat
// lifecycle events out to per-owner subscribers.
package events

import (
	"sync"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// Ensure Bus implements the interface.
var _ driven.ChatBus = (*Bus)(nil)

// subscriptionBuffer sizes each subscriber's channel. Publishing never
// blocks: events beyond a full buffer are dropped for that subscriber.
const subscriptionBuffer = 64

// Bus is an in-process, non-buffering multicast of chat events.
// It retains nothing and replays nothing; a subscriber only sees
// events published while its subscription is active.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int64]*subscription
	nextID int64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[int64]*subscription),
	}
}

// Publish delivers the event to every subscription registered for the
// event's owner. It is fire-and-forget: a subscriber that cannot keep
// up loses events rather than stalling the publisher.
func (b *Bus) Publish(event domain.ChatEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		if sub.ownerID != event.OwnerID {
			continue
		}
		select {
		case sub.events <- event:
		default:
			// Subscriber buffer full; drop rather than block.
		}
	}
}

// Subscribe registers a subscription that receives only events carrying
// the given owner ID. Each subscription receives events independently.
func (b *Bus) Subscribe(ownerID string) driven.ChatSubscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscription{
		bus:     b,
		id:      b.nextID,
		ownerID: ownerID,
		events:  make(chan domain.ChatEvent, subscriptionBuffer),
	}
	b.subs[sub.id] = sub
	b.nextID++
	return sub
}

// Close closes every live subscription. The bus stays usable, it is
// simply empty afterwards.
func (b *Bus) Close() error {
	b.mu.Lock()
	subs := make([]*subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	for _, sub := range subs {
		_ = sub.Close()
	}
	return nil
}

// remove deregisters a subscription. Once remove returns, no publisher
// holds a reference to the subscription's channel, so it is safe for
// the caller to close it.
func (b *Bus) remove(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, id)
}

// subscription is one subscriber's registration on the bus.
type subscription struct {
	bus     *Bus
	id      int64
	ownerID string
	events  chan domain.ChatEvent
	close   sync.Once
}

// Events returns the subscriber's event channel. It is closed by Close.
func (s *subscription) Events() <-chan domain.ChatEvent {
	return s.events
}

// Close deregisters the subscription and closes its channel.
// Safe to call multiple times.
func (s *subscription) Close() error {
	s.close.Do(func() {
		s.bus.remove(s.id)
		close(s.events)
	})
	return nil
}

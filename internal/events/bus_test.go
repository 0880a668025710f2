package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

func TestBus_DeliversToMatchingOwner(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe("u1")
	defer sub.Close()

	bus.Publish(domain.NewTokenEvent("hello", "u1"))

	select {
	case evt := <-sub.Events():
		assert.Equal(t, domain.ChatEventToken, evt.Type)
		assert.Equal(t, "hello", evt.Text)
		assert.Equal(t, "u1", evt.OwnerID)
	case <-time.After(time.Second):
		t.Fatal("expected event was not delivered")
	}
}

func TestBus_OwnerIsolation(t *testing.T) {
	bus := NewBus()
	subA := bus.Subscribe("ownerA")
	defer subA.Close()

	// Publish events for a different owner only.
	bus.Publish(domain.NewStartEvent("ownerB"))
	bus.Publish(domain.NewTokenEvent("secret", "ownerB"))
	bus.Publish(domain.NewEndEvent("ownerB"))

	select {
	case evt := <-subA.Events():
		t.Fatalf("ownerA observed ownerB's event: %+v", evt)
	case <-time.After(100 * time.Millisecond):
		// Nothing leaked.
	}
}

func TestBus_MulticastToAllSubscriptions(t *testing.T) {
	bus := NewBus()
	first := bus.Subscribe("u1")
	second := bus.Subscribe("u1")
	defer first.Close()
	defer second.Close()

	bus.Publish(domain.NewStartEvent("u1"))

	for _, sub := range []interface{ Events() <-chan domain.ChatEvent }{first, second} {
		select {
		case evt := <-sub.Events():
			assert.Equal(t, domain.ChatEventStart, evt.Type)
		case <-time.After(time.Second):
			t.Fatal("subscription missed a multicast event")
		}
	}
}

func TestBus_LateSubscriberSeesNothing(t *testing.T) {
	bus := NewBus()
	bus.Publish(domain.NewTokenEvent("early", "u1"))

	sub := bus.Subscribe("u1")
	defer sub.Close()

	select {
	case evt := <-sub.Events():
		t.Fatalf("late subscriber received retained event: %+v", evt)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBus_CloseStopsDeliveryAndClosesChannel(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe("u1")

	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close(), "close must be idempotent")

	// Publishing after close must not panic.
	bus.Publish(domain.NewTokenEvent("after close", "u1"))

	_, open := <-sub.Events()
	assert.False(t, open, "channel should be closed after Close")
}

func TestBus_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe("u1")
	defer sub.Close()

	// Never read from the subscription; publish far past the buffer.
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriptionBuffer*4; i++ {
			bus.Publish(domain.NewTokenEvent("x", "u1"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestBus_CloseShutsDownAllSubscriptions(t *testing.T) {
	bus := NewBus()
	u1 := bus.Subscribe("u1")
	u2 := bus.Subscribe("u2")

	require.NoError(t, bus.Close())

	_, open := <-u1.Events()
	assert.False(t, open)
	_, open = <-u2.Events()
	assert.False(t, open)

	// Publishing into an emptied bus is a no-op.
	bus.Publish(domain.NewTokenEvent("late", "u1"))
}

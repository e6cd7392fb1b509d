// Package auth contains authentication-related use cases.
package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSessionBroker_SubscribePublish(t *testing.T) {
	broker := NewSessionBroker()
	userID := uuid.New()

	// Test subscriber receives published events.
	t.Run("subscriber receives published events", func(t *testing.T) {
		events, unsubscribe := broker.Subscribe()
		defer unsubscribe()

		broker.Publish(SessionEvent{
			Type:       SessionSignedIn,
			UserID:     userID,
			Email:      "user@example.com",
			OccurredAt: time.Now().UTC(),
		})

		select {
		case event := <-events:
			if event.Type != SessionSignedIn {
				t.Errorf("expected event type %s, got %s", SessionSignedIn, event.Type)
			}
			if event.UserID != userID {
				t.Errorf("expected user ID %s, got %s", userID, event.UserID)
			}
			if event.Email != "user@example.com" {
				t.Errorf("expected email user@example.com, got %s", event.Email)
			}
		case <-time.After(time.Second):
			t.Fatal("expected to receive event, timed out")
		}
	})

	// Test all subscribers receive each event.
	t.Run("all subscribers receive each event", func(t *testing.T) {
		events1, unsubscribe1 := broker.Subscribe()
		defer unsubscribe1()
		events2, unsubscribe2 := broker.Subscribe()
		defer unsubscribe2()

		broker.Publish(SessionEvent{Type: SessionSignedOut, UserID: userID})

		for i, events := range []<-chan SessionEvent{events1, events2} {
			select {
			case event := <-events:
				if event.Type != SessionSignedOut {
					t.Errorf("subscriber %d: expected event type %s, got %s", i, SessionSignedOut, event.Type)
				}
			case <-time.After(time.Second):
				t.Fatalf("subscriber %d: expected to receive event, timed out", i)
			}
		}
	})

	// Test unsubscribe closes the channel and removes the subscription.
	t.Run("unsubscribe closes the channel", func(t *testing.T) {
		events, unsubscribe := broker.Subscribe()
		before := broker.SubscriberCount()

		unsubscribe()

		if broker.SubscriberCount() != before-1 {
			t.Errorf("expected subscriber count %d, got %d", before-1, broker.SubscriberCount())
		}

		if _, open := <-events; open {
			t.Error("expected channel to be closed after unsubscribe")
		}
	})

	// Test unsubscribe is idempotent.
	t.Run("unsubscribe is idempotent", func(t *testing.T) {
		_, unsubscribe := broker.Subscribe()
		unsubscribe()
		// Second call must not panic on the already-closed channel.
		unsubscribe()
	})

	// Test unsubscribed channel receives no further events.
	t.Run("unsubscribed channel receives no further events", func(t *testing.T) {
		events, unsubscribe := broker.Subscribe()
		unsubscribe()

		broker.Publish(SessionEvent{Type: SessionSignedIn, UserID: userID})

		if event, open := <-events; open {
			t.Errorf("expected no event after unsubscribe, got %v", event)
		}
	})

	// Test publish does not block on a full subscriber buffer.
	t.Run("publish does not block on a full subscriber buffer", func(t *testing.T) {
		_, unsubscribe := broker.Subscribe()
		defer unsubscribe()

		done := make(chan struct{})
		go func() {
			for i := 0; i < subscriberBufferSize*2; i++ {
				broker.Publish(SessionEvent{Type: SessionSignedIn, UserID: userID})
			}
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("expected publish to drop events instead of blocking")
		}
	})
}

func TestSessionBroker_ThreadSafety(t *testing.T) {
	broker := NewSessionBroker()

	const goroutines = 50
	const iterations = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)

	// Run concurrent operations to verify no race conditions.
	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()

			for j := 0; j < iterations; j++ {
				switch j % 3 {
				case 0:
					_, unsubscribe := broker.Subscribe()
					unsubscribe()
				case 1:
					broker.Publish(SessionEvent{Type: SessionSignedIn, UserID: uuid.New()})
				case 2:
					broker.SubscriberCount()
				}
			}
		}(i)
	}

	wg.Wait()
	// If we reach here without data race panic, the test passes.
}

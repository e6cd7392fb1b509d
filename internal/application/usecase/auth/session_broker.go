// Package auth contains authentication-related use cases.
package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionEventType identifies the kind of session change.
type SessionEventType string

const (
	SessionSignedIn  SessionEventType = "signed_in"
	SessionSignedOut SessionEventType = "signed_out"
)

// SessionEvent describes a session change for one user.
type SessionEvent struct {
	Type       SessionEventType
	UserID     uuid.UUID
	Email      string
	OccurredAt time.Time
}

// subscriberBufferSize bounds each subscriber channel so a slow consumer
// drops events instead of blocking publishers.
const subscriberBufferSize = 16

// SessionBroker fans session events out to in-process subscribers.
// Subscribe hands back the event channel together with an unsubscribe
// function; callers must invoke it on teardown or the subscription leaks.
type SessionBroker struct {
	mu          sync.Mutex
	subscribers map[int]chan SessionEvent
	nextID      int
}

// NewSessionBroker creates a new SessionBroker instance.
func NewSessionBroker() *SessionBroker {
	return &SessionBroker{
		subscribers: make(map[int]chan SessionEvent),
	}
}

// Subscribe registers a new subscriber and returns its event channel plus
// the function that removes the subscription and closes the channel.
func (b *SessionBroker) Subscribe() (<-chan SessionEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan SessionEvent, subscriberBufferSize)
	b.subscribers[id] = ch

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subscribers[id]; ok {
			delete(b.subscribers, id)
			close(sub)
		}
	}

	return ch, unsubscribe
}

// Publish delivers the event to every current subscriber. Subscribers whose
// buffer is full miss the event rather than stalling the publisher.
func (b *SessionBroker) Publish(event SessionEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *SessionBroker) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}

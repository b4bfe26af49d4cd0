package changefeed

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

// DefaultBuffer is the per-subscription queue length.
const DefaultBuffer = 16

// Publisher accepts committed change events.
type Publisher interface {
	Publish(event Event)
}

// Subscription receives the events of one user until it is canceled.
type Subscription struct {
	userID string
	events chan Event
	once   sync.Once
}

// Events returns the delivery channel. It is closed when the subscription
// ends.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

func (s *Subscription) close() {
	s.once.Do(func() {
		close(s.events)
	})
}

// Broker routes events to the subscriptions of the owning user. A full
// subscription queue drops the event; consumers refetch on any notification
// so a dropped duplicate loses nothing.
type Broker struct {
	mu     sync.Mutex
	subs   map[string]map[*Subscription]struct{}
	buffer int
	closed bool
	logger *zap.Logger
}

// NewBroker returns a broker whose subscriptions queue buffer events.
func NewBroker(buffer int, logger *zap.Logger) *Broker {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Broker{
		subs:   make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
		logger: logger,
	}
}

// Subscribe registers a subscription for userID. The returned cancel func
// removes it and closes its channel; calling it more than once is safe.
func (b *Broker) Subscribe(userID string) (*Subscription, func()) {
	userID = strings.TrimSpace(userID)
	sub := &Subscription{userID: userID, events: make(chan Event, b.buffer)}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		sub.close()
		return sub, func() {}
	}
	userSubs, ok := b.subs[userID]
	if !ok {
		userSubs = make(map[*Subscription]struct{})
		b.subs[userID] = userSubs
	}
	userSubs[sub] = struct{}{}
	b.mu.Unlock()

	return sub, func() { b.unsubscribe(sub) }
}

func (b *Broker) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	if userSubs, ok := b.subs[sub.userID]; ok {
		if _, present := userSubs[sub]; present {
			delete(userSubs, sub)
			if len(userSubs) == 0 {
				delete(b.subs, sub.userID)
			}
			sub.close()
		}
	}
	b.mu.Unlock()
}

// Publish delivers event to every subscription of event.UserID without
// blocking.
func (b *Broker) Publish(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for sub := range b.subs[event.UserID] {
		select {
		case sub.events <- event:
		default:
			b.logger.Debug("dropped change event for slow subscriber",
				zap.String("event_id", event.ID),
				zap.String("user_id", event.UserID),
			)
		}
	}
}

// SubscriberCount returns how many subscriptions userID has.
func (b *Broker) SubscriberCount(userID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[strings.TrimSpace(userID)])
}

// Close ends every subscription. Later publishes are ignored and later
// subscriptions start closed.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for userID, userSubs := range b.subs {
		for sub := range userSubs {
			sub.close()
		}
		delete(b.subs, userID)
	}
}

var _ Publisher = (*Broker)(nil)

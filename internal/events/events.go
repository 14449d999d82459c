// Package events carries committed-change notifications from mutations to
// subscription resolvers. Payloads are entity ids; subscribers load the entity
// themselves.
package events

import (
	"context"
	"sync"
)

// subscriberBuffer is how many undelivered ids a slow subscriber may hold before
// further ids are dropped for it.
const subscriberBuffer = 64

// Broker publishes ids on topics and streams them to subscribers.
type Broker interface {
	Publish(ctx context.Context, topic string, id int) error
	// Subscribe returns a channel of ids published on topic after the call. The
	// channel is closed once ctx is done.
	Subscribe(ctx context.Context, topic string) (<-chan int, error)
	Close() error
}

// subscription is a closable, non-blocking delivery channel.
type subscription struct {
	mu     sync.Mutex
	ch     chan int
	closed bool
}

func newSubscription() *subscription {
	return &subscription{ch: make(chan int, subscriberBuffer)}
}

// deliver reports false when id was dropped.
func (s *subscription) deliver(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- id:
		return true
	default:
		return false
	}
}

func (s *subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

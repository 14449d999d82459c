package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrBrokerClosed is returned by a broker after Close.
var ErrBrokerClosed = errors.New("event broker closed")

// MemoryBroker is an in-process Broker. Delivery is best effort: a subscriber
// whose buffer is full misses the id.
type MemoryBroker struct {
	logger *slog.Logger

	mu     sync.RWMutex
	topics map[string]map[*subscription]struct{}
	closed bool
}

// NewMemoryBroker returns an empty in-process broker.
func NewMemoryBroker(logger *slog.Logger) *MemoryBroker {
	return &MemoryBroker{
		logger: logger,
		topics: make(map[string]map[*subscription]struct{}),
	}
}

func (b *MemoryBroker) Publish(ctx context.Context, topic string, id int) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBrokerClosed
	}
	for sub := range b.topics[topic] {
		if !sub.deliver(id) {
			b.logger.WarnContext(ctx, "subscriber buffer full, event dropped", "topic", topic, "id", id)
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context, topic string) (<-chan int, error) {
	sub := newSubscription()

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrBrokerClosed
	}
	if b.topics[topic] == nil {
		b.topics[topic] = make(map[*subscription]struct{})
	}
	b.topics[topic][sub] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		if subs := b.topics[topic]; subs != nil {
			delete(subs, sub)
			if len(subs) == 0 {
				delete(b.topics, topic)
			}
		}
		b.mu.Unlock()
		sub.close()
	}()
	return sub.ch, nil
}

// Subscribers returns the number of live subscriptions on topic.
func (b *MemoryBroker) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[topic])
}

// Close ends every subscription.
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for topic, subs := range b.topics {
		for sub := range subs {
			sub.close()
		}
		delete(b.topics, topic)
	}
	return nil
}

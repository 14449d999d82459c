package events

import "context"

// PublishObserver is told about every successful publish.
type PublishObserver interface {
	EventPublished(topic string)
}

type counted struct {
	Broker
	observer PublishObserver
}

// Counted wraps b so every successful Publish is reported to observer.
func Counted(b Broker, observer PublishObserver) Broker {
	if observer == nil {
		return b
	}
	return &counted{Broker: b, observer: observer}
}

func (c *counted) Publish(ctx context.Context, topic string, id int) error {
	if err := c.Broker.Publish(ctx, topic, id); err != nil {
		return err
	}
	c.observer.EventPublished(topic)
	return nil
}

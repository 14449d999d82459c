package events

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"
)

const subjectPrefix = "conference.events."

// NATSBroker fans events out through NATS core subjects so every server
// instance sees the mutations of the others.
type NATSBroker struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// NewNATSBroker connects to url.
func NewNATSBroker(url string, logger *slog.Logger) (*NATSBroker, error) {
	conn, err := nats.Connect(url,
		nats.Name("conferenceplanner"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSBroker{conn: conn, logger: logger}, nil
}

// Subject maps a topic to its NATS subject.
func Subject(topic string) string {
	return subjectPrefix + topic
}

func (b *NATSBroker) Publish(_ context.Context, topic string, id int) error {
	if err := b.conn.Publish(Subject(topic), []byte(strconv.Itoa(id))); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func (b *NATSBroker) Subscribe(ctx context.Context, topic string) (<-chan int, error) {
	out := newSubscription()
	natsSub, err := b.conn.Subscribe(Subject(topic), func(msg *nats.Msg) {
		id, err := strconv.Atoi(string(msg.Data))
		if err != nil {
			b.logger.Warn("malformed event payload", "subject", msg.Subject, "error", err)
			return
		}
		if !out.deliver(id) {
			b.logger.Warn("subscriber buffer full, event dropped", "topic", topic, "id", id)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}

	go func() {
		<-ctx.Done()
		if err := natsSub.Unsubscribe(); err != nil && b.conn.IsConnected() {
			b.logger.Warn("nats unsubscribe", "topic", topic, "error", err)
		}
		out.close()
	}()
	return out.ch, nil
}

// Close drains pending publishes and closes the connection.
func (b *NATSBroker) Close() error {
	if err := b.conn.Drain(); err != nil {
		b.conn.Close()
		return fmt.Errorf("drain nats: %w", err)
	}
	return nil
}

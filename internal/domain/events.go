package domain

import (
	"context"
	"fmt"
)

// TopicSessionScheduled carries the id of every session that was scheduled.
const TopicSessionScheduled = "OnSessionScheduled"

// TopicAttendeeCheckedIn returns the topic carrying attendee ids checked into the session.
func TopicAttendeeCheckedIn(sessionID int) string {
	return fmt.Sprintf("OnAttendeeCheckedIn_%d", sessionID)
}

// EventPublisher publishes entity ids on a topic after a committed change.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, id int) error
}

// UnitOfWork is the request-scoped store transaction seen by services.
type UnitOfWork interface {
	// Commit makes every write since the last commit durable.
	Commit(ctx context.Context) error
	// Rollback discards every write since the last commit.
	Rollback() error
}

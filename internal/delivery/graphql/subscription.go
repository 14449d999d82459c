package graphql

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"conferenceplanner/internal/domain"
	"conferenceplanner/internal/unitofwork"
)

// eventRequest returns the bundle one subscription event resolves against. Events
// outlive the request that opened the subscription, so each gets its own
// autocommit bundle and fresh loaders.
func (r *Resolver) eventRequest() *request {
	return r.newRequest(unitofwork.NewAutocommit(r.db))
}

// subscribe streams the ids published on topic through resolve until ctx ends.
// A failed subscription yields a closed stream.
//
// The engine resolves an event's fields before it receives the next one, so an
// event's loaders are closed once the following event has been handed over.
func subscribe[T any](ctx context.Context, r *Resolver, topic string, resolve func(*request, int) (*T, error)) <-chan *T {
	out := make(chan *T)
	ids, err := r.broker.Subscribe(ctx, topic)
	if err != nil {
		r.logger.ErrorContext(ctx, "subscribe", "topic", topic, "error", err)
		close(out)
		return out
	}

	go func() {
		var last *request
		defer func() {
			if last != nil {
				last.loaders.Close()
			}
			close(out)
		}()
		for id := range ids {
			req := r.eventRequest()
			v, err := resolve(req, id)
			if err != nil || v == nil {
				if err != nil {
					r.logger.ErrorContext(ctx, "resolve subscription event", "topic", topic, "id", id, "error", err)
				}
				req.loaders.Close()
				continue
			}
			select {
			case out <- v:
				if last != nil {
					last.loaders.Close()
				}
				last = req
			case <-ctx.Done():
				req.loaders.Close()
				return
			}
		}
	}()
	return out
}

func (r *Resolver) OnSessionScheduled(ctx context.Context) <-chan *sessionResolver {
	return subscribe(ctx, r, domain.TopicSessionScheduled, func(req *request, id int) (*sessionResolver, error) {
		return req.sessionByID(ctx, id)
	})
}

func (r *Resolver) OnAttendeeCheckedIn(ctx context.Context, args struct{ SessionID graphql.ID }) <-chan *checkInResolver {
	sessionID := unmarshalID(kindSession, args.SessionID)
	return subscribe(ctx, r, domain.TopicAttendeeCheckedIn(sessionID), func(req *request, attendeeID int) (*checkInResolver, error) {
		return &checkInResolver{req: req, sessionID: sessionID, attendeeID: attendeeID}, nil
	})
}

// checkInResolver is one check-in of an attendee into a session.
type checkInResolver struct {
	req        *request
	sessionID  int
	attendeeID int
}

func (c *checkInResolver) AttendeeID() graphql.ID { return marshalID(kindAttendee, c.attendeeID) }
func (c *checkInResolver) SessionID() graphql.ID  { return marshalID(kindSession, c.sessionID) }

func (c *checkInResolver) CheckInCount(ctx context.Context) (int32, error) {
	n, err := c.req.loaders.CheckInCountBySession.Load(ctx, c.sessionID)
	if err != nil {
		return 0, err
	}
	return clampInt32(n), nil
}

func (c *checkInResolver) Attendee(ctx context.Context) (*attendeeResolver, error) {
	a, err := c.req.attendeeByID(ctx, c.attendeeID)
	return mustExist(a, err, "attendee", c.attendeeID)
}

func (c *checkInResolver) Session(ctx context.Context) (*sessionResolver, error) {
	s, err := c.req.sessionByID(ctx, c.sessionID)
	return mustExist(s, err, "session", c.sessionID)
}

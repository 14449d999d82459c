package graphql

import (
	"context"

	"conferenceplanner/internal/domain"
)

type userErrorResolver struct {
	err domain.UserError
}

func (e *userErrorResolver) Message() string { return e.err.Message }
func (e *userErrorResolver) Code() string    { return e.err.Code }

// payload carries the user errors shared by every mutation payload.
type payload struct {
	errs []domain.UserError
}

// Errors is null when the mutation succeeded.
func (p payload) Errors() *[]*userErrorResolver {
	if len(p.errs) == 0 {
		return nil
	}
	out := make([]*userErrorResolver, len(p.errs))
	for i, e := range p.errs {
		out[i] = &userErrorResolver{err: e}
	}
	return &out
}

type addSpeakerPayload struct {
	payload
	speaker *speakerResolver
}

func (p *addSpeakerPayload) Speaker() *speakerResolver { return p.speaker }

type addSessionPayload struct {
	payload
	session *sessionResolver
}

func (p *addSessionPayload) Session() *sessionResolver { return p.session }

type scheduleSessionPayload struct {
	payload
	session *sessionResolver
}

func (p *scheduleSessionPayload) Session() *sessionResolver { return p.session }

func (p *scheduleSessionPayload) Track(ctx context.Context) (*trackResolver, error) {
	if p.session == nil {
		return nil, nil
	}
	return p.session.Track(ctx)
}

func (p *scheduleSessionPayload) Speakers(ctx context.Context) (*[]*speakerResolver, error) {
	if p.session == nil {
		return nil, nil
	}
	speakers, err := p.session.Speakers(ctx)
	if err != nil {
		return nil, err
	}
	return &speakers, nil
}

type trackPayload struct {
	payload
	track *trackResolver
}

func (p *trackPayload) Track() *trackResolver { return p.track }

type registerAttendeePayload struct {
	payload
	attendee *attendeeResolver
}

func (p *registerAttendeePayload) Attendee() *attendeeResolver { return p.attendee }

type checkInAttendeePayload struct {
	payload
	attendee  *attendeeResolver
	sessionID int
}

func (p *checkInAttendeePayload) Attendee() *attendeeResolver { return p.attendee }

func (p *checkInAttendeePayload) Session(ctx context.Context) (*sessionResolver, error) {
	if p.attendee == nil {
		return nil, nil
	}
	return p.attendee.req.sessionByID(ctx, p.sessionID)
}

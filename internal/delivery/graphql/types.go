package graphql

import (
	"context"
	"fmt"

	graphql "github.com/graph-gophers/graphql-go"

	"conferenceplanner/internal/domain"
)

type speakerResolver struct {
	req     *request
	speaker *domain.Speaker
}

func (s *speakerResolver) ID() graphql.ID { return marshalID(kindSpeaker, s.speaker.ID) }
func (s *speakerResolver) Name() string   { return s.speaker.Name }
func (s *speakerResolver) Bio() *string   { return optional(s.speaker.Bio) }
func (s *speakerResolver) Website() *string {
	return optional(s.speaker.Website)
}

func (s *speakerResolver) Sessions(ctx context.Context) ([]*sessionResolver, error) {
	ids, err := s.req.loaders.SessionIDsBySpeaker.Load(ctx, s.speaker.ID)
	if err != nil {
		return nil, err
	}
	return s.req.sessionsByIDs(ctx, ids)
}

type sessionResolver struct {
	req     *request
	session *domain.Session
}

func (s *sessionResolver) ID() graphql.ID    { return marshalID(kindSession, s.session.ID) }
func (s *sessionResolver) Title() string     { return s.session.Title }
func (s *sessionResolver) Abstract() *string { return optional(s.session.Abstract) }
func (s *sessionResolver) StartTime() *graphql.Time {
	return optionalTime(s.session.StartTime)
}
func (s *sessionResolver) EndTime() *graphql.Time {
	return optionalTime(s.session.EndTime)
}

func (s *sessionResolver) Duration() *string {
	d, ok := s.session.Duration()
	if !ok {
		return nil
	}
	iso := isoDuration(d)
	return &iso
}

func (s *sessionResolver) TrackID() *graphql.ID {
	if s.session.TrackID == nil {
		return nil
	}
	id := marshalID(kindTrack, *s.session.TrackID)
	return &id
}

func (s *sessionResolver) Track(ctx context.Context) (*trackResolver, error) {
	if s.session.TrackID == nil {
		return nil, nil
	}
	return s.req.trackByID(ctx, *s.session.TrackID)
}

func (s *sessionResolver) Speakers(ctx context.Context) ([]*speakerResolver, error) {
	ids, err := s.req.loaders.SpeakerIDsBySession.Load(ctx, s.session.ID)
	if err != nil {
		return nil, err
	}
	return s.req.speakersByIDs(ctx, ids)
}

func (s *sessionResolver) Attendees(ctx context.Context) ([]*attendeeResolver, error) {
	ids, err := s.req.loaders.AttendeeIDsBySession.Load(ctx, s.session.ID)
	if err != nil {
		return nil, err
	}
	return s.req.attendeesByIDs(ctx, ids)
}

type trackResolver struct {
	req   *request
	track *domain.Track
}

func (t *trackResolver) ID() graphql.ID { return marshalID(kindTrack, t.track.ID) }
func (t *trackResolver) Name() string   { return t.track.Name }

func (t *trackResolver) Sessions(ctx context.Context) ([]*sessionResolver, error) {
	ids, err := t.req.loaders.SessionIDsByTrack.Load(ctx, t.track.ID)
	if err != nil {
		return nil, err
	}
	return t.req.sessionsByIDs(ctx, ids)
}

type attendeeResolver struct {
	req      *request
	attendee *domain.Attendee
}

func (a *attendeeResolver) ID() graphql.ID    { return marshalID(kindAttendee, a.attendee.ID) }
func (a *attendeeResolver) FirstName() string { return a.attendee.FirstName }
func (a *attendeeResolver) LastName() string  { return a.attendee.LastName }
func (a *attendeeResolver) UserName() string  { return a.attendee.UserName }
func (a *attendeeResolver) EmailAddress() *string {
	return optional(a.attendee.EmailAddress)
}

func (a *attendeeResolver) Sessions(ctx context.Context) ([]*sessionResolver, error) {
	ids, err := a.req.loaders.SessionIDsByAttendee.Load(ctx, a.attendee.ID)
	if err != nil {
		return nil, err
	}
	return a.req.sessionsByIDs(ctx, ids)
}

// The helpers below turn loaded ids into resolvers. Relation lists skip ids whose
// row vanished; the ...OrNil variants keep a nil slot so list lookups by id stay
// aligned with their arguments.

func (req *request) speakersByIDs(ctx context.Context, ids []int) ([]*speakerResolver, error) {
	speakers, err := req.loaders.SpeakerByID.LoadMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*speakerResolver, 0, len(speakers))
	for _, sp := range speakers {
		if sp != nil {
			out = append(out, &speakerResolver{req: req, speaker: sp})
		}
	}
	return out, nil
}

func (req *request) speakersOrNil(ctx context.Context, ids []int) ([]*speakerResolver, error) {
	speakers, err := req.loaders.SpeakerByID.LoadMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*speakerResolver, len(speakers))
	for i, sp := range speakers {
		if sp != nil {
			out[i] = &speakerResolver{req: req, speaker: sp}
		}
	}
	return out, nil
}

func (req *request) sessionsByIDs(ctx context.Context, ids []int) ([]*sessionResolver, error) {
	sessions, err := req.loaders.SessionByID.LoadMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*sessionResolver, 0, len(sessions))
	for _, s := range sessions {
		if s != nil {
			out = append(out, &sessionResolver{req: req, session: s})
		}
	}
	return out, nil
}

func (req *request) sessionsOrNil(ctx context.Context, ids []int) ([]*sessionResolver, error) {
	sessions, err := req.loaders.SessionByID.LoadMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*sessionResolver, len(sessions))
	for i, s := range sessions {
		if s != nil {
			out[i] = &sessionResolver{req: req, session: s}
		}
	}
	return out, nil
}

func (req *request) tracksOrNil(ctx context.Context, ids []int) ([]*trackResolver, error) {
	tracks, err := req.loaders.TrackByID.LoadMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*trackResolver, len(tracks))
	for i, t := range tracks {
		if t != nil {
			out[i] = &trackResolver{req: req, track: t}
		}
	}
	return out, nil
}

func (req *request) attendeesByIDs(ctx context.Context, ids []int) ([]*attendeeResolver, error) {
	attendees, err := req.loaders.AttendeeByID.LoadMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*attendeeResolver, 0, len(attendees))
	for _, a := range attendees {
		if a != nil {
			out = append(out, &attendeeResolver{req: req, attendee: a})
		}
	}
	return out, nil
}

func (req *request) attendeesOrNil(ctx context.Context, ids []int) ([]*attendeeResolver, error) {
	attendees, err := req.loaders.AttendeeByID.LoadMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*attendeeResolver, len(attendees))
	for i, a := range attendees {
		if a != nil {
			out[i] = &attendeeResolver{req: req, attendee: a}
		}
	}
	return out, nil
}

func (req *request) speakerByID(ctx context.Context, id int) (*speakerResolver, error) {
	sp, err := req.loaders.SpeakerByID.Load(ctx, id)
	if err != nil || sp == nil {
		return nil, err
	}
	return &speakerResolver{req: req, speaker: sp}, nil
}

func (req *request) sessionByID(ctx context.Context, id int) (*sessionResolver, error) {
	s, err := req.loaders.SessionByID.Load(ctx, id)
	if err != nil || s == nil {
		return nil, err
	}
	return &sessionResolver{req: req, session: s}, nil
}

func (req *request) trackByID(ctx context.Context, id int) (*trackResolver, error) {
	t, err := req.loaders.TrackByID.Load(ctx, id)
	if err != nil || t == nil {
		return nil, err
	}
	return &trackResolver{req: req, track: t}, nil
}

func (req *request) attendeeByID(ctx context.Context, id int) (*attendeeResolver, error) {
	a, err := req.loaders.AttendeeByID.Load(ctx, id)
	if err != nil || a == nil {
		return nil, err
	}
	return &attendeeResolver{req: req, attendee: a}, nil
}

// mustExist turns a missing row behind a non-null field into a field error.
func mustExist[T any](v *T, err error, kind string, id int) (*T, error) {
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%s %d not found", kind, id)
	}
	return v, nil
}

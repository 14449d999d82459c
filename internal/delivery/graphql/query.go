package graphql

import (
	"context"
	"errors"
	"fmt"

	graphql "github.com/graph-gophers/graphql-go"

	"conferenceplanner/internal/domain"
)

type idArgs struct {
	ID graphql.ID
}

type idsArgs struct {
	IDs []graphql.ID
}

// Rows listed by a root query are primed into the by-id loaders, so relations
// pointing back at them are served from the cache.

func (req *request) speaker(sp *domain.Speaker) *speakerResolver {
	req.loaders.SpeakerByID.Prime(sp.ID, sp)
	return &speakerResolver{req: req, speaker: sp}
}

func (req *request) session(s *domain.Session) *sessionResolver {
	req.loaders.SessionByID.Prime(s.ID, s)
	return &sessionResolver{req: req, session: s}
}

func (req *request) track(t *domain.Track) *trackResolver {
	req.loaders.TrackByID.Prime(t.ID, t)
	return &trackResolver{req: req, track: t}
}

func (req *request) attendee(a *domain.Attendee) *attendeeResolver {
	req.loaders.AttendeeByID.Prime(a.ID, a)
	return &attendeeResolver{req: req, attendee: a}
}

func wrapAll[E any, T any](rows []*E, wrap func(*E) T) []T {
	out := make([]T, len(rows))
	for i, row := range rows {
		out[i] = wrap(row)
	}
	return out
}

// Speakers

func (r *Resolver) Speakers(ctx context.Context) ([]*speakerResolver, error) {
	req := r.forContext(ctx)
	speakers, err := req.speakerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	return wrapAll(speakers, req.speaker), nil
}

func (r *Resolver) SpeakersByPage(ctx context.Context, args pageArgs) (*pageResolver[*speakerResolver], error) {
	req := r.forContext(ctx)
	return loadPage(ctx, args.params(), req.speakerRepo.ListPage, req.speakerRepo.Count, req.speaker)
}

func (r *Resolver) SpeakerByID(ctx context.Context, args idArgs) (*speakerResolver, error) {
	return r.forContext(ctx).speakerByID(ctx, unmarshalID(kindSpeaker, args.ID))
}

func (r *Resolver) SpeakersByID(ctx context.Context, args idsArgs) ([]*speakerResolver, error) {
	return r.forContext(ctx).speakersOrNil(ctx, unmarshalIDs(kindSpeaker, args.IDs))
}

// Sessions

func (r *Resolver) Sessions(ctx context.Context) ([]*sessionResolver, error) {
	req := r.forContext(ctx)
	sessions, err := req.sessionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return wrapAll(sessions, req.session), nil
}

func (r *Resolver) SessionsByPage(ctx context.Context, args pageArgs) (*pageResolver[*sessionResolver], error) {
	req := r.forContext(ctx)
	return loadPage(ctx, args.params(), req.sessionRepo.ListPage, req.sessionRepo.Count, req.session)
}

func (r *Resolver) SessionByID(ctx context.Context, args idArgs) (*sessionResolver, error) {
	return r.forContext(ctx).sessionByID(ctx, unmarshalID(kindSession, args.ID))
}

func (r *Resolver) SessionsByID(ctx context.Context, args idsArgs) ([]*sessionResolver, error) {
	return r.forContext(ctx).sessionsOrNil(ctx, unmarshalIDs(kindSession, args.IDs))
}

// Tracks

func (r *Resolver) Tracks(ctx context.Context) ([]*trackResolver, error) {
	req := r.forContext(ctx)
	tracks, err := req.trackRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	return wrapAll(tracks, req.track), nil
}

func (r *Resolver) TracksByPage(ctx context.Context, args pageArgs) (*pageResolver[*trackResolver], error) {
	req := r.forContext(ctx)
	return loadPage(ctx, args.params(), req.trackRepo.ListPage, req.trackRepo.Count, req.track)
}

func (r *Resolver) TrackByName(ctx context.Context, args struct{ Name string }) (*trackResolver, error) {
	req := r.forContext(ctx)
	t, err := req.trackRepo.GetByName(ctx, args.Name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get track by name: %w", err)
	}
	return req.track(t), nil
}

func (r *Resolver) TrackByNames(ctx context.Context, args struct{ Names []string }) ([]*trackResolver, error) {
	req := r.forContext(ctx)
	tracks, err := req.trackRepo.ListByNames(ctx, args.Names)
	if err != nil {
		return nil, fmt.Errorf("list tracks by name: %w", err)
	}
	return wrapAll(tracks, req.track), nil
}

func (r *Resolver) TrackByID(ctx context.Context, args idArgs) (*trackResolver, error) {
	return r.forContext(ctx).trackByID(ctx, unmarshalID(kindTrack, args.ID))
}

func (r *Resolver) TracksByID(ctx context.Context, args idsArgs) ([]*trackResolver, error) {
	return r.forContext(ctx).tracksOrNil(ctx, unmarshalIDs(kindTrack, args.IDs))
}

// Attendees

func (r *Resolver) Attendees(ctx context.Context) ([]*attendeeResolver, error) {
	req := r.forContext(ctx)
	attendees, err := req.attendeeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	return wrapAll(attendees, req.attendee), nil
}

func (r *Resolver) AttendeesByPage(ctx context.Context, args pageArgs) (*pageResolver[*attendeeResolver], error) {
	req := r.forContext(ctx)
	return loadPage(ctx, args.params(), req.attendeeRepo.ListPage, req.attendeeRepo.Count, req.attendee)
}

func (r *Resolver) AttendeeByID(ctx context.Context, args idArgs) (*attendeeResolver, error) {
	return r.forContext(ctx).attendeeByID(ctx, unmarshalID(kindAttendee, args.ID))
}

func (r *Resolver) AttendeesByID(ctx context.Context, args idsArgs) ([]*attendeeResolver, error) {
	return r.forContext(ctx).attendeesOrNil(ctx, unmarshalIDs(kindAttendee, args.IDs))
}

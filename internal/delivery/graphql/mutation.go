package graphql

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"conferenceplanner/internal/domain"
)

type addSpeakerInput struct {
	Name    string
	Bio     *string
	Website *string
}

type addSessionInput struct {
	Title      string
	Abstract   *string
	SpeakerIDs []graphql.ID
}

type scheduleSessionInput struct {
	SessionID graphql.ID
	TrackID   graphql.ID
	StartTime graphql.Time
	EndTime   graphql.Time
}

type addTrackInput struct {
	Name string
}

type renameTrackInput struct {
	ID   graphql.ID
	Name string
}

type registerAttendeeInput struct {
	FirstName    string
	LastName     string
	UserName     string
	EmailAddress *string
}

type checkInAttendeeInput struct {
	SessionID  graphql.ID
	AttendeeID graphql.ID
}

// Mutations commit through the request's unit of work. Afterwards the loaders are
// primed with the written rows and relation entries they touched are cleared, so
// the payload resolves against what was just stored.

func (r *Resolver) AddSpeaker(ctx context.Context, args struct{ Input addSpeakerInput }) (*addSpeakerPayload, error) {
	req := r.forContext(ctx)
	speaker, userErrs, err := req.speakers.AddSpeaker(ctx, domain.AddSpeakerInput{
		Name:    args.Input.Name,
		Bio:     stringValue(args.Input.Bio),
		Website: stringValue(args.Input.Website),
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "add speaker", "error", err)
		return nil, err
	}
	r.countUserErrors(userErrs)

	p := &addSpeakerPayload{payload: payload{errs: userErrs}}
	if speaker != nil {
		p.speaker = req.speaker(speaker)
	}
	return p, nil
}

func (r *Resolver) AddSession(ctx context.Context, args struct{ Input addSessionInput }) (*addSessionPayload, error) {
	req := r.forContext(ctx)
	speakerIDs := unmarshalIDs(kindSpeaker, args.Input.SpeakerIDs)
	session, userErrs, err := req.sessions.AddSession(ctx, domain.AddSessionInput{
		Title:      args.Input.Title,
		Abstract:   stringValue(args.Input.Abstract),
		SpeakerIDs: speakerIDs,
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "add session", "error", err)
		return nil, err
	}
	r.countUserErrors(userErrs)

	p := &addSessionPayload{payload: payload{errs: userErrs}}
	if session != nil {
		for _, id := range speakerIDs {
			req.loaders.SessionIDsBySpeaker.Clear(id)
		}
		p.session = req.session(session)
	}
	return p, nil
}

func (r *Resolver) ScheduleSession(ctx context.Context, args struct{ Input scheduleSessionInput }) (*scheduleSessionPayload, error) {
	req := r.forContext(ctx)
	sessionID := unmarshalID(kindSession, args.Input.SessionID)
	previous := cachedTrackID(req, sessionID)

	session, userErrs, err := req.sessions.ScheduleSession(ctx, domain.ScheduleSessionInput{
		SessionID: sessionID,
		TrackID:   unmarshalID(kindTrack, args.Input.TrackID),
		StartTime: args.Input.StartTime.Time,
		EndTime:   args.Input.EndTime.Time,
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "schedule session", "session_id", sessionID, "error", err)
		return nil, err
	}
	r.countUserErrors(userErrs)

	p := &scheduleSessionPayload{payload: payload{errs: userErrs}}
	if session != nil {
		if previous != 0 {
			req.loaders.SessionIDsByTrack.Clear(previous)
		}
		if session.TrackID != nil {
			req.loaders.SessionIDsByTrack.Clear(*session.TrackID)
		}
		p.session = req.session(session)
	}
	return p, nil
}

// cachedTrackID returns the track a session was on before this request changed it,
// when the session is already in the request's cache. Nothing is fetched.
func cachedTrackID(req *request, sessionID int) int {
	s, ok := req.loaders.SessionByID.Peek(sessionID)
	if !ok || s == nil || s.TrackID == nil {
		return 0
	}
	return *s.TrackID
}

func (r *Resolver) AddTrack(ctx context.Context, args struct{ Input addTrackInput }) (*trackPayload, error) {
	req := r.forContext(ctx)
	track, userErrs, err := req.tracks.AddTrack(ctx, args.Input.Name)
	if err != nil {
		r.logger.ErrorContext(ctx, "add track", "error", err)
		return nil, err
	}
	r.countUserErrors(userErrs)

	p := &trackPayload{payload: payload{errs: userErrs}}
	if track != nil {
		p.track = req.track(track)
	}
	return p, nil
}

func (r *Resolver) RenameTrack(ctx context.Context, args struct{ Input renameTrackInput }) (*trackPayload, error) {
	req := r.forContext(ctx)
	trackID := unmarshalID(kindTrack, args.Input.ID)
	track, userErrs, err := req.tracks.RenameTrack(ctx, trackID, args.Input.Name)
	if err != nil {
		r.logger.ErrorContext(ctx, "rename track", "track_id", trackID, "error", err)
		return nil, err
	}
	r.countUserErrors(userErrs)

	p := &trackPayload{payload: payload{errs: userErrs}}
	if track != nil {
		p.track = req.track(track)
	}
	return p, nil
}

func (r *Resolver) RegisterAttendee(ctx context.Context, args struct{ Input registerAttendeeInput }) (*registerAttendeePayload, error) {
	req := r.forContext(ctx)
	attendee, userErrs, err := req.attendees.RegisterAttendee(ctx, domain.RegisterAttendeeInput{
		FirstName:    args.Input.FirstName,
		LastName:     args.Input.LastName,
		UserName:     args.Input.UserName,
		EmailAddress: stringValue(args.Input.EmailAddress),
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "register attendee", "error", err)
		return nil, err
	}
	r.countUserErrors(userErrs)

	p := &registerAttendeePayload{payload: payload{errs: userErrs}}
	if attendee != nil {
		p.attendee = req.attendee(attendee)
	}
	return p, nil
}

func (r *Resolver) CheckInAttendee(ctx context.Context, args struct{ Input checkInAttendeeInput }) (*checkInAttendeePayload, error) {
	req := r.forContext(ctx)
	in := domain.CheckInAttendeeInput{
		SessionID:  unmarshalID(kindSession, args.Input.SessionID),
		AttendeeID: unmarshalID(kindAttendee, args.Input.AttendeeID),
	}
	attendee, userErrs, err := req.attendees.CheckInAttendee(ctx, in)
	if err != nil {
		r.logger.ErrorContext(ctx, "check in attendee", "session_id", in.SessionID, "attendee_id", in.AttendeeID, "error", err)
		return nil, err
	}
	r.countUserErrors(userErrs)

	p := &checkInAttendeePayload{payload: payload{errs: userErrs}, sessionID: in.SessionID}
	if attendee != nil {
		req.loaders.AttendeeIDsBySession.Clear(in.SessionID)
		req.loaders.SessionIDsByAttendee.Clear(in.AttendeeID)
		req.loaders.CheckInCountBySession.Clear(in.SessionID)
		p.attendee = req.attendee(attendee)
	}
	return p, nil
}

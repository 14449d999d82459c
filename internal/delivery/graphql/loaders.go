package graphql

import (
	"time"

	"conferenceplanner/internal/dataloader"
	"conferenceplanner/internal/domain"
)

// LoaderConfig tunes every loader of a request.
type LoaderConfig struct {
	Wait     time.Duration
	MaxBatch int
	Observer dataloader.Observer
}

func (c LoaderConfig) named(name string) dataloader.Config {
	return dataloader.Config{
		Name:     name,
		Wait:     c.Wait,
		MaxBatch: c.MaxBatch,
		Observer: c.Observer,
	}
}

// Loaders batches the entity and relation lookups of one request.
type Loaders struct {
	SpeakerByID  *dataloader.Loader[int, *domain.Speaker]
	SessionByID  *dataloader.Loader[int, *domain.Session]
	TrackByID    *dataloader.Loader[int, *domain.Track]
	AttendeeByID *dataloader.Loader[int, *domain.Attendee]

	SpeakerIDsBySession   *dataloader.Loader[int, []int]
	AttendeeIDsBySession  *dataloader.Loader[int, []int]
	SessionIDsBySpeaker   *dataloader.Loader[int, []int]
	SessionIDsByAttendee  *dataloader.Loader[int, []int]
	SessionIDsByTrack     *dataloader.Loader[int, []int]
	CheckInCountBySession *dataloader.Loader[int, int]
}

// NewLoaders returns fresh loaders reading through the given repositories.
func NewLoaders(
	speakers domain.SpeakerRepository,
	sessions domain.SessionRepository,
	tracks domain.TrackRepository,
	attendees domain.AttendeeRepository,
	cfg LoaderConfig,
) *Loaders {
	return &Loaders{
		SpeakerByID:  dataloader.New(speakers.ListByIDs, cfg.named("speaker_by_id")),
		SessionByID:  dataloader.New(sessions.ListByIDs, cfg.named("session_by_id")),
		TrackByID:    dataloader.New(tracks.ListByIDs, cfg.named("track_by_id")),
		AttendeeByID: dataloader.New(attendees.ListByIDs, cfg.named("attendee_by_id")),

		SpeakerIDsBySession:   dataloader.New(sessions.SpeakerIDsBySessionIDs, cfg.named("speaker_ids_by_session")),
		AttendeeIDsBySession:  dataloader.New(sessions.AttendeeIDsBySessionIDs, cfg.named("attendee_ids_by_session")),
		SessionIDsBySpeaker:   dataloader.New(sessions.SessionIDsBySpeakerIDs, cfg.named("session_ids_by_speaker")),
		SessionIDsByAttendee:  dataloader.New(sessions.SessionIDsByAttendeeIDs, cfg.named("session_ids_by_attendee")),
		SessionIDsByTrack:     dataloader.New(sessions.SessionIDsByTrackIDs, cfg.named("session_ids_by_track")),
		CheckInCountBySession: dataloader.New(sessions.CountAttendeesBySessionIDs, cfg.named("check_in_count_by_session")),
	}
}

// Close stops every loader. It is called once the request is answered.
func (l *Loaders) Close() {
	l.SpeakerByID.Close()
	l.SessionByID.Close()
	l.TrackByID.Close()
	l.AttendeeByID.Close()
	l.SpeakerIDsBySession.Close()
	l.AttendeeIDsBySession.Close()
	l.SessionIDsBySpeaker.Close()
	l.SessionIDsByAttendee.Close()
	l.SessionIDsByTrack.Close()
	l.CheckInCountBySession.Close()
}

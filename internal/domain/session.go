package domain

import (
	"context"
	"time"
)

// Session represents a conference session or talk. TrackID, StartTime and
// EndTime stay nil until the session is scheduled.
// swagger:model Session
type Session struct {
	ID        int        `json:"id"`
	Title     string     `json:"title"`
	Abstract  string     `json:"abstract"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	TrackID   *int       `json:"track_id"`
}

// NewSession returns a new unscheduled Session. ID is set by the repository on create.
func NewSession(title, abstract string) *Session {
	return &Session{
		Title:    title,
		Abstract: abstract,
	}
}

// Duration returns EndTime - StartTime, or false when the session is not scheduled.
func (s *Session) Duration() (time.Duration, bool) {
	if s.StartTime == nil || s.EndTime == nil {
		return 0, false
	}
	return s.EndTime.Sub(*s.StartTime), true
}

// SessionSchedule is the track and time slot assigned to a session.
type SessionSchedule struct {
	TrackID   int
	StartTime time.Time
	EndTime   time.Time
}

// SessionRepository defines storage operations for sessions and their
// speaker and attendee associations.
type SessionRepository interface {
	// Create inserts the session and one session_speakers row per speaker id.
	Create(ctx context.Context, session *Session, speakerIDs []int) error
	ListByIDs(ctx context.Context, ids []int) (map[int]*Session, error)
	List(ctx context.Context) ([]*Session, error)
	ListPage(ctx context.Context, params PaginationParams) ([]*Session, error)
	Count(ctx context.Context) (int, error)
	// UpdateSchedule sets track and times and returns the updated session, or ErrNotFound.
	UpdateSchedule(ctx context.Context, id int, schedule SessionSchedule) (*Session, error)

	SpeakerIDsBySessionIDs(ctx context.Context, sessionIDs []int) (map[int][]int, error)
	AttendeeIDsBySessionIDs(ctx context.Context, sessionIDs []int) (map[int][]int, error)
	SessionIDsBySpeakerIDs(ctx context.Context, speakerIDs []int) (map[int][]int, error)
	SessionIDsByAttendeeIDs(ctx context.Context, attendeeIDs []int) (map[int][]int, error)
	SessionIDsByTrackIDs(ctx context.Context, trackIDs []int) (map[int][]int, error)
	CountAttendeesBySessionIDs(ctx context.Context, sessionIDs []int) (map[int]int, error)
}

// AddSessionInput is the input of the addSession mutation.
type AddSessionInput struct {
	Title      string `validate:"required,max=200"`
	Abstract   string `validate:"max=4000"`
	SpeakerIDs []int
}

// ScheduleSessionInput is the input of the scheduleSession mutation.
type ScheduleSessionInput struct {
	SessionID int
	TrackID   int
	StartTime time.Time
	EndTime   time.Time
}

// SessionService defines session mutations.
type SessionService interface {
	AddSession(ctx context.Context, input AddSessionInput) (*Session, []UserError, error)
	ScheduleSession(ctx context.Context, input ScheduleSessionInput) (*Session, []UserError, error)
}

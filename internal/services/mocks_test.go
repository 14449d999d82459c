package services

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"conferenceplanner/internal/domain"
)

var errStore = errors.New("store unavailable")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockUnitOfWork struct {
	commits   int
	rollbacks int
	err       error
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.commits++
	return nil
}

func (m *mockUnitOfWork) Rollback() error {
	m.rollbacks++
	return nil
}

type publishedEvent struct {
	topic string
	id    int
}

type mockPublisher struct {
	events []publishedEvent
	err    error
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, id int) error {
	m.events = append(m.events, publishedEvent{topic: topic, id: id})
	return m.err
}

type mockEmailService struct {
	sent []*domain.WelcomeMessageEmailData
	err  error
}

func (m *mockEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	m.sent = append(m.sent, data)
	return m.err
}

type mockSpeakerRepository struct {
	speakers map[int]*domain.Speaker
	nextID   int
	created  int
	err      error
}

func newMockSpeakerRepository(speakers ...*domain.Speaker) *mockSpeakerRepository {
	m := &mockSpeakerRepository{speakers: map[int]*domain.Speaker{}, nextID: 100}
	for _, s := range speakers {
		m.speakers[s.ID] = s
	}
	return m
}

func (m *mockSpeakerRepository) Create(ctx context.Context, speaker *domain.Speaker) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	speaker.ID = m.nextID
	m.speakers[speaker.ID] = speaker
	m.created++
	return nil
}

func (m *mockSpeakerRepository) ListByIDs(ctx context.Context, ids []int) (map[int]*domain.Speaker, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := map[int]*domain.Speaker{}
	for _, id := range ids {
		if s, ok := m.speakers[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func (m *mockSpeakerRepository) List(ctx context.Context) ([]*domain.Speaker, error) { return nil, nil }
func (m *mockSpeakerRepository) ListPage(ctx context.Context, params domain.PaginationParams) ([]*domain.Speaker, error) {
	return nil, nil
}
func (m *mockSpeakerRepository) Count(ctx context.Context) (int, error) { return len(m.speakers), nil }

type mockTrackRepository struct {
	tracks  map[int]*domain.Track
	nextID  int
	created int
	err     error
}

func newMockTrackRepository(tracks ...*domain.Track) *mockTrackRepository {
	m := &mockTrackRepository{tracks: map[int]*domain.Track{}, nextID: 200}
	for _, t := range tracks {
		m.tracks[t.ID] = t
	}
	return m
}

func (m *mockTrackRepository) Create(ctx context.Context, track *domain.Track) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	track.ID = m.nextID
	m.tracks[track.ID] = track
	m.created++
	return nil
}

func (m *mockTrackRepository) ListByIDs(ctx context.Context, ids []int) (map[int]*domain.Track, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := map[int]*domain.Track{}
	for _, id := range ids {
		if t, ok := m.tracks[id]; ok {
			out[id] = t
		}
	}
	return out, nil
}

func (m *mockTrackRepository) List(ctx context.Context) ([]*domain.Track, error) { return nil, nil }
func (m *mockTrackRepository) ListPage(ctx context.Context, params domain.PaginationParams) ([]*domain.Track, error) {
	return nil, nil
}
func (m *mockTrackRepository) Count(ctx context.Context) (int, error) { return len(m.tracks), nil }

func (m *mockTrackRepository) GetByName(ctx context.Context, name string) (*domain.Track, error) {
	for _, t := range m.tracks {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockTrackRepository) ListByNames(ctx context.Context, names []string) ([]*domain.Track, error) {
	var out []*domain.Track
	for _, name := range names {
		if t, err := m.GetByName(ctx, name); err == nil {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockTrackRepository) Rename(ctx context.Context, id int, name string) (*domain.Track, error) {
	if m.err != nil {
		return nil, m.err
	}
	t, ok := m.tracks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	t.Name = name
	return t, nil
}

type mockSessionRepository struct {
	sessions   map[int]*domain.Session
	speakerIDs map[int][]int
	nextID     int
	updates    int
	err        error
}

func newMockSessionRepository(sessions ...*domain.Session) *mockSessionRepository {
	m := &mockSessionRepository{sessions: map[int]*domain.Session{}, speakerIDs: map[int][]int{}, nextID: 300}
	for _, s := range sessions {
		m.sessions[s.ID] = s
	}
	return m
}

func (m *mockSessionRepository) Create(ctx context.Context, session *domain.Session, speakerIDs []int) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	session.ID = m.nextID
	m.sessions[session.ID] = session
	m.speakerIDs[session.ID] = speakerIDs
	return nil
}

func (m *mockSessionRepository) ListByIDs(ctx context.Context, ids []int) (map[int]*domain.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := map[int]*domain.Session{}
	for _, id := range ids {
		if s, ok := m.sessions[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func (m *mockSessionRepository) List(ctx context.Context) ([]*domain.Session, error) { return nil, nil }
func (m *mockSessionRepository) ListPage(ctx context.Context, params domain.PaginationParams) ([]*domain.Session, error) {
	return nil, nil
}
func (m *mockSessionRepository) Count(ctx context.Context) (int, error) { return len(m.sessions), nil }

func (m *mockSessionRepository) UpdateSchedule(ctx context.Context, id int, schedule domain.SessionSchedule) (*domain.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	m.updates++
	trackID, start, end := schedule.TrackID, schedule.StartTime, schedule.EndTime
	s.TrackID, s.StartTime, s.EndTime = &trackID, &start, &end
	return s, nil
}

func (m *mockSessionRepository) SpeakerIDsBySessionIDs(ctx context.Context, ids []int) (map[int][]int, error) {
	return nil, nil
}
func (m *mockSessionRepository) AttendeeIDsBySessionIDs(ctx context.Context, ids []int) (map[int][]int, error) {
	return nil, nil
}
func (m *mockSessionRepository) SessionIDsBySpeakerIDs(ctx context.Context, ids []int) (map[int][]int, error) {
	return nil, nil
}
func (m *mockSessionRepository) SessionIDsByAttendeeIDs(ctx context.Context, ids []int) (map[int][]int, error) {
	return nil, nil
}
func (m *mockSessionRepository) SessionIDsByTrackIDs(ctx context.Context, ids []int) (map[int][]int, error) {
	return nil, nil
}
func (m *mockSessionRepository) CountAttendeesBySessionIDs(ctx context.Context, ids []int) (map[int]int, error) {
	return nil, nil
}

type mockAttendeeRepository struct {
	attendees map[int]*domain.Attendee
	checkIns  [][2]int
	nextID    int
	err       error
}

func newMockAttendeeRepository(attendees ...*domain.Attendee) *mockAttendeeRepository {
	m := &mockAttendeeRepository{attendees: map[int]*domain.Attendee{}, nextID: 400}
	for _, a := range attendees {
		m.attendees[a.ID] = a
	}
	return m
}

func (m *mockAttendeeRepository) Create(ctx context.Context, attendee *domain.Attendee) error {
	if m.err != nil {
		return m.err
	}
	for _, a := range m.attendees {
		if a.UserName == attendee.UserName {
			return domain.ErrDuplicateUserName
		}
	}
	m.nextID++
	attendee.ID = m.nextID
	m.attendees[attendee.ID] = attendee
	return nil
}

func (m *mockAttendeeRepository) ListByIDs(ctx context.Context, ids []int) (map[int]*domain.Attendee, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := map[int]*domain.Attendee{}
	for _, id := range ids {
		if a, ok := m.attendees[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

func (m *mockAttendeeRepository) List(ctx context.Context) ([]*domain.Attendee, error) { return nil, nil }
func (m *mockAttendeeRepository) ListPage(ctx context.Context, params domain.PaginationParams) ([]*domain.Attendee, error) {
	return nil, nil
}
func (m *mockAttendeeRepository) Count(ctx context.Context) (int, error) { return len(m.attendees), nil }

func (m *mockAttendeeRepository) CheckIn(ctx context.Context, sessionID, attendeeID int) error {
	m.checkIns = append(m.checkIns, [2]int{sessionID, attendeeID})
	return nil
}

type mockFetcher struct {
	schedule *domain.SessionizeSchedule
	err      error
}

func (m *mockFetcher) Fetch(ctx context.Context, sessionizeID string) (*domain.SessionizeSchedule, error) {
	return m.schedule, m.err
}

type mockMailer struct {
	sent []domain.EmailMessage
	err  error
}

func (m *mockMailer) Send(ctx context.Context, msg domain.EmailMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type mockRenderer struct {
	err error
}

func (m *mockRenderer) Render(templateName string, data any) (domain.EmailMessage, error) {
	if m.err != nil {
		return domain.EmailMessage{}, m.err
	}
	return domain.EmailMessage{Subject: "Welcome", HTML: "<p>" + templateName + "</p>", Text: templateName}, nil
}

func codes(errs []domain.UserError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Code)
	}
	return out
}

package sqlstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"conferenceplanner/internal/domain"
	"conferenceplanner/internal/unitofwork"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var sessionRowColumns = []string{"id", "title", "abstract", "start_time", "end_time", "track_id"}

func TestSessionRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		speakerIDs []int
		mock       func(mock sqlmock.Sqlmock)
		wantID     int
		wantErr    bool
	}{
		{
			name:       "inserts session and speaker links",
			speakerIDs: []int{4, 5, 4},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO sessions`).
					WithArgs("Go at scale", "", nil, nil, nil).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
				mock.ExpectExec(`INSERT INTO session_speakers`).
					WithArgs(11, 4).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO session_speakers`).
					WithArgs(11, 5).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantID: 11,
		},
		{
			name:       "speaker link fails",
			speakerIDs: []int{4},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO sessions`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
				mock.ExpectExec(`INSERT INTO session_speakers`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewSessionRepository(unitofwork.Direct(db))
			session := domain.NewSession("Go at scale", "")
			err = repo.Create(ctx, session, tt.speakerIDs)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, session.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepository_UpdateSchedule(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 1, 11, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.Session
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE sessions`).
					WithArgs(3, 2, start, end).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(`SELECT id, title, abstract, start_time, end_time, track_id FROM sessions WHERE id`).
					WithArgs(3).
					WillReturnRows(sqlmock.NewRows(sessionRowColumns).AddRow(3, "Keynote", "", start, end, 2))
			},
			want: &domain.Session{ID: 3, Title: "Keynote", StartTime: &start, EndTime: &end, TrackID: intPtr(2)},
		},
		{
			name: "unknown session",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE sessions`).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewSessionRepository(unitofwork.Direct(db))
			got, err := repo.UpdateSchedule(ctx, 3, domain.SessionSchedule{TrackID: 2, StartTime: start, EndTime: end})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepository_ListByIDs_ScansNullableColumns(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM sessions WHERE id IN`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(sessionRowColumns).AddRow(1, "Unscheduled", "tbd", nil, nil, nil))

	got, err := NewSessionRepository(unitofwork.Direct(db)).ListByIDs(ctx, []int{1})
	require.NoError(t, err)
	require.Equal(t, &domain.Session{ID: 1, Title: "Unscheduled", Abstract: "tbd"}, got[1])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Associations(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		call  func(domain.SessionRepository) (map[int][]int, error)
	}{
		{
			name:  "speakers by session",
			query: `SELECT session_id, speaker_id FROM session_speakers WHERE session_id IN`,
			call: func(r domain.SessionRepository) (map[int][]int, error) {
				return r.SpeakerIDsBySessionIDs(ctx, []int{1, 2})
			},
		},
		{
			name:  "attendees by session",
			query: `SELECT session_id, attendee_id FROM session_attendees WHERE session_id IN`,
			call: func(r domain.SessionRepository) (map[int][]int, error) {
				return r.AttendeeIDsBySessionIDs(ctx, []int{1, 2})
			},
		},
		{
			name:  "sessions by speaker",
			query: `SELECT speaker_id, session_id FROM session_speakers WHERE speaker_id IN`,
			call: func(r domain.SessionRepository) (map[int][]int, error) {
				return r.SessionIDsBySpeakerIDs(ctx, []int{1, 2})
			},
		},
		{
			name:  "sessions by attendee",
			query: `SELECT attendee_id, session_id FROM session_attendees WHERE attendee_id IN`,
			call: func(r domain.SessionRepository) (map[int][]int, error) {
				return r.SessionIDsByAttendeeIDs(ctx, []int{1, 2})
			},
		},
		{
			name:  "sessions by track",
			query: `SELECT track_id, id FROM sessions WHERE track_id IN`,
			call: func(r domain.SessionRepository) (map[int][]int, error) {
				return r.SessionIDsByTrackIDs(ctx, []int{1, 2})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(tt.query).
				WithArgs(1, 2).
				WillReturnRows(sqlmock.NewRows([]string{"k", "v"}).AddRow(1, 10).AddRow(1, 11).AddRow(2, 12))

			got, err := tt.call(NewSessionRepository(unitofwork.Direct(db)))
			require.NoError(t, err)
			require.Equal(t, map[int][]int{1: {10, 11}, 2: {12}}, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepository_CountAttendeesBySessionIDs(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT session_id, COUNT\(\*\)`).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"session_id", "count"}).AddRow(1, 3))

	got, err := NewSessionRepository(unitofwork.Direct(db)).CountAttendeesBySessionIDs(ctx, []int{1, 2})
	require.NoError(t, err)
	require.Equal(t, map[int]int{1: 3}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func intPtr(v int) *int { return &v }

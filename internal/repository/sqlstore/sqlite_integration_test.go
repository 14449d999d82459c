package sqlstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"conferenceplanner/internal/domain"
	"conferenceplanner/internal/platform/database"
	"conferenceplanner/internal/unitofwork"

	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = database.Migrate(ctx, db, database.DriverSQLite)
	require.NoError(t, err)
	return db
}

func TestSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	exec := unitofwork.Direct(openSQLite(t))
	speakers := NewSpeakerRepository(exec)
	tracks := NewTrackRepository(exec)
	sessions := NewSessionRepository(exec)
	attendees := NewAttendeeRepository(exec)

	ada := domain.NewSpeaker("Ada", "", "")
	require.NoError(t, speakers.Create(ctx, ada))
	main := domain.NewTrack("Main")
	require.NoError(t, tracks.Create(ctx, main))

	talk := domain.NewSession("Engines", "Analytical")
	require.NoError(t, sessions.Create(ctx, talk, []int{ada.ID}))

	start := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)
	scheduled, err := sessions.UpdateSchedule(ctx, talk.ID, domain.SessionSchedule{TrackID: main.ID, StartTime: start, EndTime: end})
	require.NoError(t, err)
	require.Equal(t, main.ID, *scheduled.TrackID)
	require.True(t, start.Equal(*scheduled.StartTime))
	d, ok := scheduled.Duration()
	require.True(t, ok)
	require.Equal(t, 45*time.Minute, d)

	_, err = sessions.UpdateSchedule(ctx, 999, domain.SessionSchedule{TrackID: main.ID, StartTime: start, EndTime: end})
	require.ErrorIs(t, err, domain.ErrNotFound)

	byTrack, err := sessions.SessionIDsByTrackIDs(ctx, []int{main.ID})
	require.NoError(t, err)
	require.Equal(t, []int{talk.ID}, byTrack[main.ID])

	bySession, err := sessions.SpeakerIDsBySessionIDs(ctx, []int{talk.ID})
	require.NoError(t, err)
	require.Equal(t, []int{ada.ID}, bySession[talk.ID])

	first := domain.NewAttendee("Ada", "Lovelace", "ada", "")
	require.NoError(t, attendees.Create(ctx, first))
	dup := domain.NewAttendee("Other", "Ada", "ada", "")
	require.ErrorIs(t, attendees.Create(ctx, dup), domain.ErrDuplicateUserName)

	require.NoError(t, attendees.CheckIn(ctx, talk.ID, first.ID))
	require.NoError(t, attendees.CheckIn(ctx, talk.ID, first.ID))
	counts, err := sessions.CountAttendeesBySessionIDs(ctx, []int{talk.ID})
	require.NoError(t, err)
	require.Equal(t, 1, counts[talk.ID])

	total, err := attendees.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, total)
}

func TestSQLite_ScopeRollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	scope := unitofwork.New(db)
	require.NoError(t, NewTrackRepository(scope).Create(ctx, domain.NewTrack("Temp")))
	require.NoError(t, scope.Close())

	got, err := NewTrackRepository(unitofwork.Direct(db)).List(ctx)
	require.NoError(t, err)
	require.Empty(t, got)
}

package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"conferenceplanner/internal/domain"
	"conferenceplanner/internal/unitofwork"
)

type sessionRepository struct {
	exec unitofwork.Executor
}

// NewSessionRepository returns a SessionRepository running through exec.
func NewSessionRepository(exec unitofwork.Executor) domain.SessionRepository {
	return &sessionRepository{exec: exec}
}

const sessionColumns = `id, title, abstract, start_time, end_time, track_id`

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session, speakerIDs []int) error {
	query := `
		INSERT INTO sessions (title, abstract, start_time, end_time, track_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.exec.Do(ctx, func(db unitofwork.DBTX) error {
		if err := db.QueryRowContext(ctx, query,
			session.Title, session.Abstract, nullTime(session.StartTime), nullTime(session.EndTime), nullInt(session.TrackID),
		).Scan(&session.ID); err != nil {
			return err
		}
		for _, speakerID := range uniqueInts(speakerIDs) {
			if _, err := db.ExecContext(ctx,
				`INSERT INTO session_speakers (session_id, speaker_id) VALUES ($1, $2)`,
				session.ID, speakerID,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *sessionRepository) ListByIDs(ctx context.Context, ids []int) (map[int]*domain.Session, error) {
	ids = uniqueInts(ids)
	result := make(map[int]*domain.Session, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id IN ` + placeholders(1, len(ids))
	err := r.exec.Do(ctx, func(db unitofwork.DBTX) error {
		sessions, err := querySessions(ctx, db, query, intArgs(ids)...)
		if err != nil {
			return err
		}
		for _, s := range sessions {
			result[s.ID] = s
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list sessions by ids: %w", err)
	}
	return result, nil
}

func (r *sessionRepository) List(ctx context.Context) ([]*domain.Session, error) {
	var sessions []*domain.Session
	err := r.exec.Do(ctx, func(db unitofwork.DBTX) error {
		var err error
		sessions, err = querySessions(ctx, db, `SELECT `+sessionColumns+` FROM sessions ORDER BY id`)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (r *sessionRepository) ListPage(ctx context.Context, params domain.PaginationParams) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions ORDER BY id LIMIT $1 OFFSET $2`
	var sessions []*domain.Session
	err := r.exec.Do(ctx, func(db unitofwork.DBTX) error {
		var err error
		sessions, err = querySessions(ctx, db, query, params.PageSize, params.Offset())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list sessions page: %w", err)
	}
	return sessions, nil
}

func (r *sessionRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.exec, "sessions")
}

// UpdateSchedule writes the schedule and reads the row back with a plain SELECT
// so both drivers scan the timestamp columns by their declared type.
func (r *sessionRepository) UpdateSchedule(ctx context.Context, id int, schedule domain.SessionSchedule) (*domain.Session, error) {
	query := `
		UPDATE sessions
		SET track_id = $2, start_time = $3, end_time = $4
		WHERE id = $1
	`
	var session *domain.Session
	err := r.exec.Do(ctx, func(db unitofwork.DBTX) error {
		res, err := db.ExecContext(ctx, query, id, schedule.TrackID, schedule.StartTime.UTC(), schedule.EndTime.UTC())
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrNotFound
		}
		sessions, err := querySessions(ctx, db, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			return domain.ErrNotFound
		}
		session = sessions[0]
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update session schedule: %w", err)
	}
	return session, nil
}

func (r *sessionRepository) SpeakerIDsBySessionIDs(ctx context.Context, sessionIDs []int) (map[int][]int, error) {
	return r.pairs(ctx, "speaker ids by session",
		`SELECT session_id, speaker_id FROM session_speakers WHERE session_id IN %s ORDER BY session_id, speaker_id`, sessionIDs)
}

func (r *sessionRepository) AttendeeIDsBySessionIDs(ctx context.Context, sessionIDs []int) (map[int][]int, error) {
	return r.pairs(ctx, "attendee ids by session",
		`SELECT session_id, attendee_id FROM session_attendees WHERE session_id IN %s ORDER BY session_id, attendee_id`, sessionIDs)
}

func (r *sessionRepository) SessionIDsBySpeakerIDs(ctx context.Context, speakerIDs []int) (map[int][]int, error) {
	return r.pairs(ctx, "session ids by speaker",
		`SELECT speaker_id, session_id FROM session_speakers WHERE speaker_id IN %s ORDER BY speaker_id, session_id`, speakerIDs)
}

func (r *sessionRepository) SessionIDsByAttendeeIDs(ctx context.Context, attendeeIDs []int) (map[int][]int, error) {
	return r.pairs(ctx, "session ids by attendee",
		`SELECT attendee_id, session_id FROM session_attendees WHERE attendee_id IN %s ORDER BY attendee_id, session_id`, attendeeIDs)
}

func (r *sessionRepository) SessionIDsByTrackIDs(ctx context.Context, trackIDs []int) (map[int][]int, error) {
	return r.pairs(ctx, "session ids by track",
		`SELECT track_id, id FROM sessions WHERE track_id IN %s ORDER BY track_id, id`, trackIDs)
}

func (r *sessionRepository) CountAttendeesBySessionIDs(ctx context.Context, sessionIDs []int) (map[int]int, error) {
	sessionIDs = uniqueInts(sessionIDs)
	result := make(map[int]int, len(sessionIDs))
	if len(sessionIDs) == 0 {
		return result, nil
	}
	query := `
		SELECT session_id, COUNT(*)
		FROM session_attendees
		WHERE session_id IN ` + placeholders(1, len(sessionIDs)) + `
		GROUP BY session_id
	`
	err := r.exec.Do(ctx, func(db unitofwork.DBTX) error {
		rows, err := db.QueryContext(ctx, query, intArgs(sessionIDs)...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var sessionID, n int
			if err := rows.Scan(&sessionID, &n); err != nil {
				return err
			}
			result[sessionID] = n
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("count attendees by session: %w", err)
	}
	return result, nil
}

// pairs runs a two-column id query whose IN list is substituted for %s.
func (r *sessionRepository) pairs(ctx context.Context, what, format string, ids []int) (map[int][]int, error) {
	ids = uniqueInts(ids)
	if len(ids) == 0 {
		return map[int][]int{}, nil
	}
	query := fmt.Sprintf(format, placeholders(1, len(ids)))
	var result map[int][]int
	err := r.exec.Do(ctx, func(db unitofwork.DBTX) error {
		var err error
		result, err = queryPairs(ctx, db, query, intArgs(ids)...)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", what, err)
	}
	return result, nil
}

func querySessions(ctx context.Context, db unitofwork.DBTX, query string, args ...any) ([]*domain.Session, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []*domain.Session{}
	for rows.Next() {
		s := &domain.Session{}
		var start, end sql.NullTime
		var trackID sql.NullInt64
		if err := rows.Scan(&s.ID, &s.Title, &s.Abstract, &start, &end, &trackID); err != nil {
			return nil, err
		}
		if start.Valid {
			t := start.Time.UTC()
			s.StartTime = &t
		}
		if end.Valid {
			t := end.Time.UTC()
			s.EndTime = &t
		}
		if trackID.Valid {
			id := int(trackID.Int64)
			s.TrackID = &id
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

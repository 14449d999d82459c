package sqlstore

import (
	"context"
	"fmt"

	"conferenceplanner/internal/domain"
	"conferenceplanner/internal/unitofwork"
)

type attendeeRepository struct {
	exec unitofwork.Executor
}

// NewAttendeeRepository returns an AttendeeRepository running through exec.
func NewAttendeeRepository(exec unitofwork.Executor) domain.AttendeeRepository {
	return &attendeeRepository{exec: exec}
}

const attendeeColumns = `id, first_name, last_name, user_name, email_address`

func (r *attendeeRepository) Create(ctx context.Context, attendee *domain.Attendee) error {
	query := `
		INSERT INTO attendees (first_name, last_name, user_name, email_address)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.exec.Do(ctx, func(db unitofwork.DBTX) error {
		return db.QueryRowContext(ctx, query, attendee.FirstName, attendee.LastName, attendee.UserName, attendee.EmailAddress).
			Scan(&attendee.ID)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateUserName
		}
		return fmt.Errorf("create attendee: %w", err)
	}
	return nil
}

func (r *attendeeRepository) ListByIDs(ctx context.Context, ids []int) (map[int]*domain.Attendee, error) {
	ids = uniqueInts(ids)
	result := make(map[int]*domain.Attendee, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	query := `SELECT ` + attendeeColumns + ` FROM attendees WHERE id IN ` + placeholders(1, len(ids))
	err := r.exec.Do(ctx, func(db unitofwork.DBTX) error {
		attendees, err := queryAttendees(ctx, db, query, intArgs(ids)...)
		if err != nil {
			return err
		}
		for _, a := range attendees {
			result[a.ID] = a
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list attendees by ids: %w", err)
	}
	return result, nil
}

func (r *attendeeRepository) List(ctx context.Context) ([]*domain.Attendee, error) {
	var attendees []*domain.Attendee
	err := r.exec.Do(ctx, func(db unitofwork.DBTX) error {
		var err error
		attendees, err = queryAttendees(ctx, db, `SELECT `+attendeeColumns+` FROM attendees ORDER BY id`)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	return attendees, nil
}

func (r *attendeeRepository) ListPage(ctx context.Context, params domain.PaginationParams) ([]*domain.Attendee, error) {
	query := `SELECT ` + attendeeColumns + ` FROM attendees ORDER BY id LIMIT $1 OFFSET $2`
	var attendees []*domain.Attendee
	err := r.exec.Do(ctx, func(db unitofwork.DBTX) error {
		var err error
		attendees, err = queryAttendees(ctx, db, query, params.PageSize, params.Offset())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list attendees page: %w", err)
	}
	return attendees, nil
}

func (r *attendeeRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.exec, "attendees")
}

func (r *attendeeRepository) CheckIn(ctx context.Context, sessionID, attendeeID int) error {
	query := `
		INSERT INTO session_attendees (session_id, attendee_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	err := r.exec.Do(ctx, func(db unitofwork.DBTX) error {
		_, err := db.ExecContext(ctx, query, sessionID, attendeeID)
		return err
	})
	if err != nil {
		return fmt.Errorf("check in attendee: %w", err)
	}
	return nil
}

func queryAttendees(ctx context.Context, db unitofwork.DBTX, query string, args ...any) ([]*domain.Attendee, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attendees := []*domain.Attendee{}
	for rows.Next() {
		a := &domain.Attendee{}
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.UserName, &a.EmailAddress); err != nil {
			return nil, err
		}
		attendees = append(attendees, a)
	}
	return attendees, rows.Err()
}

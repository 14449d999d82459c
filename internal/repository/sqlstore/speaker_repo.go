package sqlstore

import (
	"context"
	"fmt"

	"conferenceplanner/internal/domain"
	"conferenceplanner/internal/unitofwork"
)

type speakerRepository struct {
	exec unitofwork.Executor
}

// NewSpeakerRepository returns a SpeakerRepository running through exec.
func NewSpeakerRepository(exec unitofwork.Executor) domain.SpeakerRepository {
	return &speakerRepository{exec: exec}
}

const speakerColumns = `id, name, bio, website`

func (r *speakerRepository) Create(ctx context.Context, speaker *domain.Speaker) error {
	query := `
		INSERT INTO speakers (name, bio, website)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	return r.exec.Do(ctx, func(db unitofwork.DBTX) error {
		return db.QueryRowContext(ctx, query, speaker.Name, speaker.Bio, speaker.Website).Scan(&speaker.ID)
	})
}

func (r *speakerRepository) ListByIDs(ctx context.Context, ids []int) (map[int]*domain.Speaker, error) {
	ids = uniqueInts(ids)
	result := make(map[int]*domain.Speaker, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	query := `SELECT ` + speakerColumns + ` FROM speakers WHERE id IN ` + placeholders(1, len(ids))
	err := r.exec.Do(ctx, func(db unitofwork.DBTX) error {
		speakers, err := querySpeakers(ctx, db, query, intArgs(ids)...)
		if err != nil {
			return err
		}
		for _, s := range speakers {
			result[s.ID] = s
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list speakers by ids: %w", err)
	}
	return result, nil
}

func (r *speakerRepository) List(ctx context.Context) ([]*domain.Speaker, error) {
	var speakers []*domain.Speaker
	err := r.exec.Do(ctx, func(db unitofwork.DBTX) error {
		var err error
		speakers, err = querySpeakers(ctx, db, `SELECT `+speakerColumns+` FROM speakers ORDER BY id`)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	return speakers, nil
}

func (r *speakerRepository) ListPage(ctx context.Context, params domain.PaginationParams) ([]*domain.Speaker, error) {
	query := `SELECT ` + speakerColumns + ` FROM speakers ORDER BY name, id LIMIT $1 OFFSET $2`
	var speakers []*domain.Speaker
	err := r.exec.Do(ctx, func(db unitofwork.DBTX) error {
		var err error
		speakers, err = querySpeakers(ctx, db, query, params.PageSize, params.Offset())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list speakers page: %w", err)
	}
	return speakers, nil
}

func (r *speakerRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.exec, "speakers")
}

func querySpeakers(ctx context.Context, db unitofwork.DBTX, query string, args ...any) ([]*domain.Speaker, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	speakers := []*domain.Speaker{}
	for rows.Next() {
		s := &domain.Speaker{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Bio, &s.Website); err != nil {
			return nil, err
		}
		speakers = append(speakers, s)
	}
	return speakers, rows.Err()
}

package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"conferenceplanner/internal/domain"
	"conferenceplanner/internal/unitofwork"
)

type trackRepository struct {
	exec unitofwork.Executor
}

// NewTrackRepository returns a TrackRepository running through exec.
func NewTrackRepository(exec unitofwork.Executor) domain.TrackRepository {
	return &trackRepository{exec: exec}
}

func (r *trackRepository) Create(ctx context.Context, track *domain.Track) error {
	query := `
		INSERT INTO tracks (name)
		VALUES ($1)
		RETURNING id
	`
	return r.exec.Do(ctx, func(db unitofwork.DBTX) error {
		return db.QueryRowContext(ctx, query, track.Name).Scan(&track.ID)
	})
}

func (r *trackRepository) ListByIDs(ctx context.Context, ids []int) (map[int]*domain.Track, error) {
	ids = uniqueInts(ids)
	result := make(map[int]*domain.Track, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	query := `SELECT id, name FROM tracks WHERE id IN ` + placeholders(1, len(ids))
	err := r.exec.Do(ctx, func(db unitofwork.DBTX) error {
		tracks, err := queryTracks(ctx, db, query, intArgs(ids)...)
		if err != nil {
			return err
		}
		for _, t := range tracks {
			result[t.ID] = t
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list tracks by ids: %w", err)
	}
	return result, nil
}

func (r *trackRepository) List(ctx context.Context) ([]*domain.Track, error) {
	var tracks []*domain.Track
	err := r.exec.Do(ctx, func(db unitofwork.DBTX) error {
		var err error
		tracks, err = queryTracks(ctx, db, `SELECT id, name FROM tracks ORDER BY id`)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	return tracks, nil
}

func (r *trackRepository) ListPage(ctx context.Context, params domain.PaginationParams) ([]*domain.Track, error) {
	var tracks []*domain.Track
	err := r.exec.Do(ctx, func(db unitofwork.DBTX) error {
		var err error
		tracks, err = queryTracks(ctx, db, `SELECT id, name FROM tracks ORDER BY name, id LIMIT $1 OFFSET $2`, params.PageSize, params.Offset())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list tracks page: %w", err)
	}
	return tracks, nil
}

func (r *trackRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.exec, "tracks")
}

func (r *trackRepository) GetByName(ctx context.Context, name string) (*domain.Track, error) {
	query := `
		SELECT id, name
		FROM tracks
		WHERE name = $1
		ORDER BY id
		LIMIT 1
	`
	track := &domain.Track{}
	err := r.exec.Do(ctx, func(db unitofwork.DBTX) error {
		return db.QueryRowContext(ctx, query, name).Scan(&track.ID, &track.Name)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get track by name: %w", err)
	}
	return track, nil
}

func (r *trackRepository) ListByNames(ctx context.Context, names []string) ([]*domain.Track, error) {
	if len(names) == 0 {
		return []*domain.Track{}, nil
	}
	args := make([]any, len(names))
	for i, n := range names {
		args[i] = n
	}
	query := `SELECT id, name FROM tracks WHERE name IN ` + placeholders(1, len(names)) + ` ORDER BY id`
	var tracks []*domain.Track
	err := r.exec.Do(ctx, func(db unitofwork.DBTX) error {
		var err error
		tracks, err = queryTracks(ctx, db, query, args...)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list tracks by names: %w", err)
	}
	return tracks, nil
}

func (r *trackRepository) Rename(ctx context.Context, id int, name string) (*domain.Track, error) {
	query := `
		UPDATE tracks
		SET name = $2
		WHERE id = $1
		RETURNING id, name
	`
	track := &domain.Track{}
	err := r.exec.Do(ctx, func(db unitofwork.DBTX) error {
		return db.QueryRowContext(ctx, query, id, name).Scan(&track.ID, &track.Name)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("rename track: %w", err)
	}
	return track, nil
}

func queryTracks(ctx context.Context, db unitofwork.DBTX, query string, args ...any) ([]*domain.Track, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tracks := []*domain.Track{}
	for rows.Next() {
		t := &domain.Track{}
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

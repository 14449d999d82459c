package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"conferenceplanner/internal/domain"
)

type trackInput struct {
	Name string `validate:"required,max=200"`
}

type trackService struct {
	tracks domain.TrackRepository
	uow    domain.UnitOfWork
}

// NewTrackService creates a TrackService writing through the given unit of work.
func NewTrackService(tracks domain.TrackRepository, uow domain.UnitOfWork) domain.TrackService {
	return &trackService{tracks: tracks, uow: uow}
}

func (s *trackService) AddTrack(ctx context.Context, name string) (*domain.Track, []domain.UserError, error) {
	input := trackInput{Name: strings.TrimSpace(name)}
	if userErrs, err := validateInput(input); err != nil || len(userErrs) > 0 {
		return nil, userErrs, err
	}

	track := domain.NewTrack(input.Name)
	if err := s.tracks.Create(ctx, track); err != nil {
		return nil, nil, fmt.Errorf("create track: %w", err)
	}
	if err := s.uow.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return track, nil, nil
}

func (s *trackService) RenameTrack(ctx context.Context, id int, name string) (*domain.Track, []domain.UserError, error) {
	input := trackInput{Name: strings.TrimSpace(name)}
	if userErrs, err := validateInput(input); err != nil || len(userErrs) > 0 {
		return nil, userErrs, err
	}

	track, err := s.tracks.Rename(ctx, id, input.Name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, []domain.UserError{
				domain.NewUserError("Track not found.", domain.CodeTrackNotFound),
			}, nil
		}
		return nil, nil, fmt.Errorf("rename track: %w", err)
	}
	if err := s.uow.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return track, nil, nil
}

package services

import (
	"context"
	"fmt"
	"strings"

	"conferenceplanner/internal/domain"
)

type speakerService struct {
	speakers domain.SpeakerRepository
	uow      domain.UnitOfWork
}

// NewSpeakerService creates a SpeakerService writing through the given unit of work.
func NewSpeakerService(speakers domain.SpeakerRepository, uow domain.UnitOfWork) domain.SpeakerService {
	return &speakerService{speakers: speakers, uow: uow}
}

func (s *speakerService) AddSpeaker(ctx context.Context, input domain.AddSpeakerInput) (*domain.Speaker, []domain.UserError, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Website = strings.TrimSpace(input.Website)
	if userErrs, err := validateInput(input); err != nil || len(userErrs) > 0 {
		return nil, userErrs, err
	}

	speaker := domain.NewSpeaker(input.Name, input.Bio, input.Website)
	if err := s.speakers.Create(ctx, speaker); err != nil {
		return nil, nil, fmt.Errorf("create speaker: %w", err)
	}
	if err := s.uow.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return speaker, nil, nil
}

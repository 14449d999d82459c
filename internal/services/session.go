package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"conferenceplanner/internal/domain"
)

type sessionService struct {
	sessions  domain.SessionRepository
	speakers  domain.SpeakerRepository
	tracks    domain.TrackRepository
	uow       domain.UnitOfWork
	publisher domain.EventPublisher
	logger    *slog.Logger
}

// NewSessionService creates a SessionService. Scheduled sessions are published on
// domain.TopicSessionScheduled after the schedule is committed.
func NewSessionService(
	sessions domain.SessionRepository,
	speakers domain.SpeakerRepository,
	tracks domain.TrackRepository,
	uow domain.UnitOfWork,
	publisher domain.EventPublisher,
	logger *slog.Logger,
) domain.SessionService {
	return &sessionService{
		sessions:  sessions,
		speakers:  speakers,
		tracks:    tracks,
		uow:       uow,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *sessionService) AddSession(ctx context.Context, input domain.AddSessionInput) (*domain.Session, []domain.UserError, error) {
	input.Title = strings.TrimSpace(input.Title)
	userErrs, err := validateInput(input)
	if err != nil {
		return nil, nil, err
	}
	if len(input.SpeakerIDs) == 0 {
		userErrs = append(userErrs, domain.NewUserError("No speaker assigned.", domain.CodeNoSpeaker))
	}
	if len(userErrs) > 0 {
		return nil, userErrs, nil
	}

	found, err := s.speakers.ListByIDs(ctx, input.SpeakerIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("load speakers: %w", err)
	}
	for _, id := range input.SpeakerIDs {
		if found[id] == nil {
			return nil, []domain.UserError{
				domain.NewUserError(fmt.Sprintf("Speaker %d not found.", id), domain.CodeSpeakerNotFound),
			}, nil
		}
	}

	session := domain.NewSession(input.Title, input.Abstract)
	if err := s.sessions.Create(ctx, session, input.SpeakerIDs); err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}
	if err := s.uow.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return session, nil, nil
}

func (s *sessionService) ScheduleSession(ctx context.Context, input domain.ScheduleSessionInput) (*domain.Session, []domain.UserError, error) {
	if input.EndTime.Before(input.StartTime) {
		return nil, []domain.UserError{
			domain.NewUserError("endTime has to be larger than startTime.", domain.CodeEndTimeInvalid),
		}, nil
	}

	tracks, err := s.tracks.ListByIDs(ctx, []int{input.TrackID})
	if err != nil {
		return nil, nil, fmt.Errorf("load track: %w", err)
	}
	if tracks[input.TrackID] == nil {
		return nil, []domain.UserError{
			domain.NewUserError("Track not found.", domain.CodeTrackNotFound),
		}, nil
	}

	session, err := s.sessions.UpdateSchedule(ctx, input.SessionID, domain.SessionSchedule{
		TrackID:   input.TrackID,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, []domain.UserError{
				domain.NewUserError("Session not found.", domain.CodeSessionNotFound),
			}, nil
		}
		return nil, nil, fmt.Errorf("schedule session: %w", err)
	}
	if err := s.uow.Commit(ctx); err != nil {
		return nil, nil, err
	}

	if err := s.publisher.Publish(ctx, domain.TopicSessionScheduled, session.ID); err != nil {
		s.logger.ErrorContext(ctx, "publish session scheduled", "session_id", session.ID, "error", err)
	}
	return session, nil, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"conferenceplanner/internal/domain"
)

type attendeeService struct {
	attendees domain.AttendeeRepository
	sessions  domain.SessionRepository
	uow       domain.UnitOfWork
	publisher domain.EventPublisher
	email     domain.EmailService
	logger    *slog.Logger
}

// NewAttendeeService creates an AttendeeService. email may be nil, in which case
// no welcome message is sent.
func NewAttendeeService(
	attendees domain.AttendeeRepository,
	sessions domain.SessionRepository,
	uow domain.UnitOfWork,
	publisher domain.EventPublisher,
	email domain.EmailService,
	logger *slog.Logger,
) domain.AttendeeService {
	return &attendeeService{
		attendees: attendees,
		sessions:  sessions,
		uow:       uow,
		publisher: publisher,
		email:     email,
		logger:    logger,
	}
}

func (s *attendeeService) RegisterAttendee(ctx context.Context, input domain.RegisterAttendeeInput) (*domain.Attendee, []domain.UserError, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.UserName = strings.TrimSpace(input.UserName)
	input.EmailAddress = strings.TrimSpace(input.EmailAddress)
	if userErrs, err := validateInput(input); err != nil || len(userErrs) > 0 {
		return nil, userErrs, err
	}

	attendee := domain.NewAttendee(input.FirstName, input.LastName, input.UserName, input.EmailAddress)
	if err := s.attendees.Create(ctx, attendee); err != nil {
		if errors.Is(err, domain.ErrDuplicateUserName) {
			// The failed insert poisons the transaction on postgres.
			if rbErr := s.uow.Rollback(); rbErr != nil {
				return nil, nil, rbErr
			}
			return nil, []domain.UserError{
				domain.NewUserError(fmt.Sprintf("The user name %q is already taken.", input.UserName), domain.CodeUserNameTaken),
			}, nil
		}
		return nil, nil, fmt.Errorf("create attendee: %w", err)
	}
	if err := s.uow.Commit(ctx); err != nil {
		return nil, nil, err
	}

	if s.email != nil && attendee.EmailAddress != "" {
		err := s.email.SendWelcomeMessage(ctx, &domain.WelcomeMessageEmailData{
			Email:     attendee.EmailAddress,
			FirstName: attendee.FirstName,
			LastName:  attendee.LastName,
			UserName:  attendee.UserName,
		})
		if err != nil {
			s.logger.WarnContext(ctx, "welcome email not sent", "attendee_id", attendee.ID, "error", err)
		}
	}
	return attendee, nil, nil
}

func (s *attendeeService) CheckInAttendee(ctx context.Context, input domain.CheckInAttendeeInput) (*domain.Attendee, []domain.UserError, error) {
	attendees, err := s.attendees.ListByIDs(ctx, []int{input.AttendeeID})
	if err != nil {
		return nil, nil, fmt.Errorf("load attendee: %w", err)
	}
	attendee := attendees[input.AttendeeID]
	if attendee == nil {
		return nil, []domain.UserError{
			domain.NewUserError("Attendee not found.", domain.CodeAttendeeNotFound),
		}, nil
	}

	sessions, err := s.sessions.ListByIDs(ctx, []int{input.SessionID})
	if err != nil {
		return nil, nil, fmt.Errorf("load session: %w", err)
	}
	if sessions[input.SessionID] == nil {
		return nil, []domain.UserError{
			domain.NewUserError("Session not found.", domain.CodeSessionNotFound),
		}, nil
	}

	if err := s.attendees.CheckIn(ctx, input.SessionID, input.AttendeeID); err != nil {
		return nil, nil, fmt.Errorf("check in attendee: %w", err)
	}
	if err := s.uow.Commit(ctx); err != nil {
		return nil, nil, err
	}

	topic := domain.TopicAttendeeCheckedIn(input.SessionID)
	if err := s.publisher.Publish(ctx, topic, input.AttendeeID); err != nil {
		s.logger.ErrorContext(ctx, "publish attendee checked in", "topic", topic, "attendee_id", input.AttendeeID, "error", err)
	}
	return attendee, nil, nil
}

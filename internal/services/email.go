package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"conferenceplanner/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService rendering through renderer and delivering through mailer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendWelcomeMessage mails the welcome template to a registered attendee.
// An attendee without an email address is skipped.
func (s *emailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	if data == nil {
		return fmt.Errorf("welcome message data: %w", domain.ErrInvalidInput)
	}
	to := strings.TrimSpace(data.Email)
	if to == "" {
		s.logger.DebugContext(ctx, "welcome email skipped, no address", "user_name", data.UserName)
		return nil
	}
	return s.send(ctx, to, domain.EmailTemplateWelcome, data)
}

func (s *emailService) send(ctx context.Context, to, template string, data any) error {
	msg, err := s.renderer.Render(template, data)
	if err != nil {
		return fmt.Errorf("render %s email: %w", template, err)
	}
	msg.To = to
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send %s email: %w", template, err)
	}
	s.logger.InfoContext(ctx, "email sent", "template", template)
	return nil
}

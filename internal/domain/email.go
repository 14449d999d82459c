package domain

import "context"

// EmailTemplateWelcome names the template mailed to newly registered attendees.
const EmailTemplateWelcome = "welcome"

// EmailMessage is one rendered email. Renderers leave To empty.
type EmailMessage struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers rendered messages (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailTemplateRenderer renders a named template with data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (EmailMessage, error)
}

// WelcomeMessageEmailData is the data of the welcome template.
type WelcomeMessageEmailData struct {
	Email     string
	FirstName string
	LastName  string
	UserName  string
}

// EmailService sends the mails the planner owes its attendees.
type EmailService interface {
	SendWelcomeMessage(ctx context.Context, data *WelcomeMessageEmailData) error
}
